package program

import "fmt"

// Class identifies one of the five supported problem classes. The
// class fixes the variable domain rules, the source of objective and
// constraint terms, and which backend the dispatcher selects. It is
// set at model-build time and never changes.
type Class string

const (
	ClassLP    Class = "LP"
	ClassIP    Class = "IP"
	ClassNLP   Class = "NLP"
	ClassMILP  Class = "MILP"
	ClassMINLP Class = "MINLP"
)

// ClassFromString returns the Class named by s.
func ClassFromString(s string) (Class, error) {
	switch Class(s) {
	case ClassLP, ClassIP, ClassNLP, ClassMILP, ClassMINLP:
		return Class(s), nil
	}
	return "", fmt.Errorf("unknown problem class %q", s)
}

// Indexed reports whether decision variables range over the declared
// element set. The remaining classes use free-standing named scalars.
func (c Class) Indexed() bool {
	return c == ClassLP || c == ClassIP
}

// Linear reports whether the class is served by the
// mixed-integer-linear backend. NLP and MINLP go to the nonlinear
// backend.
func (c Class) Linear() bool {
	switch c {
	case ClassLP, ClassIP, ClassMILP:
		return true
	}
	return false
}
