package algebra

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Term is a symbolic arithmetic expression over named scalar
// variables. Terms are assembled once while a model is built and are
// immutable afterwards: a backend evaluates them numerically with At,
// and the linear backend additionally asks for their linear form.
type Term interface {
	// At evaluates the term against an assignment of variable values.
	// Names absent from the assignment evaluate to zero.
	At(assignment map[string]float64) float64
	// Linear expresses the term as coefficients over variable names
	// plus a constant offset. ok is false if the term is not linear.
	Linear() (coefs map[string]float64, offset float64, ok bool)
	String() string
}

// Const returns a constant term.
func Const(v float64) Term {
	return constant(v)
}

// Var returns the term standing for a single named variable.
func Var(name string) Term {
	return variable(name)
}

func Add(a, b Term) Term { return binary{"+", a, b} }
func Sub(a, b Term) Term { return binary{"-", a, b} }
func Mul(a, b Term) Term { return binary{"*", a, b} }
func Div(a, b Term) Term { return binary{"/", a, b} }
func Pow(a, b Term) Term { return binary{"**", a, b} }

// Neg returns the additive inverse of t.
func Neg(t Term) Term {
	return Sub(Const(0), t)
}

// LinearCombination returns the term sum(coefs[name] * name). The
// coefficient map is copied.
func LinearCombination(coefs map[string]float64) Term {
	c := make(map[string]float64, len(coefs))
	for name, v := range coefs {
		c[name] = v
	}
	return linearForm{coefs: c}
}

type constant float64

func (c constant) At(map[string]float64) float64 {
	return float64(c)
}

func (c constant) Linear() (map[string]float64, float64, bool) {
	return nil, float64(c), true
}

func (c constant) String() string {
	return strconv.FormatFloat(float64(c), 'g', -1, 64)
}

type variable string

func (v variable) At(assignment map[string]float64) float64 {
	return assignment[string(v)]
}

func (v variable) Linear() (map[string]float64, float64, bool) {
	return map[string]float64{string(v): 1}, 0, true
}

func (v variable) String() string {
	return string(v)
}

type linearForm struct {
	coefs map[string]float64
}

func (l linearForm) At(assignment map[string]float64) float64 {
	total := 0.0
	for name, coef := range l.coefs {
		total += coef * assignment[name]
	}
	return total
}

func (l linearForm) Linear() (map[string]float64, float64, bool) {
	coefs := make(map[string]float64, len(l.coefs))
	for name, v := range l.coefs {
		coefs[name] = v
	}
	return coefs, 0, true
}

func (l linearForm) String() string {
	names := make([]string, 0, len(l.coefs))
	for name := range l.coefs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%g*%s", l.coefs[name], name)
	}
	return strings.Join(parts, " + ")
}

type binary struct {
	op    string
	left  Term
	right Term
}

func (b binary) At(assignment map[string]float64) float64 {
	l := b.left.At(assignment)
	r := b.right.At(assignment)
	switch b.op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "**":
		return math.Pow(l, r)
	}
	panic(fmt.Sprintf("algebra: unknown operator %q", b.op))
}

func (b binary) Linear() (map[string]float64, float64, bool) {
	lc, lo, ok := b.left.Linear()
	if !ok {
		return nil, 0, false
	}
	rc, ro, ok := b.right.Linear()
	if !ok {
		return nil, 0, false
	}
	switch b.op {
	case "+":
		return mergeScaled(lc, rc, 1), lo + ro, true
	case "-":
		return mergeScaled(lc, rc, -1), lo - ro, true
	case "*":
		if len(lc) == 0 {
			return scale(rc, lo), lo * ro, true
		}
		if len(rc) == 0 {
			return scale(lc, ro), lo * ro, true
		}
		return nil, 0, false
	case "/":
		if len(rc) == 0 && ro != 0 {
			return scale(lc, 1/ro), lo / ro, true
		}
		return nil, 0, false
	case "**":
		if len(lc) == 0 && len(rc) == 0 {
			return nil, math.Pow(lo, ro), true
		}
		if len(rc) == 0 && ro == 1 {
			return scale(lc, 1), lo, true
		}
		return nil, 0, false
	}
	return nil, 0, false
}

func (b binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.left, b.op, b.right)
}

func mergeScaled(a, b map[string]float64, factor float64) map[string]float64 {
	out := make(map[string]float64, len(a)+len(b))
	for name, v := range a {
		out[name] = v
	}
	for name, v := range b {
		out[name] += factor * v
	}
	return out
}

func scale(coefs map[string]float64, factor float64) map[string]float64 {
	out := make(map[string]float64, len(coefs))
	for name, v := range coefs {
		out[name] = factor * v
	}
	return out
}
