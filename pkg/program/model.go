package program

import (
	"fmt"

	"github.com/perdasilva/mpsolve/pkg/algebra"
)

// Sense is the optimization direction of the objective.
type Sense string

const (
	SenseMaximize Sense = "maximize"
	SenseMinimize Sense = "minimize"
)

// Variable is one decision variable of an assembled model. For the
// element-indexed classes there is one variable per element, named by
// the element identifier; the remaining classes declare free-standing
// scalars.
type Variable struct {
	Name        Identifier
	Integer     bool
	NonNegative bool
}

// Objective is the single expression the backend optimizes.
type Objective struct {
	Sense Sense
	Term  algebra.Term
}

// Constraint pairs a term with a canonical relation and a numeric
// right-hand side. Row is the 1-based position of the input row the
// constraint came from; it affects reporting order only.
type Constraint struct {
	Row      int
	Term     algebra.Term
	Relation Relation
	RHS      float64
}

// Model is the solver-agnostic mathematical program assembled from
// one request. It is immutable once built and confined to a single
// solve call.
type Model struct {
	Class       Class
	Elements    []Identifier
	Parameters  map[Identifier]map[Identifier]float64
	Variables   []Variable
	Objective   Objective
	Constraints []Constraint
}

// VariableIndex maps every variable name to its declaration position.
// Duplicate declarations conflict here, at model-assembly time.
func (m *Model) VariableIndex() (map[string]int, error) {
	idx := make(map[string]int, len(m.Variables))
	for i, v := range m.Variables {
		if _, dup := idx[string(v.Name)]; dup {
			return nil, fmt.Errorf("duplicate variable %q in model", v.Name)
		}
		idx[string(v.Name)] = i
	}
	return idx, nil
}

// VariableNames returns the variable names in declaration order.
func (m *Model) VariableNames() []string {
	names := make([]string, len(m.Variables))
	for i, v := range m.Variables {
		names[i] = string(v.Name)
	}
	return names
}
