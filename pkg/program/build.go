package program

import (
	"fmt"

	"github.com/perdasilva/mpsolve/pkg/algebra"
)

// Build assembles the solver-agnostic model for one request. The
// returned diagnostics describe constraint rows that were skipped;
// they never abort the build on their own. A non-nil error means no
// model could be assembled and nothing must be dispatched: the class
// or sense is unknown, a parameter table is incomplete, the objective
// could not be constructed, or a constraint expression failed to
// evaluate.
func Build(in BuildInput) (*Model, Diagnostics, error) {
	if _, err := ClassFromString(string(in.Class)); err != nil {
		return nil, nil, err
	}
	if in.Objective.Sense != SenseMaximize && in.Objective.Sense != SenseMinimize {
		return nil, nil, fmt.Errorf("objective sense %q is not valid", in.Objective.Sense)
	}
	if in.Class.Indexed() {
		return buildIndexed(in)
	}
	return buildScalar(in)
}

// buildIndexed assembles an LP or IP model: one variable per element,
// non-negative, integer for IP; linear terms formed from parameter
// tables.
func buildIndexed(in BuildInput) (*Model, Diagnostics, error) {
	elements := ParseIdentifierList(in.Elements)
	if len(elements) == 0 {
		return nil, nil, fmt.Errorf("no elements declared")
	}

	parameters := make(map[Identifier]map[Identifier]float64, len(in.Parameters))
	for rawName, rawValues := range in.Parameters {
		values := make(map[Identifier]float64, len(rawValues))
		for rawElement, v := range rawValues {
			values[IdentifierFromString(rawElement)] = v
		}
		parameters[IdentifierFromString(rawName)] = values
	}

	if err := ValidateParameterCoverage(parameters, elements); err != nil {
		return nil, nil, err
	}

	variables := make([]Variable, len(elements))
	for i, e := range elements {
		variables[i] = Variable{
			Name:        e,
			Integer:     in.Class == ClassIP,
			NonNegative: true,
		}
	}

	objParam := IdentifierFromString(in.Objective.Parameter)
	objValues, ok := parameters[objParam]
	if !ok {
		return nil, nil, fmt.Errorf("objective parameter %q is not recognized", objParam)
	}
	coefs := make(map[string]float64, len(elements))
	for _, e := range elements {
		coefs[string(e)] = objValues[e]
	}

	constraints, diags := normalizeLinearConstraints(in.Constraints, parameters, elements)

	return &Model{
		Class:      in.Class,
		Elements:   elements,
		Parameters: parameters,
		Variables:  variables,
		Objective: Objective{
			Sense: in.Objective.Sense,
			Term:  algebra.LinearCombination(coefs),
		},
		Constraints: constraints,
	}, diags, nil
}

// buildScalar assembles an NLP, MILP or MINLP model over free-standing
// scalar variables. Objective and constraint terms come from the
// expression evaluator, bound strictly to the declared variables.
func buildScalar(in BuildInput) (*Model, Diagnostics, error) {
	var variables []Variable
	if in.Class != ClassNLP {
		for _, name := range ParseIdentifierList(in.IntegerVariables) {
			variables = append(variables, Variable{Name: name, Integer: true})
		}
	}
	for _, name := range ParseIdentifierList(in.ContinuousVariables) {
		variables = append(variables, Variable{Name: name})
	}
	if len(variables) == 0 {
		return nil, nil, fmt.Errorf("no variables declared")
	}

	binding := make(map[string]algebra.Term, len(variables))
	for _, v := range variables {
		binding[string(v.Name)] = algebra.Var(string(v.Name))
	}

	objTerm, err := algebra.Eval(in.Objective.Expression, binding)
	if err != nil {
		return nil, nil, fmt.Errorf("objective: %w", err)
	}

	constraints, diags, err := normalizeExpressionConstraints(in.Constraints, binding)
	if err != nil {
		return nil, diags, err
	}

	return &Model{
		Class:     in.Class,
		Variables: variables,
		Objective: Objective{
			Sense: in.Objective.Sense,
			Term:  objTerm,
		},
		Constraints: constraints,
	}, diags, nil
}
