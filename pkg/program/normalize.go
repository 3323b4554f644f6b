package program

import (
	"strconv"
	"strings"

	"github.com/perdasilva/mpsolve/pkg/algebra"
)

// normalizeLinearConstraints turns (parameter, operator, value) rows
// into structured constraints over the element-indexed variables.
// Rows with an unknown parameter, an unrecognized operator symbol or a
// non-numeric value are skipped and reported; the batch continues.
func normalizeLinearConstraints(rows []ConstraintSpec, parameters map[Identifier]map[Identifier]float64, elements []Identifier) ([]Constraint, Diagnostics) {
	constraints := make([]Constraint, 0, len(rows))
	var diags Diagnostics

	for idx, row := range rows {
		rowNum := idx + 1

		name := IdentifierFromString(row.Parameter)
		values, known := parameters[name]
		if !known {
			diags = append(diags, UnknownParameterError{Row: rowNum, Name: name})
			continue
		}
		rel, ok := RelationFromSymbol(row.Operator)
		if !ok {
			diags = append(diags, OperatorError{Row: rowNum, Symbol: row.Operator})
			continue
		}
		rhs, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64)
		if err != nil {
			diags = append(diags, ValueError{Row: rowNum, Text: row.Value})
			continue
		}

		coefs := make(map[string]float64, len(elements))
		for _, e := range elements {
			coefs[string(e)] = values[e]
		}
		constraints = append(constraints, Constraint{
			Row:      rowNum,
			Term:     algebra.LinearCombination(coefs),
			Relation: rel,
			RHS:      rhs,
		})
	}
	return constraints, diags
}

// normalizeExpressionConstraints turns (expression, operator, value)
// rows into structured constraints via the expression evaluator. Bad
// operators and values skip the row like in linear mode, but an
// expression that fails to evaluate is fatal: the resulting program
// would be structurally incomplete, so the whole solve is aborted.
func normalizeExpressionConstraints(rows []ConstraintSpec, binding map[string]algebra.Term) ([]Constraint, Diagnostics, error) {
	constraints := make([]Constraint, 0, len(rows))
	var diags Diagnostics

	for idx, row := range rows {
		rowNum := idx + 1

		rel, ok := RelationFromSymbol(row.Operator)
		if !ok {
			diags = append(diags, OperatorError{Row: rowNum, Symbol: row.Operator})
			continue
		}
		rhs, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64)
		if err != nil {
			diags = append(diags, ValueError{Row: rowNum, Text: row.Value})
			continue
		}
		term, err := algebra.Eval(row.Expression, binding)
		if err != nil {
			return nil, diags, err
		}
		constraints = append(constraints, Constraint{
			Row:      rowNum,
			Term:     term,
			Relation: rel,
			RHS:      rhs,
		})
	}
	return constraints, diags, nil
}
