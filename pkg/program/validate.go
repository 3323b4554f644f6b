package program

import (
	"fmt"
	"sort"
	"strings"
)

// IncompleteParametersError aggregates the coverage violations that
// blocked a model build. It is fatal: no backend is invoked while any
// parameter table is incomplete.
type IncompleteParametersError []CoverageError

func (e IncompleteParametersError) Error() string {
	s := make([]string, len(e))
	for i, cov := range e {
		s[i] = cov.Error()
	}
	return fmt.Sprintf("model cannot be built: %s", strings.Join(s, "; "))
}

// ValidateParameterCoverage checks that every declared parameter has a
// value for exactly the declared element set: no missing elements, no
// extra ones. Violations are reported per parameter.
func ValidateParameterCoverage(parameters map[Identifier]map[Identifier]float64, elements []Identifier) error {
	declared := make(map[Identifier]bool, len(elements))
	for _, e := range elements {
		declared[e] = true
	}

	var violations IncompleteParametersError
	for _, name := range sortedParameterNames(parameters) {
		values := parameters[name]
		cov := CoverageError{Parameter: name}
		for _, e := range elements {
			if _, ok := values[e]; !ok {
				cov.Missing = append(cov.Missing, e)
			}
		}
		for e := range values {
			if !declared[e] {
				cov.Extra = append(cov.Extra, e)
			}
		}
		if len(cov.Missing) > 0 || len(cov.Extra) > 0 {
			violations = append(violations, cov)
		}
	}
	if len(violations) > 0 {
		return violations
	}
	return nil
}

func sortedParameterNames(parameters map[Identifier]map[Identifier]float64) []Identifier {
	names := make([]Identifier, 0, len(parameters))
	for name := range parameters {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
