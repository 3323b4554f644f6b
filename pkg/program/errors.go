package program

import (
	"fmt"
	"sort"
	"strings"
)

// OperatorError reports a constraint row whose operator symbol is not
// one of the six recognized symbols. The row is skipped; sibling rows
// are still processed.
type OperatorError struct {
	Row    int
	Symbol string
}

func (e OperatorError) Error() string {
	return fmt.Sprintf("constraint %d: operator %q is not valid", e.Row, e.Symbol)
}

// ValueError reports a constraint row whose right-hand side could not
// be coerced to a number. The row is skipped.
type ValueError struct {
	Row  int
	Text string
}

func (e ValueError) Error() string {
	return fmt.Sprintf("constraint %d: value %q is not numeric", e.Row, e.Text)
}

// UnknownParameterError reports a linear constraint row referencing a
// parameter that was never declared. The row is skipped.
type UnknownParameterError struct {
	Row  int
	Name Identifier
}

func (e UnknownParameterError) Error() string {
	return fmt.Sprintf("constraint %d: parameter %q is not recognized", e.Row, e.Name)
}

// CoverageError reports a parameter whose value table does not cover
// the declared element set exactly. Any coverage violation blocks
// model assembly.
type CoverageError struct {
	Parameter Identifier
	Missing   []Identifier
	Extra     []Identifier
}

func (e CoverageError) Error() string {
	msg := fmt.Sprintf("parameter %q does not have values for all elements", e.Parameter)
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf(" (missing %s)", joinIdentifiers(e.Missing))
	}
	if len(e.Extra) > 0 {
		msg += fmt.Sprintf(" (extra %s)", joinIdentifiers(e.Extra))
	}
	return msg
}

// Diagnostics collects row-scoped validation errors. Rows that fail
// validation are skipped and reported here without aborting their
// siblings.
type Diagnostics []error

func (d Diagnostics) Error() string {
	if len(d) == 0 {
		return "no diagnostics"
	}
	s := make([]string, len(d))
	for i, err := range d {
		s[i] = err.Error()
	}
	return fmt.Sprintf("%d rows rejected: %s", len(d), strings.Join(s, "; "))
}

func joinIdentifiers(ids []Identifier) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = string(id)
	}
	sort.Strings(s)
	return strings.Join(s, ", ")
}
