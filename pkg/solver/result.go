package solver

import "strconv"

// ResultStatus is the uniform two-state outcome visible outside the
// core. There is no partial-success state: a solve either produced an
// optimal assignment or it did not.
type ResultStatus string

const (
	ResultOptimal           ResultStatus = "optimal"
	ResultInfeasibleOrError ResultStatus = "infeasible_or_error"
)

// SolveResult is the interpreted outcome of one solve call. For an
// optimal result it carries the objective value and the full
// name-to-value assignment; otherwise the raw backend status and
// termination condition are retained for diagnostic reporting and no
// assignment is produced.
type SolveResult struct {
	Status         ResultStatus
	Objective      float64
	Values         map[string]float64
	RawStatus      Status
	RawTermination Termination
	RawMessage     string
}

// Interpret maps a raw backend outcome onto the two-state result.
// Only an ok status paired with optimal termination counts as solved.
func Interpret(out *Outcome) *SolveResult {
	r := &SolveResult{
		Status:         ResultInfeasibleOrError,
		RawStatus:      out.Status,
		RawTermination: out.Termination,
		RawMessage:     out.Message,
	}
	if out.Status == StatusOK && out.Termination == TerminationOptimal {
		r.Status = ResultOptimal
		r.Objective = out.Objective
		r.Values = out.Values
	}
	return r
}

// Optimal reports whether the solve produced an optimal assignment.
func (r *SolveResult) Optimal() bool {
	return r.Status == ResultOptimal
}

// FormatObjective rounds the objective for display. Internal
// precision is never rounded; this is presentation only.
func (r *SolveResult) FormatObjective(decimals int) string {
	return strconv.FormatFloat(r.Objective, 'f', decimals, 64)
}
