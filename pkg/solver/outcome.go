package solver

import (
	"context"

	"github.com/perdasilva/mpsolve/pkg/program"
)

// Status is a backend's own health report for one solve call.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Termination describes how a backend stopped.
type Termination string

const (
	TerminationOptimal    Termination = "optimal"
	TerminationInfeasible Termination = "infeasible"
	TerminationUnbounded  Termination = "unbounded"
	TerminationError      Termination = "error"
)

// Outcome is the raw result a backend hands back: a status code, a
// termination condition, and the objective and variable values when
// the backend produced them.
type Outcome struct {
	Status      Status
	Termination Termination
	Message     string
	Objective   float64
	Values      map[string]float64
}

// Backend is the capability contract an external solver fulfils: it
// accepts an assembled program and returns a raw outcome. One
// synchronous call per solve request, no retry.
type Backend interface {
	Name() string
	Solve(ctx context.Context, m *program.Model) (*Outcome, error)
}
