package optimizer

import (
	"context"

	"go.uber.org/zap"

	"github.com/perdasilva/mpsolve/pkg/program"
	"github.com/perdasilva/mpsolve/pkg/solver"
)

// Response carries the outcome of one optimization request. Result is
// nil when the request failed before reaching a backend; Diagnostics
// lists the constraint rows that were skipped during assembly and is
// populated even on failure.
type Response struct {
	Result      *solver.SolveResult
	Diagnostics program.Diagnostics
}

// Optimizer assembles a model from a build input and dispatches it.
type Optimizer struct {
	solver *solver.Solver
	log    *zap.Logger
}

type Option func(*Optimizer)

// WithSolver replaces the default dispatcher.
func WithSolver(s *solver.Solver) Option {
	return func(o *Optimizer) {
		o.solver = s
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(o *Optimizer) {
		o.log = log
	}
}

func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.solver == nil {
		o.solver = solver.New(solver.WithLogger(o.log))
	}
	return o
}

// Solve builds the model described by in and submits it. Skipped
// constraint rows are logged and reported through the response; a
// non-nil error means no result was produced, though the response
// still carries whatever diagnostics accumulated before the failure.
func (o *Optimizer) Solve(ctx context.Context, in program.BuildInput) (*Response, error) {
	model, diags, err := program.Build(in)
	resp := &Response{Diagnostics: diags}
	for _, d := range diags {
		o.log.Warn("constraint row skipped", zap.Error(d))
	}
	if err != nil {
		o.log.Error("model assembly failed", zap.Error(err))
		return resp, err
	}

	result, err := o.solver.Solve(ctx, model)
	if err != nil {
		o.log.Error("solve failed", zap.Error(err))
		return resp, err
	}
	resp.Result = result

	fields := []zap.Field{
		zap.String("class", string(in.Class)),
		zap.String("status", string(result.Status)),
	}
	if result.Optimal() {
		fields = append(fields, zap.Float64("objective", result.Objective))
	}
	o.log.Info("optimization finished", fields...)
	return resp, nil
}
