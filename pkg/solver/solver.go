package solver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/perdasilva/mpsolve/pkg/program"
)

// UnavailableError reports that no backend is registered for a
// problem class. It is fatal to the solve request that triggered it
// and nothing else.
type UnavailableError struct {
	Class program.Class
}

func (e UnavailableError) Error() string {
	return fmt.Sprintf("no solver backend available for class %s", e.Class)
}

// Solver dispatches assembled models to the backend registered for
// their class: LP, IP and MILP share the mixed-integer-linear
// backend, NLP and MINLP the nonlinear one. The dispatcher itself is
// class-agnostic.
type Solver struct {
	backends map[program.Class]Backend
	timeout  time.Duration
	log      *zap.Logger
}

type Option func(*Solver)

// WithBackend registers (or replaces) the backend serving a class.
func WithBackend(class program.Class, backend Backend) Option {
	return func(s *Solver) {
		s.backends[class] = backend
	}
}

// WithTimeout bounds each backend call. The default is no timeout: a
// hung backend blocks the whole request, which callers that care must
// opt out of here.
func WithTimeout(d time.Duration) Option {
	return func(s *Solver) {
		s.timeout = d
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Solver) {
		s.log = log
	}
}

// New returns a Solver with the default backend registry.
func New(opts ...Option) *Solver {
	linear := NewLinearBackend()
	nonlinear := NewNonlinearBackend()
	s := &Solver{
		backends: map[program.Class]Backend{
			program.ClassLP:    linear,
			program.ClassIP:    linear,
			program.ClassMILP:  linear,
			program.ClassNLP:   nonlinear,
			program.ClassMINLP: nonlinear,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve submits the model to the backend for its class and interprets
// the raw outcome. No retry: one synchronous backend call per request.
func (s *Solver) Solve(ctx context.Context, m *program.Model) (*SolveResult, error) {
	backend, ok := s.backends[m.Class]
	if !ok || backend == nil {
		return nil, UnavailableError{Class: m.Class}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.log.Debug("dispatching model",
		zap.String("class", string(m.Class)),
		zap.String("backend", backend.Name()),
		zap.Int("variables", len(m.Variables)),
		zap.Int("constraints", len(m.Constraints)))

	out, err := backend.Solve(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", backend.Name(), err)
	}

	result := Interpret(out)
	s.log.Info("solve finished",
		zap.String("class", string(m.Class)),
		zap.String("status", string(result.Status)),
		zap.String("termination", string(out.Termination)))
	return result, nil
}
