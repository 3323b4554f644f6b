package solver

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/perdasilva/mpsolve/pkg/algebra"
	"github.com/perdasilva/mpsolve/pkg/program"
)

const (
	defaultFeasTol      = 1e-6
	defaultPenaltyLoops = 12
	defaultNlpNodes     = 200
	nlpIntegralityTol   = 1e-4
)

// NonlinearBackend serves NLP and MINLP programs. Constraints are
// folded into the objective as quadratic penalties with an escalating
// weight, each round minimized by Nelder-Mead descent from the
// previous round's point. Integer variables are enforced by
// branch-and-bound with the branch bounds folded into the same
// penalty.
type NonlinearBackend struct {
	// FeasTol is the maximum constraint violation accepted as
	// feasible. Zero means the default.
	FeasTol float64
	// MaxNodes caps the branch-and-bound tree for MINLP. Zero means
	// the default.
	MaxNodes int
}

func NewNonlinearBackend() *NonlinearBackend {
	return &NonlinearBackend{
		FeasTol:  defaultFeasTol,
		MaxNodes: defaultNlpNodes,
	}
}

func (b *NonlinearBackend) Name() string {
	return "penalty-descent"
}

type nlpRow struct {
	term algebra.Term
	rel  program.Relation
	rhs  float64
}

func (r nlpRow) violation(assignment map[string]float64) float64 {
	lhs := r.term.At(assignment) - r.rhs
	switch r.rel {
	case program.RelationLessEqual:
		return math.Max(0, lhs)
	case program.RelationGreaterEqual:
		return math.Max(0, -lhs)
	}
	return math.Abs(lhs)
}

// scalarBound is a branch-and-bound bound on one variable, enforced
// through the penalty like any other constraint.
type scalarBound struct {
	index int
	upper bool
	value float64
}

func (bd scalarBound) violation(x []float64) float64 {
	if bd.upper {
		return math.Max(0, x[bd.index]-bd.value)
	}
	return math.Max(0, bd.value-x[bd.index])
}

func (b *NonlinearBackend) Solve(ctx context.Context, m *program.Model) (*Outcome, error) {
	if _, err := m.VariableIndex(); err != nil {
		return errorOutcome(err.Error()), nil
	}

	names := m.VariableNames()
	integer := make([]bool, len(names))
	for i, v := range m.Variables {
		integer[i] = v.Integer
	}

	rows := make([]nlpRow, 0, len(m.Constraints))
	for _, c := range m.Constraints {
		rel, ok := weakRelation(c.Relation)
		if !ok {
			return errorOutcome(fmt.Sprintf("constraint %d: relation %s is not representable by this backend", c.Row, c.Relation)), nil
		}
		rows = append(rows, nlpRow{term: c.Term, rel: rel, rhs: c.RHS})
	}

	feasTol := b.FeasTol
	if feasTol <= 0 {
		feasTol = defaultFeasTol
	}
	maxNodes := b.MaxNodes
	if maxNodes <= 0 {
		maxNodes = defaultNlpNodes
	}

	assign := func(x []float64) map[string]float64 {
		as := make(map[string]float64, len(names))
		for i, name := range names {
			as[name] = x[i]
		}
		return as
	}
	// The descent minimizes; a maximization objective is negated here
	// and restored from the model term at the end.
	signedObj := func(as map[string]float64) float64 {
		v := m.Objective.Term.At(as)
		if m.Objective.Sense == program.SenseMaximize {
			return -v
		}
		return v
	}
	maxViolation := func(x []float64, bounds []scalarBound) float64 {
		as := assign(x)
		worst := 0.0
		for _, r := range rows {
			worst = math.Max(worst, r.violation(as))
		}
		for _, bd := range bounds {
			worst = math.Max(worst, bd.violation(x))
		}
		return worst
	}

	// minimizePenalized runs the escalating penalty loop from x0 and
	// reports the final point and whether it reached feasibility.
	minimizePenalized := func(ctx context.Context, x0 []float64, bounds []scalarBound) ([]float64, bool) {
		x := make([]float64, len(x0))
		copy(x, x0)
		mu := 10.0
		for loop := 0; loop < defaultPenaltyLoops; loop++ {
			if ctx.Err() != nil {
				return x, false
			}
			f := func(xs []float64) float64 {
				as := assign(xs)
				penalty := 0.0
				for _, r := range rows {
					v := r.violation(as)
					penalty += v * v
				}
				for _, bd := range bounds {
					v := bd.violation(xs)
					penalty += v * v
				}
				return signedObj(as) + mu*penalty
			}
			res, err := optimize.Minimize(optimize.Problem{Func: f}, x, nil, &optimize.NelderMead{})
			if err == nil && res != nil {
				copy(x, res.X)
			}
			if maxViolation(x, bounds) <= feasTol {
				return x, true
			}
			mu *= 10
		}
		return x, false
	}

	// Decision variables start at 1.0.
	start := make([]float64, len(names))
	for i := range start {
		start[i] = 1.0
	}

	hasInteger := false
	for _, isInt := range integer {
		hasInteger = hasInteger || isInt
	}

	finish := func(x []float64) *Outcome {
		values := make(map[string]float64, len(names))
		for i, name := range names {
			v := x[i]
			if integer[i] {
				v = math.Round(v)
			}
			values[name] = v
		}
		return &Outcome{
			Status:      StatusOK,
			Termination: TerminationOptimal,
			Objective:   m.Objective.Term.At(values),
			Values:      values,
		}
	}
	infeasible := func(msg string) *Outcome {
		return &Outcome{
			Status:      StatusOK,
			Termination: TerminationInfeasible,
			Message:     msg,
		}
	}

	if !hasInteger {
		x, feasible := minimizePenalized(ctx, start, nil)
		if err := ctx.Err(); err != nil {
			return errorOutcome(fmt.Sprintf("solve aborted: %v", err)), nil
		}
		if !feasible {
			return infeasible("the penalty loop could not reach a feasible point"), nil
		}
		return finish(x), nil
	}

	// Branch and bound over the integer variables.
	type node struct {
		bounds []scalarBound
		warm   []float64
	}
	queue := []node{{warm: start}}
	var bestX []float64
	bestZ := math.Inf(1)
	visited := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return errorOutcome(fmt.Sprintf("solve aborted: %v", err)), nil
		}
		visited++
		if visited > maxNodes {
			break
		}

		cur := queue[0]
		queue = queue[1:]

		x, feasible := minimizePenalized(ctx, cur.warm, cur.bounds)
		if !feasible {
			if visited == 1 {
				return infeasible("the continuous relaxation could not reach a feasible point"), nil
			}
			continue
		}

		z := signedObj(assign(x))
		if z > bestZ+feasTol {
			continue
		}

		frac := -1
		for i, v := range x {
			if integer[i] && math.Abs(v-math.Round(v)) > nlpIntegralityTol {
				frac = i
				break
			}
		}
		if frac < 0 {
			if z < bestZ {
				bestZ = z
				bestX = x
			}
			continue
		}

		v := x[frac]
		low := node{
			bounds: append(cloneBounds(cur.bounds), scalarBound{index: frac, upper: true, value: math.Floor(v)}),
			warm:   x,
		}
		high := node{
			bounds: append(cloneBounds(cur.bounds), scalarBound{index: frac, upper: false, value: math.Ceil(v)}),
			warm:   x,
		}
		queue = append(queue, low, high)
	}

	if bestX == nil {
		return infeasible("no integer feasible assignment was found"), nil
	}
	return finish(bestX), nil
}

func cloneBounds(bounds []scalarBound) []scalarBound {
	out := make([]scalarBound, len(bounds), len(bounds)+1)
	copy(out, bounds)
	return out
}
