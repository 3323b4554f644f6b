package solver

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/perdasilva/mpsolve/pkg/program"
)

const (
	simplexTol      = 1e-10
	integralityTol  = 1e-6
	constraintTol   = 1e-9
	defaultMaxNodes = 10000
)

// LinearBackend serves LP, IP and MILP programs. The LP relaxation is
// solved with a dense simplex; integrality is enforced by
// branch-and-bound over fractional integer variables.
type LinearBackend struct {
	// MaxNodes caps the branch-and-bound tree. Zero means the default.
	MaxNodes int
}

func NewLinearBackend() *LinearBackend {
	return &LinearBackend{MaxNodes: defaultMaxNodes}
}

func (b *LinearBackend) Name() string {
	return "simplex-bnb"
}

// linRow is one general-form constraint row over the model variables,
// with the relation normalized to <=, >= or ==.
type linRow struct {
	coefs []float64
	rel   program.Relation
	rhs   float64
}

type linProgram struct {
	names   []string
	integer []bool
	nonneg  []bool
	obj     []float64 // minimization coefficients
	rows    []linRow
}

func (b *LinearBackend) Solve(ctx context.Context, m *program.Model) (*Outcome, error) {
	p, failure := formulateLinear(m)
	if failure != nil {
		return failure, nil
	}

	maxNodes := b.MaxNodes
	if maxNodes <= 0 {
		maxNodes = defaultMaxNodes
	}

	type node struct {
		extra []linRow
	}
	queue := []node{{}}
	var bestX []float64
	bestZ := math.Inf(1)
	visited := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return errorOutcome(fmt.Sprintf("solve aborted: %v", err)), nil
		}
		visited++
		if visited > maxNodes {
			return errorOutcome("branch-and-bound node limit reached"), nil
		}

		cur := queue[0]
		queue = queue[1:]

		x, err := solveRelaxation(p, cur.extra)
		switch {
		case err == lp.ErrInfeasible:
			if visited == 1 {
				return &Outcome{
					Status:      StatusOK,
					Termination: TerminationInfeasible,
					Message:     "the linear relaxation is infeasible",
				}, nil
			}
			continue
		case err == lp.ErrUnbounded:
			return &Outcome{
				Status:      StatusOK,
				Termination: TerminationUnbounded,
				Message:     "the program is unbounded",
			}, nil
		case err != nil:
			return errorOutcome(err.Error()), nil
		}

		z := dot(p.obj, x)
		if z >= bestZ-constraintTol {
			continue
		}

		frac := fractionalIndex(p, x)
		if frac < 0 {
			bestZ = z
			bestX = x
			continue
		}

		// Branch on the fractional variable: x <= floor(v) on one
		// side, x >= ceil(v) on the other.
		v := x[frac]
		low := append(cloneRows(cur.extra), boundRow(len(p.names), frac, program.RelationLessEqual, math.Floor(v)))
		high := append(cloneRows(cur.extra), boundRow(len(p.names), frac, program.RelationGreaterEqual, math.Ceil(v)))
		queue = append(queue, node{extra: low}, node{extra: high})
	}

	if bestX == nil {
		return &Outcome{
			Status:      StatusOK,
			Termination: TerminationInfeasible,
			Message:     "no integer feasible assignment exists",
		}, nil
	}

	values := make(map[string]float64, len(p.names))
	for i, name := range p.names {
		v := bestX[i]
		if p.integer[i] {
			v = math.Round(v)
		}
		values[name] = v
	}
	return &Outcome{
		Status:      StatusOK,
		Termination: TerminationOptimal,
		Objective:   m.Objective.Term.At(values),
		Values:      values,
	}, nil
}

// formulateLinear flattens the model into minimization vector form.
// A non-nil Outcome reports a formulation failure: a nonlinear term,
// a relation the backend cannot represent, or conflicting variable
// declarations.
func formulateLinear(m *program.Model) (*linProgram, *Outcome) {
	idx, err := m.VariableIndex()
	if err != nil {
		return nil, errorOutcome(err.Error())
	}
	n := len(m.Variables)

	p := &linProgram{
		names:   m.VariableNames(),
		integer: make([]bool, n),
		nonneg:  make([]bool, n),
	}
	for i, v := range m.Variables {
		p.integer[i] = v.Integer
		p.nonneg[i] = v.NonNegative
	}

	objCoefs, _, ok := m.Objective.Term.Linear()
	if !ok {
		return nil, errorOutcome("objective is not linear")
	}
	p.obj = toVector(objCoefs, idx, n)
	if m.Objective.Sense == program.SenseMaximize {
		for i := range p.obj {
			p.obj[i] = -p.obj[i]
		}
	}

	for _, c := range m.Constraints {
		rel, ok := weakRelation(c.Relation)
		if !ok {
			return nil, errorOutcome(fmt.Sprintf("constraint %d: relation %s is not representable in a linear program", c.Row, c.Relation))
		}
		coefs, offset, ok := c.Term.Linear()
		if !ok {
			return nil, errorOutcome(fmt.Sprintf("constraint %d is not linear", c.Row))
		}
		p.rows = append(p.rows, linRow{
			coefs: toVector(coefs, idx, n),
			rel:   rel,
			rhs:   c.RHS - offset,
		})
	}
	return p, nil
}

// weakRelation normalizes a relation for a backend working over
// closed feasible sets: strict comparisons relax to their weak
// counterparts, and != has no representation at all.
func weakRelation(rel program.Relation) (program.Relation, bool) {
	switch rel {
	case program.RelationLess, program.RelationLessEqual:
		return program.RelationLessEqual, true
	case program.RelationGreater, program.RelationGreaterEqual:
		return program.RelationGreaterEqual, true
	case program.RelationEqual:
		return program.RelationEqual, true
	}
	return "", false
}

// solveRelaxation solves the LP relaxation of p with the extra rows
// appended, converting the general form to standard form first: free
// variables split into positive and negative parts, inequality rows
// closed with slack or surplus columns.
func solveRelaxation(p *linProgram, extra []linRow) ([]float64, error) {
	n := len(p.names)

	rows := make([]linRow, 0, len(p.rows)+len(extra))
	for _, r := range p.rows {
		rows = append(rows, r)
	}
	rows = append(rows, extra...)

	// Constant rows have no place in the matrix: either they hold
	// trivially or the program is infeasible outright.
	kept := rows[:0]
	for _, r := range rows {
		if !allZero(r.coefs) {
			kept = append(kept, r)
			continue
		}
		if !constRowHolds(r) {
			return nil, lp.ErrInfeasible
		}
	}
	rows = kept

	// Variables absent from every row either make the program
	// unbounded or sit at zero; the simplex rejects their empty
	// columns, so they are resolved here.
	active := make([]bool, n)
	for _, r := range rows {
		for i, v := range r.coefs {
			if v != 0 {
				active[i] = true
			}
		}
	}
	for i := range active {
		if active[i] {
			continue
		}
		if p.obj[i] < 0 || (!p.nonneg[i] && p.obj[i] != 0) {
			return nil, lp.ErrUnbounded
		}
	}

	if len(rows) == 0 {
		return make([]float64, n), nil
	}

	pos := make([]int, n)
	neg := make([]int, n)
	cols := 0
	for i := 0; i < n; i++ {
		pos[i], neg[i] = -1, -1
		if !active[i] {
			continue
		}
		pos[i] = cols
		cols++
		if !p.nonneg[i] {
			neg[i] = cols
			cols++
		}
	}
	slack := make([]int, len(rows))
	for r, row := range rows {
		slack[r] = -1
		if row.rel != program.RelationEqual {
			slack[r] = cols
			cols++
		}
	}

	a := mat.NewDense(len(rows), cols, nil)
	bvec := make([]float64, len(rows))
	cvec := make([]float64, cols)
	for i := 0; i < n; i++ {
		if pos[i] >= 0 {
			cvec[pos[i]] = p.obj[i]
		}
		if neg[i] >= 0 {
			cvec[neg[i]] = -p.obj[i]
		}
	}
	for r, row := range rows {
		for i, v := range row.coefs {
			if v == 0 || pos[i] < 0 {
				continue
			}
			a.Set(r, pos[i], v)
			if neg[i] >= 0 {
				a.Set(r, neg[i], -v)
			}
		}
		if slack[r] >= 0 {
			if row.rel == program.RelationLessEqual {
				a.Set(r, slack[r], 1)
			} else {
				a.Set(r, slack[r], -1)
			}
		}
		bvec[r] = row.rhs
	}

	xs, err := runSimplex(cvec, a, bvec)
	if err != nil {
		return nil, err
	}

	x := make([]float64, n)
	for i := 0; i < n; i++ {
		if pos[i] < 0 {
			continue
		}
		x[i] = xs[pos[i]]
		if neg[i] >= 0 {
			x[i] -= xs[neg[i]]
		}
	}
	return x, nil
}

// runSimplex shields the caller from the simplex panicking on
// degenerate shapes (for example more equality rows than columns).
func runSimplex(c []float64, a mat.Matrix, b []float64) (x []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("simplex: %v", r)
		}
	}()
	_, x, err = lp.Simplex(c, a, b, simplexTol, nil)
	return x, err
}

func fractionalIndex(p *linProgram, x []float64) int {
	for i, v := range x {
		if p.integer[i] && math.Abs(v-math.Round(v)) > integralityTol {
			return i
		}
	}
	return -1
}

func boundRow(n, i int, rel program.Relation, v float64) linRow {
	coefs := make([]float64, n)
	coefs[i] = 1
	return linRow{coefs: coefs, rel: rel, rhs: v}
}

func cloneRows(rows []linRow) []linRow {
	out := make([]linRow, len(rows), len(rows)+1)
	copy(out, rows)
	return out
}

func constRowHolds(r linRow) bool {
	switch r.rel {
	case program.RelationLessEqual:
		return r.rhs >= -constraintTol
	case program.RelationGreaterEqual:
		return r.rhs <= constraintTol
	}
	return math.Abs(r.rhs) <= constraintTol
}

func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func toVector(coefs map[string]float64, idx map[string]int, n int) []float64 {
	out := make([]float64, n)
	for name, v := range coefs {
		if i, ok := idx[name]; ok {
			out[i] = v
		}
	}
	return out
}

func dot(a, b []float64) float64 {
	total := 0.0
	for i := range a {
		total += a[i] * b[i]
	}
	return total
}

func errorOutcome(msg string) *Outcome {
	return &Outcome{
		Status:      StatusError,
		Termination: TerminationError,
		Message:     msg,
	}
}
