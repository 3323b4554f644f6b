package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/perdasilva/mpsolve/pkg/program"
)

func buildModel(t *testing.T, in program.BuildInput) *program.Model {
	t.Helper()
	model, diags, err := program.Build(in)
	assert.NoError(t, err)
	assert.Empty(t, diags)
	return model
}

func furnitureModel(t *testing.T) *program.Model {
	return buildModel(t, program.BuildInput{
		Class:    program.ClassLP,
		Elements: "Desk,Table,Chairs",
		Parameters: map[string]map[string]float64{
			"Lumber":    {"Desk": 8, "Table": 6, "Chairs": 1},
			"Finishing": {"Desk": 4, "Table": 2, "Chairs": 1.5},
			"Carpentry": {"Desk": 2, "Table": 1.5, "Chairs": 0.5},
			"Profit":    {"Desk": 60, "Table": 30, "Chairs": 20},
		},
		Objective: program.ObjectiveSpec{Sense: program.SenseMaximize, Parameter: "Profit"},
		Constraints: []program.ConstraintSpec{
			{Parameter: "Lumber", Operator: "≤", Value: "48"},
			{Parameter: "Finishing", Operator: "≤", Value: "20"},
			{Parameter: "Carpentry", Operator: "≤", Value: "8"},
		},
	})
}

func Test_LinearBackend_FurnitureLP(t *testing.T) {
	out, err := NewLinearBackend().Solve(context.Background(), furnitureModel(t))
	assert.NoError(t, err)
	assert.Equal(t, StatusOK, out.Status)
	assert.Equal(t, TerminationOptimal, out.Termination)

	assert.InDelta(t, 280, out.Objective, 1e-6)
	assert.InDelta(t, 2, out.Values["Desk"], 1e-6)
	assert.InDelta(t, 0, out.Values["Table"], 1e-6)
	assert.InDelta(t, 8, out.Values["Chairs"], 1e-6)
}

func Test_LinearBackend_BoxIP(t *testing.T) {
	model := buildModel(t, program.BuildInput{
		Class:    program.ClassIP,
		Elements: "Caja1,Caja2",
		Parameters: map[string]map[string]float64{
			"Ganancia": {"Caja1": 20, "Caja2": 30},
			"Tiempo":   {"Caja1": 4, "Caja2": 6},
		},
		Objective: program.ObjectiveSpec{Sense: program.SenseMaximize, Parameter: "Ganancia"},
		Constraints: []program.ConstraintSpec{
			{Parameter: "Tiempo", Operator: "≤", Value: "16"},
			{Parameter: "Ganancia", Operator: "≥", Value: "40"},
		},
	})

	out, err := NewLinearBackend().Solve(context.Background(), model)
	assert.NoError(t, err)
	assert.Equal(t, TerminationOptimal, out.Termination)
	assert.InDelta(t, 80, out.Objective, 1e-6)

	// The optimum is degenerate; any integral assignment worth 80
	// within the time budget is acceptable.
	a, b := out.Values["Caja1"], out.Values["Caja2"]
	assert.InDelta(t, a, float64(int(a+0.5)), 1e-6)
	assert.InDelta(t, b, float64(int(b+0.5)), 1e-6)
	assert.LessOrEqual(t, 4*a+6*b, 16+1e-6)
	assert.InDelta(t, 80, 20*a+30*b, 1e-6)
}

func Test_LinearBackend_InfeasibleMILP(t *testing.T) {
	model := buildModel(t, program.BuildInput{
		Class:               program.ClassMILP,
		IntegerVariables:    "x",
		ContinuousVariables: "y, z",
		Objective:           program.ObjectiveSpec{Sense: program.SenseMinimize, Expression: "x + 2*y + 3*z"},
		Constraints: []program.ConstraintSpec{
			{Expression: "x + y", Operator: "≤", Value: "10"},
			{Expression: "y + z", Operator: "≥", Value: "5"},
			{Expression: "x", Operator: "≥", Value: "20"},
			{Expression: "y", Operator: "≥", Value: "11"},
			{Expression: "z", Operator: "≤", Value: "100"},
		},
	})

	out, err := NewLinearBackend().Solve(context.Background(), model)
	assert.NoError(t, err)
	assert.Equal(t, StatusOK, out.Status)
	assert.Equal(t, TerminationInfeasible, out.Termination)
	assert.Empty(t, out.Values)
}

func Test_LinearBackend_MILPBranching(t *testing.T) {
	// The relaxation optimum x = 3.5 is fractional; rounding down is
	// the best integral point.
	model := buildModel(t, program.BuildInput{
		Class:            program.ClassMILP,
		IntegerVariables: "x",
		Objective:        program.ObjectiveSpec{Sense: program.SenseMaximize, Expression: "x"},
		Constraints: []program.ConstraintSpec{
			{Expression: "2*x", Operator: "≤", Value: "7"},
			{Expression: "x", Operator: "≥", Value: "0"},
		},
	})

	out, err := NewLinearBackend().Solve(context.Background(), model)
	assert.NoError(t, err)
	assert.Equal(t, TerminationOptimal, out.Termination)
	assert.InDelta(t, 3, out.Objective, 1e-6)
	assert.InDelta(t, 3, out.Values["x"], 1e-6)
}

func Test_LinearBackend_StrictRelationsRelax(t *testing.T) {
	// Strict comparisons are served as their weak counterparts.
	model := buildModel(t, program.BuildInput{
		Class:               program.ClassMILP,
		ContinuousVariables: "x",
		Objective:           program.ObjectiveSpec{Sense: program.SenseMaximize, Expression: "x"},
		Constraints: []program.ConstraintSpec{
			{Expression: "x", Operator: "<", Value: "5"},
			{Expression: "x", Operator: ">", Value: "0"},
		},
	})

	out, err := NewLinearBackend().Solve(context.Background(), model)
	assert.NoError(t, err)
	assert.Equal(t, TerminationOptimal, out.Termination)
	assert.InDelta(t, 5, out.Objective, 1e-6)
}

func Test_LinearBackend_EqualityRelation(t *testing.T) {
	model := buildModel(t, program.BuildInput{
		Class:               program.ClassMILP,
		ContinuousVariables: "x, y",
		Objective:           program.ObjectiveSpec{Sense: program.SenseMinimize, Expression: "x + y"},
		Constraints: []program.ConstraintSpec{
			{Expression: "x + y", Operator: "=", Value: "4"},
			{Expression: "x", Operator: "≥", Value: "1"},
			{Expression: "y", Operator: "≥", Value: "1"},
		},
	})

	out, err := NewLinearBackend().Solve(context.Background(), model)
	assert.NoError(t, err)
	assert.Equal(t, TerminationOptimal, out.Termination)
	assert.InDelta(t, 4, out.Objective, 1e-6)
	assert.InDelta(t, 4, out.Values["x"]+out.Values["y"], 1e-6)
}

func Test_LinearBackend_NotEqualIsRejected(t *testing.T) {
	model := buildModel(t, program.BuildInput{
		Class:               program.ClassMILP,
		ContinuousVariables: "x",
		Objective:           program.ObjectiveSpec{Sense: program.SenseMinimize, Expression: "x"},
		Constraints: []program.ConstraintSpec{
			{Expression: "x", Operator: "≠", Value: "3"},
			{Expression: "x", Operator: "≥", Value: "0"},
		},
	})

	out, err := NewLinearBackend().Solve(context.Background(), model)
	assert.NoError(t, err)
	assert.Equal(t, StatusError, out.Status)
	assert.Contains(t, out.Message, "not representable")
}

func Test_LinearBackend_Unbounded(t *testing.T) {
	model := buildModel(t, program.BuildInput{
		Class:               program.ClassMILP,
		ContinuousVariables: "x",
		Objective:           program.ObjectiveSpec{Sense: program.SenseMaximize, Expression: "x"},
		Constraints: []program.ConstraintSpec{
			{Expression: "x", Operator: "≥", Value: "0"},
		},
	})

	out, err := NewLinearBackend().Solve(context.Background(), model)
	assert.NoError(t, err)
	assert.Equal(t, TerminationUnbounded, out.Termination)
}

func Test_LinearBackend_NonlinearTermIsRejected(t *testing.T) {
	model := buildModel(t, program.BuildInput{
		Class:               program.ClassMILP,
		ContinuousVariables: "x",
		Objective:           program.ObjectiveSpec{Sense: program.SenseMinimize, Expression: "x**2"},
	})

	out, err := NewLinearBackend().Solve(context.Background(), model)
	assert.NoError(t, err)
	assert.Equal(t, StatusError, out.Status)
	assert.Contains(t, out.Message, "not linear")
}

func Test_LinearBackend_Idempotent(t *testing.T) {
	backend := NewLinearBackend()
	first, err := backend.Solve(context.Background(), furnitureModel(t))
	assert.NoError(t, err)
	second, err := backend.Solve(context.Background(), furnitureModel(t))
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
