package optimizer

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/perdasilva/mpsolve/pkg/program"
	"github.com/perdasilva/mpsolve/pkg/solver"
)

var _ = Describe("Optimizer", func() {
	var opt *Optimizer

	BeforeEach(func() {
		opt = New()
	})

	furniture := func() program.BuildInput {
		return program.BuildInput{
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
		}
	}

	Describe("solving a linear program", func() {
		It("returns the optimal production plan", func() {
			resp, err := opt.Solve(context.Background(), furniture())
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Diagnostics).To(BeEmpty())
			Expect(resp.Result).ToNot(BeNil())
			Expect(resp.Result.Status).To(Equal(solver.ResultOptimal))
			Expect(resp.Result.Objective).To(BeNumerically("~", 280, 1e-6))
			Expect(resp.Result.Values).To(HaveKeyWithValue("Desk", BeNumerically("~", 2, 1e-6)))
			Expect(resp.Result.Values).To(HaveKeyWithValue("Chairs", BeNumerically("~", 8, 1e-6)))
		})

		It("keeps solving when individual constraint rows are invalid", func() {
			in := furniture()
			in.Constraints = append(in.Constraints, program.ConstraintSpec{
				Parameter: "Lumber", Operator: "<=", Value: "48",
			})

			resp, err := opt.Solve(context.Background(), in)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Diagnostics).To(HaveLen(1))
			Expect(resp.Result.Status).To(Equal(solver.ResultOptimal))
		})
	})

	Describe("solving a mixed-integer program", func() {
		It("reports a contradictory program as infeasible_or_error", func() {
			resp, err := opt.Solve(context.Background(), program.BuildInput{
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
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Result.Status).To(Equal(solver.ResultInfeasibleOrError))
			Expect(resp.Result.Values).To(BeEmpty())
		})
	})

	Describe("solving a nonlinear program", func() {
		It("finds the constrained minimum", func() {
			resp, err := opt.Solve(context.Background(), program.BuildInput{
				Class:               program.ClassNLP,
				ContinuousVariables: "x",
				Objective:           program.ObjectiveSpec{Sense: program.SenseMinimize, Expression: "x**2"},
				Constraints: []program.ConstraintSpec{
					{Expression: "x", Operator: "≥", Value: "2"},
				},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Result.Status).To(Equal(solver.ResultOptimal))
			Expect(resp.Result.Objective).To(BeNumerically("~", 4, 1e-2))
		})
	})

	Describe("rejecting an unbuildable request", func() {
		It("fails on incomplete parameter coverage and keeps no result", func() {
			in := furniture()
			in.Parameters["Lumber"] = map[string]float64{"Desk": 8}

			resp, err := opt.Solve(context.Background(), in)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Lumber"))
			Expect(resp.Result).To(BeNil())
		})

		It("fails on an expression over undeclared names", func() {
			resp, err := opt.Solve(context.Background(), program.BuildInput{
				Class:               program.ClassNLP,
				ContinuousVariables: "x",
				Objective:           program.ObjectiveSpec{Sense: program.SenseMinimize, Expression: "x + w"},
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`"w"`))
			Expect(resp.Result).To(BeNil())
		})
	})
})
