package program

// ObjectiveSpec is the user-entered objective: a sense plus either a
// parameter name (linear classes) or an expression over the declared
// variables (expression classes).
type ObjectiveSpec struct {
	Sense      Sense  `json:"sense" yaml:"sense"`
	Parameter  string `json:"parameter,omitempty" yaml:"parameter,omitempty"`
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// ConstraintSpec is one user-entered constraint row. Linear classes
// fill Parameter; expression classes fill Expression. Operator is the
// symbol as entered ("≤", "≥", "=", "<", ">", "≠") and Value the
// right-hand side text.
type ConstraintSpec struct {
	Parameter  string `json:"parameter,omitempty" yaml:"parameter,omitempty"`
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty"`
	Operator   string `json:"operator" yaml:"operator"`
	Value      string `json:"value" yaml:"value"`
}

// BuildInput carries everything the caller entered for one
// model-build-and-solve cycle. Which fields are consulted depends on
// the class: Elements and Parameters for LP and IP, the variable
// declarations for NLP, MILP and MINLP.
type BuildInput struct {
	Class               Class                         `json:"class" yaml:"class"`
	Elements            string                        `json:"elements,omitempty" yaml:"elements,omitempty"`
	Parameters          map[string]map[string]float64 `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	IntegerVariables    string                        `json:"integer_variables,omitempty" yaml:"integer_variables,omitempty"`
	ContinuousVariables string                        `json:"continuous_variables,omitempty" yaml:"continuous_variables,omitempty"`
	Objective           ObjectiveSpec                 `json:"objective" yaml:"objective"`
	Constraints         []ConstraintSpec              `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}
