package algebra

import (
	"fmt"

	"github.com/antonmedv/expr/ast"
	"github.com/antonmedv/expr/parser"
)

// ExpressionError reports expression text that could not be turned
// into a term: a syntax error, a reference to a name outside the
// supplied binding, or syntax the arithmetic grammar does not admit.
type ExpressionError struct {
	Text string
	Err  error
}

func (e ExpressionError) Error() string {
	return fmt.Sprintf("expression %q: %v", e.Text, e.Err)
}

func (e ExpressionError) Unwrap() error {
	return e.Err
}

// Eval parses text as an arithmetic expression and builds the
// corresponding term. The grammar admits numeric literals, names
// present in binding, the binary operators + - * / **, unary minus
// and parentheses. Evaluation binds strictly to the supplied mapping:
// an unresolved name is an error, never a lookup anywhere else.
func Eval(text string, binding map[string]Term) (Term, error) {
	tree, err := parser.Parse(text)
	if err != nil {
		return nil, ExpressionError{Text: text, Err: err}
	}
	term, err := fromNode(tree.Node, binding)
	if err != nil {
		return nil, ExpressionError{Text: text, Err: err}
	}
	return term, nil
}

func fromNode(node ast.Node, binding map[string]Term) (Term, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return Const(float64(n.Value)), nil
	case *ast.FloatNode:
		return Const(n.Value), nil
	case *ast.IdentifierNode:
		term, ok := binding[n.Value]
		if !ok {
			return nil, fmt.Errorf("name %q is not a declared variable", n.Value)
		}
		return term, nil
	case *ast.UnaryNode:
		inner, err := fromNode(n.Node, binding)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case "-":
			return Neg(inner), nil
		case "+":
			return inner, nil
		}
		return nil, fmt.Errorf("unary operator %q is not supported", n.Operator)
	case *ast.BinaryNode:
		left, err := fromNode(n.Left, binding)
		if err != nil {
			return nil, err
		}
		right, err := fromNode(n.Right, binding)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case "+":
			return Add(left, right), nil
		case "-":
			return Sub(left, right), nil
		case "*":
			return Mul(left, right), nil
		case "/":
			return Div(left, right), nil
		case "**":
			return Pow(left, right), nil
		}
		return nil, fmt.Errorf("operator %q is not supported", n.Operator)
	}
	return nil, fmt.Errorf("unsupported syntax (%T)", node)
}
