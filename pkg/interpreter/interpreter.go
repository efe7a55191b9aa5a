package interpreter

import (
	"fmt"

	"fun/interpreter-go/pkg/ast"
	"fun/interpreter-go/pkg/runtime"
)

// Evaluate computes the value of term in env.
//
// The term must already have type-checked against a typing environment whose
// bindings correspond to env. The evaluator carries no type tags beyond the
// value variants themselves and panics on a violated precondition: such a
// panic means the typechecker or the context construction is wrong. The only
// error Evaluate returns is an *EvaluationError raised by a native function.
func Evaluate(term ast.Term, env *runtime.Environment) (runtime.Value, error) {
	return evaluateExpression(term, env)
}

func evaluateExpression(node ast.Term, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Var:
		val, ok := env.Get(n.Name)
		if !ok {
			unreachable("variable %q is unbound", n.Name)
		}
		return val, nil
	case *ast.Abs:
		return &runtime.FunctionValue{Closure: env, Param: n.Param, Body: n.Body}, nil
	case *ast.App:
		return evaluateApplication(n, env)
	case *ast.IntLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.If:
		return evaluateIfExpression(n, env)
	case *ast.Seq:
		return evaluateSequence(n, env)
	default:
		unreachable("unsupported term %T", node)
		return nil, nil
	}
}

func unreachable(format string, args ...any) {
	panic(fmt.Sprintf("interpreter: unreachable: "+format, args...))
}
