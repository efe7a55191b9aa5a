package interpreter

import (
	"fun/interpreter-go/pkg/ast"
	"fun/interpreter-go/pkg/runtime"
)

func evaluateApplication(app *ast.App, env *runtime.Environment) (runtime.Value, error) {
	callee, err := evaluateExpression(app.Func, env)
	if err != nil {
		return nil, err
	}
	arg, err := evaluateExpression(app.Arg, env)
	if err != nil {
		return nil, err
	}
	return CallFunction(callee, arg)
}

// CallFunction applies a closure or native function to one argument.
func CallFunction(callee runtime.Value, arg runtime.Value) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		scope := fn.Closure
		if fn.BindsParam() {
			scope = scope.Define(fn.Param, arg)
		}
		return evaluateExpression(fn.Body, scope)
	case *runtime.NativeFunctionValue:
		result, err := fn.Call(arg)
		if err != nil {
			return nil, wrapNativeError(fn, err)
		}
		return result, nil
	default:
		unreachable("cannot apply %s value", kindOf(callee))
		return nil, nil
	}
}

func evaluateIfExpression(expr *ast.If, env *runtime.Environment) (runtime.Value, error) {
	cond, err := evaluateExpression(expr.Cond, env)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(runtime.BoolValue)
	if !ok {
		unreachable("if condition evaluated to %s", kindOf(cond))
	}
	if b.Val {
		return evaluateExpression(expr.Then, env)
	}
	return evaluateExpression(expr.Else, env)
}

func kindOf(v runtime.Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}
