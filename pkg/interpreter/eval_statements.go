package interpreter

import (
	"fun/interpreter-go/pkg/ast"
	"fun/interpreter-go/pkg/runtime"
)

// evaluateSequence threads a running environment through the statements.
// A let evaluates in the environment as it stood before the binding.
func evaluateSequence(seq *ast.Seq, env *runtime.Environment) (runtime.Value, error) {
	scope := env
	var result runtime.Value = runtime.UnitValue{}
	for _, stmt := range seq.Stmts {
		switch s := stmt.(type) {
		case *ast.ExprStmt:
			val, err := evaluateExpression(s.Term, scope)
			if err != nil {
				return nil, err
			}
			result = val
		case *ast.LetStmt:
			val, err := evaluateExpression(s.Term, scope)
			if err != nil {
				return nil, err
			}
			scope = scope.Define(s.Name, val)
			result = val
		default:
			unreachable("unsupported statement %T", stmt)
		}
	}
	return result, nil
}
