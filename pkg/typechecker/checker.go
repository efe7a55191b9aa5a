package typechecker

import (
	"fmt"

	"fun/interpreter-go/pkg/ast"
)

// Checker holds the typing environment that top-level declarations extend.
// A Checker is immutable; Bind returns a new one.
type Checker struct {
	env *Environment
}

// New returns a checker with an empty environment.
func New() *Checker {
	return &Checker{env: NewEnvironment()}
}

// WithEnvironment returns a checker over an existing environment.
func WithEnvironment(env *Environment) *Checker {
	if env == nil {
		env = NewEnvironment()
	}
	return &Checker{env: env}
}

// Environment exposes the checker's current environment.
func (c *Checker) Environment() *Environment {
	return c.env
}

// Bind returns a checker whose environment also binds name to typ.
func (c *Checker) Bind(name string, typ ast.Type) *Checker {
	return &Checker{env: c.env.Define(name, typ)}
}

// Check computes the type of term in the checker's environment.
func (c *Checker) Check(term ast.Term) (ast.Type, error) {
	return TypeOf(term, c.env)
}

// TypeOf computes the type of term under env, or returns an Error.
func TypeOf(term ast.Term, env *Environment) (ast.Type, error) {
	switch t := term.(type) {
	case *ast.Var:
		typ, ok := env.Lookup(t.Name)
		if !ok {
			return nil, &UndefinedError{Name: t.Name, Term: t}
		}
		return typ, nil
	case *ast.Abs:
		bodyEnv := env
		if t.BindsParam() {
			bodyEnv = env.Define(t.Param, t.ParamType)
		}
		bodyType, err := TypeOf(t.Body, bodyEnv)
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionType(t.ParamType, bodyType), nil
	case *ast.App:
		return typeOfApp(t, env)
	case *ast.IntLiteral:
		return ast.IntType(), nil
	case *ast.If:
		return typeOfIf(t, env)
	case *ast.Seq:
		return typeOfSeq(t, env)
	case nil:
		return nil, fmt.Errorf("typechecker: term is nil")
	default:
		return nil, fmt.Errorf("typechecker: unsupported term type: %s", t.NodeType())
	}
}

func typeOfApp(app *ast.App, env *Environment) (ast.Type, error) {
	funcType, err := TypeOf(app.Func, env)
	if err != nil {
		return nil, err
	}
	argType, err := TypeOf(app.Arg, env)
	if err != nil {
		return nil, err
	}
	arrow, ok := funcType.(*ast.FunctionType)
	if !ok {
		return nil, &ExpectedError{What: ExpectedArrow, Actual: funcType, Term: app.Func}
	}
	if !ast.TypesEqual(arrow.From, argType) {
		return nil, &MismatchError{Expected: arrow.From, Actual: argType, Term: app.Arg}
	}
	return arrow.To, nil
}

func typeOfIf(expr *ast.If, env *Environment) (ast.Type, error) {
	condType, err := TypeOf(expr.Cond, env)
	if err != nil {
		return nil, err
	}
	if !ast.IsNamed(condType, ast.TypeNameBool) {
		return nil, &MismatchError{Expected: ast.BoolType(), Actual: condType, Term: expr.Cond}
	}
	thenType, err := TypeOf(expr.Then, env)
	if err != nil {
		return nil, err
	}
	elseType, err := TypeOf(expr.Else, env)
	if err != nil {
		return nil, err
	}
	if !ast.TypesEqual(thenType, elseType) {
		return nil, &MismatchError{Expected: thenType, Actual: elseType, Term: expr.Else}
	}
	return thenType, nil
}

func typeOfSeq(seq *ast.Seq, env *Environment) (ast.Type, error) {
	var current ast.Type = ast.UnitType()
	for _, stmt := range seq.Stmts {
		switch s := stmt.(type) {
		case *ast.ExprStmt:
			typ, err := TypeOf(s.Term, env)
			if err != nil {
				return nil, err
			}
			current = typ
		case *ast.LetStmt:
			typ, err := TypeOf(s.Term, env)
			if err != nil {
				return nil, err
			}
			env = env.Define(s.Name, typ)
			current = typ
		default:
			return nil, fmt.Errorf("typechecker: unsupported statement type: %s", stmt.NodeType())
		}
	}
	return current, nil
}
