package typechecker

import (
	"errors"
	"strings"
	"testing"

	"fun/interpreter-go/pkg/ast"
)

func builtinEnv() *Environment {
	return NewEnvironment().
		Define("Unit", ast.UnitType()).
		Define("True", ast.BoolType()).
		Define("add", ast.Arrow(ast.IntType(), ast.IntType(), ast.IntType())).
		Define("eq", ast.Arrow(ast.IntType(), ast.IntType(), ast.BoolType()))
}

func mustType(t *testing.T, term ast.Term, env *Environment) ast.Type {
	t.Helper()
	typ, err := TypeOf(term, env)
	if err != nil {
		t.Fatalf("TypeOf(%s) failed: %v", term, err)
	}
	return typ
}

func TestIdentityAbstractionType(t *testing.T) {
	typ := mustType(t, ast.Fun("x", ast.IntType(), ast.V("x")), NewEnvironment())
	if !ast.TypesEqual(typ, ast.Arrow(ast.IntType(), ast.IntType())) {
		t.Fatalf("type = %s, want (Int -> Int)", typ)
	}
}

func TestApplyingNonFunctionReportsExpectedArrow(t *testing.T) {
	_, err := TypeOf(ast.Call(ast.Int(1), ast.Int(2)), NewEnvironment())
	var expected *ExpectedError
	if !errors.As(err, &expected) {
		t.Fatalf("expected ExpectedError, got %v", err)
	}
	if expected.What != "arrow type" || !ast.IsNamed(expected.Actual, ast.TypeNameInt) {
		t.Fatalf("unexpected error payload: %#v", expected)
	}
	if got := err.Error(); got != `expected arrow type but found "Int"` {
		t.Fatalf("message = %q", got)
	}
}

func TestUndefinedVariable(t *testing.T) {
	_, err := TypeOf(ast.V("nope"), NewEnvironment())
	var undefined *UndefinedError
	if !errors.As(err, &undefined) || undefined.Name != "nope" {
		t.Fatalf("expected UndefinedError(nope), got %v", err)
	}
	if undefined.Node() == nil {
		t.Fatalf("expected offending node on error")
	}
}

func TestArgumentMismatch(t *testing.T) {
	term := ast.Call(ast.V("add"), ast.V("True"))
	_, err := TypeOf(term, builtinEnv())
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if !ast.IsNamed(mismatch.Expected, ast.TypeNameInt) || !ast.IsNamed(mismatch.Actual, ast.TypeNameBool) {
		t.Fatalf("unexpected mismatch payload: %s vs %s", mismatch.Expected, mismatch.Actual)
	}
}

func TestApplicationRequiresExactStructuralMatch(t *testing.T) {
	// (Int -> Int) -> Int applied to Int -> (Int -> Int)
	higher := ast.Fun("f", ast.Arrow(ast.IntType(), ast.IntType()), ast.Call(ast.V("f"), ast.Int(1)))
	_, err := TypeOf(ast.Call(higher, ast.V("add")), builtinEnv())
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected mismatch for add against Int -> Int, got %v", err)
	}

	inc := ast.Call(ast.V("add"), ast.Int(1))
	typ := mustType(t, ast.Call(higher, inc), builtinEnv())
	if !ast.IsNamed(typ, ast.TypeNameInt) {
		t.Fatalf("type = %s, want Int", typ)
	}
}

func TestIfRequiresBoolCondition(t *testing.T) {
	_, err := TypeOf(ast.IfExpr(ast.Int(1), ast.Int(2), ast.Int(3)), NewEnvironment())
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) || !ast.IsNamed(mismatch.Expected, ast.TypeNameBool) {
		t.Fatalf("expected Bool mismatch, got %v", err)
	}
}

func TestIfBranchesMustAgree(t *testing.T) {
	_, err := TypeOf(ast.IfExpr(ast.V("True"), ast.Int(2), ast.V("Unit")), builtinEnv())
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected branch mismatch, got %v", err)
	}
	if !ast.IsNamed(mismatch.Expected, ast.TypeNameInt) || !ast.IsNamed(mismatch.Actual, ast.TypeNameUnit) {
		t.Fatalf("unexpected payload %s vs %s", mismatch.Expected, mismatch.Actual)
	}

	typ := mustType(t, ast.IfExpr(ast.Call(ast.V("eq"), ast.Int(1), ast.Int(1)), ast.Int(2), ast.Int(3)), builtinEnv())
	if !ast.IsNamed(typ, ast.TypeNameInt) {
		t.Fatalf("type = %s", typ)
	}
}

func TestPlaceholderParameterDoesNotBind(t *testing.T) {
	term := ast.Fun(ast.Placeholder, ast.IntType(), ast.V(ast.Placeholder))
	_, err := TypeOf(term, NewEnvironment())
	var undefined *UndefinedError
	if !errors.As(err, &undefined) || undefined.Name != "_" {
		t.Fatalf("expected Undefined(_), got %v", err)
	}

	// An outer binding literally named _ is not shadowed by the placeholder.
	env := NewEnvironment().Define(ast.Placeholder, ast.BoolType())
	typ := mustType(t, term, env)
	if !ast.TypesEqual(typ, ast.Arrow(ast.IntType(), ast.BoolType())) {
		t.Fatalf("type = %s, want (Int -> Bool)", typ)
	}
}

func TestSeqTypes(t *testing.T) {
	if typ := mustType(t, ast.Block(), NewEnvironment()); !ast.IsNamed(typ, ast.TypeNameUnit) {
		t.Fatalf("empty sequence type = %s", typ)
	}

	seq := ast.Block(ast.Let("a", ast.Int(1)), ast.Do(ast.V("a")))
	if typ := mustType(t, seq, NewEnvironment()); !ast.IsNamed(typ, ast.TypeNameInt) {
		t.Fatalf("sequence type = %s", typ)
	}

	endsWithLet := ast.Block(ast.Do(ast.V("Unit")), ast.Let("f", ast.Fun("x", ast.IntType(), ast.V("x"))))
	typ := mustType(t, endsWithLet, builtinEnv())
	if !ast.TypesEqual(typ, ast.Arrow(ast.IntType(), ast.IntType())) {
		t.Fatalf("let-terminated sequence type = %s", typ)
	}
}

func TestSeqLetShadowsForLaterStatementsOnly(t *testing.T) {
	env := builtinEnv().Define("x", ast.BoolType())
	seq := ast.Block(
		ast.Do(ast.IfExpr(ast.V("x"), ast.Int(1), ast.Int(2))),
		ast.Let("x", ast.Int(5)),
		ast.Do(ast.Call(ast.V("add"), ast.V("x"), ast.Int(1))),
	)
	if typ := mustType(t, seq, env); !ast.IsNamed(typ, ast.TypeNameInt) {
		t.Fatalf("type = %s", typ)
	}
	if typ, _ := env.Lookup("x"); !ast.IsNamed(typ, ast.TypeNameBool) {
		t.Fatalf("sequence leaked binding into caller environment: %s", typ)
	}
}

func TestSeqBareTermErrorsStillReported(t *testing.T) {
	seq := ast.Block(ast.Do(ast.V("missing")), ast.Do(ast.Int(1)))
	_, err := TypeOf(seq, NewEnvironment())
	if err == nil || !strings.Contains(err.Error(), `"missing"`) {
		t.Fatalf("expected undefined error for discarded statement, got %v", err)
	}
}

func TestCheckerBindIsPersistent(t *testing.T) {
	base := New()
	extended := base.Bind("n", ast.IntType())
	if _, err := extended.Check(ast.V("n")); err != nil {
		t.Fatalf("extended checker lost binding: %v", err)
	}
	if _, err := base.Check(ast.V("n")); err == nil {
		t.Fatalf("base checker observed later binding")
	}
	if extended.Environment().Len() != 1 {
		t.Fatalf("unexpected environment size %d", extended.Environment().Len())
	}
}
