package interpreter

import (
	"fmt"
	"io"

	"fun/interpreter-go/pkg/ast"
	"fun/interpreter-go/pkg/runtime"
)

// DefaultContext returns a context seeded with the built-in primitives:
// Unit, the boolean constants and connectives, and integer arithmetic and
// comparisons. Host effects such as print are registered by the driver.
func DefaultContext() *ProgramContext {
	ctx := NewProgramContext().
		InsertValue("Unit", ast.UnitType(), runtime.UnitValue{}).
		InsertValue("True", ast.BoolType(), runtime.BoolValue{Val: true}).
		InsertValue("False", ast.BoolType(), runtime.BoolValue{Val: false})

	ctx = ctx.InsertValue("not", ast.Arrow(ast.BoolType(), ast.BoolType()),
		runtime.NewNative1("not", func(x runtime.Value) (runtime.Value, error) {
			return runtime.BoolValue{Val: !asBool(x)}, nil
		}))
	for _, op := range boolOps {
		ctx = ctx.InsertValue(op.name, ast.Arrow(ast.BoolType(), ast.BoolType(), ast.BoolType()), boolBinary(op.name, op.fn))
	}

	ctx = ctx.InsertValue("neg", ast.Arrow(ast.IntType(), ast.IntType()),
		runtime.NewNative1("neg", func(x runtime.Value) (runtime.Value, error) {
			return runtime.IntegerValue{Val: -asInt(x)}, nil
		}))
	for _, op := range intOps {
		ctx = ctx.InsertValue(op.name, ast.Arrow(ast.IntType(), ast.IntType(), ast.IntType()), intBinary(op.name, op.fn))
	}
	for _, op := range compareOps {
		ctx = ctx.InsertValue(op.name, ast.Arrow(ast.IntType(), ast.IntType(), ast.BoolType()), intCompare(op.name, op.fn))
	}
	return ctx
}

// PrintBuiltin returns print : Int -> Unit writing the integer and a newline
// to w.
func PrintBuiltin(w io.Writer) (ast.Type, runtime.Value) {
	fn := runtime.NewNative1("print", func(x runtime.Value) (runtime.Value, error) {
		if _, err := fmt.Fprintln(w, FormatValue(x)); err != nil {
			return nil, &EvaluationError{Message: "write failed", Err: err}
		}
		return runtime.UnitValue{}, nil
	})
	return ast.Arrow(ast.IntType(), ast.UnitType()), fn
}

var boolOps = []struct {
	name string
	fn   func(a, b bool) bool
}{
	{"and", func(a, b bool) bool { return a && b }},
	{"or", func(a, b bool) bool { return a || b }},
	{"xor", func(a, b bool) bool { return a != b }},
}

var intOps = []struct {
	name string
	fn   func(a, b int32) (int32, error)
}{
	{"add", func(a, b int32) (int32, error) { return a + b, nil }},
	{"mul", func(a, b int32) (int32, error) { return a * b, nil }},
	{"div", func(a, b int32) (int32, error) {
		if b == 0 {
			return 0, NewEvaluationError("division by zero")
		}
		return a / b, nil
	}},
	{"mod", func(a, b int32) (int32, error) {
		if b == 0 {
			return 0, NewEvaluationError("division by zero")
		}
		return a % b, nil
	}},
	{"shl", func(a, b int32) (int32, error) { return a << (uint32(b) & 31), nil }},
	{"shr", func(a, b int32) (int32, error) { return a >> (uint32(b) & 31), nil }},
}

var compareOps = []struct {
	name string
	fn   func(a, b int32) bool
}{
	{"eq", func(a, b int32) bool { return a == b }},
	{"gt", func(a, b int32) bool { return a > b }},
	{"gte", func(a, b int32) bool { return a >= b }},
	{"lt", func(a, b int32) bool { return a < b }},
	{"lte", func(a, b int32) bool { return a <= b }},
}

func boolBinary(name string, fn func(a, b bool) bool) *runtime.NativeFunctionValue {
	return runtime.NewNative2(name, func(x, y runtime.Value) (runtime.Value, error) {
		return runtime.BoolValue{Val: fn(asBool(x), asBool(y))}, nil
	})
}

func intBinary(name string, fn func(a, b int32) (int32, error)) *runtime.NativeFunctionValue {
	return runtime.NewNative2(name, func(x, y runtime.Value) (runtime.Value, error) {
		out, err := fn(asInt(x), asInt(y))
		if err != nil {
			return nil, err
		}
		return runtime.IntegerValue{Val: out}, nil
	})
}

func intCompare(name string, fn func(a, b int32) bool) *runtime.NativeFunctionValue {
	return runtime.NewNative2(name, func(x, y runtime.Value) (runtime.Value, error) {
		return runtime.BoolValue{Val: fn(asInt(x), asInt(y))}, nil
	})
}

func asInt(v runtime.Value) int32 {
	iv, ok := v.(runtime.IntegerValue)
	if !ok {
		unreachable("expected integer argument, got %s", kindOf(v))
	}
	return iv.Val
}

func asBool(v runtime.Value) bool {
	bv, ok := v.(runtime.BoolValue)
	if !ok {
		unreachable("expected bool argument, got %s", kindOf(v))
	}
	return bv.Val
}
