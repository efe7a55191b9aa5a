package runtime

import (
	"fmt"

	"fun/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindBool Kind = iota
	KindInteger
	KindUnit
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindUnit:
		return "unit"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntegerValue struct {
	Val int32
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type UnitValue struct{}

func (UnitValue) Kind() Kind { return KindUnit }

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue is a closure. Closure is shared with every other holder of
// the same environment snapshot and is never copied.
type FunctionValue struct {
	Closure *Environment
	Param   string
	Body    ast.Term
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// BindsParam reports whether applying the closure introduces a binding.
func (v *FunctionValue) BindsParam() bool { return v.Param != ast.Placeholder }

// NativeFunc is a host function taking exactly one argument.
type NativeFunc func(arg Value) (Value, error)

// NativeFunctionValue wraps a host function. Arity counts the arguments still
// expected before the underlying host function runs.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// Call invokes the native with one argument.
func (v *NativeFunctionValue) Call(arg Value) (Value, error) {
	if v == nil || v.Impl == nil {
		return nil, fmt.Errorf("native function is not callable")
	}
	return v.Impl(arg)
}
