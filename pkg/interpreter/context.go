package interpreter

import (
	"fun/interpreter-go/pkg/ast"
	"fun/interpreter-go/pkg/runtime"
	"fun/interpreter-go/pkg/typechecker"
)

// ProgramContext pairs a typing environment with a value environment. Both
// are always extended together, so a name is bound in both or in neither.
// A context is never mutated; every extension returns a new context.
type ProgramContext struct {
	types  *typechecker.Environment
	values *runtime.Environment
}

// NewProgramContext returns an empty context.
func NewProgramContext() *ProgramContext {
	return &ProgramContext{
		types:  typechecker.NewEnvironment(),
		values: runtime.NewEnvironment(),
	}
}

// TypeEnvironment exposes the typing half of the context.
func (c *ProgramContext) TypeEnvironment() *typechecker.Environment {
	return c.types
}

// ValueEnvironment exposes the value half of the context.
func (c *ProgramContext) ValueEnvironment() *runtime.Environment {
	return c.values
}

// TypeOf typechecks term against the context.
func (c *ProgramContext) TypeOf(term ast.Term) (ast.Type, error) {
	return typechecker.TypeOf(term, c.types)
}

// Evaluate evaluates term against the context. The term must already have
// type-checked against the same context.
func (c *ProgramContext) Evaluate(term ast.Term) (runtime.Value, error) {
	return Evaluate(term, c.values)
}

// Run typechecks term and, only on success, evaluates it. A typing failure
// returns before any evaluation so no native side effect can occur.
func (c *ProgramContext) Run(term ast.Term) (ast.Type, runtime.Value, error) {
	typ, err := c.TypeOf(term)
	if err != nil {
		return nil, nil, &ProgramError{Kind: TypingFailure, Err: err}
	}
	val, err := c.Evaluate(term)
	if err != nil {
		return nil, nil, &ProgramError{Kind: EvaluationFailure, Err: err}
	}
	return typ, val, nil
}

// InsertTerm runs term and binds name to its type and value.
func (c *ProgramContext) InsertTerm(name string, term ast.Term) (*ProgramContext, error) {
	typ, val, err := c.Run(term)
	if err != nil {
		return nil, err
	}
	return c.InsertValue(name, typ, val), nil
}

// InsertValue binds name directly, bypassing typechecking and evaluation.
// The caller guarantees val has the shape described by typ.
func (c *ProgramContext) InsertValue(name string, typ ast.Type, val runtime.Value) *ProgramContext {
	return &ProgramContext{
		types:  c.types.Define(name, typ),
		values: c.values.Define(name, val),
	}
}

// Lookup returns the value and type bound to name.
func (c *ProgramContext) Lookup(name string) (runtime.Value, ast.Type, bool) {
	val, ok := c.values.Get(name)
	if !ok {
		return nil, nil, false
	}
	typ, ok := c.types.Lookup(name)
	if !ok {
		return nil, nil, false
	}
	return val, typ, true
}

// Names returns the bound names in sorted order.
func (c *ProgramContext) Names() []string {
	return c.values.Names()
}
