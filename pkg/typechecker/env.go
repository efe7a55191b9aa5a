package typechecker

import (
	"github.com/benbjohnson/immutable"

	"fun/interpreter-go/pkg/ast"
)

// Environment is the persistent scope used during typechecking. Define
// returns a new environment; the receiver keeps its bindings.
type Environment struct {
	symbols *immutable.SortedMap[string, ast.Type]
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{symbols: immutable.NewSortedMap[string, ast.Type](nil)}
}

// Define binds a name to a type in a new environment.
func (e *Environment) Define(name string, typ ast.Type) *Environment {
	symbols := immutable.NewSortedMap[string, ast.Type](nil)
	if e != nil && e.symbols != nil {
		symbols = e.symbols
	}
	return &Environment{symbols: symbols.Set(name, typ)}
}

// Lookup searches for a name.
func (e *Environment) Lookup(name string) (ast.Type, bool) {
	if e == nil || e.symbols == nil {
		return nil, false
	}
	return e.symbols.Get(name)
}

// Len reports the number of visible bindings.
func (e *Environment) Len() int {
	if e == nil || e.symbols == nil {
		return 0
	}
	return e.symbols.Len()
}

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	if e == nil || e.symbols == nil {
		return nil
	}
	names := make([]string, 0, e.symbols.Len())
	itr := e.symbols.Iterator()
	for !itr.Done() {
		name, _, _ := itr.Next()
		names = append(names, name)
	}
	return names
}
