package runtime

import (
	"github.com/benbjohnson/immutable"
)

// Environment is a persistent mapping from names to runtime values. Define
// returns a new environment and leaves the receiver untouched, so closures
// holding an older environment never observe later bindings.
type Environment struct {
	values *immutable.SortedMap[string, Value]
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: immutable.NewSortedMap[string, Value](nil)}
}

// Define returns a new environment in which name is bound to value. An
// existing binding for name is shadowed in the result only.
func (e *Environment) Define(name string, value Value) *Environment {
	return &Environment{values: e.mapOrEmpty().Set(name, value)}
}

// Get retrieves a binding.
func (e *Environment) Get(name string) (Value, bool) {
	if e == nil || e.values == nil {
		return nil, false
	}
	return e.values.Get(name)
}

// Len reports the number of visible bindings.
func (e *Environment) Len() int {
	if e == nil || e.values == nil {
		return 0
	}
	return e.values.Len()
}

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	if e == nil || e.values == nil {
		return nil
	}
	names := make([]string, 0, e.values.Len())
	itr := e.values.Iterator()
	for !itr.Done() {
		name, _, _ := itr.Next()
		names = append(names, name)
	}
	return names
}

func (e *Environment) mapOrEmpty() *immutable.SortedMap[string, Value] {
	if e == nil || e.values == nil {
		return immutable.NewSortedMap[string, Value](nil)
	}
	return e.values
}
