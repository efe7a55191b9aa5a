package runtime

import (
	"reflect"
	"testing"
)

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment().Define("answer", IntegerValue{Val: 42})

	got, ok := env.Get("answer")
	if !ok {
		t.Fatalf("expected to retrieve binding")
	}
	if iv, ok := got.(IntegerValue); !ok || iv.Val != 42 {
		t.Fatalf("unexpected value returned: %#v", got)
	}
	if _, ok := env.Get("missing"); ok {
		t.Fatalf("expected miss for unbound name")
	}
}

func TestEnvironmentDefineLeavesReceiverUnchanged(t *testing.T) {
	base := NewEnvironment().Define("x", IntegerValue{Val: 1})
	derived := base.Define("x", IntegerValue{Val: 2}).Define("y", BoolValue{Val: true})

	if got, _ := base.Get("x"); got.(IntegerValue).Val != 1 {
		t.Fatalf("base environment observed shadowing: %#v", got)
	}
	if _, ok := base.Get("y"); ok {
		t.Fatalf("base environment observed later binding")
	}
	if got, _ := derived.Get("x"); got.(IntegerValue).Val != 2 {
		t.Fatalf("derived environment lost shadowing binding: %#v", got)
	}
	if base.Len() != 1 || derived.Len() != 2 {
		t.Fatalf("unexpected sizes: base=%d derived=%d", base.Len(), derived.Len())
	}
}

func TestEnvironmentSiblingsDoNotInterfere(t *testing.T) {
	root := NewEnvironment().Define("shared", UnitValue{})
	left := root.Define("side", IntegerValue{Val: 1})
	right := root.Define("side", IntegerValue{Val: 2})

	if got, _ := left.Get("side"); got.(IntegerValue).Val != 1 {
		t.Fatalf("left sibling saw right binding: %#v", got)
	}
	if got, _ := right.Get("side"); got.(IntegerValue).Val != 2 {
		t.Fatalf("right sibling saw left binding: %#v", got)
	}
	if _, ok := root.Get("side"); ok {
		t.Fatalf("root saw sibling binding")
	}
}

func TestEnvironmentNamesSorted(t *testing.T) {
	env := NewEnvironment().Define("b", UnitValue{}).Define("a", UnitValue{}).Define("c", UnitValue{})
	if got, want := env.Names(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestNilEnvironmentBehavesEmpty(t *testing.T) {
	var env *Environment
	if _, ok := env.Get("x"); ok {
		t.Fatalf("nil environment returned a binding")
	}
	if env.Len() != 0 || env.Names() != nil {
		t.Fatalf("nil environment not empty")
	}
	extended := env.Define("x", UnitValue{})
	if _, ok := extended.Get("x"); !ok {
		t.Fatalf("define on nil environment lost binding")
	}
}
