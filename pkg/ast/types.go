package ast

import "fmt"

// Type expressions

// Type is either an atomic named type or a function arrow. Types are
// immutable after construction and compared structurally.
type Type interface {
	Node
	fmt.Stringer
	typeNode()
}

type typeMarker struct{}

func (typeMarker) typeNode() {}

type SimpleType struct {
	nodeImpl
	typeMarker

	Name string `json:"name"`
}

func NewSimpleType(name string) *SimpleType {
	return &SimpleType{nodeImpl: newNodeImpl(NodeSimpleType), Name: name}
}

func (s *SimpleType) String() string { return s.Name }

type FunctionType struct {
	nodeImpl
	typeMarker

	From Type `json:"from"`
	To   Type `json:"to"`
}

func NewFunctionType(from Type, to Type) *FunctionType {
	return &FunctionType{nodeImpl: newNodeImpl(NodeFunctionType), From: from, To: to}
}

func (f *FunctionType) String() string { return fmt.Sprintf("(%s -> %s)", f.From, f.To) }

// Well-known atom names.
const (
	TypeNameInt  = "Int"
	TypeNameBool = "Bool"
	TypeNameUnit = "Unit"
)

// TypesEqual compares two types structurally. Spans are ignored.
func TypesEqual(a, b Type) bool {
	switch left := a.(type) {
	case nil:
		return b == nil
	case *SimpleType:
		right, ok := b.(*SimpleType)
		return ok && right != nil && left != nil && left.Name == right.Name
	case *FunctionType:
		right, ok := b.(*FunctionType)
		if !ok || right == nil || left == nil {
			return false
		}
		return TypesEqual(left.From, right.From) && TypesEqual(left.To, right.To)
	default:
		return false
	}
}

// IsNamed reports whether t is the atom with the given name.
func IsNamed(t Type, name string) bool {
	s, ok := t.(*SimpleType)
	return ok && s != nil && s.Name == name
}
