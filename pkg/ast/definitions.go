package ast

import "fmt"

// Definitions

// Decl is a top-level declaration.
type Decl interface {
	Node
	fmt.Stringer
	DeclName() string
	declarationNode()
}

type declarationMarker struct{}

func (declarationMarker) declarationNode() {}

type LetDecl struct {
	nodeImpl
	declarationMarker

	Name string `json:"name"`
	Term Term   `json:"term"`
}

func NewLetDecl(name string, term Term) *LetDecl {
	return &LetDecl{nodeImpl: newNodeImpl(NodeLetDeclaration), Name: name, Term: term}
}

func (d *LetDecl) DeclName() string { return d.Name }

func (d *LetDecl) String() string { return fmt.Sprintf("let %s = %s", d.Name, d.Term) }

// TypeDecl introduces a named type. The declaration form is recognised but
// not supported by the driver.
type TypeDecl struct {
	nodeImpl
	declarationMarker

	Name string `json:"name"`
	Typ  Type   `json:"typ"`
}

func NewTypeDecl(name string, typ Type) *TypeDecl {
	return &TypeDecl{nodeImpl: newNodeImpl(NodeTypeDecl), Name: name, Typ: typ}
}

func (d *TypeDecl) DeclName() string { return d.Name }

func (d *TypeDecl) String() string { return fmt.Sprintf("type %s = %s", d.Name, d.Typ) }
