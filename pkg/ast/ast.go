package ast

import (
	"fmt"
	"strings"
)

type NodeType string

const (
	NodeVar            NodeType = "Var"
	NodeAbs            NodeType = "Abs"
	NodeApp            NodeType = "App"
	NodeIntLiteral     NodeType = "IntLiteral"
	NodeIf             NodeType = "If"
	NodeSeq            NodeType = "Seq"
	NodeExprStatement  NodeType = "ExprStatement"
	NodeLetStatement   NodeType = "LetStatement"
	NodeSimpleType     NodeType = "SimpleType"
	NodeFunctionType   NodeType = "FunctionType"
	NodeLetDeclaration NodeType = "LetDeclaration"
	NodeTypeDecl       NodeType = "TypeDeclaration"
)

// Placeholder is the parameter name that binds nothing.
const Placeholder = "_"

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) IsZero() bool { return p.Line == 0 && p.Column == 0 }

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces.

// Term is an expression node. Terms own their subterms exclusively.
type Term interface {
	Node
	fmt.Stringer
	termNode()
}

type termMarker struct{}

func (termMarker) termNode() {}

// Stmt is one element of a Seq: a bare term or a let binding.
type Stmt interface {
	Node
	fmt.Stringer
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Terms

type Var struct {
	nodeImpl
	termMarker

	Name string `json:"name"`
}

func NewVar(name string) *Var {
	return &Var{nodeImpl: newNodeImpl(NodeVar), Name: name}
}

func (v *Var) String() string { return v.Name }

// Abs is a single-argument function with an explicit parameter annotation.
type Abs struct {
	nodeImpl
	termMarker

	Param     string `json:"param"`
	ParamType Type   `json:"paramType"`
	Body      Term   `json:"body"`
}

func NewAbs(param string, paramType Type, body Term) *Abs {
	return &Abs{nodeImpl: newNodeImpl(NodeAbs), Param: param, ParamType: paramType, Body: body}
}

// BindsParam reports whether applying the abstraction introduces a binding.
func (a *Abs) BindsParam() bool { return a.Param != Placeholder }

func (a *Abs) String() string {
	return fmt.Sprintf("(fun %s:%s => %s)", a.Param, a.ParamType, a.Body)
}

type App struct {
	nodeImpl
	termMarker

	Func Term `json:"func"`
	Arg  Term `json:"arg"`
}

func NewApp(fn Term, arg Term) *App {
	return &App{nodeImpl: newNodeImpl(NodeApp), Func: fn, Arg: arg}
}

func (a *App) String() string { return fmt.Sprintf("(%s %s)", a.Func, a.Arg) }

type IntLiteral struct {
	nodeImpl
	termMarker

	Value int32 `json:"value"`
}

func NewIntLiteral(value int32) *IntLiteral {
	return &IntLiteral{nodeImpl: newNodeImpl(NodeIntLiteral), Value: value}
}

func (i *IntLiteral) String() string { return fmt.Sprintf("%d", i.Value) }

type If struct {
	nodeImpl
	termMarker

	Cond Term `json:"cond"`
	Then Term `json:"then"`
	Else Term `json:"else"`
}

func NewIf(cond Term, then Term, els Term) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf), Cond: cond, Then: then, Else: els}
}

func (i *If) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", i.Cond, i.Then, i.Else)
}

// Seq evaluates its statements in order; let bindings are visible to the
// statements that follow them only.
type Seq struct {
	nodeImpl
	termMarker

	Stmts []Stmt `json:"stmts"`
}

func NewSeq(stmts []Stmt) *Seq {
	return &Seq{nodeImpl: newNodeImpl(NodeSeq), Stmts: stmts}
}

func (s *Seq) String() string {
	if len(s.Stmts) == 0 {
		return "{}"
	}
	parts := make([]string, len(s.Stmts))
	for i, stmt := range s.Stmts {
		parts[i] = stmt.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// Statements

type ExprStmt struct {
	nodeImpl
	statementMarker

	Term Term `json:"term"`
}

func NewExprStmt(term Term) *ExprStmt {
	return &ExprStmt{nodeImpl: newNodeImpl(NodeExprStatement), Term: term}
}

func (s *ExprStmt) String() string { return s.Term.String() }

type LetStmt struct {
	nodeImpl
	statementMarker

	Name string `json:"name"`
	Term Term   `json:"term"`
}

func NewLetStmt(name string, term Term) *LetStmt {
	return &LetStmt{nodeImpl: newNodeImpl(NodeLetStatement), Name: name, Term: term}
}

func (s *LetStmt) String() string { return fmt.Sprintf("let %s = %s", s.Name, s.Term) }
