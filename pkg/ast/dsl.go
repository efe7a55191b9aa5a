package ast

// Type helpers.

func Ty(name string) *SimpleType {
	return NewSimpleType(name)
}

func IntType() *SimpleType  { return Ty(TypeNameInt) }
func BoolType() *SimpleType { return Ty(TypeNameBool) }
func UnitType() *SimpleType { return Ty(TypeNameUnit) }

// Arrow builds a right-associative function type: Arrow(a, b, c) is
// a -> (b -> c).
func Arrow(from Type, to Type, more ...Type) *FunctionType {
	if len(more) == 0 {
		return NewFunctionType(from, to)
	}
	return NewFunctionType(from, Arrow(to, more[0], more[1:]...))
}

// Term helpers.

func V(name string) *Var {
	return NewVar(name)
}

func Int(value int32) *IntLiteral {
	return NewIntLiteral(value)
}

func Fun(param string, paramType Type, body Term) *Abs {
	return NewAbs(param, paramType, body)
}

// Param pairs a parameter name with its annotation for FunN.
type Param struct {
	Name string
	Type Type
}

func P(name string, typ Type) Param {
	return Param{Name: name, Type: typ}
}

// FunN nests single-argument abstractions, outermost parameter first.
func FunN(params []Param, body Term) Term {
	out := body
	for i := len(params) - 1; i >= 0; i-- {
		out = NewAbs(params[i].Name, params[i].Type, out)
	}
	return out
}

// Call applies fn to the arguments left to right: Call(f, a, b) is ((f a) b).
func Call(fn Term, args ...Term) Term {
	out := fn
	for _, arg := range args {
		out = NewApp(out, arg)
	}
	return out
}

func IfExpr(cond Term, then Term, els Term) *If {
	return NewIf(cond, then, els)
}

func Block(stmts ...Stmt) *Seq {
	return NewSeq(stmts)
}

// Statement helpers.

func Let(name string, term Term) *LetStmt {
	return NewLetStmt(name, term)
}

func Do(term Term) *ExprStmt {
	return NewExprStmt(term)
}

// Declaration helpers.

func LetD(name string, term Term) *LetDecl {
	return NewLetDecl(name, term)
}

func TypeD(name string, typ Type) *TypeDecl {
	return NewTypeDecl(name, typ)
}
