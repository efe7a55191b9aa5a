package parser

import (
	"github.com/alecthomas/participle/v2/lexer"

	"fun/interpreter-go/pkg/ast"
)

// term := "fun" params "=>" term | "if" term "then" term "else" term | app
type termNode struct {
	Pos lexer.Position
	Abs *absNode `  "fun" @@`
	If  *ifNode  `| "if" @@`
	App *appNode `| @@`
}

type absNode struct {
	Params []*paramNode `@@ ( "," @@ )* "=>"`
	Body   *termNode    `@@`
}

type paramNode struct {
	Name string    `@Ident ":"`
	Type *typeNode `@@`
}

type ifNode struct {
	Cond *termNode `@@ "then"`
	Then *termNode `@@ "else"`
	Else *termNode `@@`
}

// app := atom { atom }; application associates to the left.
type appNode struct {
	Head *atomNode   `@@`
	Args []*atomNode `@@*`
}

type atomNode struct {
	Pos   lexer.Position
	Name  *string    `  @Ident`
	Int   *string    `| @Int`
	Paren *parenTerm `| @@`
	Block *blockNode `| @@`
}

type parenTerm struct {
	Term  *termNode   `"(" @@`
	Close *closeParen `@@`
}

// build returns the term together with the position just past its last
// token.
func (n *termNode) build() (ast.Term, ast.Position, error) {
	start := position(n.Pos)
	switch {
	case n.Abs != nil:
		return n.Abs.build(start)
	case n.If != nil:
		cond, _, err := n.If.Cond.build()
		if err != nil {
			return nil, ast.Position{}, err
		}
		then, _, err := n.If.Then.build()
		if err != nil {
			return nil, ast.Position{}, err
		}
		els, end, err := n.If.Else.build()
		if err != nil {
			return nil, ast.Position{}, err
		}
		return spanned(ast.NewIf(cond, then, els), start, end), end, nil
	default:
		return n.App.build(start)
	}
}

// fun x:A, y:B => body is sugar for fun x:A => fun y:B => body. Every
// abstraction spans from "fun" to the end of the body.
func (n *absNode) build(start ast.Position) (ast.Term, ast.Position, error) {
	params := make([]ast.Param, 0, len(n.Params))
	for _, p := range n.Params {
		typ, _, err := p.Type.build()
		if err != nil {
			return nil, ast.Position{}, err
		}
		params = append(params, ast.P(p.Name, typ))
	}
	body, end, err := n.Body.build()
	if err != nil {
		return nil, ast.Position{}, err
	}
	out := body
	for i := len(params) - 1; i >= 0; i-- {
		out = spanned(ast.NewAbs(params[i].Name, params[i].Type, out), start, end)
	}
	return out, end, nil
}

func (n *appNode) build(start ast.Position) (ast.Term, ast.Position, error) {
	out, end, err := n.Head.build()
	if err != nil {
		return nil, ast.Position{}, err
	}
	for _, a := range n.Args {
		arg, argEnd, err := a.build()
		if err != nil {
			return nil, ast.Position{}, err
		}
		end = argEnd
		out = spanned(ast.NewApp(out, arg), start, end)
	}
	return out, end, nil
}

func (n *atomNode) build() (ast.Term, ast.Position, error) {
	start := position(n.Pos)
	switch {
	case n.Name != nil:
		end := after(n.Pos, *n.Name)
		return spanned(ast.NewVar(*n.Name), start, end), end, nil
	case n.Int != nil:
		end := after(n.Pos, *n.Int)
		value, err := parseIntLiteral(*n.Int, ast.Span{Start: start, End: end})
		if err != nil {
			return nil, ast.Position{}, err
		}
		return spanned(ast.NewIntLiteral(value), start, end), end, nil
	case n.Paren != nil:
		term, _, err := n.Paren.Term.build()
		if err != nil {
			return nil, ast.Position{}, err
		}
		return term, after(n.Paren.Close.Pos, ")"), nil
	default:
		return n.Block.build()
	}
}
