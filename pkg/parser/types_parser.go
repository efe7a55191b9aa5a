package parser

import (
	"github.com/alecthomas/participle/v2/lexer"

	"fun/interpreter-go/pkg/ast"
)

// type := tatom [ "->" type ]; arrows associate to the right.
type typeNode struct {
	Pos  lexer.Position
	From *typeAtom `@@`
	To   *typeNode `( "->" @@ )?`
}

// tatom := IDENT | "(" type ")"
type typeAtom struct {
	Pos   lexer.Position
	Name  *string    `  @Ident`
	Paren *parenType `| @@`
}

type parenType struct {
	Type  *typeNode   `"(" @@`
	Close *closeParen `@@`
}

func (n *typeNode) build() (ast.Type, ast.Position, error) {
	from, end, err := n.From.build()
	if err != nil || n.To == nil {
		return from, end, err
	}
	to, end, err := n.To.build()
	if err != nil {
		return nil, ast.Position{}, err
	}
	return spanned(ast.NewFunctionType(from, to), position(n.Pos), end), end, nil
}

func (n *typeAtom) build() (ast.Type, ast.Position, error) {
	if n.Name != nil {
		end := after(n.Pos, *n.Name)
		return spanned(ast.NewSimpleType(*n.Name), position(n.Pos), end), end, nil
	}
	typ, _, err := n.Paren.Type.build()
	if err != nil {
		return nil, ast.Position{}, err
	}
	return typ, after(n.Paren.Close.Pos, ")"), nil
}
