package parser

import (
	"github.com/alecthomas/participle/v2/lexer"

	"fun/interpreter-go/pkg/ast"
)

// program := { decl ";" }
type programNode struct {
	Decls []*declNode `( @@ ";" )*`
}

// decl := "let" IDENT "=" term | "type" IDENT "=" type
type declNode struct {
	Pos   lexer.Position
	Let   *bindingNode `  "let" @@`
	Alias *aliasNode   `| "type" @@`
}

type bindingNode struct {
	Name string    `@Ident "="`
	Term *termNode `@@`
}

type aliasNode struct {
	Name string    `@Ident "="`
	Type *typeNode `@@`
}

func (n *programNode) build() ([]ast.Decl, error) {
	decls := make([]ast.Decl, 0, len(n.Decls))
	for _, d := range n.Decls {
		decl, err := d.build()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func (n *declNode) build() (ast.Decl, error) {
	start := position(n.Pos)
	if n.Alias != nil {
		typ, end, err := n.Alias.Type.build()
		if err != nil {
			return nil, err
		}
		return spanned(ast.NewTypeDecl(n.Alias.Name, typ), start, end), nil
	}
	term, end, err := n.Let.Term.build()
	if err != nil {
		return nil, err
	}
	return spanned(ast.NewLetDecl(n.Let.Name, term), start, end), nil
}
