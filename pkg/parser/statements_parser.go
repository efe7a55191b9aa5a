package parser

import (
	"github.com/alecthomas/participle/v2/lexer"

	"fun/interpreter-go/pkg/ast"
)

// block := "{" [ stmt { ";" stmt } [";"] ] "}"
type blockNode struct {
	Pos   lexer.Position
	Stmts []*stmtNode `"{" ( @@ ( ";" @@ )* ";"? )?`
	Close *closeBrace `@@`
}

// stmt := "let" IDENT "=" term | term
type stmtNode struct {
	Pos  lexer.Position
	Let  *bindingNode `  "let" @@`
	Term *termNode    `| @@`
}

func (n *blockNode) build() (ast.Term, ast.Position, error) {
	stmts := make([]ast.Stmt, 0, len(n.Stmts))
	for _, s := range n.Stmts {
		stmt, err := s.build()
		if err != nil {
			return nil, ast.Position{}, err
		}
		stmts = append(stmts, stmt)
	}
	end := after(n.Close.Pos, "}")
	return spanned(ast.NewSeq(stmts), position(n.Pos), end), end, nil
}

func (n *stmtNode) build() (ast.Stmt, error) {
	start := position(n.Pos)
	if n.Let != nil {
		term, end, err := n.Let.Term.build()
		if err != nil {
			return nil, err
		}
		return spanned(ast.NewLetStmt(n.Let.Name, term), start, end), nil
	}
	term, end, err := n.Term.build()
	if err != nil {
		return nil, err
	}
	return spanned(ast.NewExprStmt(term), start, end), nil
}
