package parser

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"fun/interpreter-go/pkg/ast"
)

// funLexer tokenizes source text. Keywords get their own token type so they
// never match as identifiers; integers swallow trailing identifier
// characters so that "12ab" is reported as one malformed literal.
var funLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Keyword", Pattern: `(?:let|type|fun|if|then|else)\b`},
	{Name: "Int", Pattern: `[0-9][0-9A-Za-z_']*`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_']*`},
	{Name: "Punct", Pattern: `=>|->|[(){}:,;=]`},
})

func position(pos lexer.Position) ast.Position {
	return ast.Position{Line: pos.Line, Column: pos.Column}
}

// after is the position just past text starting at pos. Tokens never span
// lines.
func after(pos lexer.Position, text string) ast.Position {
	return ast.Position{Line: pos.Line, Column: pos.Column + len(text)}
}

func parseIntLiteral(text string, span ast.Span) (int32, error) {
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return 0, newError(span, "malformed integer literal")
		}
	}
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, newError(span, "integer literal %s does not fit in 32 bits", text)
	}
	return int32(n), nil
}

// closeParen and closeBrace record where a bracketed construct ends.
type closeParen struct {
	Pos   lexer.Position
	Token string `@")"`
}

type closeBrace struct {
	Pos   lexer.Position
	Token string `@"}"`
}
