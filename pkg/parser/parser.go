package parser

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"fun/interpreter-go/pkg/ast"
)

// Error is a lexical or syntax error at a source location.
type Error struct {
	Span    ast.Span
	Message string
}

func (e *Error) Error() string {
	if e.Span.Start.IsZero() {
		return fmt.Sprintf("parser: %s", e.Message)
	}
	return fmt.Sprintf("parser: %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

func newError(span ast.Span, format string, args ...any) *Error {
	return &Error{Span: span, Message: fmt.Sprintf(format, args...)}
}

var options = []participle.Option{
	participle.Lexer(funLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
}

var (
	programParser = participle.MustBuild[programNode](options...)
	termParser    = participle.MustBuild[termNode](options...)
	typeParser    = participle.MustBuild[typeNode](options...)
)

// ParseProgram parses a source file into its top-level declarations, in
// source order. Every node carries the span it was parsed from.
func ParseProgram(source []byte) ([]ast.Decl, error) {
	tree, err := programParser.ParseBytes("", source)
	if err != nil {
		return nil, syntaxError(err)
	}
	return tree.build()
}

// ParseTerm parses a single term spanning the whole input.
func ParseTerm(source []byte) (ast.Term, error) {
	tree, err := termParser.ParseBytes("", source)
	if err != nil {
		return nil, syntaxError(err)
	}
	term, _, err := tree.build()
	return term, err
}

// ParseType parses a single type expression spanning the whole input.
func ParseType(source []byte) (ast.Type, error) {
	tree, err := typeParser.ParseBytes("", source)
	if err != nil {
		return nil, syntaxError(err)
	}
	typ, _, err := tree.build()
	return typ, err
}

// syntaxError converts participle's lexer and parser errors into *Error.
func syntaxError(err error) error {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		start := position(lexErr.Pos)
		return &Error{Span: ast.Span{Start: start, End: start}, Message: lexErr.Msg}
	}
	var parseErr participle.Error
	if errors.As(err, &parseErr) {
		start := position(parseErr.Position())
		return &Error{Span: ast.Span{Start: start, End: start}, Message: parseErr.Message()}
	}
	return &Error{Message: err.Error()}
}

// spanned stamps node with the span from start to end.
func spanned[T ast.Node](node T, start, end ast.Position) T {
	ast.SetSpan(node, ast.Span{Start: start, End: end})
	return node
}
