package driver

import (
	"errors"
	"fmt"

	"fun/interpreter-go/pkg/ast"
	"fun/interpreter-go/pkg/parser"
	"fun/interpreter-go/pkg/typechecker"
)

// Diagnostic is a user-facing failure tied to a source file and, when
// known, a location in it.
type Diagnostic struct {
	Path    string
	Span    ast.Span
	Message string
	Err     error
}

func (d *Diagnostic) Error() string {
	switch {
	case d.Path != "" && !d.Span.Start.IsZero():
		return fmt.Sprintf("%s:%d:%d: %s", d.Path, d.Span.Start.Line, d.Span.Start.Column, d.Message)
	case d.Path != "":
		return fmt.Sprintf("%s: %s", d.Path, d.Message)
	default:
		return d.Message
	}
}

func (d *Diagnostic) Unwrap() error { return d.Err }

// diagnosticFor wraps err, preferring the span of the term a typing failure
// points at over the fallback span of the enclosing declaration.
func diagnosticFor(path string, fallback ast.Span, err error) *Diagnostic {
	span := fallback
	var typingErr typechecker.Error
	if errors.As(err, &typingErr) && typingErr.Node() != nil {
		if s := typingErr.Node().Span(); !s.Start.IsZero() {
			span = s
		}
	}
	var parseErr *parser.Error
	if errors.As(err, &parseErr) {
		return &Diagnostic{Path: path, Span: parseErr.Span, Message: parseErr.Message, Err: err}
	}
	return &Diagnostic{Path: path, Span: span, Message: err.Error(), Err: err}
}
