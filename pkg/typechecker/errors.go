package typechecker

import (
	"fmt"

	"fun/interpreter-go/pkg/ast"
)

// Error is implemented by every typing failure. Node is the term the failure
// was reported against and carries its source span when parsed.
type Error interface {
	error
	Node() ast.Node
}

// UndefinedError reports a variable not bound in the typing environment.
type UndefinedError struct {
	Name string
	Term ast.Term
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("variable %q isn't defined", e.Name)
}

func (e *UndefinedError) Node() ast.Node { return e.Term }

// MismatchError reports two types that were required to be equal.
type MismatchError struct {
	Expected ast.Type
	Actual   ast.Type
	Term     ast.Term
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected type %q but found %q", e.Expected.String(), e.Actual.String())
}

func (e *MismatchError) Node() ast.Node { return e.Term }

// ExpectedError reports a term whose type has the wrong shape, such as a
// non-function in operator position.
type ExpectedError struct {
	What   string
	Actual ast.Type
	Term   ast.Term
}

func (e *ExpectedError) Error() string {
	return fmt.Sprintf("expected %s but found %q", e.What, e.Actual.String())
}

func (e *ExpectedError) Node() ast.Node { return e.Term }

// ExpectedArrow is the shape description used for application operators.
const ExpectedArrow = "arrow type"
