package interpreter

import (
	"errors"
	"fmt"

	"fun/interpreter-go/pkg/runtime"
)

// EvaluationError is a failure raised by a native function during evaluation.
type EvaluationError struct {
	Function string
	Message  string
	Err      error
}

func (e *EvaluationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Function == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Function, msg)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// NewEvaluationError is the error natives return for a failed host operation.
func NewEvaluationError(format string, args ...any) *EvaluationError {
	return &EvaluationError{Message: fmt.Sprintf(format, args...)}
}

func wrapNativeError(fn *runtime.NativeFunctionValue, err error) error {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Function == "" {
			return &EvaluationError{Function: fn.Name, Message: evalErr.Message, Err: evalErr.Err}
		}
		return err
	}
	return &EvaluationError{Function: fn.Name, Err: err}
}

// ProgramErrorKind tags the phase that produced a ProgramError.
type ProgramErrorKind int

const (
	TypingFailure ProgramErrorKind = iota
	EvaluationFailure
)

func (k ProgramErrorKind) String() string {
	switch k {
	case TypingFailure:
		return "type error"
	case EvaluationFailure:
		return "evaluation error"
	default:
		return fmt.Sprintf("program_error_%d", int(k))
	}
}

// ProgramError wraps the typing or evaluation failure of a combined
// type-then-evaluate run.
type ProgramError struct {
	Kind ProgramErrorKind
	Err  error
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ProgramError) Unwrap() error { return e.Err }
