package runtime

import (
	"errors"
	"fmt"

	"glang/interpreter-go/pkg/ast"
)

// ErrorKind classifies runtime errors raised by the execution core.
type ErrorKind int

const (
	ErrVariableNotFound ErrorKind = iota
	ErrTypeConstraint
	ErrMethodNotFound
	ErrArgument
	ErrIndex
	ErrMatch
	ErrZeroDivision
	ErrFrozen
	ErrConfig
	// ErrFault marks interpreter-level faults (e.g. a control signal escaping
	// its construct) that well-formed programs never produce.
	ErrFault
)

func (k ErrorKind) String() string {
	switch k {
	case ErrVariableNotFound:
		return "VariableNotFoundError"
	case ErrTypeConstraint:
		return "TypeConstraintError"
	case ErrMethodNotFound:
		return "MethodNotFoundError"
	case ErrArgument:
		return "ArgumentError"
	case ErrIndex:
		return "IndexError"
	case ErrMatch:
		return "MatchError"
	case ErrZeroDivision:
		return "ZeroDivisionError"
	case ErrFrozen:
		return "FrozenValueError"
	case ErrConfig:
		return "ConfigurationError"
	case ErrFault:
		return "InterpreterFault"
	default:
		return fmt.Sprintf("UnknownError(%d)", int(k))
	}
}

// Error is the runtime error surfaced by the executor. It carries a
// human-readable message and, when available, a source position.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     ast.Position
}

func (e *Error) Error() string {
	if e.Pos.Known() {
		return fmt.Sprintf("%s at line %d:%d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, pos ast.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// IsKind reports whether err is (or wraps) a runtime Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}
