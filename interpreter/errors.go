package interpreter

import (
	"fmt"

	"github.com/google/uuid"
)

// ArgumentErrorKind enumerates the ways a caller's argument map can fail
// validation against an IRQuery's declared Variables; validation happens
// before any row is produced.
type ArgumentErrorKind int

const (
	MissingArgument ArgumentErrorKind = iota
	UnusedArgument
	TypeMismatch
	InvalidRegexPattern
)

// QueryArgumentsError reports every argument problem found in one pass,
// rather than failing on the first.
type QueryArgumentsError struct {
	Kind []ArgumentErrorKind
	Name []string
}

func (e *QueryArgumentsError) Error() string {
	if len(e.Name) == 1 {
		return fmt.Sprintf("argument %q: %s", e.Name[0], argKindMessage(e.Kind[0]))
	}
	return fmt.Sprintf("%d argument errors", len(e.Name))
}

func (e *QueryArgumentsError) add(kind ArgumentErrorKind, name string) {
	e.Kind = append(e.Kind, kind)
	e.Name = append(e.Name, name)
}

func argKindMessage(k ArgumentErrorKind) string {
	switch k {
	case MissingArgument:
		return "required argument was not supplied"
	case UnusedArgument:
		return "argument does not correspond to any variable referenced in the query"
	case TypeMismatch:
		return "supplied value does not match the variable's declared type"
	case InvalidRegexPattern:
		return "supplied value is not a valid regular expression pattern"
	default:
		return "invalid"
	}
}

// RuntimeError wraps a failure that ends execution after argument
// validation — an adapter iteration error, a filter that cannot be
// evaluated, an unresolvable __typename, or ctx cancellation — with a
// correlation id generated when the error is wrapped. It arrives at the
// caller as the terminating item of the row stream. The id is not passed
// to the adapter.
type RuntimeError struct {
	CorrelationID string
	Err           error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("adapter error (correlation %s): %v", e.CorrelationID, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func wrapAdapterError(err error) error {
	if err == nil {
		return nil
	}
	return &RuntimeError{CorrelationID: uuid.NewString(), Err: err}
}
