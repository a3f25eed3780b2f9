// Package gqlerrors unifies the per-phase error types schema, queryast,
// frontend, and interpreter each define into one boundary taxonomy a host
// can render without depending on every internal package's own error
// type.
package gqlerrors

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.appointy.com/graphwalk/frontend"
	"go.appointy.com/graphwalk/interpreter"
	"go.appointy.com/graphwalk/queryast"
	"go.appointy.com/graphwalk/schema"
)

// Kind is the closed set of phases a query can fail at, in the order a
// query actually passes through them.
type Kind int

const (
	KindSchemaError Kind = iota
	KindQueryParseError
	KindFrontendError
	KindArgumentsError
	KindRuntimeError
	KindInternalError
	KindMultipleErrors
)

func (k Kind) String() string {
	switch k {
	case KindSchemaError:
		return "SchemaError"
	case KindQueryParseError:
		return "QueryParseError"
	case KindFrontendError:
		return "FrontendError"
	case KindArgumentsError:
		return "ArgumentsError"
	case KindRuntimeError:
		return "RuntimeError"
	case KindMultipleErrors:
		return "MultipleErrors"
	default:
		return "Unknown"
	}
}

// Error is the boundary error shape: a message, a machine-readable code
// (its Kind's name; KindInternalError is reported as "Unknown"), and the
// field path the error occurred at, if any.
// Its JSON form matches the {message, extensions{code}, paths} shape a
// GraphQL-style error response uses.
type Error struct {
	Kind    Kind
	Message string
	Path    string
	Errors  []*Error

	cause error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

type jsonError struct {
	Message    string            `json:"message"`
	Extensions map[string]string `json:"extensions"`
	Paths      []string          `json:"paths"`
}

// MarshalJSON renders the error the way a GraphQL-style response does:
// `{"message":...,"extensions":{"code":...},"paths":[...]}`.
func (e *Error) MarshalJSON() ([]byte, error) {
	paths := []string{}
	if e.Path != "" {
		paths = append(paths, e.Path)
	}
	return json.Marshal(jsonError{
		Message:    e.Message,
		Extensions: map[string]string{"code": e.Kind.String()},
		Paths:      paths,
	})
}

// Wrap classifies an error from any of schema/queryast/frontend/
// interpreter into the unified boundary shape, or reports KindInternalError
// for anything else (a programming error, not a query-time failure).
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var schemaErr *schema.Error
	if errors.As(err, &schemaErr) {
		return &Error{Kind: KindSchemaError, Message: schemaErr.Error(), cause: err}
	}

	var queryErr *queryast.Error
	if errors.As(err, &queryErr) {
		return &Error{Kind: KindQueryParseError, Message: queryErr.Error(), cause: err}
	}

	var frontendErr *frontend.Error
	if errors.As(err, &frontendErr) {
		return &Error{Kind: KindFrontendError, Message: frontendErr.Error(), Path: frontendErr.Path, cause: err}
	}

	var argsErr *interpreter.QueryArgumentsError
	if errors.As(err, &argsErr) {
		return &Error{Kind: KindArgumentsError, Message: argsErr.Error(), cause: err}
	}

	var runtimeErr *interpreter.RuntimeError
	if errors.As(err, &runtimeErr) {
		return &Error{Kind: KindRuntimeError, Message: runtimeErr.Error(), cause: err}
	}

	return &Error{Kind: KindInternalError, Message: err.Error(), cause: err}
}

// Aggregate combines several errors into one KindMultipleErrors wrapper, or
// returns the single wrapped error unchanged when there's only one.
func Aggregate(errs []error) *Error {
	wrapped := make([]*Error, 0, len(errs))
	for _, err := range errs {
		if w := Wrap(err); w != nil {
			wrapped = append(wrapped, w)
		}
	}
	if len(wrapped) == 0 {
		return nil
	}
	if len(wrapped) == 1 {
		return wrapped[0]
	}
	return &Error{Kind: KindMultipleErrors, Message: fmt.Sprintf("%d errors", len(wrapped)), Errors: wrapped}
}
