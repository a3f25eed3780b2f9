package schema

import (
	"fmt"
	"strings"
)

// Kind enumerates the closed set of schema-construction failures.
type Kind int

const (
	KindParseError Kind = iota
	KindCircularImplementsRelationships
	KindMissingRequiredInheritedField
	KindFieldTypeIncompatibleWithInterface
	KindInvalidDirectivePlacement
	KindUnknownDirective
	KindInvalidTypeReference
	KindMultipleErrors
)

// Error is the schema package's error type: a Kind tag plus enough context
// to format a useful message, and (for KindMultipleErrors) the aggregated
// list of independent failures collected from one parse.
type Error struct {
	Kind Kind

	// Message is a human-readable description, always set for leaf errors.
	Message string

	// TypeNames is populated for KindCircularImplementsRelationships with
	// the offending cycle's member type names.
	TypeNames []string

	// Type/Field/Interface are populated for field-compatibility and
	// directive-placement errors.
	Type      string
	Field     string
	Interface string

	// Errors holds the aggregated list for KindMultipleErrors; nil
	// otherwise.
	Errors []*Error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindCircularImplementsRelationships:
		return fmt.Sprintf("circular implements relationship among types: %s", strings.Join(e.TypeNames, ", "))
	case KindMissingRequiredInheritedField:
		return fmt.Sprintf("type %q implementing %q is missing required field %q", e.Type, e.Interface, e.Field)
	case KindFieldTypeIncompatibleWithInterface:
		return fmt.Sprintf("type %q field %q is incompatible with interface %q's declaration", e.Type, e.Field, e.Interface)
	case KindInvalidDirectivePlacement:
		return fmt.Sprintf("invalid directive placement: %s", e.Message)
	case KindUnknownDirective:
		return fmt.Sprintf("unknown directive: %s", e.Message)
	case KindInvalidTypeReference:
		return fmt.Sprintf("invalid type reference: %s", e.Message)
	case KindMultipleErrors:
		parts := make([]string, len(e.Errors))
		for i, sub := range e.Errors {
			parts[i] = sub.Error()
		}
		return fmt.Sprintf("%d schema errors: %s", len(e.Errors), strings.Join(parts, "; "))
	default:
		return e.Message
	}
}

func parseError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindParseError, Message: fmt.Sprintf(format, args...)}
}

// aggregate collects zero or more non-nil errors into a single error: nil if
// empty, the lone error if exactly one, or a KindMultipleErrors wrapper
// otherwise, so the caller sees every problem at once.
func aggregate(errs []*Error) *Error {
	var nonNil []*Error
	for _, e := range errs {
		if e != nil {
			nonNil = append(nonNil, e)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return &Error{Kind: KindMultipleErrors, Errors: nonNil}
	}
}
