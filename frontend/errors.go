// Package frontend validates a parsed query document against a schema and
// lowers it to the IR.
package frontend

import "fmt"

// Kind enumerates the closed taxonomy of ways schema-validation or
// IR-lowering can reject a query.
type Kind int

const (
	KindNonExistentPath Kind = iota
	KindCannotCoerceNonInterfaceType
	KindCannotCoerceToUnrelatedType
	KindMultipleQueryRoots
	KindPropertyMetaFieldUsedAsEdge
	KindUndefinedTag
	KindTagUsedBeforeDefinition
	KindTagDefinedInsideFold
	KindDuplicatedEdgeParameter
	KindUnknownEdgeParameter
	KindMissingEdgeParameter
	KindInappropriateTypeForDirectiveArgument
	KindDuplicateOutputName
	KindInvalidRecurseTarget
	KindMultipleErrors
)

// Error is a frontend-phase error.
type Error struct {
	Kind    Kind
	Path    string
	Name    string
	Message string
	Errors  []*Error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNonExistentPath:
		return fmt.Sprintf("field %q does not exist at %s", e.Name, e.Path)
	case KindCannotCoerceNonInterfaceType:
		return fmt.Sprintf("cannot coerce at %s: source type is not an interface", e.Path)
	case KindCannotCoerceToUnrelatedType:
		return fmt.Sprintf("cannot coerce at %s to %q: type does not implement the source interface", e.Path, e.Name)
	case KindMultipleQueryRoots:
		return "query operation must select exactly one root field"
	case KindPropertyMetaFieldUsedAsEdge:
		return fmt.Sprintf("%q is a property field and cannot have a selection set", e.Name)
	case KindUndefinedTag:
		return fmt.Sprintf("undefined tag %q", e.Name)
	case KindTagUsedBeforeDefinition:
		return fmt.Sprintf("tag %q is used before it is defined", e.Name)
	case KindTagDefinedInsideFold:
		return fmt.Sprintf("tag %q is defined inside a fold not enclosing this use", e.Name)
	case KindDuplicatedEdgeParameter:
		return fmt.Sprintf("duplicated edge parameter %q at %s", e.Name, e.Path)
	case KindUnknownEdgeParameter:
		return fmt.Sprintf("unknown edge parameter %q at %s", e.Name, e.Path)
	case KindMissingEdgeParameter:
		return fmt.Sprintf("missing required edge parameter %q at %s", e.Name, e.Path)
	case KindInappropriateTypeForDirectiveArgument:
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	case KindDuplicateOutputName:
		return fmt.Sprintf("duplicate output name %q", e.Name)
	case KindInvalidRecurseTarget:
		return fmt.Sprintf("@recurse at %s: edge target is not compatible with its source type", e.Path)
	case KindMultipleErrors:
		return fmt.Sprintf("%d errors lowering query", len(e.Errors))
	default:
		return e.Message
	}
}

func newError(kind Kind, path, name, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Path: path, Name: name, Message: fmt.Sprintf(format, args...)}
}

func aggregate(errs []*Error) *Error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return &Error{Kind: KindMultipleErrors, Errors: errs}
}
