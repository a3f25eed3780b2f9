package queryast

import "fmt"

// Kind enumerates the closed set of ways a query document can fail to
// parse into a well-formed AST.
type Kind int

const (
	KindSyntaxError Kind = iota
	KindMultipleOperations
	KindUnsupportedOperationType
	KindFragmentDefinitionNotSupported
	KindFragmentSpreadNotSupported
	KindMultipleRootFields
	KindMissingRootField
	KindCoercionNotSoleChild
	KindNestedCoercion
	KindDuplicateDirective
	KindUnrecognizedDirective
	KindInvalidDirectiveArguments
	KindInvalidNameArgument
	KindUnknownFilterOperator
	KindInvalidFilterValue
	KindInvalidRecurseDepth
	KindUnsupportedTransformOp
	KindDirectiveOnCoercion
	KindMultipleErrors
)

// Error is a queryast-phase error.
type Error struct {
	Kind    Kind
	Message string
	Pos     Position
	Errors  []*Error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindSyntaxError:
		return fmt.Sprintf("syntax error: %s", e.Message)
	case KindMultipleOperations:
		return "query document must contain exactly one operation"
	case KindUnsupportedOperationType:
		return fmt.Sprintf("unsupported operation type: %s", e.Message)
	case KindFragmentDefinitionNotSupported:
		return "named fragment definitions are not supported; use an inline `... on T` coercion"
	case KindFragmentSpreadNotSupported:
		return "fragment spreads are not supported; use an inline `... on T` coercion"
	case KindMultipleRootFields:
		return "query operation must select exactly one root field"
	case KindMissingRootField:
		return "query operation selects no root field"
	case KindCoercionNotSoleChild:
		return "a type coercion (`... on T`) must be the sole selection under its parent field"
	case KindNestedCoercion:
		return "a type coercion cannot directly contain another type coercion"
	case KindDuplicateDirective:
		return fmt.Sprintf("directive @%s may not be repeated on the same field", e.Message)
	case KindUnrecognizedDirective:
		return fmt.Sprintf("@%s is not a recognized directive", e.Message)
	case KindInvalidDirectiveArguments:
		return fmt.Sprintf("directive @%s: %s", e.Message, "invalid arguments")
	case KindInvalidNameArgument:
		return fmt.Sprintf("invalid name argument: %s", e.Message)
	case KindUnknownFilterOperator:
		return fmt.Sprintf("unknown @filter operator %q", e.Message)
	case KindInvalidFilterValue:
		return fmt.Sprintf("invalid @filter value entry: %s", e.Message)
	case KindInvalidRecurseDepth:
		return "@recurse depth must be an integer >= 1"
	case KindUnsupportedTransformOp:
		return fmt.Sprintf("unsupported @transform operation %q", e.Message)
	case KindDirectiveOnCoercion:
		return "directives are not supported on a `... on T` coercion"
	case KindMultipleErrors:
		return fmt.Sprintf("%d errors parsing query document", len(e.Errors))
	default:
		return e.Message
	}
}

func parseError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
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
