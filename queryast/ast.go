// Package queryast parses a query-language document into a typed AST and
// extracts its directives.
package queryast

import "go.appointy.com/graphwalk/value"

// Position is a source-offset marker, carried on every directive so
// diagnostics can point at the right place in the original text.
type Position struct {
	Start int
	End   int
}

// DirectiveKind identifies which of the seven recognized directives a
// Directive value represents.
type DirectiveKind int

const (
	DirectiveFilter DirectiveKind = iota
	DirectiveTag
	DirectiveOutput
	DirectiveOptional
	DirectiveFold
	DirectiveRecurse
	DirectiveTransform
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveFilter:
		return "filter"
	case DirectiveTag:
		return "tag"
	case DirectiveOutput:
		return "output"
	case DirectiveOptional:
		return "optional"
	case DirectiveFold:
		return "fold"
	case DirectiveRecurse:
		return "recurse"
	case DirectiveTransform:
		return "transform"
	default:
		return "unknown"
	}
}

// FilterOps is the fixed operator vocabulary accepted by @filter.
var FilterOps = map[string]bool{
	"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"in_collection": true, "not_in_collection": true,
	"contains": true, "not_contains": true,
	"has_prefix": true, "has_suffix": true, "has_substring": true,
	"regex": true, "one_of": true,
	"is_null": true, "is_not_null": true,
}

// ArgRefKind distinguishes a filter argument bound to a query variable from
// one bound to a previously-tagged value.
type ArgRefKind int

const (
	ArgVariable ArgRefKind = iota
	ArgTag
)

// ArgRef is a single @filter value entry: a reference to either a
// "$variable" or a "%tag".
type ArgRef struct {
	Kind ArgRefKind
	Name string
}

// ArgValue is an edge-traversal argument: either bound to a query variable
// or a constant literal value.
type ArgValue struct {
	IsVariable bool
	VarName    string
	Literal    value.Value
}

// Directive is one parsed directive instance attached to a field.
type Directive struct {
	Kind DirectiveKind
	Pos  Position

	// Name is the explicit @tag(name: ...)/@output(name: ...) argument, or
	// "" when omitted (the frontend fills in the default).
	Name string

	// FilterOp/FilterArgs populate DirectiveFilter.
	FilterOp   string
	FilterArgs []ArgRef

	// RecurseDepth populates DirectiveRecurse; >= 1.
	RecurseDepth int64

	// TransformOp populates DirectiveTransform; currently only "count".
	TransformOp string
}

// Child pairs an edge in the tree with the FieldNode it leads to. It exists
// as a distinct type (rather than a bare []*FieldNode) so that a future
// per-edge annotation unrelated to the field itself has somewhere to live;
// today it carries no data beyond the field.
type Child struct {
	Field *FieldNode
}

// FieldNode is a field in the query AST: a name plus optional output alias,
// optional type-coercion annotation, its directives, the edge-traversal
// arguments written at this field (e.g. `Top(max: 3)`), and an ordered
// list of children. The query root is itself a FieldNode, so its
// own entry-point arguments are carried the same way as any other field's.
type FieldNode struct {
	Name  string
	Alias string // "" if no explicit alias
	Pos   Position

	// Coercion is the target type name of a "... on T" applied directly
	// under this field, or "" if none.
	Coercion string

	Args       map[string]ArgValue
	Directives []Directive
	Children   []Child

	// DuplicateArgs lists argument names that appeared more than once in
	// this field's argument list, in source order of their repeat
	// occurrence. Args itself only keeps the last occurrence of each
	// name; frontend's edge-parameter lowering consults DuplicateArgs to
	// reject the duplicate instead of silently accepting it.
	DuplicateArgs []string
}

// OutputAlias returns the name this field would be known as downstream:
// its alias if present, else its own name.
func (f *FieldNode) OutputAlias() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Query is a fully parsed query document: its single root field and the
// declared variables (name -> declared type), used for argument validation
// at execution time.
type Query struct {
	Root      *FieldNode
	Variables map[string]VariableDecl
}

// VariableDecl is a `$name: Type` declaration on the query's operation.
type VariableDecl struct {
	Name string
	Type value.Type
}
