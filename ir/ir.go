// Package ir defines the linearized, indexed intermediate representation
// the frontend compiles a query down to, and that the interpreter walks.
package ir

import "go.appointy.com/graphwalk/value"

// Vid is a vertex id: a monotonically increasing, pre-order-assigned
// identifier for an occurrence of a vertex-shaped scope in the query.
type Vid int

// Eid is an edge id: a monotonically increasing identifier for a single
// traversal in the query.
type Eid int

// ArgumentKind distinguishes a lowered argument bound to a query variable
// from one bound to a tag capture.
type ArgumentKind int

const (
	ArgVariable ArgumentKind = iota
	ArgTag
)

// Argument is a lowered reference used as a filter's right-hand operand:
// either a named query variable or a tag capture. Edge parameters use
// EdgeParam instead.
type Argument struct {
	Kind ArgumentKind
	Name string
}

// Filter is one lowered `@filter` predicate on a vertex: an operand
// property name, the fixed-vocabulary operator, and its argument (nil for
// `is_null`/`is_not_null`, which take none).
type Filter struct {
	Operand  string
	Operator string
	Argument *Argument
}

// IRVertex is one vertex-shaped scope: its declared type, the filters
// attached to it (in the order they appeared in the query), and an
// optional type-coercion target.
type IRVertex struct {
	Vid      Vid
	TypeName string
	Coercion string // "" if this vertex carries no "... on T" coercion
	Filters  []Filter
}

// EdgeParam is one lowered edge-traversal argument: either bound to a
// query variable or a constant literal, combined with the schema's
// declared defaults during lowering.
type EdgeParam struct {
	IsVariable bool
	VarName    string
	Literal    value.Value
}

// IREdge is one traversal from a source vertex to a target vertex along a
// named edge field.
type IREdge struct {
	Eid        Eid
	From       Vid
	To         Vid
	Name       string
	Parameters map[string]EdgeParam

	Optional     bool
	Recurse      bool
	RecurseDepth int64
	Fold         bool
}

// FoldAggregateKind identifies which aggregate a FoldSpecificField reaches
// into a completed fold subcomponent for.
type FoldAggregateKind int

const (
	FoldCount FoldAggregateKind = iota
	FoldValuesOf
)

// FieldRefKind distinguishes a reference to an ordinary field on a
// specific vertex from a reference to a fold's aggregate output.
type FieldRefKind int

const (
	FieldRefContext FieldRefKind = iota
	FieldRefFoldSpecific
)

// FieldRef is a reference from anywhere in the query to either a field on
// a specific Vid (ContextField) or to a fold's aggregate (count, or the
// parallel list of a property).
type FieldRef struct {
	Kind FieldRefKind

	// Vid is the vertex the field lives on for FieldRefContext, or the
	// fold's nested-component root Vid for FieldRefFoldSpecific (the key
	// under which the interpreter merges the completed fold's aggregate
	// back into the parent context's values map).
	Vid Vid

	// SourceVid is the vertex the property is actually resolved against:
	// equal to Vid for FieldRefContext, but for FieldRefFoldSpecific this
	// may be a vertex arbitrarily deep inside the fold's subcomponent
	// (the fold root itself, or a descendant reached through further,
	// non-fold edges nested inside the fold). Kept distinct from Vid so
	// per-vertex property resolution and fold-boundary aggregation can
	// both be driven off this one FieldRef without losing information.
	SourceVid Vid

	// Field is the property name. Unused (empty) for FoldCount.
	Field string

	FoldAggregate FoldAggregateKind
}

// Component is a connected subgraph of IRVertices/IREdges sharing a
// lifetime: the query root, or a fold's nested scope. Components
// are stored flat in IRQuery.Components and refer to their parent by the
// parent component's root Vid, never by direct pointer, so the structure
// never forms an ownership cycle.
type Component struct {
	RootVid Vid

	// ParentRootVid is the root Vid of the enclosing component, or nil for
	// the query's outermost component.
	ParentRootVid *Vid

	// Vids lists this component's member vertices in pre-order.
	Vids []Vid

	// Outputs is this component's own output map. The frontend creates it
	// empty and does not fill it: every @output is registered only in the
	// flat IRQuery.Outputs map, which is also where output-name uniqueness
	// is checked, query-wide.
	Outputs map[string]FieldRef
}

// IRQuery is the fully lowered query: the component tree, the flat Vid/Eid
// tables, the top-level name -> FieldRef output map, and the set of
// variables the query references.
type IRQuery struct {
	RootComponent Vid

	// RootEdgeName and RootEdgeParameters are the entry-point edge the
	// query root field names on the schema's query type, and its lowered
	// parameters — the arguments ResolveStartingVertices is called with
	// to produce the root component's first context batch.
	RootEdgeName       string
	RootEdgeParameters map[string]EdgeParam

	Vertices   map[Vid]*IRVertex
	Edges      map[Eid]*IREdge
	Components map[Vid]*Component

	// Outputs is the flat, query-wide name -> FieldRef map assembled by
	// walking every component.
	Outputs map[string]FieldRef

	// Variables is the set of variables referenced anywhere in the query,
	// with their declared types, used for argument validation before
	// execution.
	Variables map[string]value.Type

	// Tags maps each `@tag` name to the FieldRef it was captured under, so
	// the interpreter can resolve a `%name` filter argument back to the
	// context value stashed when the tag was defined.
	Tags map[string]FieldRef

	// QueryID is an opaque per-parse identifier for log/trace correlation.
	// It is not part of the IR's structural content: two parses of the
	// same (schema, query_text) pair produce IRQueries equal in every
	// field above but carrying different QueryIDs; determinism comparisons
	// look at the structural fields only.
	QueryID string
}

// RootVertex returns the IRVertex at the query's root.
func (q *IRQuery) RootVertex() *IRVertex {
	return q.Vertices[q.Components[q.RootComponent].RootVid]
}
