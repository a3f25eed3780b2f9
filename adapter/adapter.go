// Package adapter defines the contract a host implements to expose a
// graph to the interpreter: five resolution operations over an opaque,
// host-defined vertex type.
package adapter

import (
	"context"
	"iter"

	"go.appointy.com/graphwalk/ir"
	"go.appointy.com/graphwalk/value"
)

// DataContext is the unit of work the interpreter threads through a query:
// an active vertex (possibly missing, when inside an @optional that
// missed), and a values map capturing every property the query has
// resolved so far at any ancestor scope, keyed by the FieldRef it was
// captured under. Contexts are single-owner: the interpreter never
// aliases one across concurrent consumers, cloning only at fan-out points.
type DataContext[V any] struct {
	Active    V
	HasActive bool

	Values map[ir.FieldRef]value.Value
}

// Clone returns a DataContext sharing the same Values map entries (a
// shallow copy) with a new Active vertex, used at edge fan-out points.
func (c *DataContext[V]) Clone(active V, hasActive bool) *DataContext[V] {
	values := make(map[ir.FieldRef]value.Value, len(c.Values))
	for k, v := range c.Values {
		values[k] = v
	}
	return &DataContext[V]{Active: active, HasActive: hasActive, Values: values}
}

// PropertyResult pairs one context with the value resolve_property
// produced for it.
type PropertyResult[V any] struct {
	Context *DataContext[V]
	Value   value.Value
}

// NeighborResult pairs one context with the lazy sequence of neighbor
// vertices resolve_neighbors produced for it.
type NeighborResult[V any] struct {
	Context   *DataContext[V]
	Neighbors iter.Seq[V]
}

// CoercionResult pairs one context with whether it satisfies the
// requested type coercion.
type CoercionResult[V any] struct {
	Context *DataContext[V]
	Matches bool
}

// TypenameResult pairs one context with its concrete runtime type name.
type TypenameResult[V any] struct {
	Context  *DataContext[V]
	TypeName string
}

// Adapter is the contract a host graph implements. Every operation
// returns a fallible lazy sequence (iter.Seq2 paired with an error): the
// interpreter consumes it without materializing it in full, and an error
// surfaced mid-sequence propagates as the terminating item of the result
// stream. V is the adapter's associated vertex type: an opaque value the
// interpreter passes through unchanged; the contract only requires it be
// cheap to copy, which a plain type parameter gives for free.
type Adapter[V any] interface {
	// ResolveStartingVertices resolves a root entry edge's starting
	// vertices given its statically and dynamically bound parameters.
	ResolveStartingVertices(ctx context.Context, edgeName string, params map[string]value.Value) iter.Seq2[V, error]

	// ResolveProperty resolves one named property for each context's
	// active vertex, assumed to have runtime type typeName (post any
	// coercion already applied upstream).
	ResolveProperty(ctx context.Context, contexts iter.Seq[*DataContext[V]], typeName, fieldName string) iter.Seq2[PropertyResult[V], error]

	// ResolveNeighbors resolves, for each context, the lazy sequence of
	// vertices reached by traversing the named edge with the given
	// parameters.
	ResolveNeighbors(ctx context.Context, contexts iter.Seq[*DataContext[V]], typeName, edgeName string, params map[string]value.Value) iter.Seq2[NeighborResult[V], error]

	// ResolveCoercion reports, for each context, whether its active
	// vertex's concrete runtime type satisfies a narrowing to target.
	ResolveCoercion(ctx context.Context, contexts iter.Seq[*DataContext[V]], typeName, target string) iter.Seq2[CoercionResult[V], error]
}

// TypenameResolver is an optional capability an Adapter may additionally
// implement to answer `__typename` directly; when absent, the interpreter
// falls back to a schema-driven implementation.
type TypenameResolver[V any] interface {
	ResolveTypename(ctx context.Context, contexts iter.Seq[*DataContext[V]], typeName string) iter.Seq2[TypenameResult[V], error]
}
