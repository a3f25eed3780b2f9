package interpreter

import (
	"iter"

	"go.appointy.com/graphwalk/adapter"
	"go.appointy.com/graphwalk/ir"
	"go.appointy.com/graphwalk/value"
)

// resumeFrame is one suspended activation record: the active vertex (and
// whether one was active at all) a context should return to once the
// subtree it just descended into via an edge traversal has been fully
// walked.
type resumeFrame[V any] struct {
	active    V
	hasActive bool
}

// runContext is the interpreter's internal view of a DataContext: the
// adapter-visible state plus the bookkeeping needed to drive fan-out and
// fan-back-in at edge boundaries. Contexts are single-owner and cloned
// only at fan-out points.
type runContext[V any] struct {
	dc *adapter.DataContext[V]

	// resume is the suspension stack: traverseMandatory/traverseOptional
	// push one frame per edge descended into; restoreParents pops exactly
	// one frame once that edge's entire subtree has been walked, so a
	// vertex with several outgoing edges processes each independently off
	// the same starting point instead of chaining through the first
	// edge's expansion.
	resume []resumeFrame[V]

	// foldParent is set only on a context that is a member of a fold's
	// subcomponent: a direct pointer to the exact parent runContext (a
	// member of the contexts the fold edge traversed from) this member's
	// aggregate values must be rolled up into once the subcomponent
	// completes.
	foldParent *runContext[V]
}

func newRunContext[V any](dc *adapter.DataContext[V]) *runContext[V] {
	return &runContext[V]{dc: dc}
}

// clone copies this context's values map and bookkeeping onto a new
// active vertex, without touching the resume stack — the shape fold
// members and recursion's intra-depth steps need, since neither is itself
// a new suspension point requiring a later pop.
func (c *runContext[V]) clone(active V, hasActive bool) *runContext[V] {
	return &runContext[V]{
		dc:         c.dc.Clone(active, hasActive),
		resume:     append([]resumeFrame[V](nil), c.resume...),
		foldParent: c.foldParent,
	}
}

// descend clones c for fan-out across an edge, pushing a resume frame
// recording c's own active vertex so restoreParents can bring the
// traversal back to it once the edge's target subtree has been walked in
// full.
func (c *runContext[V]) descend(active V, hasActive bool) *runContext[V] {
	child := c.clone(active, hasActive)
	child.resume = append(child.resume, resumeFrame[V]{active: c.dc.Active, hasActive: c.dc.HasActive})
	return child
}

// descendSameFrame clones c onto a new active vertex without pushing a
// new resume frame, used for recursion's depth-by-depth steps: only the
// initial entry into a @recurse edge is a real suspension point; every
// further depth is a continuation of that same suspended activation, not
// a fresh one.
func (c *runContext[V]) descendSameFrame(active V, hasActive bool) *runContext[V] {
	return c.clone(active, hasActive)
}

func (c *runContext[V]) setValue(ref ir.FieldRef, v value.Value) {
	c.dc.Values[ref] = v
}

func (c *runContext[V]) value(ref ir.FieldRef) value.Value {
	v, ok := c.dc.Values[ref]
	if !ok {
		return value.Null
	}
	return v
}

func startRunContexts[V any](vs []V) []*runContext[V] {
	out := make([]*runContext[V], 0, len(vs))
	for _, v := range vs {
		out = append(out, newRunContext(&adapter.DataContext[V]{Active: v, HasActive: true, Values: map[ir.FieldRef]value.Value{}}))
	}
	return out
}

// splitActive returns the subset of contexts that carry an active vertex,
// preserving their relative order — the ones an @optional miss upstream
// has excluded are skipped entirely for adapter calls, since there is no
// vertex to resolve anything against.
func splitActive[V any](contexts []*runContext[V]) []*runContext[V] {
	var active []*runContext[V]
	for _, c := range contexts {
		if c.dc.HasActive {
			active = append(active, c)
		}
	}
	return active
}

// activeDCSeq adapts a slice of runContexts to the iter.Seq of
// *adapter.DataContext[V] the adapter package's operations accept.
func activeDCSeq[V any](contexts []*runContext[V]) iter.Seq[*adapter.DataContext[V]] {
	return func(yield func(*adapter.DataContext[V]) bool) {
		for _, c := range contexts {
			if !yield(c.dc) {
				return
			}
		}
	}
}

// restoreParents pops one resume frame per context, restoring the active
// vertex (and presence) each context's immediate enclosing edge traversal
// suspended before descending. Called once an edge's target subtree has
// been walked to completion, so sibling edges at the same vertex, or that
// vertex's own remaining work, resume against the original vertex rather
// than whatever the subtree left active.
func restoreParents[V any](contexts []*runContext[V]) []*runContext[V] {
	for _, c := range contexts {
		if len(c.resume) == 0 {
			continue
		}
		frame := c.resume[len(c.resume)-1]
		c.resume = c.resume[:len(c.resume)-1]
		c.dc.Active = frame.active
		c.dc.HasActive = frame.hasActive
	}
	return contexts
}

func zeroValue[V any]() V {
	var z V
	return z
}
