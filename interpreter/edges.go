package interpreter

import (
	"go.appointy.com/graphwalk/adapter"
	"go.appointy.com/graphwalk/ir"
	"go.appointy.com/graphwalk/value"
)

// traverseMandatory expands a plain (non-optional, non-fold, non-recurse)
// edge: each parent fans out into one child context per neighbor, and a
// parent with zero neighbors contributes no child at all — inner-join
// semantics. Missed parents propagate a single
// still-missed child, since there is nothing to traverse from an absent
// vertex.
func (es *execState[V]) traverseMandatory(e *ir.IREdge, contexts []*runContext[V]) ([]*runContext[V], error) {
	children, err := es.expandEdge(e, contexts, false)
	if err != nil {
		return nil, err
	}
	children, err = es.walkVertex(e.To, children)
	if err != nil {
		return nil, err
	}
	return restoreParents(children), nil
}

// traverseOptional expands an @optional edge: a parent with zero
// neighbors contributes a single child with no active vertex instead of
// being dropped, so the row survives with every descendant field reading
// null.
func (es *execState[V]) traverseOptional(e *ir.IREdge, contexts []*runContext[V]) ([]*runContext[V], error) {
	children, err := es.expandEdge(e, contexts, true)
	if err != nil {
		return nil, err
	}
	children, err = es.walkVertex(e.To, children)
	if err != nil {
		return nil, err
	}
	return restoreParents(children), nil
}

// expandEdge is the shared fan-out step behind traverseMandatory and
// traverseOptional: resolve neighbors for every active parent, clone one
// child per neighbor (pushing one resume frame per parent via descend),
// and handle the zero-neighbor and already-missed cases per optional.
func (es *execState[V]) expandEdge(e *ir.IREdge, contexts []*runContext[V], optional bool) ([]*runContext[V], error) {
	var children []*runContext[V]
	var active []*runContext[V]
	for _, c := range contexts {
		if !c.dc.HasActive {
			children = append(children, c.descend(zeroValue[V](), false))
			continue
		}
		active = append(active, c)
	}
	if len(active) == 0 {
		return children, nil
	}
	if err := es.checkCancelled(); err != nil {
		return nil, err
	}

	typeName := effectiveTypeOf(es.irq, e.From)
	params := resolveParams(e.Parameters, es.args)
	results, err := collectFallible(es.adapter.ResolveNeighbors(es.ctx, activeDCSeq(active), typeName, e.Name, params))
	if err != nil {
		return nil, wrapAdapterError(err)
	}
	byDC := make(map[*adapter.DataContext[V]]*runContext[V], len(active))
	for _, c := range active {
		byDC[c.dc] = c
	}

	for _, res := range results {
		c, ok := byDC[res.Context]
		if !ok {
			continue
		}
		neighbors := collect(res.Neighbors)
		if len(neighbors) == 0 {
			if optional {
				children = append(children, c.descend(zeroValue[V](), false))
			}
			continue
		}
		for _, n := range neighbors {
			children = append(children, c.descend(n, true))
		}
	}
	return children, nil
}

// traverseRecurse expands a @recurse(depth: D) edge: depth 0 is the
// starting vertex itself, each further depth up to D is one more hop
// along the same edge, and every depth's vertices feed into the same
// target scope, in breadth-first order. The whole chain descends from one
// resume frame pushed at depth 0 — every later depth reuses that same
// frame via descendSameFrame — so restoreParents pops exactly once per
// original context regardless of how many depths or neighbors it expanded
// into.
func (es *execState[V]) traverseRecurse(e *ir.IREdge, contexts []*runContext[V]) ([]*runContext[V], error) {
	var all []*runContext[V]
	var frontier []*runContext[V]
	for _, c := range contexts {
		if !c.dc.HasActive {
			all = append(all, c.descend(zeroValue[V](), false))
			continue
		}
		child := c.descend(c.dc.Active, true)
		frontier = append(frontier, child)
		all = append(all, child)
	}

	typeName := effectiveTypeOf(es.irq, e.To)
	params := resolveParams(e.Parameters, es.args)

	currentLevel := frontier
	for depth := int64(1); depth <= e.RecurseDepth && len(currentLevel) > 0; depth++ {
		if err := es.checkCancelled(); err != nil {
			return nil, err
		}
		results, err := collectFallible(es.adapter.ResolveNeighbors(es.ctx, activeDCSeq(currentLevel), typeName, e.Name, params))
		if err != nil {
			return nil, wrapAdapterError(err)
		}
		byDC := make(map[*adapter.DataContext[V]]*runContext[V], len(currentLevel))
		for _, c := range currentLevel {
			byDC[c.dc] = c
		}

		var nextLevel []*runContext[V]
		for _, res := range results {
			c, ok := byDC[res.Context]
			if !ok {
				continue
			}
			for _, n := range collect(res.Neighbors) {
				child := c.descendSameFrame(n, true)
				nextLevel = append(nextLevel, child)
				all = append(all, child)
			}
		}
		currentLevel = nextLevel
	}

	children, err := es.walkVertex(e.To, all)
	if err != nil {
		return nil, err
	}
	return restoreParents(children), nil
}

// mergeFold expands a @fold edge's subcomponent independently of the main
// line: every neighbor becomes a member context tagged with the exact
// parent it rolled up from (foldParent), the subcomponent is walked to
// completion, and the fold's declared outputs/tags are aggregated back
// onto the unmodified parent contexts, which are what mergeFold returns.
// Unlike the other traversals, a fold never suspends
// the main line: its members are cloned, not descended, and no resume
// frame is pushed or popped.
func (es *execState[V]) mergeFold(e *ir.IREdge, contexts []*runContext[V]) ([]*runContext[V], error) {
	var members []*runContext[V]
	active := splitActive(contexts)

	if len(active) > 0 {
		if err := es.checkCancelled(); err != nil {
			return nil, err
		}
		typeName := effectiveTypeOf(es.irq, e.From)
		params := resolveParams(e.Parameters, es.args)
		results, err := collectFallible(es.adapter.ResolveNeighbors(es.ctx, activeDCSeq(active), typeName, e.Name, params))
		if err != nil {
			return nil, wrapAdapterError(err)
		}
		byDC := make(map[*adapter.DataContext[V]]*runContext[V], len(active))
		for _, c := range active {
			byDC[c.dc] = c
		}
		for _, res := range results {
			parent, ok := byDC[res.Context]
			if !ok {
				continue
			}
			for _, n := range collect(res.Neighbors) {
				member := parent.clone(n, true)
				member.foldParent = parent
				members = append(members, member)
			}
		}
	}

	if len(members) > 0 {
		var err error
		members, err = es.walkVertex(e.To, members)
		if err != nil {
			return nil, err
		}
	}

	es.applyFoldAggregates(e.To, contexts, members)
	return contexts, nil
}

// applyFoldAggregates groups a fold's surviving member contexts by the
// exact parent each rolled up from, then sets every FieldRefFoldSpecific
// output/tag the fold declares to its aggregate over that group: a count,
// or the parallel list of a captured property. A
// parent with no members at all (none found, or already missed) gets the
// empty aggregate: count zero, or an empty list.
func (es *execState[V]) applyFoldAggregates(foldRootVid ir.Vid, parents []*runContext[V], members []*runContext[V]) {
	groups := make(map[*runContext[V]][]*runContext[V], len(parents))
	for _, p := range parents {
		groups[p] = nil
	}
	for _, m := range members {
		groups[m.foldParent] = append(groups[m.foldParent], m)
	}

	refs := es.foldFieldRefs[foldRootVid]
	for _, p := range parents {
		group := groups[p]
		for _, ref := range refs {
			switch ref.FoldAggregate {
			case ir.FoldCount:
				p.setValue(ref, value.Int(int64(len(group))))
			case ir.FoldValuesOf:
				vals := make([]value.Value, len(group))
				for i, m := range group {
					vals[i] = m.value(ref)
				}
				p.setValue(ref, value.List(vals))
			}
		}
	}
}
