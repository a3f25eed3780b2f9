package interpreter

import (
	"fmt"
	"sort"

	"go.appointy.com/graphwalk/adapter"
	"go.appointy.com/graphwalk/ir"
	"go.appointy.com/graphwalk/schema"
	"go.appointy.com/graphwalk/value"
)

// canonicalRef is the FieldRef a property is stashed under at the exact
// vertex it was resolved against, independent of whatever FieldRef (plain
// or fold-specific) eventually reads it back out via applyCaptures.
func canonicalRef(vid ir.Vid, field string) ir.FieldRef {
	return ir.FieldRef{Kind: ir.FieldRefContext, Vid: vid, SourceVid: vid, Field: field}
}

// walkVertex processes one vertex-shaped scope for a batch of contexts
// already positioned there: coercion, then property resolution, filters,
// and captures, then each outgoing edge in turn. The
// returned slice is the set of contexts that survive to continue past
// this scope — fewer than were passed in if a coercion or filter or
// mandatory edge eliminated some.
func (es *execState[V]) walkVertex(vid ir.Vid, contexts []*runContext[V]) ([]*runContext[V], error) {
	if err := es.checkCancelled(); err != nil {
		return nil, err
	}

	vertex := es.irq.Vertices[vid]

	var err error
	if vertex.Coercion != "" {
		contexts, err = es.applyCoercion(vid, contexts)
		if err != nil {
			return nil, err
		}
	}

	if err := es.resolveVertexProperties(vid, contexts); err != nil {
		return nil, err
	}

	contexts, err = es.applyFilters(vid, contexts)
	if err != nil {
		return nil, err
	}
	es.applyCaptures(vid, contexts)

	for _, e := range es.edgesFrom[vid] {
		switch {
		case e.Fold:
			contexts, err = es.mergeFold(e, contexts)
		case e.Recurse:
			contexts, err = es.traverseRecurse(e, contexts)
		case e.Optional:
			contexts, err = es.traverseOptional(e, contexts)
		default:
			contexts, err = es.traverseMandatory(e, contexts)
		}
		if err != nil {
			return nil, err
		}
	}

	return contexts, nil
}

// applyCoercion drops any active context whose runtime type does not
// satisfy an "... on Type" narrowing; a context with no
// active vertex (already missed by an enclosing @optional) passes through
// untouched, since there is nothing to coerce.
func (es *execState[V]) applyCoercion(vid ir.Vid, contexts []*runContext[V]) ([]*runContext[V], error) {
	active := splitActive(contexts)
	if len(active) == 0 {
		return contexts, nil
	}
	if err := es.checkCancelled(); err != nil {
		return nil, err
	}
	vertex := es.irq.Vertices[vid]
	results, err := collectFallible(es.adapter.ResolveCoercion(es.ctx, activeDCSeq(active), vertex.TypeName, vertex.Coercion))
	if err != nil {
		return nil, wrapAdapterError(err)
	}
	byDC := make(map[*adapter.DataContext[V]]bool, len(results))
	for _, r := range results {
		byDC[r.Context] = r.Matches
	}
	kept := make([]*runContext[V], 0, len(contexts))
	for _, c := range contexts {
		if !c.dc.HasActive || byDC[c.dc] {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// neededFields is the set of property names this vertex's filters and
// downstream captures require resolved, in a stable order.
func (es *execState[V]) neededFields(vid ir.Vid) []string {
	set := map[string]bool{}
	for _, f := range es.irq.Vertices[vid].Filters {
		set[f.Operand] = true
	}
	for _, ref := range es.captureIndex[vid] {
		set[ref.Field] = true
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// resolveVertexProperties resolves, once per distinct field name, every
// property this vertex's filters or captures need, stashing each under
// its canonicalRef. Contexts with no active vertex are
// skipped entirely — there is no vertex to resolve anything against.
func (es *execState[V]) resolveVertexProperties(vid ir.Vid, contexts []*runContext[V]) error {
	active := splitActive(contexts)
	if len(active) == 0 {
		return nil
	}
	typeName := effectiveTypeOf(es.irq, vid)
	byDC := make(map[*adapter.DataContext[V]]*runContext[V], len(active))
	for _, c := range active {
		byDC[c.dc] = c
	}

	for _, field := range es.neededFields(vid) {
		if err := es.checkCancelled(); err != nil {
			return err
		}
		if field == schema.TypenameField {
			if err := es.resolveTypenamesInto(vid, active, typeName, byDC); err != nil {
				return err
			}
			continue
		}
		results, err := collectFallible(es.adapter.ResolveProperty(es.ctx, activeDCSeq(active), typeName, field))
		if err != nil {
			return wrapAdapterError(err)
		}
		ref := canonicalRef(vid, field)
		for _, res := range results {
			c, ok := byDC[res.Context]
			if !ok {
				continue
			}
			c.setValue(ref, res.Value)
		}
	}
	return nil
}

// resolveTypenamesInto resolves __typename via the adapter's optional
// TypenameResolver capability, falling back to the schema-declared type
// name when the active type is a concrete object.
// Asking for __typename on an interface-typed vertex whose
// adapter doesn't implement TypenameResolver is an unresolvable runtime
// error — the interpreter has no way to learn the concrete subtype.
func (es *execState[V]) resolveTypenamesInto(vid ir.Vid, active []*runContext[V], typeName string, byDC map[*adapter.DataContext[V]]*runContext[V]) error {
	ref := canonicalRef(vid, schema.TypenameField)

	if tr, ok := es.adapter.(adapter.TypenameResolver[V]); ok {
		results, err := collectFallible(tr.ResolveTypename(es.ctx, activeDCSeq(active), typeName))
		if err != nil {
			return wrapAdapterError(err)
		}
		for _, res := range results {
			c, ok := byDC[res.Context]
			if !ok {
				continue
			}
			c.setValue(ref, value.String(res.TypeName))
		}
		return nil
	}

	vt, ok := es.schema.Types[typeName]
	if !ok || vt.Kind == schema.KindInterface {
		return wrapAdapterError(fmt.Errorf("__typename on interface type %q requires an adapter implementing TypenameResolver", typeName))
	}
	for _, c := range active {
		c.setValue(ref, value.String(typeName))
	}
	return nil
}

// applyFilters keeps only the contexts whose active vertex satisfies
// every @filter on this vertex, evaluated in declaration order.
// A context with no active vertex vacuously passes every
// filter — an @optional miss silences filters the same way it silences
// property resolution.
func (es *execState[V]) applyFilters(vid ir.Vid, contexts []*runContext[V]) ([]*runContext[V], error) {
	vertex := es.irq.Vertices[vid]
	if len(vertex.Filters) == 0 {
		return contexts, nil
	}
	kept := make([]*runContext[V], 0, len(contexts))
	for _, c := range contexts {
		if !c.dc.HasActive {
			kept = append(kept, c)
			continue
		}
		pass, err := es.passesFilters(vid, vertex, c)
		if err != nil {
			return nil, err
		}
		if pass {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

func (es *execState[V]) passesFilters(vid ir.Vid, vertex *ir.IRVertex, c *runContext[V]) (bool, error) {
	for _, f := range vertex.Filters {
		operand := c.value(canonicalRef(vid, f.Operand))
		pass, err := es.evaluateOneFilter(c, f, operand)
		if err != nil {
			return false, err
		}
		if !pass {
			return false, nil
		}
	}
	return true, nil
}

// evaluateOneFilter evaluates a single predicate against one context's
// resolved operand. A regex whose pattern is bound to a $variable was
// compiled once during argument validation and is reused here; every
// other operator, including a %tag-bound regex whose pattern varies per
// row, resolves its argument and evaluates in place.
func (es *execState[V]) evaluateOneFilter(c *runContext[V], f ir.Filter, operand value.Value) (bool, error) {
	if f.Operator == "regex" && f.Argument != nil && f.Argument.Kind == ir.ArgVariable {
		pass, err := evaluateCompiledRegex(es.varRegexes[f.Argument.Name], operand)
		if err != nil {
			return false, wrapAdapterError(err)
		}
		return pass, nil
	}

	arg, err := es.resolveFilterArgument(c, f.Argument)
	if err != nil {
		return false, err
	}
	pass, err := evaluateFilter(f.Operator, operand, arg)
	if err != nil {
		return false, wrapAdapterError(err)
	}
	return pass, nil
}

// resolveFilterArgument resolves a lowered filter argument to its
// row-specific value: a query variable reads from the caller-supplied
// argument map, a tag reads back whatever value was captured earlier in
// this same context's lineage.
func (es *execState[V]) resolveFilterArgument(c *runContext[V], arg *ir.Argument) (value.Value, error) {
	if arg == nil {
		return value.Null, nil
	}
	switch arg.Kind {
	case ir.ArgVariable:
		return es.args[arg.Name], nil
	case ir.ArgTag:
		ref, ok := es.irq.Tags[arg.Name]
		if !ok {
			return value.Null, nil
		}
		return c.value(ref), nil
	default:
		return value.Null, nil
	}
}

// applyCaptures copies this vertex's already-resolved properties into
// every FieldRef (plain @output/@tag, or a fold-specific per-member
// value) that reads from this vertex, so downstream scopes and the final
// projection can look them up by FieldRef alone. A missed context
// captures Null for every such field.
func (es *execState[V]) applyCaptures(vid ir.Vid, contexts []*runContext[V]) {
	refs := es.captureIndex[vid]
	if len(refs) == 0 {
		return
	}
	for _, c := range contexts {
		for _, ref := range refs {
			if !c.dc.HasActive {
				c.setValue(ref, value.Null)
				continue
			}
			c.setValue(ref, c.value(canonicalRef(vid, ref.Field)))
		}
	}
}
