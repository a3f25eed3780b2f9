// Package interpreter is the lazy, streaming evaluator that walks an
// IRQuery and drives an adapter to produce a stream of output rows.
package interpreter

import (
	"context"
	"iter"
	"regexp"
	"sort"

	"go.appointy.com/graphwalk/adapter"
	"go.appointy.com/graphwalk/ir"
	"go.appointy.com/graphwalk/schema"
	"go.appointy.com/graphwalk/value"
)

// Row is one projected result row: output name -> resolved value. Row
// itself is unordered; OutputNames gives the stable order.
type Row map[string]value.Value

// ExecuteOptions is the interpreter's one caller-visible knob: whether to
// reject caller-supplied arguments the query never references. The
// default (false) rejects unused arguments; a caller that wants to pass a
// shared argument bag across many queries opts into the permissive
// behavior explicitly.
type ExecuteOptions struct {
	PermissiveArguments bool
}

// Execute validates args against irq's declared variables, then returns a
// sequence that evaluates irq against adapter a once it is ranged over.
// Argument validation happens eagerly: a non-nil error return means no row
// was or will be produced. Nothing else runs until the caller actually
// ranges over the returned sequence — building it performs no adapter
// calls — and ctx cancellation observed between pipeline stages or rows
// stops the walk without completing it. Once execution begins, every
// other failure — an adapter-propagated iteration error, a cancelled ctx,
// or an internal invariant violation — surfaces as the terminating item
// of the returned sequence instead, so a partially consumed stream still
// yields whatever rows preceded the failure.
func Execute[V any](ctx context.Context, s *schema.Schema, irq *ir.IRQuery, a adapter.Adapter[V], args map[string]value.Value, opts ExecuteOptions) (iter.Seq2[Row, error], error) {
	varRegexes, err := validateArguments(irq, args, opts)
	if err != nil {
		return nil, err
	}

	return func(yield func(Row, error) bool) {
		es := &execState[V]{
			ctx:           ctx,
			schema:        s,
			irq:           irq,
			adapter:       a,
			args:          args,
			varRegexes:    varRegexes,
			captureIndex:  buildCaptureIndex(irq),
			edgesFrom:     buildEdgeIndex(irq),
			foldFieldRefs: buildFoldFieldRefIndex(irq),
		}
		es.run(yield)
	}, nil
}

// checkCancelled reports ctx's cancellation as a RuntimeError, the one
// check every pipeline stage that is about to issue an adapter call or
// recurse into the next scope performs first, so a cancelled ctx halts the
// walk at the next stage boundary instead of running every remaining
// adapter call to completion.
func (es *execState[V]) checkCancelled() error {
	select {
	case <-es.ctx.Done():
		return wrapAdapterError(es.ctx.Err())
	default:
		return nil
	}
}

// execState carries everything a single Execute call threads through the
// recursive per-scope walk: the adapter, the supplied arguments, and
// indices over the IRQuery precomputed once so the per-vertex hot path
// never re-scans the whole query. Everything here is owned by the one
// call; there is no shared mutable state across executions.
type execState[V any] struct {
	ctx     context.Context
	schema  *schema.Schema
	irq     *ir.IRQuery
	adapter adapter.Adapter[V]
	args    map[string]value.Value

	// varRegexes holds the compiled form of every regex filter pattern
	// bound through a $variable, keyed by variable name. Compiled once
	// during argument validation, reused for every row.
	varRegexes map[string]*regexp.Regexp

	// captureIndex maps a vertex Vid to every output/tag FieldRef whose
	// property must be resolved there (keyed by FieldRef.SourceVid, the
	// vertex the property is actually read from — see ir.FieldRef's doc
	// comment for why this differs from FieldRef.Vid inside a fold).
	captureIndex map[ir.Vid][]ir.FieldRef

	// edgesFrom maps a vertex Vid to its outgoing edges, sorted by Eid so
	// sibling edges are traversed in the order they appeared in the
	// original query text.
	edgesFrom map[ir.Vid][]*ir.IREdge

	// foldFieldRefs maps a fold's root Vid to the output/tag FieldRefs
	// that fold's completion must roll up into the parent context.
	foldFieldRefs map[ir.Vid][]ir.FieldRef
}

// run drives the whole pipeline — starting-vertex resolution, the
// component walk over every root context, then row projection. The walk
// completes before the first row is built; projection then feeds rows to
// yield one at a time. A pipeline-stage
// failure or a cancelled ctx is reported to yield as the stream's one
// terminating error; rows already yielded are not retracted.
func (es *execState[V]) run(yield func(Row, error) bool) {
	if err := es.checkCancelled(); err != nil {
		yield(nil, err)
		return
	}

	params := resolveParams(es.irq.RootEdgeParameters, es.args)
	startVertices, err := collectFallible(es.adapter.ResolveStartingVertices(es.ctx, es.irq.RootEdgeName, params))
	if err != nil {
		yield(nil, wrapAdapterError(err))
		return
	}

	rootContexts := startRunContexts(startVertices)
	rootContexts, err = es.walkVertex(es.irq.RootComponent, rootContexts)
	if err != nil {
		yield(nil, err)
		return
	}
	es.projectRows(rootContexts, yield)
}

// projectRows reads the top-level outputs map to turn each surviving root
// context into a plain name -> value row, yielding
// rows one at a time so a consumer that stops early (or a ctx cancelled
// mid-projection) skips the remaining contexts instead of materializing
// every row first. Column order within a Row is immaterial (it's a map);
// callers that need a stable column order should iterate OutputNames(irq).
func (es *execState[V]) projectRows(contexts []*runContext[V], yield func(Row, error) bool) {
	names := OutputNames(es.irq)
	for _, c := range contexts {
		if err := es.checkCancelled(); err != nil {
			yield(nil, err)
			return
		}
		row := make(Row, len(names))
		for _, name := range names {
			row[name] = c.value(es.irq.Outputs[name])
		}
		if !yield(row, nil) {
			return
		}
	}
}

// OutputNames returns an IRQuery's output names in sorted order, a stable
// column ordering callers and tests can rely on.
func OutputNames(irq *ir.IRQuery) []string {
	names := make([]string, 0, len(irq.Outputs))
	for name := range irq.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildCaptureIndex(irq *ir.IRQuery) map[ir.Vid][]ir.FieldRef {
	idx := map[ir.Vid][]ir.FieldRef{}
	add := func(ref ir.FieldRef) {
		if ref.Kind == ir.FieldRefFoldSpecific && ref.FoldAggregate == ir.FoldCount {
			return // a count needs no property resolution, only the member count at fold-merge time
		}
		idx[ref.SourceVid] = append(idx[ref.SourceVid], ref)
	}
	for _, ref := range irq.Outputs {
		add(ref)
	}
	for _, ref := range irq.Tags {
		add(ref)
	}
	return idx
}

func buildEdgeIndex(irq *ir.IRQuery) map[ir.Vid][]*ir.IREdge {
	idx := map[ir.Vid][]*ir.IREdge{}
	for _, e := range irq.Edges {
		idx[e.From] = append(idx[e.From], e)
	}
	for vid := range idx {
		edges := idx[vid]
		sort.Slice(edges, func(i, j int) bool { return edges[i].Eid < edges[j].Eid })
	}
	return idx
}

// buildFoldFieldRefIndex maps a fold's root Vid to the output/tag
// FieldRefs that fold's completion rolls up into its parent context.
func buildFoldFieldRefIndex(irq *ir.IRQuery) map[ir.Vid][]ir.FieldRef {
	idx := map[ir.Vid][]ir.FieldRef{}
	add := func(ref ir.FieldRef) {
		if ref.Kind != ir.FieldRefFoldSpecific {
			return
		}
		idx[ref.Vid] = append(idx[ref.Vid], ref)
	}
	for _, ref := range irq.Outputs {
		add(ref)
	}
	for _, ref := range irq.Tags {
		add(ref)
	}
	return idx
}

func validateArguments(irq *ir.IRQuery, args map[string]value.Value, opts ExecuteOptions) (map[string]*regexp.Regexp, error) {
	var qerr QueryArgumentsError
	for name, declared := range irq.Variables {
		v, ok := args[name]
		if !ok {
			qerr.add(MissingArgument, name)
			continue
		}
		if !value.IsArgumentTypeValid(declared, v) {
			qerr.add(TypeMismatch, name)
		}
	}
	if !opts.PermissiveArguments {
		for name := range args {
			if _, ok := irq.Variables[name]; !ok {
				qerr.add(UnusedArgument, name)
			}
		}
	}

	varRegexes := compileVariableRegexPatterns(irq, args, &qerr)

	if len(qerr.Name) == 0 {
		return varRegexes, nil
	}
	return nil, &qerr
}

// compileVariableRegexPatterns compiles, once per variable, every regex
// filter pattern bound through a $variable. Such a pattern is fixed for
// the whole execution, so a malformed one is an argument problem reported
// before any row, and a well-formed one is reused for every row instead
// of recompiling per context. A %tag-bound pattern varies per row and is
// compiled at evaluation time instead.
func compileVariableRegexPatterns(irq *ir.IRQuery, args map[string]value.Value, qerr *QueryArgumentsError) map[string]*regexp.Regexp {
	compiled := map[string]*regexp.Regexp{}
	seen := map[string]bool{}
	for _, vertex := range irq.Vertices {
		for _, f := range vertex.Filters {
			if f.Operator != "regex" || f.Argument == nil || f.Argument.Kind != ir.ArgVariable {
				continue
			}
			name := f.Argument.Name
			if seen[name] {
				continue
			}
			seen[name] = true
			pattern, ok := args[name]
			if !ok || pattern.Kind() != value.KindString {
				continue // missing or mistyped arguments are reported above
			}
			re, err := regexp.Compile(pattern.Str())
			if err != nil {
				qerr.add(InvalidRegexPattern, name)
				continue
			}
			compiled[name] = re
		}
	}
	return compiled
}

// resolveParams turns a lowered edge-parameter map into the plain
// name -> value map the adapter contract expects, substituting each
// variable-bound parameter with its supplied argument.
func resolveParams(params map[string]ir.EdgeParam, args map[string]value.Value) map[string]value.Value {
	out := make(map[string]value.Value, len(params))
	for name, p := range params {
		if p.IsVariable {
			out[name] = args[p.VarName]
		} else {
			out[name] = p.Literal
		}
	}
	return out
}

func effectiveTypeOf(irq *ir.IRQuery, vid ir.Vid) string {
	v := irq.Vertices[vid]
	if v.Coercion != "" {
		return v.Coercion
	}
	return v.TypeName
}
