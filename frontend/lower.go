package frontend

import (
	"strings"

	"github.com/appointy/idgen"
	"github.com/iancoleman/strcase"

	"go.appointy.com/graphwalk/ir"
	"go.appointy.com/graphwalk/queryast"
	"go.appointy.com/graphwalk/schema"
	"go.appointy.com/graphwalk/value"
)

// Parse validates a query document against s and lowers it to an IRQuery:
// schema validation, scope assignment, output registration, tag
// resolution, filter and edge-parameter lowering, and assembly.
func Parse(s *schema.Schema, queryText string) (*ir.IRQuery, error) {
	q, err := queryast.ParseDocument(queryText)
	if err != nil {
		return nil, err
	}

	rootDef, ok := s.Field(s.QueryTypeName, q.Root.Name)
	if !ok {
		return nil, newError(KindNonExistentPath, q.Root.Name, q.Root.Name, "")
	}
	if !rootDef.IsEdge() {
		return nil, newError(KindPropertyMetaFieldUsedAsEdge, q.Root.Name, q.Root.Name, "")
	}
	if len(q.Root.Directives) > 0 {
		return nil, newError(KindInappropriateTypeForDirectiveArgument, q.Root.Name, "",
			"the query root may not carry directives")
	}

	l := &lowerer{
		schema:      s,
		query:       q,
		vertices:    map[ir.Vid]*ir.IRVertex{},
		edges:       map[ir.Eid]*ir.IREdge{},
		components:  map[ir.Vid]*ir.Component{},
		outputs:     map[string]ir.FieldRef{},
		variables:   map[string]value.Type{},
		tags:        map[string]tagInfo{},
		allTagNames: map[string]bool{},
		irTags:      map[string]ir.FieldRef{},
		vidField:    map[ir.Vid]string{},
	}
	l.scanTagNames(q.Root)

	rootVid := l.nextVid
	l.nextVid++
	rootVertex := &ir.IRVertex{Vid: rootVid, TypeName: rootDef.EdgeTarget, Coercion: q.Root.Coercion}
	l.vertices[rootVid] = rootVertex
	l.vidField[rootVid] = q.Root.Name
	l.components[rootVid] = &ir.Component{RootVid: rootVid, Vids: []ir.Vid{rootVid}, Outputs: map[string]ir.FieldRef{}}

	rootParams, err2 := l.lowerEdgeParams(q.Root.Name, q.Root.Args, q.Root.DuplicateArgs, rootDef.Params)
	if err2 != nil {
		return nil, err2
	}

	effectiveRootType := rootDef.EdgeTarget
	if q.Root.Coercion != "" {
		if err2 := l.checkCoercion(rootDef.EdgeTarget, q.Root.Coercion, q.Root.Name); err2 != nil {
			return nil, err2
		}
		effectiveRootType = q.Root.Coercion
	}

	if err2 := l.lowerChildren(rootVid, effectiveRootType, q.Root.Children, nil); err2 != nil {
		return nil, err2
	}

	return &ir.IRQuery{
		RootComponent:      rootVid,
		RootEdgeName:       q.Root.Name,
		RootEdgeParameters: rootParams,
		Vertices:           l.vertices,
		Edges:              l.edges,
		Components:         l.components,
		Outputs:            l.outputs,
		Variables:          l.variables,
		Tags:               l.irTags,
		QueryID:            idgen.New(),
	}, nil
}

type tagInfo struct {
	Vid  ir.Vid
	Name string
	Type value.Type
	Path []ir.Vid
}

type lowerer struct {
	schema *schema.Schema
	query  *queryast.Query

	nextVid ir.Vid
	nextEid ir.Eid

	vertices   map[ir.Vid]*ir.IRVertex
	edges      map[ir.Eid]*ir.IREdge
	components map[ir.Vid]*ir.Component
	outputs    map[string]ir.FieldRef
	variables  map[string]value.Type

	tags        map[string]tagInfo
	allTagNames map[string]bool
	irTags      map[string]ir.FieldRef

	// vidField records the alias (or, without one, the schema field name)
	// of the field each vertex was reached through, so defaultOutputName
	// can rebuild an ancestor path of names from a componentPath of bare
	// Vids.
	vidField map[ir.Vid]string
}

func (l *lowerer) scanTagNames(f *queryast.FieldNode) {
	for _, d := range f.Directives {
		if d.Kind == queryast.DirectiveTag {
			name := d.Name
			if name == "" {
				name = f.Name
			}
			l.allTagNames[name] = true
		}
	}
	for _, c := range f.Children {
		l.scanTagNames(c.Field)
	}
}

// checkCoercion validates a "... on target" coercion departing from
// sourceType: only from an interface, and only to an object implementing
// that interface.
func (l *lowerer) checkCoercion(sourceType, target, path string) *Error {
	srcVT, ok := l.schema.Types[sourceType]
	if !ok || srcVT.Kind != schema.KindInterface {
		return newError(KindCannotCoerceNonInterfaceType, path, "", "")
	}
	if _, ok := l.schema.Types[target]; !ok {
		return newError(KindCannotCoerceToUnrelatedType, path, target, "")
	}
	if !l.schema.Implements(target, sourceType) {
		return newError(KindCannotCoerceToUnrelatedType, path, target, "")
	}
	return nil
}

// lowerChildren lowers every child field under a vertex. Each child's
// failure is independent of its siblings', so all of them are attempted
// and their errors collected into one aggregate rather than stopping at
// the first.
func (l *lowerer) lowerChildren(vid ir.Vid, effectiveType string, children []queryast.Child, componentPath []ir.Vid) *Error {
	var errs []*Error
	for _, child := range children {
		f := child.Field
		fieldDef, ok := l.schema.Field(effectiveType, f.Name)
		if !ok {
			errs = append(errs, newError(KindNonExistentPath, f.Name, f.Name, ""))
			continue
		}

		if !fieldDef.IsEdge() {
			if len(f.Children) > 0 {
				errs = append(errs, newError(KindPropertyMetaFieldUsedAsEdge, f.Name, f.Name, ""))
				continue
			}
			if f.Coercion != "" {
				errs = append(errs, newError(KindCannotCoerceNonInterfaceType, f.Name, "", ""))
				continue
			}
			if err := l.lowerLeaf(vid, f, fieldDef.Type, componentPath); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		if err := l.lowerEdge(vid, effectiveType, f, fieldDef, componentPath); err != nil {
			errs = append(errs, err)
		}
	}
	return aggregate(errs)
}

// lowerLeaf lowers every directive on a property field. Each directive is
// independent of its siblings on the same field, so a failure on one
// (say, a malformed @filter) does not prevent the others from being
// attempted; their errors are collected into one aggregate.
func (l *lowerer) lowerLeaf(vid ir.Vid, f *queryast.FieldNode, fieldType value.Type, componentPath []ir.Vid) *Error {
	vertex := l.vertices[vid]

	var errs []*Error
	for _, d := range f.Directives {
		switch d.Kind {
		case queryast.DirectiveFilter:
			filter, err := l.lowerFilter(f.Name, fieldType, d, componentPath)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			vertex.Filters = append(vertex.Filters, *filter)

		case queryast.DirectiveTag:
			name := d.Name
			if name == "" {
				name = f.Name
			}
			l.tags[name] = tagInfo{Vid: vid, Name: f.Name, Type: fieldType, Path: append([]ir.Vid(nil), componentPath...)}
			l.irTags[name] = l.fieldRefFor(vid, f.Name, componentPath)

		case queryast.DirectiveOutput:
			name := d.Name
			if name == "" {
				name = l.defaultOutputName(componentPath, f.OutputAlias())
			}
			ref := l.fieldRefFor(vid, f.Name, componentPath)
			if _, exists := l.outputs[name]; exists {
				errs = append(errs, newError(KindDuplicateOutputName, f.Name, name, ""))
				continue
			}
			l.outputs[name] = ref

		default:
			errs = append(errs, newError(KindInappropriateTypeForDirectiveArgument, f.Name, d.Kind.String(),
				"directive is not valid on a property field"))
		}
	}
	return aggregate(errs)
}

// fieldRefFor builds the FieldRef an @output/@tag on field name at vid
// should resolve to: a plain context field when outside any fold, or a
// fold-specific values-of reference keyed by the nearest enclosing fold's
// component root when inside one, which is where the interpreter merges
// the completed fold's aggregates back into the parent context.
func (l *lowerer) fieldRefFor(vid ir.Vid, name string, componentPath []ir.Vid) ir.FieldRef {
	if len(componentPath) == 0 {
		return ir.FieldRef{Kind: ir.FieldRefContext, Vid: vid, SourceVid: vid, Field: name}
	}
	return ir.FieldRef{Kind: ir.FieldRefFoldSpecific, Vid: componentPath[len(componentPath)-1], SourceVid: vid, Field: name, FoldAggregate: ir.FoldValuesOf}
}

// defaultOutputName builds the implicit name an unnamed @output gets: the
// leaf field's alias or name, prefixed by every enclosing fold's alias or
// field name along componentPath. Without the prefix, an unnamed @output on the same leaf
// field name in two different folds (or a fold nested inside another)
// would collide into the same output name; the accumulated path keeps
// them distinct.
func (l *lowerer) defaultOutputName(componentPath []ir.Vid, leaf string) string {
	parts := make([]string, 0, len(componentPath)+1)
	for _, vid := range componentPath {
		parts = append(parts, l.vidField[vid])
	}
	parts = append(parts, leaf)
	return strcase.ToLowerCamel(strings.Join(parts, "_"))
}

func (l *lowerer) lowerFilter(fieldName string, fieldType value.Type, d queryast.Directive, componentPath []ir.Vid) (*ir.Filter, *Error) {
	op := d.FilterOp
	if op == "is_null" || op == "is_not_null" {
		if len(d.FilterArgs) != 0 {
			return nil, newError(KindInappropriateTypeForDirectiveArgument, fieldName, op, "takes no argument")
		}
		return &ir.Filter{Operand: fieldName, Operator: op}, nil
	}

	if len(d.FilterArgs) != 1 {
		return nil, newError(KindInappropriateTypeForDirectiveArgument, fieldName, op, "requires exactly one $variable or %tag reference")
	}
	ref := d.FilterArgs[0]

	var argType value.Type
	var arg ir.Argument
	switch ref.Kind {
	case queryast.ArgVariable:
		arg = ir.Argument{Kind: ir.ArgVariable, Name: ref.Name}
		if decl, ok := l.query.Variables[ref.Name]; ok {
			argType = decl.Type
		} else {
			argType = fieldType
		}
		l.variables[ref.Name] = argType

	case queryast.ArgTag:
		info, ok := l.tags[ref.Name]
		if !ok {
			if l.allTagNames[ref.Name] {
				return nil, newError(KindTagUsedBeforeDefinition, fieldName, ref.Name, "")
			}
			return nil, newError(KindUndefinedTag, fieldName, ref.Name, "")
		}
		if !isPrefix(info.Path, componentPath) {
			return nil, newError(KindTagDefinedInsideFold, fieldName, ref.Name, "")
		}
		arg = ir.Argument{Kind: ir.ArgTag, Name: ref.Name}
		argType = info.Type
	}

	if isCollectionOp(op) {
		list, ok := argType.(*value.List)
		if !ok || value.BaseName(list.Of) != value.BaseName(fieldType) {
			return nil, newError(KindInappropriateTypeForDirectiveArgument, fieldName, op,
				"expects a list argument of the operand's type")
		}
	} else if argType != nil && value.BaseName(argType) != value.BaseName(fieldType) {
		return nil, newError(KindInappropriateTypeForDirectiveArgument, fieldName, op,
			"argument type does not match the operand's type")
	}

	return &ir.Filter{Operand: fieldName, Operator: op, Argument: &arg}, nil
}

func isCollectionOp(op string) bool {
	return op == "in_collection" || op == "not_in_collection" || op == "one_of"
}

// isPrefix reports whether def is an (improper) prefix of use: a tag is
// only usable where its defining component path encloses the use's.
func isPrefix(def, use []ir.Vid) bool {
	if len(def) > len(use) {
		return false
	}
	for i, v := range def {
		if use[i] != v {
			return false
		}
	}
	return true
}

func (l *lowerer) lowerEdge(fromVid ir.Vid, parentType string, f *queryast.FieldNode, fieldDef *schema.FieldDef, componentPath []ir.Vid) *Error {
	var isOptional, isFold bool
	var isRecurse bool
	var recurseDepth int64
	var transformOutputName string
	hasTransform := false

	for _, d := range f.Directives {
		switch d.Kind {
		case queryast.DirectiveOptional:
			isOptional = true
		case queryast.DirectiveFold:
			isFold = true
		case queryast.DirectiveRecurse:
			isRecurse = true
			recurseDepth = d.RecurseDepth
		case queryast.DirectiveTransform:
			hasTransform = true
		case queryast.DirectiveOutput:
			transformOutputName = d.Name
		default:
			return newError(KindInappropriateTypeForDirectiveArgument, f.Name, d.Kind.String(),
				"directive is not valid on an edge field")
		}
	}

	effectiveChildType := fieldDef.EdgeTarget
	if f.Coercion != "" {
		if err := l.checkCoercion(fieldDef.EdgeTarget, f.Coercion, f.Name); err != nil {
			return err
		}
		effectiveChildType = f.Coercion
	}

	if isRecurse && !recurseCompatible(l.schema, parentType, fieldDef.EdgeTarget) {
		return newError(KindInvalidRecurseTarget, f.Name, "", "")
	}

	params, err := l.lowerEdgeParams(f.Name, f.Args, f.DuplicateArgs, fieldDef.Params)
	if err != nil {
		return err
	}

	childVid := l.nextVid
	l.nextVid++
	eid := l.nextEid
	l.nextEid++

	l.vertices[childVid] = &ir.IRVertex{Vid: childVid, TypeName: fieldDef.EdgeTarget, Coercion: f.Coercion}
	l.vidField[childVid] = f.OutputAlias()
	l.edges[eid] = &ir.IREdge{
		Eid: eid, From: fromVid, To: childVid, Name: f.Name, Parameters: params,
		Optional: isOptional, Recurse: isRecurse, RecurseDepth: recurseDepth, Fold: isFold,
	}

	childPath := componentPath
	if isFold {
		l.components[childVid] = &ir.Component{RootVid: childVid, ParentRootVid: &fromVid, Vids: []ir.Vid{childVid}, Outputs: map[string]ir.FieldRef{}}
		childPath = append(append([]ir.Vid(nil), componentPath...), childVid)
	} else {
		comp := l.enclosingComponent(componentPath, fromVid)
		comp.Vids = append(comp.Vids, childVid)
	}

	if err := l.lowerChildren(childVid, effectiveChildType, f.Children, childPath); err != nil {
		return err
	}

	if hasTransform {
		name := transformOutputName
		if name == "" {
			name = "count"
		}
		if _, exists := l.outputs[name]; exists {
			return newError(KindDuplicateOutputName, f.Name, name, "")
		}
		l.outputs[name] = ir.FieldRef{Kind: ir.FieldRefFoldSpecific, Vid: childVid, SourceVid: childVid, FoldAggregate: ir.FoldCount}
	}

	return nil
}

func (l *lowerer) enclosingComponent(componentPath []ir.Vid, fallbackVid ir.Vid) *ir.Component {
	if len(componentPath) > 0 {
		return l.components[componentPath[len(componentPath)-1]]
	}
	for _, c := range l.components {
		for _, v := range c.Vids {
			if v == fallbackVid {
				return c
			}
		}
	}
	return nil
}

func (l *lowerer) lowerEdgeParams(path string, provided map[string]queryast.ArgValue, duplicates []string, declared []schema.Param) (map[string]ir.EdgeParam, *Error) {
	if len(duplicates) > 0 {
		return nil, newError(KindDuplicatedEdgeParameter, path, duplicates[0], "")
	}

	out := map[string]ir.EdgeParam{}
	declaredByName := map[string]schema.Param{}
	for _, p := range declared {
		declaredByName[p.Name] = p
	}

	for name, av := range provided {
		p, ok := declaredByName[name]
		if !ok {
			return nil, newError(KindUnknownEdgeParameter, path, name, "")
		}
		if av.IsVariable {
			out[name] = ir.EdgeParam{IsVariable: true, VarName: av.VarName}
			l.variables[av.VarName] = p.Type
		} else {
			if !value.IsArgumentTypeValid(p.Type, av.Literal) {
				return nil, newError(KindInappropriateTypeForDirectiveArgument, path, name, "value does not match declared parameter type")
			}
			out[name] = ir.EdgeParam{Literal: av.Literal}
		}
	}

	for _, p := range declared {
		if _, ok := out[p.Name]; ok {
			continue
		}
		if p.HasDefault {
			out[p.Name] = ir.EdgeParam{Literal: p.DefaultValue}
			continue
		}
		if _, ok := p.Type.(*value.NonNull); ok {
			return nil, newError(KindMissingEdgeParameter, path, p.Name, "")
		}
	}

	return out, nil
}

func recurseCompatible(s *schema.Schema, from, to string) bool {
	if from == to {
		return true
	}
	if s.Implements(to, from) || s.Implements(from, to) {
		return true
	}
	fromIfaces := ifacesOf(s, from)
	toIfaces := ifacesOf(s, to)
	for iface := range fromIfaces {
		if toIfaces[iface] {
			return true
		}
	}
	return false
}

func ifacesOf(s *schema.Schema, name string) map[string]bool {
	vt, ok := s.Types[name]
	if !ok {
		return nil
	}
	if vt.Kind == schema.KindInterface {
		return map[string]bool{name: true}
	}
	return vt.Implements
}
