package queryast

import (
	"fmt"
	"regexp"
	"strconv"

	gqlast "github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"
	"github.com/graphql-go/graphql/language/parser"

	"go.appointy.com/graphwalk/value"
)

var nameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseDocument parses a query document into the typed AST. It
// performs only syntax-level and directive-shape validation, not
// schema-aware checks — those belong to the frontend package, which has
// the schema in hand when it descends the tree.
func ParseDocument(text string) (*Query, error) {
	doc, err := parser.Parse(parser.ParseParams{Source: text})
	if err != nil {
		return nil, parseError(KindSyntaxError, "%s", err.Error())
	}
	if doc == nil || doc.Kind != kinds.Document {
		return nil, parseError(KindSyntaxError, "input did not produce a valid GraphQL document")
	}

	var operation *gqlast.OperationDefinition
	for _, def := range doc.Definitions {
		switch node := def.(type) {
		case *gqlast.OperationDefinition:
			if operation != nil {
				return nil, parseError(KindMultipleOperations, "")
			}
			operation = node
		case *gqlast.FragmentDefinition:
			return nil, parseError(KindFragmentDefinitionNotSupported, "")
		default:
			return nil, parseError(KindSyntaxError, "unexpected top-level definition %T", def)
		}
	}
	if operation == nil {
		return nil, parseError(KindMissingRootField, "query document contains no operation")
	}
	if operation.GetOperation() != "query" {
		return nil, parseError(KindUnsupportedOperationType, "%s", operation.GetOperation())
	}

	variables := map[string]VariableDecl{}
	for _, vd := range operation.VariableDefinitions {
		t, err := buildType(vd.Type)
		if err != nil {
			return nil, parseError(KindSyntaxError, "variable $%s: %s", vd.Variable.Name.Value, err)
		}
		variables[vd.Variable.Name.Value] = VariableDecl{Name: vd.Variable.Name.Value, Type: t}
	}

	selSet := operation.GetSelectionSet()
	if selSet == nil || len(selSet.Selections) == 0 {
		return nil, parseError(KindMissingRootField, "")
	}
	if len(selSet.Selections) > 1 {
		return nil, parseError(KindMultipleRootFields, "")
	}

	rootField, ok := selSet.Selections[0].(*gqlast.Field)
	if !ok {
		return nil, parseError(KindMissingRootField, "root selection must be a field, not a fragment")
	}

	root, ferr := buildFieldNode(rootField)
	if ferr != nil {
		return nil, ferr
	}

	return &Query{Root: root, Variables: variables}, nil
}

func buildFieldNode(f *gqlast.Field) (*FieldNode, *Error) {
	node := &FieldNode{
		Name: f.Name.Value,
		Pos:  posOf(f.Loc),
	}
	if f.Alias != nil {
		node.Alias = f.Alias.Value
	}

	args, duplicates, err := buildArgs(f.Arguments)
	if err != nil {
		return nil, err
	}
	node.Args = args
	node.DuplicateArgs = duplicates

	directives, err := buildDirectives(f.Directives)
	if err != nil {
		return nil, err
	}
	node.Directives = directives

	children, coercion, err := buildChildren(f.SelectionSet)
	if err != nil {
		return nil, err
	}
	node.Coercion = coercion
	node.Children = children

	return node, nil
}

// buildChildren converts a field's selection set into the field's
// children, handling the special case where the selection set is a single
// inline fragment (a type coercion): its own selections become this
// field's children instead, and no further coercion may appear directly
// beneath it — a coercion must be the sole child of its parent, and
// nested coercions are forbidden.
func buildChildren(selSet *gqlast.SelectionSet) ([]Child, string, *Error) {
	if selSet == nil || len(selSet.Selections) == 0 {
		return nil, "", nil
	}

	if len(selSet.Selections) == 1 {
		if frag, ok := selSet.Selections[0].(*gqlast.InlineFragment); ok {
			if len(frag.Directives) > 0 {
				return nil, "", parseError(KindDirectiveOnCoercion, "")
			}
			if frag.TypeCondition == nil {
				return nil, "", parseError(KindSyntaxError, "inline fragment is missing a type condition")
			}
			for _, inner := range frag.SelectionSet.Selections {
				if _, ok := inner.(*gqlast.InlineFragment); ok {
					return nil, "", parseError(KindNestedCoercion, "")
				}
			}
			children, err := buildChildrenFromSelections(frag.SelectionSet.Selections)
			if err != nil {
				return nil, "", err
			}
			return children, frag.TypeCondition.Name.Value, nil
		}
	}

	for _, sel := range selSet.Selections {
		if _, ok := sel.(*gqlast.InlineFragment); ok {
			return nil, "", parseError(KindCoercionNotSoleChild, "")
		}
	}

	children, err := buildChildrenFromSelections(selSet.Selections)
	return children, "", err
}

func buildChildrenFromSelections(sels []gqlast.Selection) ([]Child, *Error) {
	children := make([]Child, 0, len(sels))
	for _, sel := range sels {
		switch node := sel.(type) {
		case *gqlast.Field:
			child, err := buildFieldNode(node)
			if err != nil {
				return nil, err
			}
			children = append(children, Child{Field: child})
		case *gqlast.FragmentSpread:
			return nil, parseError(KindFragmentSpreadNotSupported, "")
		case *gqlast.InlineFragment:
			return nil, parseError(KindCoercionNotSoleChild, "")
		default:
			return nil, parseError(KindSyntaxError, "unsupported selection node %T", sel)
		}
	}
	return children, nil
}

// buildArgs converts a field's argument list into name -> value, also
// reporting any name that occurred more than once so a caller that cares
// (frontend's edge-parameter lowering) can reject the duplicate instead of
// silently keeping whichever occurrence happened to be seen last.
func buildArgs(args []*gqlast.Argument) (map[string]ArgValue, []string, *Error) {
	out := map[string]ArgValue{}
	seen := map[string]bool{}
	var duplicates []string
	for _, a := range args {
		av, err := buildArgValue(a.Value)
		if err != nil {
			return nil, nil, err
		}
		name := a.Name.Value
		if seen[name] {
			duplicates = append(duplicates, name)
		}
		seen[name] = true
		out[name] = av
	}
	return out, duplicates, nil
}

func buildArgValue(v gqlast.Value) (ArgValue, *Error) {
	if v == nil {
		return ArgValue{Literal: value.Null}, nil
	}
	if variable, ok := v.(*gqlast.Variable); ok {
		return ArgValue{IsVariable: true, VarName: variable.Name.Value}, nil
	}
	lit, ok := literalToValue(v)
	if !ok {
		return ArgValue{}, parseError(KindSyntaxError, "unsupported argument value %T", v)
	}
	return ArgValue{Literal: lit}, nil
}

func literalToValue(v gqlast.Value) (value.Value, bool) {
	switch n := v.(type) {
	case *gqlast.IntValue:
		i, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return value.Null, false
		}
		return value.Int(i), true
	case *gqlast.FloatValue:
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return value.Null, false
		}
		return value.Float(f), true
	case *gqlast.StringValue:
		return value.String(n.Value), true
	case *gqlast.BooleanValue:
		return value.Bool(n.Value), true
	case *gqlast.EnumValue:
		return value.Enum(n.Value), true
	case *gqlast.NullValue:
		return value.Null, true
	case *gqlast.ListValue:
		elems := make([]value.Value, 0, len(n.Values))
		for _, elem := range n.Values {
			ev, ok := literalToValue(elem)
			if !ok {
				return value.Null, false
			}
			elems = append(elems, ev)
		}
		return value.List(elems), true
	default:
		return value.Null, false
	}
}

func buildType(t gqlast.Type) (value.Type, error) {
	switch n := t.(type) {
	case *gqlast.List:
		inner, err := buildType(n.Type)
		if err != nil {
			return nil, err
		}
		return &value.List{Of: inner}, nil
	case *gqlast.NonNull:
		inner, err := buildType(n.Type)
		if err != nil {
			return nil, err
		}
		return &value.NonNull{Of: inner}, nil
	case *gqlast.Named:
		return &value.Named{Name: n.Name.Value}, nil
	default:
		return nil, fmt.Errorf("unrecognized type node %T", t)
	}
}

func posOf(loc *gqlast.Location) Position {
	if loc == nil {
		return Position{}
	}
	return Position{Start: loc.Start, End: loc.End}
}

func buildDirectives(in []*gqlast.Directive) ([]Directive, *Error) {
	out := make([]Directive, 0, len(in))
	seen := map[DirectiveKind]bool{}
	for _, d := range in {
		name := d.Name.Value
		if !recognizedDirectives[name] {
			return nil, parseError(KindUnrecognizedDirective, "%s", name)
		}
		kind := directiveKindOf(name)
		if kind != DirectiveFilter && seen[kind] {
			return nil, parseError(KindDuplicateDirective, "%s", name)
		}
		seen[kind] = true

		dir := Directive{Kind: kind, Pos: posOf(d.Loc)}
		args := map[string]*gqlast.Argument{}
		for _, a := range d.Arguments {
			args[a.Name.Value] = a
		}

		switch kind {
		case DirectiveFilter:
			opArg, ok := args["op"]
			if !ok {
				return nil, parseError(KindInvalidDirectiveArguments, "filter")
			}
			opLit, ok := literalToValue(opArg.Value)
			if !ok || opLit.Kind() != value.KindString {
				return nil, parseError(KindInvalidDirectiveArguments, "filter op must be a string")
			}
			op := opLit.Str()
			if !FilterOps[op] {
				return nil, parseError(KindUnknownFilterOperator, "%s", op)
			}
			dir.FilterOp = op

			refs, err := buildFilterArgs(args["value"])
			if err != nil {
				return nil, err
			}
			dir.FilterArgs = refs

		case DirectiveTag, DirectiveOutput:
			if nameArg, ok := args["name"]; ok {
				nameLit, ok := literalToValue(nameArg.Value)
				if !ok || nameLit.Kind() != value.KindString {
					return nil, parseError(KindInvalidNameArgument, "name must be a string")
				}
				if !nameRE.MatchString(nameLit.Str()) {
					return nil, parseError(KindInvalidNameArgument, "%q is not a valid identifier", nameLit.Str())
				}
				dir.Name = nameLit.Str()
			}

		case DirectiveOptional, DirectiveFold:
			// No arguments.

		case DirectiveRecurse:
			depthArg, ok := args["depth"]
			if !ok {
				return nil, parseError(KindInvalidRecurseDepth, "")
			}
			depthLit, ok := literalToValue(depthArg.Value)
			if !ok || depthLit.Kind() != value.KindInt || depthLit.Int() < 1 {
				return nil, parseError(KindInvalidRecurseDepth, "")
			}
			dir.RecurseDepth = depthLit.Int()

		case DirectiveTransform:
			opArg, ok := args["op"]
			if !ok {
				return nil, parseError(KindInvalidDirectiveArguments, "transform")
			}
			opLit, ok := literalToValue(opArg.Value)
			if !ok || opLit.Kind() != value.KindString {
				return nil, parseError(KindInvalidDirectiveArguments, "transform op must be a string")
			}
			if opLit.Str() != "count" {
				return nil, parseError(KindUnsupportedTransformOp, "%s", opLit.Str())
			}
			dir.TransformOp = opLit.Str()
		}

		out = append(out, dir)
	}
	return out, nil
}

func buildFilterArgs(arg *gqlast.Argument) ([]ArgRef, *Error) {
	if arg == nil {
		return nil, nil
	}
	list, ok := arg.Value.(*gqlast.ListValue)
	var raw []gqlast.Value
	if ok {
		raw = list.Values
	} else {
		raw = []gqlast.Value{arg.Value}
	}

	refs := make([]ArgRef, 0, len(raw))
	for _, v := range raw {
		sv, ok := v.(*gqlast.StringValue)
		if !ok {
			return nil, parseError(KindInvalidFilterValue, "entries must be string references")
		}
		s := sv.Value
		if len(s) < 2 {
			return nil, parseError(KindInvalidFilterValue, "%q is not a $variable or %%tag reference", s)
		}
		switch s[0] {
		case '$':
			refs = append(refs, ArgRef{Kind: ArgVariable, Name: s[1:]})
		case '%':
			refs = append(refs, ArgRef{Kind: ArgTag, Name: s[1:]})
		default:
			return nil, parseError(KindInvalidFilterValue, "%q is not a $variable or %%tag reference", s)
		}
	}
	return refs, nil
}

func directiveKindOf(name string) DirectiveKind {
	switch name {
	case "filter":
		return DirectiveFilter
	case "tag":
		return DirectiveTag
	case "output":
		return DirectiveOutput
	case "optional":
		return DirectiveOptional
	case "fold":
		return DirectiveFold
	case "recurse":
		return DirectiveRecurse
	case "transform":
		return DirectiveTransform
	default:
		return -1
	}
}

var recognizedDirectives = map[string]bool{
	"filter": true, "tag": true, "output": true, "optional": true,
	"fold": true, "recurse": true, "transform": true,
}
