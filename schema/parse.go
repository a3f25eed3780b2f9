package schema

import (
	"fmt"

	gqlast "github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"
	"github.com/graphql-go/graphql/language/parser"

	"go.appointy.com/graphwalk/value"
)

// recognizedDirectives is the closed set of query-language directives a
// schema document may declare; their names, positions, and arguments are
// part of the engine's interface contract. A directive definition for any
// other name found at a schema position is rejected.
var recognizedDirectives = map[string]bool{
	"filter":    true,
	"tag":       true,
	"output":    true,
	"optional":  true,
	"fold":      true,
	"recurse":   true,
	"transform": true,
}

// Parse parses a GraphQL-dialect schema document, validates interface
// consistency, and returns an indexed Schema. The heavy lifting of
// tokenizing and parsing is left to graphql-go's language parser; this
// function walks the resulting *ast.Document into graphwalk's own domain
// model, so the rest of the engine depends on the behaviors it needs
// rather than the parser library's exact node structure.
func Parse(text string) (*Schema, error) {
	doc, err := parser.Parse(parser.ParseParams{Source: text})
	if err != nil {
		return nil, parseError("%s", err.Error())
	}
	if doc == nil || doc.Kind != kinds.Document {
		return nil, parseError("input did not produce a valid GraphQL document")
	}

	var schemaDef *gqlast.SchemaDefinition
	objectDefs := map[string]*gqlast.ObjectDefinition{}
	interfaceDefs := map[string]*gqlast.InterfaceDefinition{}
	enumDefs := map[string]*gqlast.EnumDefinition{}
	scalarDefs := map[string]*gqlast.ScalarDefinition{}

	var errs []*Error
	for _, def := range doc.Definitions {
		switch node := def.(type) {
		case *gqlast.SchemaDefinition:
			schemaDef = node
		case *gqlast.ObjectDefinition:
			objectDefs[node.Name.Value] = node
		case *gqlast.InterfaceDefinition:
			interfaceDefs[node.Name.Value] = node
		case *gqlast.EnumDefinition:
			enumDefs[node.Name.Value] = node
		case *gqlast.ScalarDefinition:
			scalarDefs[node.Name.Value] = node
		case *gqlast.UnionDefinition:
			errs = append(errs, &Error{Kind: KindInvalidTypeReference,
				Message: fmt.Sprintf("union type %q is not supported by this query language's type system", node.Name.Value)})
		case *gqlast.DirectiveDefinition:
			if err := validateDirectiveDefinition(node); err != nil {
				errs = append(errs, err)
			}
		case *gqlast.OperationDefinition, *gqlast.FragmentDefinition:
			errs = append(errs, parseError("schema document must not contain operations or fragments"))
		default:
			// Other SDL elements (input objects, extensions) are accepted
			// but not part of the vertex-graph model; silently ignored.
		}
	}

	if schemaDef == nil {
		errs = append(errs, parseError("schema document must contain a `schema { query: ... }` declaration"))
	}

	if err := aggregate(errs); err != nil {
		return nil, err
	}

	queryTypeName := ""
	for _, ot := range schemaDef.OperationTypes {
		if ot.Operation == "query" {
			queryTypeName = ot.Type.Name.Value
		}
	}
	if queryTypeName == "" {
		return nil, parseError("schema declaration is missing its query root")
	}

	scalars := map[string]bool{}
	for name := range builtinScalars {
		scalars[name] = true
	}
	for name := range scalarDefs {
		scalars[name] = true
	}

	enums := map[string][]string{}
	for name, def := range enumDefs {
		vals := make([]string, 0, len(def.Values))
		for _, v := range def.Values {
			vals = append(vals, v.Name.Value)
		}
		enums[name] = vals
	}

	types := map[string]*VertexType{}
	for name, def := range interfaceDefs {
		vt, err := buildVertexType(name, KindInterface, def.Fields, nil, scalars, enums, types)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		types[name] = vt
	}
	for name, def := range objectDefs {
		ifaceNames := make([]string, 0, len(def.Interfaces))
		for _, n := range def.Interfaces {
			ifaceNames = append(ifaceNames, n.Name.Value)
		}
		vt, err := buildVertexType(name, KindObject, def.Fields, ifaceNames, scalars, enums, types)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		types[name] = vt
	}
	if err := aggregate(errs); err != nil {
		return nil, err
	}

	if _, ok := types[queryTypeName]; !ok {
		return nil, parseError("query root type %q is not declared", queryTypeName)
	}

	for _, vt := range types {
		for _, f := range vt.Fields {
			if _, ok := types[f.EdgeTarget]; f.IsEdge() && !ok {
				errs = append(errs, &Error{Kind: KindInvalidTypeReference, Type: vt.Name, Field: f.Name,
					Message: fmt.Sprintf("field %q of type %q refers to undeclared type %q", f.Name, vt.Name, f.EdgeTarget)})
			}
		}
	}
	if err := aggregate(errs); err != nil {
		return nil, err
	}

	if err := checkImplementsAcyclic(types); err != nil {
		return nil, err
	}

	if err := checkInterfaceFieldCompatibility(types); err != nil {
		return nil, err
	}

	s := &Schema{
		QueryTypeName: queryTypeName,
		Types:         types,
		scalars:       scalars,
		enums:         enums,
	}
	s.implementors = computeImplementors(types)
	s.fieldIndex = computeFieldIndex(types)
	return s, nil
}

func buildVertexType(
	name string,
	kind TypeKind,
	fieldDefs []*gqlast.FieldDefinition,
	ifaceNames []string,
	scalars map[string]bool,
	enums map[string][]string,
	_ map[string]*VertexType,
) (*VertexType, *Error) {
	fields := map[string]*FieldDef{}
	for _, fd := range fieldDefs {
		f, err := buildFieldDef(name, fd, scalars, enums)
		if err != nil {
			return nil, err
		}
		fields[f.Name] = f
	}

	implements := map[string]bool{}
	for _, n := range ifaceNames {
		implements[n] = true
	}

	return &VertexType{Name: name, Kind: kind, Fields: fields, Implements: implements}, nil
}

func buildFieldDef(typeName string, fd *gqlast.FieldDefinition, scalars map[string]bool, enums map[string][]string) (*FieldDef, *Error) {
	if len(fd.Directives) > 0 {
		return nil, &Error{Kind: KindInvalidDirectivePlacement, Type: typeName, Field: fd.Name.Value,
			Message: "query-language directives may not be attached to schema field definitions"}
	}

	t, err := buildType(fd.Type)
	if err != nil {
		return nil, &Error{Kind: KindInvalidTypeReference, Type: typeName, Field: fd.Name.Value, Message: err.Error()}
	}

	baseName := value.BaseName(t)
	isScalarOrEnum := scalars[baseName]
	if _, ok := enums[baseName]; ok {
		isScalarOrEnum = true
	}

	params := make([]Param, 0, len(fd.Arguments))
	for _, arg := range fd.Arguments {
		pt, err := buildType(arg.Type)
		if err != nil {
			return nil, &Error{Kind: KindInvalidTypeReference, Type: typeName, Field: fd.Name.Value, Message: err.Error()}
		}
		p := Param{Name: arg.Name.Value, Type: pt}
		if arg.DefaultValue != nil {
			dv, ok := literalToValue(arg.DefaultValue)
			if ok {
				p.HasDefault = true
				p.DefaultValue = dv
			}
		}
		params = append(params, p)
	}

	f := &FieldDef{Name: fd.Name.Value, Type: t, Params: params}
	if !isScalarOrEnum {
		// Only object/interface types may be edge targets; a
		// field whose base type isn't a known scalar/enum is presumed to
		// target another vertex type (validated for real existence once
		// every type in the document has been collected, in Parse).
		f.EdgeTarget = baseName
	}
	return f, nil
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

// expectedDirectiveArgs documents the argument name each recognized
// directive accepts, used only to reject grossly incompatible
// redeclarations; argument types are not checked here since a query
// document's own parser (queryast) is the source of truth for directive
// *usage* shape.
var expectedDirectiveArgs = map[string][]string{
	"filter":    {"op", "value"},
	"tag":       {"name"},
	"output":    {"name"},
	"optional":  nil,
	"fold":      nil,
	"recurse":   {"depth"},
	"transform": {"op"},
}

func validateDirectiveDefinition(def *gqlast.DirectiveDefinition) *Error {
	name := def.Name.Value
	if !recognizedDirectives[name] {
		return &Error{Kind: KindUnknownDirective, Message: fmt.Sprintf("@%s is not a recognized query-language directive", name)}
	}
	expected := expectedDirectiveArgs[name]
	seen := map[string]bool{}
	for _, arg := range def.Arguments {
		seen[arg.Name.Value] = true
	}
	for _, want := range expected {
		if !seen[want] {
			return &Error{Kind: KindInvalidDirectivePlacement,
				Message: fmt.Sprintf("directive @%s must declare argument %q to match the query language's contract", name, want)}
		}
	}
	return nil
}
