// Package schema parses, validates, and indexes a GraphQL-like type system
// extended with the query language's directives.
package schema

import "go.appointy.com/graphwalk/value"

// TypeKind distinguishes the vertex-type-bearing kinds a schema can declare.
type TypeKind int

const (
	KindObject TypeKind = iota
	KindInterface
)

// Param is a single named, typed edge or directive parameter, with an
// optional default value.
type Param struct {
	Name         string
	Type         value.Type
	HasDefault   bool
	DefaultValue value.Value
}

// FieldDef is a field on a vertex type: either a property (scalar/enum
// leaf) or an edge (object/interface target), distinguished by whether
// EdgeTarget is set.
type FieldDef struct {
	Name string
	Type value.Type

	// EdgeTarget is the name of the object/interface type this field
	// traverses to, or "" if this field is a property leaf. Only
	// object/interface types may appear as the target of an edge
	// traversal.
	EdgeTarget string

	// Params are this field's edge-traversal arguments; empty for property
	// fields.
	Params []Param
}

// IsEdge reports whether this field is an edge traversal rather than a
// property leaf.
func (f *FieldDef) IsEdge() bool { return f.EdgeTarget != "" }

// Param looks up a named parameter, or returns (Param{}, false).
func (f *FieldDef) Param(name string) (Param, bool) {
	for _, p := range f.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// VertexType is an object or interface type definition: its own fields,
// the interfaces it implements (object) or is implemented by (tracked on
// the Schema, not here), and its kind.
type VertexType struct {
	Name       string
	Kind       TypeKind
	Fields     map[string]*FieldDef
	Implements map[string]bool // interface name -> true, for Kind == KindObject
}

// TypenameField is the distinguished meta-field present on every vertex
// type: a non-null string.
const TypenameField = "__typename"

func typenameFieldDef() *FieldDef {
	return &FieldDef{Name: TypenameField, Type: &value.NonNull{Of: &value.Named{Name: "String"}}}
}

// Schema holds a validated, indexed GraphQL-dialect document: the root
// query type, every declared vertex type, and the (type, field) -> def
// index used throughout the frontend and interpreter.
type Schema struct {
	QueryTypeName string
	Types         map[string]*VertexType

	// implementors maps an interface name to the set of object type names
	// that implement it, the inverse of VertexType.Implements, precomputed
	// for Implementors().
	implementors map[string]map[string]bool

	// fieldIndex is the materialized (type, field) -> def index,
	// including fields inherited transitively from implemented interfaces.
	fieldIndex map[string]map[string]*FieldDef

	// scalars and enums are recognized leaf type names, used by value-type
	// checking and coercion rules; enums also carry their symbol set.
	scalars map[string]bool
	enums   map[string][]string
}

// Field returns the field definition for (typeName, fieldName), including
// __typename and fields inherited from implemented interfaces, or
// (nil, false) if no such field exists.
func (s *Schema) Field(typeName, fieldName string) (*FieldDef, bool) {
	if fieldName == TypenameField {
		if _, ok := s.Types[typeName]; ok {
			return typenameFieldDef(), true
		}
		return nil, false
	}
	byField, ok := s.fieldIndex[typeName]
	if !ok {
		return nil, false
	}
	f, ok := byField[fieldName]
	return f, ok
}

// Implements reports whether object type t declares that it implements
// interface iface. Interfaces never implement other interfaces in this
// grammar, so the declared relation is the whole relation.
func (s *Schema) Implements(t, iface string) bool {
	vt, ok := s.Types[t]
	if !ok {
		return false
	}
	return vt.Implements[iface]
}

// Implementors returns the set of object type names implementing iface.
func (s *Schema) Implementors(iface string) map[string]bool {
	return s.implementors[iface]
}

// IsScalar reports whether name is a recognized scalar type (built-in or
// custom-declared).
func (s *Schema) IsScalar(name string) bool {
	return s.scalars[name]
}

// EnumValues returns the symbol set for a declared enum type, or
// (nil, false).
func (s *Schema) EnumValues(name string) ([]string, bool) {
	v, ok := s.enums[name]
	return v, ok
}

// VertexTypes returns every declared object/interface type name, sorted.
func (s *Schema) VertexTypes() []string {
	return sortedKeys(s.Types)
}

// EntryPoints returns the edge fields declared on the root query type —
// the set of names usable as resolve_starting_vertices edges.
func (s *Schema) EntryPoints() []*FieldDef {
	root, ok := s.Types[s.QueryTypeName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(root.Fields))
	for n := range root.Fields {
		names = append(names, n)
	}
	sortStrings(names)
	out := make([]*FieldDef, 0, len(names))
	for _, n := range names {
		if root.Fields[n].IsEdge() {
			out = append(out, root.Fields[n])
		}
	}
	return out
}
