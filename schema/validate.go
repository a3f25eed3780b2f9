package schema

import "go.appointy.com/graphwalk/value"

// checkImplementsAcyclic detects cycles in the implementation-closure graph
// by iterative leaf removal: repeatedly remove any type with no
// outstanding "implements" edges; any types left after no more removals are
// possible form the reported cycle. With the current grammar only object
// types declare "implements", and interfaces never implement anything, so
// the graph is bipartite and this can never actually fire — the general
// form keeps a future grammar extension allowing
// interface-implementing-interface covered.
func checkImplementsAcyclic(types map[string]*VertexType) *Error {
	remaining := map[string]map[string]bool{}
	for name, vt := range types {
		edges := map[string]bool{}
		for iface := range vt.Implements {
			if _, ok := types[iface]; ok {
				edges[iface] = true
			}
		}
		remaining[name] = edges
	}

	changed := true
	for changed {
		changed = false
		for name, edges := range remaining {
			if len(edges) == 0 {
				continue
			}
			allResolved := true
			for target := range edges {
				if len(remaining[target]) > 0 {
					allResolved = false
					break
				}
			}
			if allResolved {
				remaining[name] = map[string]bool{}
				changed = true
			}
		}
	}

	var cycle []string
	for name, edges := range remaining {
		if len(edges) > 0 {
			cycle = append(cycle, name)
		}
	}
	if len(cycle) > 0 {
		sortStrings(cycle)
		return &Error{Kind: KindCircularImplementsRelationships, TypeNames: cycle}
	}
	return nil
}

// checkInterfaceFieldCompatibility validates, for every object type, that
// each interface it claims to implement exists and that every one of that
// interface's fields is present on the object with a type compatible per
// the scalar-only subtype relation (non-null narrowing allowed, never
// relaxed).
func checkInterfaceFieldCompatibility(types map[string]*VertexType) *Error {
	var errs []*Error
	for typeName, vt := range types {
		if vt.Kind != KindObject {
			continue
		}
		for ifaceName := range vt.Implements {
			iface, ok := types[ifaceName]
			if !ok || iface.Kind != KindInterface {
				errs = append(errs, &Error{Kind: KindInvalidTypeReference, Type: typeName,
					Message: "implements unknown interface " + ifaceName})
				continue
			}
			for fieldName, ifaceField := range iface.Fields {
				objField, ok := vt.Fields[fieldName]
				if !ok {
					errs = append(errs, &Error{Kind: KindMissingRequiredInheritedField,
						Type: typeName, Interface: ifaceName, Field: fieldName})
					continue
				}
				if !value.IsScalarOnlySubtype(objField.Type, ifaceField.Type) {
					errs = append(errs, &Error{Kind: KindFieldTypeIncompatibleWithInterface,
						Type: typeName, Interface: ifaceName, Field: fieldName})
				}
			}
		}
	}
	return aggregate(errs)
}

// computeImplementors builds the interface-name -> implementing-object-names
// index used by Schema.Implementors.
func computeImplementors(types map[string]*VertexType) map[string]map[string]bool {
	out := map[string]map[string]bool{}
	for name, vt := range types {
		if vt.Kind != KindObject {
			continue
		}
		for iface := range vt.Implements {
			if out[iface] == nil {
				out[iface] = map[string]bool{}
			}
			out[iface][name] = true
		}
	}
	return out
}

// computeFieldIndex materializes the (type, field) -> def index, including
// fields inherited transitively from implemented interfaces.
func computeFieldIndex(types map[string]*VertexType) map[string]map[string]*FieldDef {
	out := map[string]map[string]*FieldDef{}
	for name, vt := range types {
		fields := map[string]*FieldDef{}
		for fname, f := range vt.Fields {
			fields[fname] = f
		}
		if vt.Kind == KindObject {
			for iface := range vt.Implements {
				ifaceType, ok := types[iface]
				if !ok {
					continue
				}
				for fname, f := range ifaceType.Fields {
					if _, exists := fields[fname]; !exists {
						fields[fname] = f
					}
				}
			}
		}
		out[name] = fields
	}
	return out
}
