// Package value defines the universal value type carried through queries,
// filters, and result rows, and the declared-type grammar used to check it.
package value

import "fmt"

// Type is a declared type: a named scalar/object/interface, a list-of-type,
// or a non-null wrapper. The wire form is "Name", "[T]", "T!".
type Type interface {
	fmt.Stringer

	// isType is a no-op used to tag the known implementations of Type, to
	// prevent an arbitrary type from satisfying the interface.
	isType()
}

// Named is a named scalar, enum, object, or interface type.
type Named struct {
	Name string
}

func (n *Named) isType() {}

func (n *Named) String() string { return n.Name }

// List is a homogeneous list of elements of some other type.
type List struct {
	Of Type
}

func (l *List) isType() {}

func (l *List) String() string { return fmt.Sprintf("[%s]", l.Of) }

// NonNull wraps a type to forbid the null value.
type NonNull struct {
	Of Type
}

func (n *NonNull) isType() {}

func (n *NonNull) String() string { return fmt.Sprintf("%s!", n.Of) }

var (
	_ Type = &Named{}
	_ Type = &List{}
	_ Type = &NonNull{}
)

// IsNullable reports whether t permits the null value at its top level.
func IsNullable(t Type) bool {
	_, ok := t.(*NonNull)
	return !ok
}

// BaseName returns the innermost named type's name, unwrapping any number of
// List/NonNull wrappers.
func BaseName(t Type) string {
	switch v := t.(type) {
	case *Named:
		return v.Name
	case *List:
		return BaseName(v.Of)
	case *NonNull:
		return BaseName(v.Of)
	default:
		return ""
	}
}

// IsScalarOnlySubtype implements the scalar-only subtype relation:
// same base name; non-null may narrow a nullable; lists recurse
// element-wise. Subtyping across named non-scalar types is not decided
// here — it requires schema knowledge and is handled by the schema package's
// coercion rules.
func IsScalarOnlySubtype(sub, super Type) bool {
	if subNN, ok := sub.(*NonNull); ok {
		if superNN, ok2 := super.(*NonNull); ok2 {
			return IsScalarOnlySubtype(subNN.Of, superNN.Of)
		}
		// super is nullable, sub narrows to non-null: strip and keep comparing.
		return IsScalarOnlySubtype(subNN.Of, super)
	}
	if _, ok := super.(*NonNull); ok {
		// super demands non-null but sub is nullable: no narrowing backwards.
		return false
	}

	switch superV := super.(type) {
	case *List:
		subList, ok := sub.(*List)
		if !ok {
			return false
		}
		return IsScalarOnlySubtype(subList.Of, superV.Of)
	case *Named:
		subNamed, ok := sub.(*Named)
		if !ok {
			return false
		}
		return subNamed.Name == superV.Name
	default:
		return false
	}
}
