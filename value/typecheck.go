package value

// IsArgumentTypeValid recursively validates that value is assignable to
// declared: null only to a nullable type; list element types match
// element-wise; numeric types are not auto-widened (an Int value is never
// valid where Float is declared, or vice versa). Used by query-argument
// validation and by the frontend's check of literal edge parameters.
func IsArgumentTypeValid(declared Type, v Value) bool {
	if nn, ok := declared.(*NonNull); ok {
		if v.IsNull() {
			return false
		}
		return IsArgumentTypeValid(nn.Of, v)
	}

	if v.IsNull() {
		return true
	}

	switch d := declared.(type) {
	case *List:
		if v.Kind() != KindList {
			return false
		}
		for _, elem := range v.List() {
			if !IsArgumentTypeValid(d.Of, elem) {
				return false
			}
		}
		return true
	case *Named:
		switch d.Name {
		case "Int":
			return v.Kind() == KindInt
		case "Float":
			// Numeric types are not auto-widened: an Int literal
			// is not a valid Float value. Neither queryast nor frontend
			// converts an integer literal to Float, so such a literal
			// supplied for a Float parameter is rejected here.
			return v.Kind() == KindFloat
		case "String", "ID":
			return v.Kind() == KindString
		case "Boolean":
			return v.Kind() == KindBool
		default:
			// A named enum, object, or interface type: accept the matching
			// Kind.Enum for enums; object/interface-typed values never flow
			// through the value model directly (only scalar/enum
			// types may appear as output/tag/filter operands), so any
			// other kind is invalid here.
			return v.Kind() == KindEnum
		}
	default:
		return false
	}
}

// Assignable is an alias for IsArgumentTypeValid, named for the invariant
// it checks: every value flowing through the engine has a declared type,
// and Assignable(declared, value) holds.
func Assignable(declared Type, v Value) bool {
	return IsArgumentTypeValid(declared, v)
}
