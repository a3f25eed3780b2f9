package schema

import (
	"strconv"

	gqlast "github.com/graphql-go/graphql/language/ast"

	"go.appointy.com/graphwalk/value"
)

// literalToValue converts a constant AST value literal (as found in a
// field argument's default value) into the Value model. Non-constant nodes
// (a bare Variable, which cannot appear in a default value position) yield
// (Null, false).
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
