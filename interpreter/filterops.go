package interpreter

import (
	"fmt"
	"regexp"
	"strings"

	"go.appointy.com/graphwalk/value"
)

// evaluateFilter applies one filter operator to a resolved operand and its
// (already-resolved) argument, implementing the fixed operator vocabulary.
// A null operand vacuously fails every operator except
// is_null/is_not_null, matching SQL-style null propagation. Ordering
// operators on values of mismatched or non-orderable kinds, or regex
// operators on non-string operands, return a runtime error rather than a
// silent false.
func evaluateFilter(op string, operand, arg value.Value) (bool, error) {
	if op == "is_null" {
		return operand.IsNull(), nil
	}
	if op == "is_not_null" {
		return !operand.IsNull(), nil
	}
	if operand.IsNull() {
		return false, nil
	}

	switch op {
	case "=":
		return value.Equal(operand, arg), nil
	case "!=":
		return !value.Equal(operand, arg), nil

	case "<", "<=", ">", ">=":
		if !value.Comparable(operand, arg) {
			return false, fmt.Errorf("operator %q: operand and argument are not of a comparable kind", op)
		}
		switch op {
		case "<":
			return value.Less(operand, arg), nil
		case ">":
			return value.Less(arg, operand), nil
		case "<=":
			return value.Less(operand, arg) || orderedEqual(operand, arg), nil
		default: // ">="
			return value.Less(arg, operand) || orderedEqual(operand, arg), nil
		}

	case "in_collection", "one_of":
		return memberOf(arg, operand), nil
	case "not_in_collection":
		return !memberOf(arg, operand), nil

	case "contains":
		if operand.Kind() != value.KindList {
			return false, fmt.Errorf("operator %q: operand is not a list", op)
		}
		return memberOf(operand, arg), nil
	case "not_contains":
		if operand.Kind() != value.KindList {
			return false, fmt.Errorf("operator %q: operand is not a list", op)
		}
		return !memberOf(operand, arg), nil

	case "has_prefix":
		if err := requireStrings(op, operand, arg); err != nil {
			return false, err
		}
		return strings.HasPrefix(operand.Str(), arg.Str()), nil
	case "has_suffix":
		if err := requireStrings(op, operand, arg); err != nil {
			return false, err
		}
		return strings.HasSuffix(operand.Str(), arg.Str()), nil
	case "has_substring":
		if err := requireStrings(op, operand, arg); err != nil {
			return false, err
		}
		return strings.Contains(operand.Str(), arg.Str()), nil

	case "regex":
		// Only tag-bound patterns reach this case; a $variable-bound
		// pattern is compiled once at argument-validation time and
		// evaluated through evaluateCompiledRegex.
		if err := requireStrings(op, operand, arg); err != nil {
			return false, err
		}
		re, err := regexp.Compile(arg.Str())
		if err != nil {
			return false, fmt.Errorf("operator %q: invalid pattern: %w", op, err)
		}
		return re.MatchString(operand.Str()), nil

	default:
		return false, fmt.Errorf("unknown filter operator %q", op)
	}
}

// evaluateCompiledRegex applies an already-compiled regex pattern to a
// resolved operand, with the same null and kind rules as evaluateFilter's
// regex case.
func evaluateCompiledRegex(re *regexp.Regexp, operand value.Value) (bool, error) {
	if operand.IsNull() {
		return false, nil
	}
	if err := requireStrings("regex", operand); err != nil {
		return false, err
	}
	return re.MatchString(operand.Str()), nil
}

// orderedEqual is Equal, except a NaN float is never ordered-equal to
// anything (including itself), so <=/>= do not let NaN slip through.
func orderedEqual(a, b value.Value) bool {
	if a.Kind() == value.KindFloat && (isNaN(a.Float()) || isNaN(b.Float())) {
		return false
	}
	return value.Equal(a, b)
}

func isNaN(f float64) bool { return f != f }

func memberOf(collection, needle value.Value) bool {
	if collection.Kind() != value.KindList {
		return false
	}
	for _, elem := range collection.List() {
		if value.Equal(elem, needle) {
			return true
		}
	}
	return false
}

func requireStrings(op string, vs ...value.Value) error {
	for _, v := range vs {
		if v.Kind() != value.KindString {
			return fmt.Errorf("operator %q: operand and argument must both be strings", op)
		}
	}
	return nil
}
