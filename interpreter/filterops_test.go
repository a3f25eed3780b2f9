package interpreter

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.appointy.com/graphwalk/value"
)

func TestEvaluateFilterEquality(t *testing.T) {
	pass, err := evaluateFilter("=", value.Int(3), value.Int(3))
	require.NoError(t, err)
	assert.True(t, pass)

	pass, err = evaluateFilter("!=", value.String("a"), value.String("b"))
	require.NoError(t, err)
	assert.True(t, pass)
}

func TestEvaluateFilterOrdering(t *testing.T) {
	for _, tc := range []struct {
		op       string
		a, b     value.Value
		expected bool
	}{
		{"<", value.Int(1), value.Int(2), true},
		{"<=", value.Int(2), value.Int(2), true},
		{">", value.String("b"), value.String("a"), true},
		{">=", value.Float(1.5), value.Float(1.5), true},
		{">", value.Int(1), value.Int(2), false},
	} {
		pass, err := evaluateFilter(tc.op, tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, pass, "%v %s %v", tc.a, tc.op, tc.b)
	}
}

func TestEvaluateFilterOrderingIncomparableKindsIsError(t *testing.T) {
	_, err := evaluateFilter("<", value.Int(1), value.String("x"))
	require.Error(t, err)
}

// NaN is never ordered, and compares equal only to itself under =.
func TestEvaluateFilterNaN(t *testing.T) {
	nan := value.Float(math.NaN())

	for _, op := range []string{"<", "<=", ">", ">="} {
		pass, err := evaluateFilter(op, nan, nan)
		require.NoError(t, err)
		assert.False(t, pass, "NaN must not be ordered under %s", op)
	}

	pass, err := evaluateFilter("=", nan, nan)
	require.NoError(t, err)
	assert.True(t, pass)
}

func TestEvaluateFilterStringOps(t *testing.T) {
	s := value.String("graphwalk")
	for _, tc := range []struct {
		op       string
		arg      string
		expected bool
	}{
		{"has_prefix", "graph", true},
		{"has_suffix", "walk", true},
		{"has_substring", "phwa", true},
		{"has_prefix", "walk", false},
		{"regex", "^graph.*$", true},
		{"regex", "^walk", false},
	} {
		pass, err := evaluateFilter(tc.op, s, value.String(tc.arg))
		require.NoError(t, err)
		assert.Equal(t, tc.expected, pass, "%s %q", tc.op, tc.arg)
	}

	_, err := evaluateFilter("regex", s, value.String("(unclosed"))
	require.Error(t, err)
}

func TestEvaluateCompiledRegex(t *testing.T) {
	re := regexp.MustCompile("^graph")

	pass, err := evaluateCompiledRegex(re, value.String("graphwalk"))
	require.NoError(t, err)
	assert.True(t, pass)

	pass, err = evaluateCompiledRegex(re, value.Null)
	require.NoError(t, err)
	assert.False(t, pass)

	_, err = evaluateCompiledRegex(re, value.Int(1))
	require.Error(t, err)
}

func TestEvaluateFilterCollections(t *testing.T) {
	list := value.List([]value.Value{value.Int(1), value.Int(2)})

	pass, err := evaluateFilter("in_collection", value.Int(2), list)
	require.NoError(t, err)
	assert.True(t, pass)

	pass, err = evaluateFilter("not_in_collection", value.Int(3), list)
	require.NoError(t, err)
	assert.True(t, pass)

	pass, err = evaluateFilter("contains", list, value.Int(1))
	require.NoError(t, err)
	assert.True(t, pass)

	pass, err = evaluateFilter("not_contains", list, value.Int(9))
	require.NoError(t, err)
	assert.True(t, pass)

	_, err = evaluateFilter("contains", value.Int(1), value.Int(1))
	require.Error(t, err)
}

// TestEvaluateFilterPartition checks that for any predicate P, every
// operand lands in exactly one of: passes P, passes (not P), or is null —
// so the three counts always sum to the input count.
func TestEvaluateFilterPartition(t *testing.T) {
	operands := []value.Value{
		value.Int(1), value.Int(5), value.Int(10), value.Null, value.Int(3), value.Null,
	}
	threshold := value.Int(4)

	var lt, ge, null int
	for _, operand := range operands {
		isNull, err := evaluateFilter("is_null", operand, value.Null)
		require.NoError(t, err)
		if isNull {
			null++
			continue
		}
		pass, err := evaluateFilter("<", operand, threshold)
		require.NoError(t, err)
		if pass {
			lt++
		} else {
			ge++
		}
	}

	assert.Equal(t, len(operands), lt+ge+null)
	assert.Equal(t, 2, lt)
	assert.Equal(t, 2, ge)
	assert.Equal(t, 2, null)
}
