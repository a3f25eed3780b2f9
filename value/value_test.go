package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.appointy.com/graphwalk/value"
)

func TestEqualNaNIsBitwiseEqual(t *testing.T) {
	nan1 := value.Float(math.NaN())
	nan2 := value.Float(math.NaN())
	assert.True(t, value.Equal(nan1, nan2), "NaN must compare equal to itself under structural equality")
}

func TestEqualListsNest(t *testing.T) {
	a := value.List([]value.Value{value.Int(1), value.List([]value.Value{value.String("x")})})
	b := value.List([]value.Value{value.Int(1), value.List([]value.Value{value.String("x")})})
	c := value.List([]value.Value{value.Int(1), value.List([]value.Value{value.String("y")})})
	assert.True(t, value.Equal(a, b))
	assert.False(t, value.Equal(a, c))
}

func TestLessNaNNeverOrdered(t *testing.T) {
	nan := value.Float(math.NaN())
	one := value.Float(1.0)
	assert.False(t, value.Less(nan, one))
	assert.False(t, value.Less(one, nan))
	assert.False(t, value.Less(nan, nan))
}

func TestComparableRequiresSameKind(t *testing.T) {
	assert.True(t, value.Comparable(value.Int(1), value.Int(2)))
	assert.False(t, value.Comparable(value.Int(1), value.Float(2)))
	assert.False(t, value.Comparable(value.Bool(true), value.Bool(false)))
}

func TestIsScalarOnlySubtype(t *testing.T) {
	str := &value.Named{Name: "String"}
	nnStr := &value.NonNull{Of: str}
	listStr := &value.List{Of: str}
	listNNStr := &value.List{Of: nnStr}

	require.True(t, value.IsScalarOnlySubtype(nnStr, str), "non-null narrows nullable")
	require.False(t, value.IsScalarOnlySubtype(str, nnStr), "nullable can't widen to non-null")
	require.True(t, value.IsScalarOnlySubtype(listNNStr, listStr), "list element narrowing recurses")
	require.False(t, value.IsScalarOnlySubtype(listStr, listNNStr))

	diffNamed := &value.Named{Name: "Int"}
	require.False(t, value.IsScalarOnlySubtype(diffNamed, str))
}

func TestIsArgumentTypeValid(t *testing.T) {
	intType := &value.Named{Name: "Int"}
	nnInt := &value.NonNull{Of: intType}
	listInt := &value.List{Of: intType}

	require.True(t, value.IsArgumentTypeValid(intType, value.Int(3)))
	require.True(t, value.IsArgumentTypeValid(intType, value.Null))
	require.False(t, value.IsArgumentTypeValid(nnInt, value.Null))
	require.False(t, value.IsArgumentTypeValid(intType, value.Float(3.0)), "no auto-widening between Int and Float")
	require.True(t, value.IsArgumentTypeValid(listInt, value.List([]value.Value{value.Int(1), value.Int(2)})))
	require.False(t, value.IsArgumentTypeValid(listInt, value.List([]value.Value{value.String("x")})))
}
