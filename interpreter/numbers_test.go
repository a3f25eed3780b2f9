package interpreter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.appointy.com/graphwalk/examples/numbers"
	"go.appointy.com/graphwalk/interpreter"
	"go.appointy.com/graphwalk/value"
)

func TestExecuteTagFilter(t *testing.T) {
	s := mustSchema(t, numbers.SDL)
	rows := runRows(t, s, `
query {
  Number(max: 5) {
    value @tag(name: "v")
    successor {
      value @filter(op: ">", value: ["%v"]) @output(name: "next")
    }
  }
}`, numbers.Adapter{}, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, value.Int(6), rows[0]["next"])
}

func TestExecuteRecurseWalksEveryDepth(t *testing.T) {
	s := mustSchema(t, numbers.SDL)
	rows := runRows(t, s, `
query {
  Number(max: 5) {
    predecessor @recurse(depth: 3) {
      value @output(name: "anc")
    }
  }
}`, numbers.Adapter{}, nil)

	got := intVals(rows, "anc")
	assert.ElementsMatch(t, []int64{5, 4, 3, 2}, got)
}

// TestExecuteRecurseWalksEveryDepthInOrder pins the exact row order a
// @recurse walk over a single starting vertex produces: depth 0 first,
// then each successive depth, per the adapter's own neighbor order
// (numbers' predecessor edge always yields at most one neighbor).
func TestExecuteRecurseWalksEveryDepthInOrder(t *testing.T) {
	s := mustSchema(t, numbers.SDL)
	rows := runRows(t, s, `
query {
  Number(max: 5) {
    predecessor @recurse(depth: 3) {
      value @output(name: "anc")
    }
  }
}`, numbers.Adapter{}, nil)

	got := intVals(rows, "anc")
	require.Equal(t, []int64{5, 4, 3, 2}, got)
}

func TestExecuteRecurseStopsAtAdapterBoundary(t *testing.T) {
	s := mustSchema(t, numbers.SDL)
	rows := runRows(t, s, `
query {
  Number(max: 1) {
    predecessor @recurse(depth: 5) {
      value @output(name: "anc")
    }
  }
}`, numbers.Adapter{}, nil)

	got := intVals(rows, "anc")
	assert.ElementsMatch(t, []int64{1, 0}, got)
}

func TestExecuteOptionalEdgeMiss(t *testing.T) {
	s := mustSchema(t, numbers.SDL)
	rows := runRows(t, s, `
query {
  Number(max: 0) {
    value @output
    predecessor @optional {
      value @output(name: "pred")
    }
  }
}`, numbers.Adapter{}, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, value.Int(0), rows[0]["value"])
	assert.Equal(t, value.Null, rows[0]["pred"])
}

func TestExecuteMandatoryEdgeZeroNeighborsDropsRow(t *testing.T) {
	s := mustSchema(t, numbers.SDL)
	rows := runRows(t, s, `
query {
  Number(max: 0) {
    predecessor {
      value @output
    }
  }
}`, numbers.Adapter{}, nil)

	assert.Empty(t, rows)
}

func TestExecuteFoldCount(t *testing.T) {
	s := mustSchema(t, numbers.SDL)
	rows := runRows(t, s, `
query {
  Number(max: 5) {
    value @output
    successor @fold @transform(op: "count") {
      value
    }
  }
}`, numbers.Adapter{}, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, value.Int(1), rows[0]["count"])
}

func TestExecuteFoldOverMissingNeighborIsEmpty(t *testing.T) {
	s := mustSchema(t, numbers.SDL)
	rows := runRows(t, s, `
query {
  Number(max: 0) {
    value @output
    predecessor @fold @transform(op: "count") {
      value
    }
  }
}`, numbers.Adapter{}, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, value.Int(0), rows[0]["count"])
}

// TestExecuteFoldListParallelToCount checks that a fold's count always
// equals the length of any parallel list output collected from the same
// subcomponent, and that the list preserves the adapter's neighbor order.
func TestExecuteFoldListParallelToCount(t *testing.T) {
	s := mustSchema(t, numbers.SDL)
	rows := runRows(t, s, `
query {
  Number(max: 3) {
    ancestors @fold @transform(op: "count") {
      value @output(name: "vals")
    }
  }
}`, numbers.Adapter{}, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, value.Int(3), rows[0]["count"])
	assert.Equal(t, value.List([]value.Value{value.Int(2), value.Int(1), value.Int(0)}), rows[0]["vals"])
	assert.EqualValues(t, rows[0]["count"].Int(), len(rows[0]["vals"].List()))
}

func TestExecuteArgumentValidation(t *testing.T) {
	s := mustSchema(t, numbers.SDL)
	irq, err := frontendParse(t, s, `
query($max: Int!) {
  Number(max: $max) {
    value @output
  }
}`)
	require.NoError(t, err)

	_, execErr := interpreter.Execute(ctxBackground(), s, irq, numbers.Adapter{}, map[string]value.Value{}, interpreter.ExecuteOptions{})
	require.Error(t, execErr)
	var argErr *interpreter.QueryArgumentsError
	require.ErrorAs(t, execErr, &argErr)
	assert.Contains(t, argErr.Name, "max")
}

func TestExecuteRejectsUnusedArguments(t *testing.T) {
	s := mustSchema(t, numbers.SDL)
	irq, err := frontendParse(t, s, `
query {
  Number(max: 3) {
    value @output
  }
}`)
	require.NoError(t, err)

	_, execErr := interpreter.Execute(ctxBackground(), s, irq, numbers.Adapter{}, map[string]value.Value{"unused": value.Int(1)}, interpreter.ExecuteOptions{})
	require.Error(t, execErr)
}
