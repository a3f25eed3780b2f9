package interpreter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"go.appointy.com/graphwalk/adapter"
	"go.appointy.com/graphwalk/frontend"
	"go.appointy.com/graphwalk/interpreter"
	"go.appointy.com/graphwalk/ir"
	"go.appointy.com/graphwalk/schema"
	"go.appointy.com/graphwalk/value"
)

// mustSchema parses schema text, failing the test on error — the
// single-purpose fixture helper every scenario test below builds on.
func mustSchema(t *testing.T, text string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(text)
	require.NoError(t, err)
	return s
}

// runRows parses and lowers a query text against s, executes it against
// adapter a with the given arguments, and collects every row — failing
// the test immediately if anything in the pipeline errors.
func runRows[V any](t *testing.T, s *schema.Schema, text string, a adapter.Adapter[V], args map[string]value.Value) []interpreter.Row {
	t.Helper()
	irq, err := frontend.Parse(s, text)
	require.NoError(t, err)

	seq, err := interpreter.Execute(context.Background(), s, irq, a, args, interpreter.ExecuteOptions{})
	require.NoError(t, err)

	var rows []interpreter.Row
	for row, rowErr := range seq {
		require.NoError(t, rowErr)
		rows = append(rows, row)
	}
	return rows
}

// frontendParse is runRows's parse-only half, for tests that need to
// drive interpreter.Execute directly (e.g. to inspect its error).
func frontendParse(t *testing.T, s *schema.Schema, text string) (*ir.IRQuery, error) {
	t.Helper()
	return frontend.Parse(s, text)
}

func ctxBackground() context.Context { return context.Background() }

func intVals(rows []interpreter.Row, name string) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r[name].Int()
	}
	return out
}
