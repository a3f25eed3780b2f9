package queryast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.appointy.com/graphwalk/queryast"
)

func TestParseSimpleQuery(t *testing.T) {
	q, err := queryast.ParseDocument(`
query {
  Top(max: 3) {
    name @output
    successor @tag(name: "succ") {
      value @filter(op: ">", value: ["%succ"]) @output
    }
  }
}`)
	require.NoError(t, err)
	require.Equal(t, "Top", q.Root.Name)
	require.Len(t, q.Root.Children, 2)

	name := q.Root.Children[0].Field
	assert.Equal(t, "name", name.Name)
	assert.Len(t, name.Directives, 1)
	assert.Equal(t, queryast.DirectiveOutput, name.Directives[0].Kind)
}

func TestParseCoercionMustBeSoleChild(t *testing.T) {
	_, err := queryast.ParseDocument(`
query {
  Top(max: 3) {
    name
    ... on Story {
      score
    }
  }
}`)
	require.Error(t, err)
}

func TestParseCoercionAppliesSelections(t *testing.T) {
	q, err := queryast.ParseDocument(`
query {
  Top(max: 3) {
    ... on Story {
      score @output
    }
  }
}`)
	require.NoError(t, err)
	child := q.Root.Children[0].Field
	assert.Equal(t, "Story", q.Root.Coercion)
	assert.Equal(t, "score", child.Name)
}

func TestParseNestedCoercionRejected(t *testing.T) {
	_, err := queryast.ParseDocument(`
query {
  Top(max: 3) {
    ... on Story {
      ... on Job {
        score
      }
    }
  }
}`)
	require.Error(t, err)
}

func TestParseMultipleRootFieldsRejected(t *testing.T) {
	_, err := queryast.ParseDocument(`
query {
  Top(max: 3) { name }
  Bottom(max: 3) { name }
}`)
	require.Error(t, err)
}

func TestParseDuplicateDirectiveRejected(t *testing.T) {
	_, err := queryast.ParseDocument(`
query {
  Top(max: 3) {
    name @output @output
  }
}`)
	require.Error(t, err)
}

func TestParseRepeatableFilterAllowed(t *testing.T) {
	q, err := queryast.ParseDocument(`
query {
  Top(max: 3) {
    name @filter(op: ">", value: ["$lo"]) @filter(op: "<", value: ["$hi"])
  }
}`)
	require.NoError(t, err)
	assert.Len(t, q.Root.Children[0].Field.Directives, 2)
}

func TestParseUnknownFilterOperatorRejected(t *testing.T) {
	_, err := queryast.ParseDocument(`
query {
  Top(max: 3) {
    name @filter(op: "~~", value: ["$x"])
  }
}`)
	require.Error(t, err)
}

func TestParseRecurseDepthValidated(t *testing.T) {
	_, err := queryast.ParseDocument(`
query {
  Top(max: 3) {
    successor @recurse(depth: 0) {
      name
    }
  }
}`)
	require.Error(t, err)
}

func TestParseTransformOnlySupportsCount(t *testing.T) {
	_, err := queryast.ParseDocument(`
query {
  Top(max: 3) {
    successor @fold {
      name @transform(op: "sum") @output
    }
  }
}`)
	require.Error(t, err)
}

func TestParseVariableDeclarations(t *testing.T) {
	q, err := queryast.ParseDocument(`
query($max: Int!) {
  Top(max: $max) {
    name @output
  }
}`)
	require.NoError(t, err)
	decl, ok := q.Variables["max"]
	require.True(t, ok)
	assert.Equal(t, "Int!", decl.Type.String())
}

func TestParseFragmentSpreadRejected(t *testing.T) {
	_, err := queryast.ParseDocument(`
query {
  Top(max: 3) {
    ...Frag
  }
}
fragment Frag on Story {
  score
}`)
	require.Error(t, err)
}
