package frontend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.appointy.com/graphwalk/frontend"
	"go.appointy.com/graphwalk/ir"
	"go.appointy.com/graphwalk/schema"
)

const itemsSchema = `
schema { query: RootSchemaQuery }

directive @filter(op: String!, value: [String!]) on FIELD
directive @tag(name: String) on FIELD
directive @output(name: String) on FIELD
directive @optional on FIELD
directive @fold on FIELD
directive @recurse(depth: Int!) on FIELD
directive @transform(op: String!) on FIELD

interface Item { id: String! title: String! }
type Story implements Item { id: String! title: String! score: Int! }
type Job implements Item { id: String! title: String! }

type RootSchemaQuery {
  Top(max: Int!): [Item!]!
}
`

const numbersSchema = `
schema { query: RootSchemaQuery }

directive @filter(op: String!, value: [String!]) on FIELD
directive @tag(name: String) on FIELD
directive @output(name: String) on FIELD
directive @optional on FIELD
directive @fold on FIELD
directive @recurse(depth: Int!) on FIELD
directive @transform(op: String!) on FIELD

type Number {
  value: Int!
  successor: Number!
  predecessor: Number!
}

type RootSchemaQuery {
  Number(max: Int!): Number!
}
`

func mustSchema(t *testing.T, text string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(text)
	require.NoError(t, err)
	return s
}

func TestLowerCoercion(t *testing.T) {
	s := mustSchema(t, itemsSchema)
	q, err := frontend.Parse(s, `
query {
  Top(max: 2) {
    ... on Story {
      title @output
    }
  }
}`)
	require.NoError(t, err)
	root := q.RootVertex()
	assert.Equal(t, "Item", root.TypeName)
	assert.Equal(t, "Story", root.Coercion)
	ref, ok := q.Outputs["title"]
	require.True(t, ok)
	assert.Equal(t, ir.FieldRefContext, ref.Kind)
}

func TestLowerTagFilter(t *testing.T) {
	s := mustSchema(t, numbersSchema)
	q, err := frontend.Parse(s, `
query {
  Number(max: 5) {
    value @tag(name: "v")
    successor {
      value @filter(op: ">", value: ["%v"]) @output(name: "next")
    }
  }
}`)
	require.NoError(t, err)
	_, ok := q.Outputs["next"]
	require.True(t, ok)
}

func TestLowerTagUsedBeforeDefinitionRejected(t *testing.T) {
	s := mustSchema(t, numbersSchema)
	_, err := frontend.Parse(s, `
query {
  Number(max: 5) {
    successor {
      value @filter(op: ">", value: ["%v"]) @output
    }
    value @tag(name: "v")
  }
}`)
	require.Error(t, err)
}

func TestLowerFoldCount(t *testing.T) {
	s := mustSchema(t, numbersSchema)
	q, err := frontend.Parse(s, `
query {
  Number(max: 5) {
    successor @fold @transform(op: "count") {
      value
    }
  }
}`)
	require.NoError(t, err)
	ref, ok := q.Outputs["count"]
	require.True(t, ok)
	assert.Equal(t, ir.FieldRefFoldSpecific, ref.Kind)
	assert.Equal(t, ir.FoldCount, ref.FoldAggregate)
}

func TestLowerMissingRequiredVariableArgumentSurfacesAtExecution(t *testing.T) {
	s := mustSchema(t, numbersSchema)
	q, err := frontend.Parse(s, `
query($max: Int!) {
  Number(max: $max) {
    value @output
  }
}`)
	require.NoError(t, err)
	assert.Contains(t, q.Variables, "max")
}

func TestLowerRecurse(t *testing.T) {
	s := mustSchema(t, numbersSchema)
	q, err := frontend.Parse(s, `
query {
  Number(max: 1) {
    value @output
    predecessor @recurse(depth: 3) {
      value @output(name: "anc")
    }
  }
}`)
	require.NoError(t, err)
	_, ok := q.Outputs["anc"]
	require.True(t, ok)
}

func TestLowerRecurseOnPropertyFieldRejected(t *testing.T) {
	s := mustSchema(t, itemsSchema)
	_, err := frontend.Parse(s, `
query {
  Top(max: 2) {
    ... on Story {
      title @recurse(depth: 2) {
        id
      }
    }
  }
}`)
	require.Error(t, err)
}
