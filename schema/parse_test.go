package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.appointy.com/graphwalk/schema"
)

const itemsSchema = `
schema {
  query: RootSchemaQuery
}

directive @filter(op: String!, value: [String!]) on FIELD
directive @tag(name: String) on FIELD
directive @output(name: String) on FIELD
directive @optional on FIELD
directive @fold on FIELD
directive @recurse(depth: Int!) on FIELD
directive @transform(op: String!) on FIELD

interface Item {
  id: String!
  title: String!
}

type Story implements Item {
  id: String!
  title: String!
  score: Int!
}

type Job implements Item {
  id: String!
  title: String!
}

type Comment implements Item {
  id: String!
  title: String!
  parent: Item
}

type RootSchemaQuery {
  Top(max: Int!): [Item!]!
}
`

func TestParseValidSchema(t *testing.T) {
	s, err := schema.Parse(itemsSchema)
	require.NoError(t, err)
	assert.Equal(t, "RootSchemaQuery", s.QueryTypeName)
	assert.True(t, s.Implements("Story", "Item"))
	assert.True(t, s.Implementors("Item")["Job"])

	f, ok := s.Field("Story", "title")
	require.True(t, ok)
	assert.Equal(t, "String!", f.Type.String())

	tn, ok := s.Field("Story", "__typename")
	require.True(t, ok)
	assert.Equal(t, "String!", tn.Type.String())
}

func TestParseMissingQueryRoot(t *testing.T) {
	_, err := schema.Parse(`type Foo { bar: String }`)
	require.Error(t, err)
}

func TestParseMissingRequiredInheritedField(t *testing.T) {
	_, err := schema.Parse(`
schema { query: Q }
interface Item { id: String! title: String! }
type Story implements Item { id: String! }
type Q { top: Item }
`)
	require.Error(t, err)
}

func TestParseIncompatibleFieldWidening(t *testing.T) {
	// An object may narrow a nullable interface field to non-null, but not
	// the reverse: here Story relaxes Item.title (String!) to a nullable
	// String, which must be rejected.
	_, err := schema.Parse(`
schema { query: Q }
interface Item { id: String! title: String! }
type Story implements Item { id: String! title: String }
type Q { top: Item }
`)
	require.Error(t, err)
}

func TestParseUnknownDirectiveRejected(t *testing.T) {
	_, err := schema.Parse(`
schema { query: Q }
directive @bogus on FIELD
type Q { top: String }
`)
	require.Error(t, err)
}

func TestParseRejectsUnionTypes(t *testing.T) {
	_, err := schema.Parse(`
schema { query: Q }
type A { x: String }
type B { x: String }
union AB = A | B
type Q { top: String }
`)
	require.Error(t, err)
}

func TestEntryPoints(t *testing.T) {
	s, err := schema.Parse(itemsSchema)
	require.NoError(t, err)
	eps := s.EntryPoints()
	require.Len(t, eps, 1)
	assert.Equal(t, "Top", eps[0].Name)
	p, ok := eps[0].Param("max")
	require.True(t, ok)
	assert.Equal(t, "Int!", p.Type.String())
}
