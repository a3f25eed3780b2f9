package frontend_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.appointy.com/graphwalk/frontend"
)

// TestParseMalformedInputNeverPanics runs a corpus of documents that are
// each broken in a different way — an empty or non-GraphQL document, or
// syntactically valid GraphQL that violates some query-parsing, schema, or
// lowering rule — and requires an error value back, never a panic. Each
// entry names the rule it trips.
func TestParseMalformedInputNeverPanics(t *testing.T) {
	s := mustSchema(t, itemsSchema)
	n := mustSchema(t, numbersSchema)

	cases := []struct {
		name   string
		schema string
		query  string
	}{
		{"empty document", "items", ``},
		{"not graphql at all", "items", `]]]`},
		{"mutation operation", "items", `mutation { Top(max: 1) { id } }`},
		{"unknown root field", "items", `query { Nope { id } }`},
		{"property as root", "items", `query { Top(max: 1) { id { nested } } }`},
		{"unknown child field", "items", `query { Top(max: 1) { nonsense @output } }`},
		{"coercion from object", "numbers", `query { Number(max: 1) { successor { ... on Number { value } } } }`},
		{"coercion to unknown type", "items", `query { Top(max: 1) { ... on Mystery { id } } }`},
		{"coercion to unrelated type", "items", `query { Top(max: 1) { ... on RootSchemaQuery { id } } }`},
		{"coercion with sibling selection", "items", `query { Top(max: 1) { id ... on Story { score } } }`},
		{"nested coercion", "items", `query { Top(max: 1) { ... on Story { ... on Job { id } } } }`},
		{"undefined tag", "numbers", `query { Number(max: 1) { value @filter(op: "=", value: ["%ghost"]) @output } }`},
		{"tag used before definition", "numbers", `query { Number(max: 1) { successor { value @filter(op: "=", value: ["%v"]) @output } value @tag(name: "v") } }`},
		{"tag defined inside sibling fold", "numbers", `query { Number(max: 5) { successor @fold @transform(op: "count") { value @tag(name: "v") } predecessor { value @filter(op: "=", value: ["%v"]) @output(name: "p") } } }`},
		{"duplicate output name", "numbers", `query { Number(max: 1) { value @output(name: "x") successor { value @output(name: "x") } } }`},
		{"duplicate edge parameter", "numbers", `query { Number(max: 1, max: 2) { value @output } }`},
		{"unknown edge parameter", "numbers", `query { Number(max: 1, bogus: 2) { value @output } }`},
		{"missing required edge parameter", "numbers", `query { Number { value @output } }`},
		{"edge parameter of wrong type", "numbers", `query { Number(max: "five") { value @output } }`},
		{"filter with no argument entries", "numbers", `query { Number(max: 1) { value @filter(op: "=", value: []) @output } }`},
		{"is_null with an argument", "numbers", `query { Number(max: 1) { value @filter(op: "is_null", value: ["$x"]) @output } }`},
		{"collection op with scalar argument", "numbers", `query($x: Int!) { Number(max: 1) { value @filter(op: "in_collection", value: ["$x"]) @output } }`},
		{"filter argument of mismatched type", "numbers", `query($x: String!) { Number(max: 1) { value @filter(op: "=", value: ["$x"]) @output } }`},
		{"recurse on property field", "numbers", `query { Number(max: 1) { value @recurse(depth: 2) { value } } }`},
		{"recurse depth zero", "numbers", `query { Number(max: 1) { predecessor @recurse(depth: 0) { value @output } } }`},
		{"optional on property field", "numbers", `query { Number(max: 1) { value @optional @output } }`},
		{"fragment spread", "items", "query { Top(max: 1) { ...F } }\nfragment F on Story { id }"},
		{"directive on root", "numbers", `query { Number(max: 1) @output { value } }`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sch := s
			if tc.schema == "numbers" {
				sch = n
			}
			require.NotPanics(t, func() {
				_, err := frontend.Parse(sch, tc.query)
				require.Error(t, err)
			})
		})
	}
}
