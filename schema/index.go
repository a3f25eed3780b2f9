package schema

import "sort"

// sortedKeys returns the keys of m in sorted order, so VertexTypes() is
// deterministic; tests and callers may assume stable iteration order.
func sortedKeys(m map[string]*VertexType) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sortStrings(out)
	return out
}

func sortStrings(s []string) {
	sort.Strings(s)
}

// builtinScalars is the set of scalar names recognized without a
// declaration in the document, matching the base GraphQL scalars plus ID.
var builtinScalars = map[string]bool{
	"Int":     true,
	"Float":   true,
	"String":  true,
	"Boolean": true,
	"ID":      true,
}
