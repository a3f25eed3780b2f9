package schema

import (
	"strconv"
	"strings"

	"go.appointy.com/graphwalk/value"
)

// directiveDeclarations is the canonical declaration block for the seven
// recognized directives, emitted into every serialized schema so the output
// is a complete, self-describing document.
const directiveDeclarations = `directive @filter(op: String!, value: [String!]) on FIELD
directive @tag(name: String) on FIELD
directive @output(name: String) on FIELD
directive @optional on FIELD
directive @fold on FIELD
directive @recurse(depth: Int!) on FIELD
directive @transform(op: String!) on FIELD`

// Serialize renders s back to SDL text. The output is a fixed point:
// Parse(Serialize(s)) reconstructs a Schema identical to s. Scalars, enums,
// types, and fields are emitted in sorted order, and enum values and field
// parameters in their stored order, so serialization is itself
// deterministic.
func Serialize(s *Schema) string {
	var b strings.Builder

	b.WriteString("schema {\n  query: ")
	b.WriteString(s.QueryTypeName)
	b.WriteString("\n}\n\n")
	b.WriteString(directiveDeclarations)
	b.WriteString("\n")

	customScalars := make([]string, 0, len(s.scalars))
	for name := range s.scalars {
		if !builtinScalars[name] {
			customScalars = append(customScalars, name)
		}
	}
	sortStrings(customScalars)
	for _, name := range customScalars {
		b.WriteString("\nscalar ")
		b.WriteString(name)
		b.WriteString("\n")
	}

	enumNames := make([]string, 0, len(s.enums))
	for name := range s.enums {
		enumNames = append(enumNames, name)
	}
	sortStrings(enumNames)
	for _, name := range enumNames {
		b.WriteString("\nenum ")
		b.WriteString(name)
		b.WriteString(" {\n")
		for _, sym := range s.enums[name] {
			b.WriteString("  ")
			b.WriteString(sym)
			b.WriteString("\n")
		}
		b.WriteString("}\n")
	}

	for _, name := range sortedKeys(s.Types) {
		writeVertexType(&b, s.Types[name])
	}

	return b.String()
}

func writeVertexType(b *strings.Builder, vt *VertexType) {
	b.WriteString("\n")
	if vt.Kind == KindInterface {
		b.WriteString("interface ")
	} else {
		b.WriteString("type ")
	}
	b.WriteString(vt.Name)

	if len(vt.Implements) > 0 {
		ifaces := make([]string, 0, len(vt.Implements))
		for name := range vt.Implements {
			ifaces = append(ifaces, name)
		}
		sortStrings(ifaces)
		// graphql-go's grammar predates the ampersand-separated form; a
		// plain list (commas are insignificant) parses on every version.
		b.WriteString(" implements ")
		b.WriteString(strings.Join(ifaces, ", "))
	}

	b.WriteString(" {\n")
	fieldNames := make([]string, 0, len(vt.Fields))
	for name := range vt.Fields {
		fieldNames = append(fieldNames, name)
	}
	sortStrings(fieldNames)
	for _, name := range fieldNames {
		writeField(b, vt.Fields[name])
	}
	b.WriteString("}\n")
}

func writeField(b *strings.Builder, f *FieldDef) {
	b.WriteString("  ")
	b.WriteString(f.Name)
	if len(f.Params) > 0 {
		b.WriteString("(")
		for i, p := range f.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name)
			b.WriteString(": ")
			b.WriteString(p.Type.String())
			if p.HasDefault {
				b.WriteString(" = ")
				b.WriteString(printValue(p.DefaultValue))
			}
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(f.Type.String())
	b.WriteString("\n")
}

// printValue renders a constant Value in GraphQL literal syntax, the
// inverse of literalToValue.
func printValue(v value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return "null"
	case value.KindBool:
		return strconv.FormatBool(v.Bool())
	case value.KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case value.KindFloat:
		out := strconv.FormatFloat(v.Float(), 'g', -1, 64)
		// An integral float formats without a decimal point, which the
		// lexer would read back as an IntValue; force the float form.
		if !strings.ContainsAny(out, ".eE") {
			out += ".0"
		}
		return out
	case value.KindString:
		return strconv.Quote(v.Str())
	case value.KindEnum:
		return v.Enum_()
	case value.KindList:
		elems := v.List()
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = printValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "null"
	}
}
