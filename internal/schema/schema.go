// Package schema infers a JSON Schema skeleton from a parsed document.
// Inference is presence-level: it records shapes and key sets, never
// validation constraints.
package schema

import (
	"strings"

	"github.com/jsonpeek/jsonpeek/internal/models"
)

// draftURL identifies the schema dialect of the generated skeleton.
const draftURL = "https://json-schema.org/draft/2020-12/schema"

// Infer builds a JSON Schema skeleton for a document: scalar types, array
// items from the first element, object properties in key order with every
// present key required. The result is an ordered document itself, so it
// serializes stably.
func Infer(v models.Value) models.Value {
	out := models.NewObject()
	out.SetMember("$schema", models.NewString(draftURL))
	for _, m := range schemaOf(v).Members {
		out.SetMember(m.Key, m.Value)
	}
	return out
}

func schemaOf(v models.Value) models.Value {
	s := models.NewObject()
	s.SetMember("type", models.NewString(typeName(v)))

	switch v.Kind {
	case models.Object:
		props := models.NewObject()
		required := models.NewArray()
		for _, m := range v.Members {
			props.SetMember(m.Key, schemaOf(m.Value))
			required.Elems = append(required.Elems, models.NewString(m.Key))
		}
		s.SetMember("properties", props)
		if len(v.Members) > 0 {
			s.SetMember("required", required)
		}
	case models.Array:
		// The first element stands in for all of them
		if first, ok := v.At(0); ok {
			s.SetMember("items", schemaOf(first))
		}
	}

	return s
}

func typeName(v models.Value) string {
	switch v.Kind {
	case models.Null:
		return "null"
	case models.Boolean:
		return "boolean"
	case models.Number:
		if isIntegral(v.Num.String()) {
			return "integer"
		}
		return "number"
	case models.String:
		return "string"
	case models.Array:
		return "array"
	default:
		return "object"
	}
}

// isIntegral checks the number's source text rather than its parsed value,
// so 1.0 stays "number".
func isIntegral(num string) bool {
	return !strings.ContainsAny(num, ".eE")
}
