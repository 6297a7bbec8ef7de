package schema

import (
	"encoding/json"

	"github.com/yaklabco/codeblock/pkg/value"
)

// Example builds a sample value that satisfies the schema's declared shape.
// Defaults win, then the first enum member, then a placeholder for the type.
// Object properties appear in declaration order.
func (s *Schema) Example() any {
	if s == nil {
		return nil
	}
	if s.Default != nil {
		return s.Default
	}
	if len(s.Enum) > 0 {
		return s.Enum[0]
	}

	switch s.Type() {
	case "object":
		obj := value.NewObject()
		for _, p := range s.Properties {
			obj.Set(p.Name, p.Schema.Example())
		}
		return obj
	case "array":
		if s.Items == nil {
			return []any{}
		}
		return []any{s.Items.Example()}
	case "string":
		return ""
	case "integer", "number":
		return json.Number("0")
	case "boolean":
		return false
	case "null":
		return nil
	default:
		return nil
	}
}
