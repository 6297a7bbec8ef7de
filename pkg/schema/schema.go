// Package schema models the JSON-Schema-shaped object that drives example
// construction and schema validation of a code block.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/value"
)

// ErrInvalidSchema is returned when a schema document is not a JSON object or
// has malformed keywords.
var ErrInvalidSchema = errors.New("invalid schema")

// resourceURL is the name the schema is registered under when compiled.
const resourceURL = "codeblock://schema.json"

// Property is a named object property in declaration order.
type Property struct {
	Name   string
	Schema *Schema
}

// Schema is the subset of JSON Schema the editor understands directly. The
// full document is kept for compilation by the conformance validator.
type Schema struct {
	Types       []string
	Properties  []Property
	Required    []string
	Items       *Schema
	Enum        []any
	Default     any
	Description string

	raw any
}

// Load parses a schema document in the given language.
func Load(data []byte, lang config.Language) (*Schema, error) {
	raw, serr := value.ParseTolerant(string(data), lang)
	if serr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, serr)
	}
	return FromValue(raw)
}

// FromValue builds a schema from an already parsed document.
func FromValue(raw any) (*Schema, error) {
	obj, ok := raw.(*value.Object)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be an object, got %T", ErrInvalidSchema, raw)
	}
	s, err := fromObject(obj, "#")
	if err != nil {
		return nil, err
	}
	s.raw = raw
	return s, nil
}

func fromObject(obj *value.Object, path string) (*Schema, error) {
	s := &Schema{}

	if t, ok := obj.Get("type"); ok {
		switch typed := t.(type) {
		case string:
			s.Types = []string{typed}
		case []any:
			for _, item := range typed {
				name, isString := item.(string)
				if !isString {
					return nil, fmt.Errorf("%w: %s/type must contain strings", ErrInvalidSchema, path)
				}
				s.Types = append(s.Types, name)
			}
		default:
			return nil, fmt.Errorf("%w: %s/type must be a string or array", ErrInvalidSchema, path)
		}
	}

	if props, ok := obj.Get("properties"); ok {
		propsObj, isObj := props.(*value.Object)
		if !isObj {
			return nil, fmt.Errorf("%w: %s/properties must be an object", ErrInvalidSchema, path)
		}
		for pair := propsObj.Oldest(); pair != nil; pair = pair.Next() {
			child, isObj := pair.Value.(*value.Object)
			if !isObj {
				return nil, fmt.Errorf("%w: %s/properties/%s must be an object", ErrInvalidSchema, path, pair.Key)
			}
			propSchema, err := fromObject(child, path+"/properties/"+pair.Key)
			if err != nil {
				return nil, err
			}
			s.Properties = append(s.Properties, Property{Name: pair.Key, Schema: propSchema})
		}
	}

	if req, ok := obj.Get("required"); ok {
		list, isList := req.([]any)
		if !isList {
			return nil, fmt.Errorf("%w: %s/required must be an array", ErrInvalidSchema, path)
		}
		for _, item := range list {
			name, isString := item.(string)
			if !isString {
				return nil, fmt.Errorf("%w: %s/required must contain strings", ErrInvalidSchema, path)
			}
			s.Required = append(s.Required, name)
		}
	}

	if items, ok := obj.Get("items"); ok {
		if itemsObj, isObj := items.(*value.Object); isObj {
			itemSchema, err := fromObject(itemsObj, path+"/items")
			if err != nil {
				return nil, err
			}
			s.Items = itemSchema
		}
	}

	if enum, ok := obj.Get("enum"); ok {
		list, isList := enum.([]any)
		if !isList {
			return nil, fmt.Errorf("%w: %s/enum must be an array", ErrInvalidSchema, path)
		}
		s.Enum = list
	}

	if def, ok := obj.Get("default"); ok {
		s.Default = def
	}
	if desc, ok := obj.Get("description"); ok {
		s.Description, _ = desc.(string)
	}

	if len(s.Types) == 0 && len(s.Properties) > 0 {
		s.Types = []string{"object"}
	}
	return s, nil
}

// Type returns the primary declared type, or "" when none is declared.
func (s *Schema) Type() string {
	if s == nil || len(s.Types) == 0 {
		return ""
	}
	return s.Types[0]
}

// Property returns the schema of the named property.
func (s *Schema) Property(name string) (*Schema, bool) {
	if s == nil {
		return nil, false
	}
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// Allows reports whether the JSON type name is permitted. A schema without a
// type allows anything; "number" also admits integers.
func (s *Schema) Allows(typeName string) bool {
	if s == nil || len(s.Types) == 0 {
		return true
	}
	for _, t := range s.Types {
		if t == typeName || (t == "number" && typeName == "integer") {
			return true
		}
	}
	return false
}

// Raw returns the schema document as parsed.
func (s *Schema) Raw() any {
	return s.raw
}

// Compile compiles the full schema document for conformance validation.
func (s *Schema) Compile() (*jsonschema.Schema, error) {
	if s == nil || s.raw == nil {
		return nil, fmt.Errorf("%w: no document", ErrInvalidSchema)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceURL, value.ToPlain(s.raw)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return compiled, nil
}

// TypeOf returns the JSON type name of a parsed value.
func TypeOf(v any) string {
	switch typed := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		if _, err := typed.Int64(); err == nil {
			return "integer"
		}
		return "number"
	case int, int64:
		return "integer"
	case float64:
		return "number"
	case *value.Object, map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "unknown"
	}
}
