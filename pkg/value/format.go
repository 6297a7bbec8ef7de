package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/codeblock/pkg/config"
)

// indentUnit is the indentation used by Format for both languages.
const indentUnit = "  "

// Format pretty-prints v in the given language, preserving object key order.
func Format(v any, lang config.Language) (string, error) {
	if lang == config.LanguageYAML {
		return formatYAML(v)
	}

	var b strings.Builder
	if err := writeJSON(&b, v, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MustFormatJSON formats v as JSON and panics on unsupported values.
// Only used for values produced by this package.
func MustFormatJSON(v any) string {
	s, err := Format(v, config.LanguageJSON)
	if err != nil {
		panic(err)
	}
	return s
}

func writeJSON(b *strings.Builder, v any, depth int) error {
	switch typed := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(typed))
	case json.Number:
		b.WriteString(typed.String())
	case string:
		b.WriteString(quote(typed))
	case int:
		b.WriteString(strconv.Itoa(typed))
	case int64:
		b.WriteString(strconv.FormatInt(typed, 10))
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return fmt.Errorf("unsupported number %v", typed)
		}
		b.WriteString(strconv.FormatFloat(typed, 'g', -1, 64))

	case *Object:
		if typed == nil || typed.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		first := true
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				b.WriteString(",\n")
			}
			first = false
			writeIndent(b, depth+1)
			b.WriteString(quote(pair.Key))
			b.WriteString(": ")
			if err := writeJSON(b, pair.Value, depth+1); err != nil {
				return err
			}
		}
		b.WriteString("\n")
		writeIndent(b, depth)
		b.WriteString("}")

	case map[string]any:
		obj := NewObject()
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, typed[k])
		}
		return writeJSON(b, obj, depth)

	case []any:
		if len(typed) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteString("[\n")
		for i, item := range typed {
			if i > 0 {
				b.WriteString(",\n")
			}
			writeIndent(b, depth+1)
			if err := writeJSON(b, item, depth+1); err != nil {
				return err
			}
		}
		b.WriteString("\n")
		writeIndent(b, depth)
		b.WriteString("]")

	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

func writeIndent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteString(indentUnit)
	}
}

// quote encodes s as a JSON string without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func formatYAML(v any) (string, error) {
	node, err := toNode(v)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(len(indentUnit))
	if err := enc.Encode(node); err != nil {
		return "", fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding yaml: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// toNode builds a yaml.v3 node tree for v so mapping order is kept.
func toNode(v any) (*yaml.Node, error) {
	switch typed := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(typed)}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: typed}, nil
	case json.Number:
		return numberNode(typed.String()), nil
	case int:
		return numberNode(strconv.Itoa(typed)), nil
	case int64:
		return numberNode(strconv.FormatInt(typed, 10)), nil
	case float64:
		return numberNode(strconv.FormatFloat(typed, 'g', -1, 64)), nil

	case *Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if typed == nil {
			return node, nil
		}
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			child, err := toNode(pair.Value)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key}
			node.Content = append(node.Content, key, child)
		}
		if len(node.Content) == 0 {
			node.Style = yaml.FlowStyle
		}
		return node, nil

	case map[string]any:
		obj := NewObject()
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, typed[k])
		}
		return toNode(obj)

	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed {
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		if len(node.Content) == 0 {
			node.Style = yaml.FlowStyle
		}
		return node, nil

	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func numberNode(s string) *yaml.Node {
	tag := "!!int"
	if strings.ContainsAny(s, ".eE") {
		tag = "!!float"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: s}
}
