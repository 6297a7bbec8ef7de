package value

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/codeblock/pkg/config"
)

// ParseTolerant parses text in the given language, accepting comments and trailing
// commas in JSON. Blank input parses to nil without error.
func ParseTolerant(text string, lang config.Language) (any, *SyntaxError) {
	text = StripInvisible(text)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	if lang == config.LanguageYAML {
		v, err := ParseYAML(text)
		if err != nil {
			return nil, yamlSyntaxError(text, err)
		}
		return v, nil
	}

	// hujson blanks out comments and trailing commas in place, so offsets in the
	// standardized text still match the source.
	if standard, err := hujson.Standardize([]byte(text)); err == nil {
		v, perr := Parse(string(standard))
		if perr == nil {
			return v, nil
		}
		return nil, asSyntaxError(text, perr)
	}

	v, err := Parse(text)
	if err != nil {
		return nil, asSyntaxError(text, err)
	}
	return v, nil
}

func asSyntaxError(text string, err error) *SyntaxError {
	if se, ok := err.(*SyntaxError); ok {
		return se
	}
	line, col := LineColumn(text, len(text))
	return &SyntaxError{Line: line, Column: col, Offset: len(text), Message: err.Error()}
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)(?:, column (\d+))?`)

// yamlSyntaxError extracts the line number yaml.v3 embeds in its messages.
func yamlSyntaxError(text string, err error) *SyntaxError {
	message := strings.TrimPrefix(err.Error(), "yaml: ")
	line, col := LineColumn(text, len(text))
	col = 0

	if m := yamlLinePattern.FindStringSubmatch(message); m != nil {
		if n, convErr := strconv.Atoi(m[1]); convErr == nil {
			line = n
		}
		if m[2] != "" {
			if n, convErr := strconv.Atoi(m[2]); convErr == nil {
				col = n
			}
		}
		message = strings.TrimSpace(yamlLinePattern.ReplaceAllString(message, ""))
		message = strings.TrimPrefix(message, ":")
		message = strings.TrimSpace(message)
	}

	return &SyntaxError{Line: line, Column: col, Message: message}
}

// ParseYAML decodes a YAML document into ordered values.
func ParseYAML(text string) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return fromNode(&doc)
}

// fromNode converts a yaml.v3 node into the package's value shapes.
func fromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromNode(node.Content[0])

	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			val, err := fromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		return obj, nil

	case yaml.SequenceNode:
		arr := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			val, err := fromNode(child)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil

	case yaml.AliasNode:
		return fromNode(node.Alias)

	case yaml.ScalarNode:
		return fromScalar(node)

	default:
		return nil, nil
	}
}

func fromScalar(node *yaml.Node) (any, error) {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}

	switch typed := raw.(type) {
	case int:
		return toNumber(strconv.Itoa(typed)), nil
	case int64:
		return toNumber(strconv.FormatInt(typed, 10)), nil
	case uint64:
		return toNumber(strconv.FormatUint(typed, 10)), nil
	case float64:
		return toNumber(strconv.FormatFloat(typed, 'g', -1, 64)), nil
	case string, bool, nil:
		return typed, nil
	default:
		// Timestamps and binary scalars keep their source text.
		return node.Value, nil
	}
}
