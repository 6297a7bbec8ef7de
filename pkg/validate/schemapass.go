package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diag"
	"github.com/yaklabco/codeblock/pkg/schema"
	"github.com/yaklabco/codeblock/pkg/value"
)

// schemaErrors runs the native required/type checks and the conformance
// validator over a successfully parsed document.
func (v *Validator) schemaErrors(parsed any, text string, lang config.Language) []diag.ErrorInfo {
	if v.schema == nil {
		return nil
	}

	lines := strings.Split(text, "\n")
	errs := v.nativeSchema(parsed, v.schema, lines, lang, firstContentLine(lines))
	errs = append(errs, v.conformance(parsed, lines, lang)...)
	return errs
}

// nativeSchema checks required properties (errors) and primitive property
// types (warnings), descending into nested object schemas.
func (v *Validator) nativeSchema(val any, s *schema.Schema, lines []string, lang config.Language, objLine int) []diag.ErrorInfo {
	obj, ok := val.(*value.Object)
	if !ok || s == nil {
		return nil
	}

	var errs []diag.ErrorInfo
	for _, req := range s.Required {
		if _, present := obj.Get(req); !present {
			errs = append(errs, diag.NewError(diag.TypeSchema, objLine,
				fmt.Sprintf("Missing required property %q", req)).
				WithSource(sourceSchema).Build())
		}
	}

	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		prop, declared := s.Property(pair.Key)
		if !declared {
			continue
		}
		keyLine := findKeyLine(lines, pair.Key, lang, objLine)

		got := schema.TypeOf(pair.Value)
		if !prop.Allows(got) {
			errs = append(errs, diag.NewError(diag.TypeSchema, keyLine,
				fmt.Sprintf("Property %q should be %s, got %s (%s)",
					pair.Key, strings.Join(prop.Types, " or "), got, describe(pair.Value))).
				WithSeverity(config.SeverityWarning).
				WithToken(pair.Key).
				WithSource(sourceSchema).Build())
			continue
		}
		if got == "object" {
			errs = append(errs, v.nativeSchema(pair.Value, prop, lines, lang, keyLine)...)
		}
	}
	return errs
}

//nolint:gochecknoglobals // Printer is stateless and shared.
var printer = message.NewPrinter(language.English)

// quotedName pulls the first quoted word out of a validator message.
var quotedName = regexp.MustCompile(`'([^']+)'|"([^"]+)"`)

// typeNames finds JSON type names in a message such as "got string, want integer".
var typeNames = regexp.MustCompile(`\b(?:got|want) (\w+)`)

// conformance runs the compiled JSON Schema over the value and maps each leaf
// failure to a line and an offending token.
func (v *Validator) conformance(parsed any, lines []string, lang config.Language) []diag.ErrorInfo {
	if v.compiled == nil {
		return nil
	}

	err := v.compiled.Validate(value.ToPlain(parsed))
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}

	var errs []diag.ErrorInfo
	for _, leaf := range leaves(verr) {
		keyword := ""
		if leaf.ErrorKind != nil {
			if kp := leaf.ErrorKind.KeywordPath(); len(kp) > 0 {
				keyword = kp[len(kp)-1]
			}
		}
		// required and type on object paths are already reported natively.
		if (keyword == "required" || keyword == "type") && !throughArray(parsed, leaf.InstanceLocation) {
			continue
		}

		msg := leafMessage(leaf)
		line := locatePath(lines, leaf.InstanceLocation, lang)
		errs = append(errs, diag.NewError(diag.TypeSchema, line, msg).
			WithToken(offendingToken(parsed, leaf.InstanceLocation, msg)).
			WithSource(sourceConformance).Build())
	}
	return errs
}

// leaves flattens a validation error tree to the errors without causes.
func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range e.Causes {
		out = append(out, leaves(cause)...)
	}
	return out
}

func leafMessage(e *jsonschema.ValidationError) string {
	msg := ""
	if e.ErrorKind != nil {
		msg = e.ErrorKind.LocalizedString(printer)
	}
	if msg == "" {
		msg = e.Error()
	}
	if len(e.InstanceLocation) > 0 {
		return fmt.Sprintf("at /%s: %s", strings.Join(e.InstanceLocation, "/"), msg)
	}
	return msg
}

// offendingToken picks the text to mark: the scalar at the failing location,
// else a quoted property name, else a type name from the message.
func offendingToken(parsed any, path []string, msg string) string {
	if val, ok := valueAt(parsed, path); ok {
		switch val.(type) {
		case *value.Object, []any:
		default:
			return strings.Trim(describe(val), `"`)
		}
	}
	if m := quotedName.FindStringSubmatch(msg); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}
	if m := typeNames.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return ""
}

// valueAt follows a JSON pointer path through parsed values.
func valueAt(v any, path []string) (any, bool) {
	for _, seg := range path {
		switch typed := v.(type) {
		case *value.Object:
			next, ok := typed.Get(seg)
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			v = typed[idx]
		default:
			return nil, false
		}
	}
	return v, true
}

// throughArray reports whether the path crosses an array element.
func throughArray(v any, path []string) bool {
	for _, seg := range path {
		switch typed := v.(type) {
		case *value.Object:
			next, ok := typed.Get(seg)
			if !ok {
				return false
			}
			v = next
		case []any:
			return true
		default:
			return false
		}
	}
	return false
}

// locatePath finds the line of the deepest resolvable key on path.
func locatePath(lines []string, path []string, lang config.Language) int {
	line := firstContentLine(lines)
	for _, seg := range path {
		if _, err := strconv.Atoi(seg); err == nil {
			continue
		}
		line = findKeyLine(lines, seg, lang, line)
	}
	return line
}

// findKeyLine returns the first line at or after from that starts with key as
// a property name, or from when there is none.
func findKeyLine(lines []string, key string, lang config.Language, from int) int {
	quoted := strconv.Quote(key)
	for i := from; i <= len(lines); i++ {
		if i < 1 {
			continue
		}
		trimmed := strings.TrimSpace(lines[i-1])
		trimmed = strings.TrimPrefix(trimmed, "- ")
		trimmed = strings.TrimLeft(trimmed, "{[ ")

		var rest string
		switch {
		case strings.HasPrefix(trimmed, quoted):
			rest = trimmed[len(quoted):]
		case lang == config.LanguageYAML && strings.HasPrefix(trimmed, key):
			rest = trimmed[len(key):]
		default:
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(rest), ":") {
			return i
		}
	}
	return from
}

func firstContentLine(lines []string) int {
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			return i + 1
		}
	}
	return 1
}
