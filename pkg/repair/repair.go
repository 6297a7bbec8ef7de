// Package repair recovers a best-effort value from incomplete or malformed JSON,
// such as text a user is in the middle of typing.
//
// Repair never returns an error and never panics; when nothing can be
// recovered it reports failure.
package repair

import (
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/yaklabco/codeblock/pkg/value"
)

// Stage identifies which recovery step produced a value.
type Stage int

// Recovery stages, attempted in order.
const (
	StageNone Stage = iota
	StageStrict
	StageTolerant
	StageRegex
	StageSalvage
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageStrict:
		return "strict"
	case StageTolerant:
		return "tolerant"
	case StageRegex:
		return "regex"
	case StageSalvage:
		return "salvage"
	case StageNone:
		return "none"
	default:
		return "unknown"
	}
}

// Result is the outcome of Repair.
type Result struct {
	Value any
	Stage Stage
	OK    bool
}

// TryRepair returns input unchanged when it is already a parsed value, and
// otherwise repairs the string form. It returns (nil, false) when nothing can be
// recovered.
func TryRepair(input any) (any, bool) {
	switch typed := input.(type) {
	case nil:
		return nil, false
	case string:
		res := Repair(typed)
		return res.Value, res.OK
	case []byte:
		res := Repair(string(typed))
		return res.Value, res.OK
	default:
		return input, true
	}
}

// Repair runs the recovery stages in order and returns the first success.
func Repair(input string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
		}
	}()

	text := value.StripInvisible(input)
	if strings.TrimSpace(text) == "" {
		return Result{}
	}

	if v, err := value.Parse(text); err == nil {
		return Result{Value: v, Stage: StageStrict, OK: true}
	}

	if v, ok := tolerant(text); ok {
		return Result{Value: v, Stage: StageTolerant, OK: true}
	}

	if v, ok := regexFix(text); ok {
		return Result{Value: v, Stage: StageRegex, OK: true}
	}

	if obj := Salvage(text); obj != nil {
		return Result{Value: obj, Stage: StageSalvage, OK: true}
	}

	return Result{}
}

// danglingValue matches a key whose value is missing: `"key":` followed by a
// separator, a closer or the end of input.
var danglingValue = regexp.MustCompile(`"(?:[^"\\]|\\.)*"\s*:\s*(?:[,}\]]|$)`)

// danglingKey matches input that ends in an object key with no colon yet.
var danglingKey = regexp.MustCompile(`[{,]\s*"(?:[^"\\]|\\.)*"?\s*$`)

// tolerant runs the general repair library. Inputs with a missing value are
// left to later stages so that no value is invented for them.
func tolerant(text string) (any, bool) {
	if danglingValue.MatchString(text) || danglingKey.MatchString(text) {
		return nil, false
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, false
	}

	v, err := value.Parse(repaired)
	if err != nil || !isContainer(v) {
		return nil, false
	}
	return v, true
}

var (
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
	unquotedKey   = regexp.MustCompile(`([{,]\s*)([A-Za-z_$][\w$-]*)(\s*:)`)
	singleQuoted  = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'`)
)

// regexFix applies targeted textual fixes and retries a strict parse.
func regexFix(text string) (any, bool) {
	fixed := trailingComma.ReplaceAllString(text, "$1")
	fixed = unquotedKey.ReplaceAllString(fixed, `$1"$2"$3`)
	fixed = singleQuoted.ReplaceAllStringFunc(fixed, func(m string) string {
		body := m[1 : len(m)-1]
		body = strings.ReplaceAll(body, `\'`, `'`)
		body = strings.ReplaceAll(body, `"`, `\"`)
		return `"` + body + `"`
	})

	if fixed == text {
		return nil, false
	}

	v, err := value.Parse(fixed)
	if err != nil || !isContainer(v) {
		return nil, false
	}
	return v, true
}

// isContainer reports whether v is an object or array. The repair stages may
// only recover structure; bare text that jsonrepair quotes into a string is
// not a recovery.
func isContainer(v any) bool {
	switch v.(type) {
	case *value.Object, []any:
		return true
	default:
		return false
	}
}
