// Package langdetect classifies content handed to the editor: structured
// documents it can edit (JSON, YAML) versus source code in other languages,
// which is pasted verbatim. Code detection uses go-enry.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/value"
)

// Language tags returned in Result.Name.
const (
	LangGo         = "go"
	LangPython     = "python"
	LangJavaScript = "javascript"
	LangJSON       = "json"
	LangYAML       = "yaml"
	LangHTML       = "html"
	LangSQL        = "sql"
	LangRust       = "rust"
	LangBash       = "bash"
	LangText       = "text"
)

// classifierCandidates limits go-enry's classifier to common languages.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS",
}

// Result is the outcome of Detect.
type Result struct {
	// Name is a lowercase language tag, LangText when nothing matched.
	Name string

	// Document is the editor language for JSON and YAML content, empty otherwise.
	Document config.Language
}

// IsDocument reports whether the content is a JSON or YAML document.
func (r Result) IsDocument() bool {
	return r.Document != ""
}

// IsCode reports whether the content is source code in another language.
func (r Result) IsCode() bool {
	return r.Document == "" && r.Name != LangText
}

// Detect classifies content.
func Detect(content []byte) Result {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return Result{Name: LangText}
	}

	// Shebangs are unambiguous.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return code(lang)
	}

	if isJSON(trimmed) {
		return Result{Name: LangJSON, Document: config.LanguageJSON}
	}

	if lang := detectCode(content, trimmed); lang != "" {
		return Result{Name: lang}
	}

	if isYAML(content) {
		return Result{Name: LangYAML, Document: config.LanguageYAML}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		switch lang {
		case "JSON":
			return Result{Name: LangJSON, Document: config.LanguageJSON}
		case "YAML":
			return Result{Name: LangYAML, Document: config.LanguageYAML}
		}
		return code(lang)
	}

	return Result{Name: LangText}
}

// DocumentLanguage picks the editor language for pasted text: content that
// starts with '{' or '[' is JSON, anything else YAML.
func DocumentLanguage(text string) config.Language {
	trimmed := strings.TrimSpace(value.StripInvisible(text))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return config.LanguageJSON
	}
	return config.LanguageYAML
}

func code(enryName string) Result {
	return Result{Name: normalize(enryName)}
}

// isJSON accepts bracketed content that parses, tolerating comments and
// trailing commas, or that at least looks like JSON.
func isJSON(trimmed []byte) bool {
	if !bytes.HasPrefix(trimmed, []byte("{")) && !bytes.HasPrefix(trimmed, []byte("[")) {
		return false
	}
	if _, serr := value.ParseTolerant(string(trimmed), config.LanguageJSON); serr == nil {
		return true
	}
	return bytes.Contains(trimmed, []byte(`"`)) && !bytes.Contains(trimmed, []byte("=>"))
}

// detectCode matches patterns that are highly indicative of a language.
func detectCode(content, trimmed []byte) string {
	contentStr := string(content)

	switch {
	case bytes.HasPrefix(trimmed, []byte("package ")):
		return LangGo
	case isPython(contentStr):
		return LangPython
	case isHTML(trimmed):
		return LangHTML
	case isSQL(contentStr):
		return LangSQL
	case strings.Contains(contentStr, "fn main()") ||
		strings.Contains(contentStr, "println!") ||
		strings.Contains(contentStr, "let mut "):
		return LangRust
	case strings.Contains(contentStr, "=>") ||
		strings.Contains(contentStr, "const ") ||
		strings.Contains(contentStr, "let ") ||
		strings.Contains(contentStr, "console.log"):
		return LangJavaScript
	}
	return ""
}

func isPython(contentStr string) bool {
	if strings.Contains(contentStr, "def ") && strings.Contains(contentStr, "):") {
		return true
	}
	// Go uses "import (".
	if strings.Contains(contentStr, "import ") && !strings.Contains(contentStr, "import (") {
		if strings.Contains(contentStr, "from ") || strings.HasPrefix(strings.TrimSpace(contentStr), "import ") {
			return true
		}
	}
	return strings.Contains(contentStr, "__name__") || strings.Contains(contentStr, "__main__")
}

func isHTML(trimmed []byte) bool {
	lower := bytes.ToLower(trimmed)
	return bytes.Contains(lower, []byte("<!doctype html")) ||
		bytes.Contains(lower, []byte("<html")) ||
		bytes.Contains(lower, []byte("<head>")) ||
		bytes.Contains(lower, []byte("<body>"))
}

func isSQL(contentStr string) bool {
	upper := strings.ToUpper(strings.TrimSpace(contentStr))
	for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}

// isYAML counts key: value pairs and list items. Two are enough.
func isYAML(content []byte) bool {
	count := 0
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || bytes.HasPrefix(line, []byte("#")) {
			continue
		}
		if (bytes.Contains(line, []byte(": ")) || bytes.HasSuffix(line, []byte(":"))) &&
			!bytes.Contains(line, []byte("(")) &&
			!bytes.Contains(line, []byte("{")) &&
			!bytes.HasPrefix(line, []byte(`"`)) {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count >= 2
}

// normalize converts go-enry language names to lowercase tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return LangBash
	}
	return strings.ToLower(lang)
}
