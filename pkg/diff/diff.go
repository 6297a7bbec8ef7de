// Package diff computes line diffs between two structured values and encodes
// them in the pipe-separated wire format consumed by the diff view.
package diff

import (
	"fmt"
	"strings"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/value"
)

// Type is the kind of a diff record.
type Type string

// Record types.
const (
	TypeContext Type = "context"
	TypeAdded   Type = "added"
	TypeRemoved Type = "removed"
	TypeFold    Type = "fold"
)

// Record is one rendered diff line. OldLine and NewLine are 1-based and zero
// when the line does not exist on that side.
type Record struct {
	Type    Type
	OldLine int
	NewLine int
	Content string

	// Fold is set for fold records only.
	Fold *FoldRange
}

// FoldRange describes a collapsed run of context lines.
type FoldRange struct {
	OldStart int
	OldEnd   int
	NewStart int
	NewEnd   int
	Count    int

	// Lines holds the folded context records. It is empty for records parsed
	// from the wire format.
	Lines []Record
}

// Options controls diff computation.
type Options struct {
	Language     config.Language
	ContextLines int
	Folding      bool

	// FoldThreshold is the minimum number of lines a fold must hide.
	FoldThreshold int
}

// DefaultOptions derives options from the editor configuration.
func DefaultOptions(cfg config.EditorConfig) Options {
	return Options{
		Language:      cfg.Language,
		ContextLines:  cfg.ContextLines,
		Folding:       cfg.Folding,
		FoldThreshold: cfg.FoldThreshold,
	}
}

// Compute pretty-prints both values in the options' language and diffs them
// line by line, folding long unchanged runs when enabled.
func Compute(original, modified any, opts Options) ([]Record, error) {
	lang := opts.Language
	if !lang.IsValid() {
		lang = config.LanguageJSON
	}

	oldText, err := Text(original, lang)
	if err != nil {
		return nil, fmt.Errorf("formatting original: %w", err)
	}
	newText, err := Text(modified, lang)
	if err != nil {
		return nil, fmt.Errorf("formatting modified: %w", err)
	}

	records := Lines(splitLines(oldText), splitLines(newText))
	if opts.Folding {
		records = Fold(records, opts.ContextLines, opts.FoldThreshold)
	}
	return records, nil
}

// ComputeDiff is Compute followed by Encode.
func ComputeDiff(original, modified any, opts Options) (string, error) {
	records, err := Compute(original, modified, opts)
	if err != nil {
		return "", err
	}
	return Encode(records), nil
}

// Text renders a value for diffing. Strings holding a parseable document are
// reformatted so both sides share one layout; other strings are used verbatim.
func Text(v any, lang config.Language) (string, error) {
	if s, ok := v.(string); ok {
		parsed, serr := value.ParseTolerant(s, lang)
		if serr != nil || parsed == nil {
			return s, nil
		}
		v = parsed
	}
	return value.Format(v, lang)
}

// splitLines splits content into lines, dropping a trailing newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Lines aligns two line slices with a longest common subsequence and returns
// the context, removed and added records in order.
func Lines(orig, mod []string) []Record {
	lcs := lcsTable(orig, mod)

	var records []Record
	origIdx, modIdx := 0, 0
	for origIdx < len(orig) || modIdx < len(mod) {
		switch {
		case origIdx < len(orig) && modIdx < len(mod) && orig[origIdx] == mod[modIdx]:
			records = append(records, Record{
				Type:    TypeContext,
				OldLine: origIdx + 1,
				NewLine: modIdx + 1,
				Content: orig[origIdx],
			})
			origIdx++
			modIdx++
		case modIdx >= len(mod) || (origIdx < len(orig) && lcs[origIdx+1][modIdx] >= lcs[origIdx][modIdx+1]):
			records = append(records, Record{
				Type:    TypeRemoved,
				OldLine: origIdx + 1,
				Content: orig[origIdx],
			})
			origIdx++
		default:
			records = append(records, Record{
				Type:    TypeAdded,
				NewLine: modIdx + 1,
				Content: mod[modIdx],
			})
			modIdx++
		}
	}
	return records
}

// lcsTable returns the suffix LCS lengths: table[i][j] is the LCS length of
// orig[i:] and mod[j:].
func lcsTable(orig, mod []string) [][]int {
	table := make([][]int, len(orig)+1)
	for idx := range table {
		table[idx] = make([]int, len(mod)+1)
	}

	for row := len(orig) - 1; row >= 0; row-- {
		for col := len(mod) - 1; col >= 0; col-- {
			if orig[row] == mod[col] {
				table[row][col] = table[row+1][col+1] + 1
			} else {
				table[row][col] = max(table[row+1][col], table[row][col+1])
			}
		}
	}
	return table
}

// Stats counts added and removed lines.
func Stats(records []Record) (int, int) {
	var added, removed int
	for _, rec := range records {
		switch rec.Type {
		case TypeAdded:
			added++
		case TypeRemoved:
			removed++
		case TypeContext, TypeFold:
		}
	}
	return added, removed
}

// HasChanges reports whether any record is an addition or removal.
func HasChanges(records []Record) bool {
	added, removed := Stats(records)
	return added+removed > 0
}
