package pretty

import (
	"fmt"
	"strconv"

	"github.com/yaklabco/codeblock/pkg/diff"
)

// FormatDiffRecord renders one diff record with old and new line number
// gutters of the given width.
func (s *Styles) FormatDiffRecord(rec diff.Record, width int) string {
	num := func(n int) string {
		if n <= 0 {
			return fmt.Sprintf("%*s", width, "")
		}
		return fmt.Sprintf("%*s", width, strconv.Itoa(n))
	}
	gutter := s.LineNumber.Render(num(rec.OldLine) + " " + num(rec.NewLine))

	switch rec.Type {
	case diff.TypeAdded:
		return gutter + " " + s.DiffAdd.Render("+ "+rec.Content)
	case diff.TypeRemoved:
		return gutter + " " + s.DiffRemove.Render("- "+rec.Content)
	case diff.TypeFold:
		return gutter + " " + s.DiffFold.Render("⋯ "+rec.Content)
	default:
		return gutter + " " + s.DiffContext.Render("  "+rec.Content)
	}
}

// GutterWidth returns the digit count needed for the largest line number.
func GutterWidth(records []diff.Record) int {
	largest := 1
	for _, rec := range records {
		largest = max(largest, rec.OldLine, rec.NewLine)
		if rec.Fold != nil {
			largest = max(largest, rec.Fold.OldEnd, rec.Fold.NewEnd)
		}
	}
	return len(strconv.Itoa(largest))
}
