package diff

import (
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/document"
)

// BuildBlock parses wire output into a block whose lines carry diff metadata.
// Fold records become a single placeholder line.
func BuildBlock(wire string, lang config.Language, cfg config.EditorConfig) (*document.Block, error) {
	records, err := Parse(wire)
	if err != nil {
		return nil, err
	}
	return FromRecords(records, lang, cfg), nil
}

// FromRecords builds a diff block from records.
func FromRecords(records []Record, lang config.Language, cfg config.EditorConfig) *document.Block {
	block := document.New(lang, cfg)
	for _, rec := range records {
		var line *document.Line
		meta := &document.DiffMeta{
			Type:    document.DiffType(rec.Type),
			OldLine: rec.OldLine,
			NewLine: rec.NewLine,
		}

		if rec.Type == TypeFold && rec.Fold != nil {
			meta.OldEnd = rec.Fold.OldEnd
			meta.NewEnd = rec.Fold.NewEnd
			meta.Count = rec.Fold.Count
			line = block.BuildRawLine(rec.Content, 0)
		} else {
			line = block.BuildLine(rec.Content)
		}
		line.Diff = meta
		block.Lines = append(block.Lines, line)
	}
	if len(block.Lines) == 0 {
		block.Lines = append(block.Lines, block.NewLine())
	}
	block.RecomputeFoldable()
	return block
}

// ToRecords reads diff metadata back from a block built by FromRecords.
// Lines without metadata are treated as context.
func ToRecords(block *document.Block) []Record {
	records := make([]Record, 0, len(block.Lines))
	for _, line := range block.Lines {
		meta := line.Diff
		if meta == nil {
			meta = &document.DiffMeta{Type: document.DiffContext}
		}
		rec := Record{
			Type:    Type(meta.Type),
			OldLine: meta.OldLine,
			NewLine: meta.NewLine,
		}
		if rec.Type == TypeFold {
			rec.Content = line.Text()
			rec.Fold = &FoldRange{
				OldStart: meta.OldLine,
				OldEnd:   meta.OldEnd,
				NewStart: meta.NewLine,
				NewEnd:   meta.NewEnd,
				Count:    meta.Count,
			}
		} else {
			rec.Content = block.LineSource(line)
		}
		records = append(records, rec)
	}
	return records
}
