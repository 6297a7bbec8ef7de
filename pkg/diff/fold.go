package diff

import "fmt"

// Fold collapses runs of context records into fold records. contextLines
// records are kept on each side of a run that touches a change; a run is only
// folded when it would hide at least threshold lines. A diff without changes
// is returned unfolded.
func Fold(records []Record, contextLines, threshold int) []Record {
	if contextLines < 0 {
		contextLines = 0
	}
	threshold = max(threshold, 1)

	out := make([]Record, 0, len(records))
	for idx := 0; idx < len(records); {
		if records[idx].Type != TypeContext {
			out = append(out, records[idx])
			idx++
			continue
		}

		end := idx
		for end < len(records) && records[end].Type == TypeContext {
			end++
		}
		out = append(out, foldRun(records, idx, end, contextLines, threshold)...)
		idx = end
	}
	return out
}

// foldRun folds records[start:end], a maximal run of context records.
func foldRun(records []Record, start, end, contextLines, threshold int) []Record {
	run := records[start:end]
	changeBefore := start > 0
	changeAfter := end < len(records)
	if !changeBefore && !changeAfter {
		return run
	}

	head, tail := 0, 0
	if changeBefore {
		head = contextLines
	}
	if changeAfter {
		tail = contextLines
	}
	if len(run)-head-tail < threshold {
		return run
	}

	hidden := run[head : len(run)-tail]
	folded := make([]Record, 0, head+tail+1)
	folded = append(folded, run[:head]...)
	folded = append(folded, newFold(hidden))
	folded = append(folded, run[len(run)-tail:]...)
	return folded
}

func newFold(hidden []Record) Record {
	first, last := hidden[0], hidden[len(hidden)-1]
	lines := make([]Record, len(hidden))
	copy(lines, hidden)

	fold := &FoldRange{
		OldStart: first.OldLine,
		OldEnd:   last.OldLine,
		NewStart: first.NewLine,
		NewEnd:   last.NewLine,
		Count:    len(hidden),
		Lines:    lines,
	}
	return Record{
		Type:    TypeFold,
		OldLine: fold.OldStart,
		NewLine: fold.NewStart,
		Content: foldLabel(fold.Count),
		Fold:    fold,
	}
}

func foldLabel(count int) string {
	if count == 1 {
		return "1 unchanged line"
	}
	return fmt.Sprintf("%d unchanged lines", count)
}

// Expand replaces fold records with the context records they hide. Folds
// without retained lines, such as those parsed from the wire, are kept.
func Expand(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Type == TypeFold && rec.Fold != nil && len(rec.Fold.Lines) > 0 {
			out = append(out, rec.Fold.Lines...)
			continue
		}
		out = append(out, rec)
	}
	return out
}
