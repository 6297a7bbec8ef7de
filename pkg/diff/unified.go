package diff

import (
	"fmt"
	"strings"
)

// Hunk is a group of changes with surrounding context, as in a unified diff.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Records  []Record
}

// Hunks groups records into hunks with contextLines of context. Changes closer
// than twice the context are merged into one hunk. Folds are expanded first.
func Hunks(records []Record, contextLines int) []Hunk {
	records = Expand(records)

	type changeRange struct {
		start, end int
	}

	var ranges []changeRange
	inChange := false
	rangeStart := 0
	for idx, rec := range records {
		isChange := rec.Type == TypeAdded || rec.Type == TypeRemoved
		if isChange && !inChange {
			rangeStart = idx
			inChange = true
		} else if !isChange && inChange {
			ranges = append(ranges, changeRange{rangeStart, idx})
			inChange = false
		}
	}
	if inChange {
		ranges = append(ranges, changeRange{rangeStart, len(records)})
	}

	var hunks []Hunk
	for rangeIdx := 0; rangeIdx < len(ranges); {
		mergeEnd := rangeIdx + 1
		for mergeEnd < len(ranges) {
			if ranges[mergeEnd].start-ranges[mergeEnd-1].end > contextLines*2 {
				break
			}
			mergeEnd++
		}
		hunks = append(hunks, buildHunk(records, ranges[rangeIdx].start, ranges[mergeEnd-1].end, contextLines))
		rangeIdx = mergeEnd
	}
	return hunks
}

func buildHunk(records []Record, changeStart, changeEnd, contextLines int) Hunk {
	start := max(changeStart-contextLines, 0)
	end := min(changeEnd+contextLines, len(records))

	hunk := Hunk{OldStart: 1, NewStart: 1}
	for _, rec := range records[:start] {
		if rec.Type != TypeAdded {
			hunk.OldStart++
		}
		if rec.Type != TypeRemoved {
			hunk.NewStart++
		}
	}

	for _, rec := range records[start:end] {
		hunk.Records = append(hunk.Records, rec)
		switch rec.Type {
		case TypeContext:
			hunk.OldCount++
			hunk.NewCount++
		case TypeRemoved:
			hunk.OldCount++
		case TypeAdded:
			hunk.NewCount++
		case TypeFold:
		}
	}
	return hunk
}

// Unified renders records as a conventional unified diff. It returns an empty
// string when nothing changed.
func Unified(records []Record, oldName, newName string, contextLines int) string {
	hunks := Hunks(records, contextLines)
	if len(hunks) == 0 {
		return ""
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- %s\n", oldName)
	fmt.Fprintf(&builder, "+++ %s\n", newName)
	for _, hunk := range hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		for _, rec := range hunk.Records {
			switch rec.Type {
			case TypeContext:
				fmt.Fprintf(&builder, " %s\n", rec.Content)
			case TypeAdded:
				fmt.Fprintf(&builder, "+%s\n", rec.Content)
			case TypeRemoved:
				fmt.Fprintf(&builder, "-%s\n", rec.Content)
			case TypeFold:
			}
		}
	}
	return builder.String()
}
