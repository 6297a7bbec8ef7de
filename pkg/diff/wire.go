package diff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedWire is returned by Parse for lines that do not follow the wire
// format.
var ErrMalformedWire = errors.New("malformed diff line")

const fieldSep = "|"

// Encode renders records one per line as old|new|type|content, with fold
// records as oldStart-oldEnd|newStart-newEnd|fold|content|count. Missing line
// numbers are empty.
func Encode(records []Record) string {
	var sb strings.Builder
	for idx, rec := range records {
		if idx > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(EncodeRecord(rec))
	}
	return sb.String()
}

// EncodeRecord renders a single record.
func EncodeRecord(rec Record) string {
	if rec.Type == TypeFold && rec.Fold != nil {
		f := rec.Fold
		return fmt.Sprintf("%d-%d|%d-%d|%s|%s|%d",
			f.OldStart, f.OldEnd, f.NewStart, f.NewEnd, TypeFold, rec.Content, f.Count)
	}
	return lineNumber(rec.OldLine) + fieldSep + lineNumber(rec.NewLine) + fieldSep +
		string(rec.Type) + fieldSep + rec.Content
}

func lineNumber(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// Parse reads the wire format back into records. Content may contain the
// separator; for fold lines the count is taken from the last field.
func Parse(wire string) ([]Record, error) {
	if wire == "" {
		return nil, nil
	}

	lines := strings.Split(strings.TrimSuffix(wire, "\n"), "\n")
	records := make([]Record, 0, len(lines))
	for idx, line := range lines {
		rec, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", idx+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseRecord reads a single wire line.
func ParseRecord(line string) (Record, error) {
	fields := strings.SplitN(line, fieldSep, 4)
	if len(fields) < 4 {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformedWire, line)
	}

	typ := Type(fields[2])
	switch typ {
	case TypeContext, TypeAdded, TypeRemoved:
		oldLine, err := parseLineNumber(fields[0])
		if err != nil {
			return Record{}, err
		}
		newLine, err := parseLineNumber(fields[1])
		if err != nil {
			return Record{}, err
		}
		return Record{Type: typ, OldLine: oldLine, NewLine: newLine, Content: fields[3]}, nil
	case TypeFold:
		return parseFold(fields)
	default:
		return Record{}, fmt.Errorf("%w: unknown type %q", ErrMalformedWire, fields[2])
	}
}

func parseFold(fields []string) (Record, error) {
	sep := strings.LastIndex(fields[3], fieldSep)
	if sep < 0 {
		return Record{}, fmt.Errorf("%w: fold without count", ErrMalformedWire)
	}
	content, countText := fields[3][:sep], fields[3][sep+1:]

	count, err := strconv.Atoi(countText)
	if err != nil || count < 1 {
		return Record{}, fmt.Errorf("%w: bad fold count %q", ErrMalformedWire, countText)
	}
	oldStart, oldEnd, err := parseRange(fields[0])
	if err != nil {
		return Record{}, err
	}
	newStart, newEnd, err := parseRange(fields[1])
	if err != nil {
		return Record{}, err
	}
	if oldEnd-oldStart+1 != count || newEnd-newStart+1 != count {
		return Record{}, fmt.Errorf("%w: fold count %d does not match its ranges", ErrMalformedWire, count)
	}

	return Record{
		Type:    TypeFold,
		OldLine: oldStart,
		NewLine: newStart,
		Content: content,
		Fold: &FoldRange{
			OldStart: oldStart,
			OldEnd:   oldEnd,
			NewStart: newStart,
			NewEnd:   newEnd,
			Count:    count,
		},
	}, nil
}

func parseLineNumber(field string) (int, error) {
	if field == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(field)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: bad line number %q", ErrMalformedWire, field)
	}
	return n, nil
}

func parseRange(field string) (int, int, error) {
	startText, endText, ok := strings.Cut(field, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: bad range %q", ErrMalformedWire, field)
	}
	start, err := parseLineNumber(startText)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseLineNumber(endText)
	if err != nil {
		return 0, 0, err
	}
	if start == 0 || end < start {
		return 0, 0, fmt.Errorf("%w: bad range %q", ErrMalformedWire, field)
	}
	return start, end, nil
}
