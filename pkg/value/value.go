// Package value parses, formats and compares JSON/YAML documents.
//
// Objects are represented as ordered maps so that key insertion order survives a
// parse/format round trip. Numbers are kept as json.Number. Arrays are []any.
package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is an ordered JSON object.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// SyntaxError locates a parse failure in the source text.
type SyntaxError struct {
	// Line is the 1-based line of the failure.
	Line int

	// Column is the 1-based column of the failure (0 if unknown).
	Column int

	// Offset is the byte offset of the failure.
	Offset int

	// Message is the parser's description of the failure.
	Message string
}

// Error implements error.
func (e *SyntaxError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ErrTrailingData is returned when a complete value is followed by more input.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Parse strictly decodes a single JSON value, preserving object key order.
func Parse(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, locate(text, dec, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = ErrTrailingData
		}
		return nil, locate(text, dec, err)
	}

	return v, nil
}

// decodeValue reads one value from the token stream.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("expected object key, got %v", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := make([]any, 0)
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil

	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

// locate converts a decoder failure into a SyntaxError with line information.
func locate(text string, dec *json.Decoder, err error) *SyntaxError {
	offset := int(dec.InputOffset())
	message := err.Error()

	var jsonErr *json.SyntaxError
	switch {
	case errors.As(err, &jsonErr):
		offset = int(jsonErr.Offset)
		message = strings.TrimPrefix(jsonErr.Error(), "json: ")
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		offset = len(text)
		message = "unexpected end of input"
	}

	line, col := LineColumn(text, offset)
	return &SyntaxError{Line: line, Column: col, Offset: offset, Message: message}
}

// LineColumn converts a byte offset into 1-based line and column numbers.
// Offsets past the end clamp to the end of text.
func LineColumn(text string, offset int) (int, int) {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}

	line := 1 + strings.Count(text[:offset], "\n")
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	return line, offset - lineStart + 1
}

// invisible reports whether r is a zero-width or otherwise invisible filler rune.
func invisible(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	default:
		return false
	}
}

// StripInvisible removes zero-width and invisible filler characters.
func StripInvisible(s string) string {
	if !strings.ContainsFunc(s, invisible) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if invisible(r) {
			return -1
		}
		return r
	}, s)
}

func toNumber(s string) json.Number {
	return json.Number(s)
}

// Keys returns the keys of an ordered object in insertion order.
func Keys(obj *Object) []string {
	if obj == nil {
		return nil
	}
	keys := make([]string, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}
