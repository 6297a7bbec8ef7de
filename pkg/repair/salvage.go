package repair

import (
	"strings"

	"github.com/yaklabco/codeblock/pkg/value"
)

// Salvage scans text for complete top-level `"key": value` pairs and builds an
// object from them, in order of appearance. Pairs with an unterminated string,
// a missing colon or value, an empty key, or a key seen before are skipped.
// It returns nil when no pair survives.
func Salvage(text string) *value.Object {
	s := scanner{src: text}
	if i := strings.IndexByte(text, '{'); i >= 0 {
		s.pos = i + 1
	}

	obj := value.NewObject()
	for !s.eof() {
		s.skipSeparators()
		if s.eof() {
			break
		}

		if s.peek() != '"' {
			// Not a key: skip to the next top-level separator.
			if !s.skipToSeparator() {
				break
			}
			continue
		}

		key, ok := s.readString()
		if !ok {
			break
		}

		s.skipSpace()
		if s.eof() || s.peek() != ':' {
			s.skipToSeparator()
			continue
		}
		s.pos++
		s.skipSpace()

		raw, ok := s.readValue()
		if !ok {
			break
		}
		if raw == "" || key == "" {
			continue
		}
		if _, dup := obj.Get(key); dup {
			continue
		}

		v, err := value.Parse(raw)
		if err != nil {
			if fixed, fixedOK := regexFix(raw); fixedOK {
				v = fixed
			} else {
				continue
			}
		}
		obj.Set(key, v)
	}

	if obj.Len() == 0 {
		return nil
	}
	return obj
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	return s.src[s.pos]
}

func (s *scanner) skipSpace() {
	for !s.eof() && strings.IndexByte(" \t\r\n", s.peek()) >= 0 {
		s.pos++
	}
}

func (s *scanner) skipSeparators() {
	for !s.eof() && strings.IndexByte(" \t\r\n,", s.peek()) >= 0 {
		s.pos++
	}
}

// skipToSeparator advances past the next comma at nesting depth zero. It
// returns false at the end of input or at the closing brace of the object.
func (s *scanner) skipToSeparator() bool {
	depth := 0
	for !s.eof() {
		switch c := s.peek(); c {
		case '"':
			if _, ok := s.readString(); !ok {
				return false
			}
			continue
		case '{', '[':
			depth++
		case '}', ']':
			if depth == 0 {
				s.pos = len(s.src)
				return false
			}
			depth--
		case ',':
			if depth == 0 {
				s.pos++
				return true
			}
		}
		s.pos++
	}
	return false
}

// readString reads a double-quoted string starting at pos and returns its
// decoded body. ok is false when the string is unterminated.
func (s *scanner) readString() (string, bool) {
	start := s.pos
	s.pos++
	for !s.eof() {
		switch s.peek() {
		case '\\':
			s.pos += 2
			continue
		case '"':
			s.pos++
			raw := s.src[start:s.pos]
			decoded, err := value.Parse(raw)
			if err != nil {
				return "", false
			}
			str, _ := decoded.(string)
			return str, true
		case '\n':
			s.pos = len(s.src)
			return "", false
		}
		s.pos++
	}
	return "", false
}

// readValue returns the raw text of the value at pos. An empty result with ok
// true means the value is missing and scanning may continue. ok is false when
// the value runs into the end of input.
func (s *scanner) readValue() (string, bool) {
	if s.eof() {
		return "", false
	}

	start := s.pos
	switch s.peek() {
	case ',', '}', ']':
		return "", true

	case '"':
		if _, ok := s.readString(); !ok {
			return "", false
		}
		return s.src[start:s.pos], true

	case '{', '[':
		depth := 0
		for !s.eof() {
			switch s.peek() {
			case '"':
				if _, ok := s.readString(); !ok {
					return "", false
				}
				continue
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 0 {
					s.pos++
					return s.src[start:s.pos], true
				}
			}
			s.pos++
		}
		return "", false

	default:
		for !s.eof() && strings.IndexByte(",}]\n", s.peek()) < 0 {
			s.pos++
		}
		return strings.TrimSpace(s.src[start:s.pos]), true
	}
}
