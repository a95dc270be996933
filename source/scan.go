package source

import (
	"fmt"
	"strings"
	"unicode"
)

// scanner walks a single statement line.
type scanner struct {
	src string
	pos int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) eof() bool {
	s.skipSpace()
	return s.pos >= len(s.src)
}

func (s *scanner) rest() string {
	s.skipSpace()
	return s.src[s.pos:]
}

// peekByte returns the next non-blank byte, or 0 at the end.
func (s *scanner) peekByte() byte {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

// accept consumes tok if the remaining input starts with it.
func (s *scanner) accept(tok string) bool {
	s.skipSpace()
	if strings.HasPrefix(s.src[s.pos:], tok) {
		s.pos += len(tok)
		return true
	}
	return false
}

// acceptWord consumes the keyword w when it is not a prefix of a longer name.
func (s *scanner) acceptWord(w string) bool {
	s.skipSpace()
	if !strings.HasPrefix(s.src[s.pos:], w) {
		return false
	}
	end := s.pos + len(w)
	if end < len(s.src) && isNameByte(s.src[end]) {
		return false
	}
	s.pos = end
	return true
}

func (s *scanner) expect(tok string) error {
	if !s.accept(tok) {
		return s.errorf("expected %q", tok)
	}
	return nil
}

// name reads a local or label name: letters, digits, '_' and '$'.
func (s *scanner) name() (string, error) {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.src) && isNameByte(s.src[s.pos]) {
		s.pos++
	}
	if start == s.pos {
		return "", s.errorf("expected a name")
	}
	return s.src[start:s.pos], nil
}

// typeName reads a type: a dotted name with optional [] suffixes.
func (s *scanner) typeName() (string, error) {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.src) && (isNameByte(s.src[s.pos]) || s.src[s.pos] == '.') {
		s.pos++
	}
	if start == s.pos {
		return "", s.errorf("expected a type")
	}
	for strings.HasPrefix(s.src[s.pos:], "[]") {
		s.pos += 2
	}
	return s.src[start:s.pos], nil
}

// signature reads a <...> signature, allowing nested brackets as in <init>.
func (s *scanner) signature() (string, error) {
	s.skipSpace()
	if s.pos >= len(s.src) || s.src[s.pos] != '<' {
		return "", s.errorf("expected a signature")
	}
	depth := 0
	for i := s.pos; i < len(s.src); i++ {
		switch s.src[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				sig := s.src[s.pos : i+1]
				s.pos = i + 1
				return sig, nil
			}
		}
	}
	return "", s.errorf("unterminated signature")
}

// number reads a numeric literal with optional sign, fraction, exponent and
// L/F suffix.
func (s *scanner) number() (string, error) {
	s.skipSpace()
	start := s.pos
	if s.pos < len(s.src) && s.src[s.pos] == '-' {
		s.pos++
	}
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == 'x' || c == 'X' ||
			(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
			((c == '-' || c == '+') && (s.src[s.pos-1] == 'e' || s.src[s.pos-1] == 'E')) {
			s.pos++
			continue
		}
		if c == 'L' || c == 'l' {
			s.pos++
		}
		break
	}
	if s.pos == start || (s.pos == start+1 && s.src[start] == '-') {
		return "", s.errorf("expected a number")
	}
	return s.src[start:s.pos], nil
}

// quoted reads a Go-style double-quoted string literal, quotes included.
func (s *scanner) quoted() (string, error) {
	s.skipSpace()
	if s.pos >= len(s.src) || s.src[s.pos] != '"' {
		return "", s.errorf("expected a string literal")
	}
	for i := s.pos + 1; i < len(s.src); i++ {
		switch s.src[i] {
		case '\\':
			i++
		case '"':
			lit := s.src[s.pos : i+1]
			s.pos = i + 1
			return lit, nil
		}
	}
	return "", s.errorf("unterminated string literal")
}

// operator reads a binary operator symbol or keyword.
func (s *scanner) operator() string {
	s.skipSpace()
	for _, w := range []string{"cmpl", "cmpg", "cmp"} {
		if s.acceptWord(w) {
			return w
		}
	}
	for _, op := range []string{">>>", "<<", ">>", "<=", ">=", "==", "!=", "+", "-", "*", "/", "%", "&", "|", "^", "<", ">"} {
		if s.accept(op) {
			return op
		}
	}
	return ""
}

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("column %d: %s", s.pos+1, fmt.Sprintf(format, args...))
}

func isNameByte(c byte) bool {
	return c == '_' || c == '$' || isDigit(c) || unicode.IsLetter(rune(c))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
