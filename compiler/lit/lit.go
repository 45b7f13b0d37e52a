// Package lit decodes literal lexemes into their values.
package lit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"tlog.app/go/errors"
)

type (
	// UnknownEscapeError is returned for a char literal escape outside the supported set.
	UnknownEscapeError struct {
		Seq string
	}
)

var ErrNotQuoted = errors.New("literal is not quoted")

// Prefix returns the radix selected by an integer literal prefix (0x, 0b, 0o in either case)
// and the prefix length. Decimal literals have no prefix.
func Prefix(s string) (base, n int) {
	if len(s) < 2 || s[0] != '0' {
		return 10, 0
	}

	switch s[1] {
	case 'x', 'X':
		return 16, 2
	case 'b', 'B':
		return 2, 2
	case 'o', 'O':
		return 8, 2
	}

	return 10, 0
}

// Int decodes an integer literal in any supported radix.
func Int(s string) (v int64, base int, err error) {
	base, n := Prefix(s)

	if len(s) == n {
		return 0, base, errors.New("no digits in %q", s)
	}

	v, err = strconv.ParseInt(s[n:], base, 64)
	if err != nil {
		return 0, base, errors.Wrap(err, "int literal %q", s)
	}

	return v, base, nil
}

// Unescape decodes backslash escapes. An unknown escape yields the escaped character itself;
// a trailing lone backslash is dropped.
func Unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}

		i++
		if i == len(s) {
			break
		}

		switch c = s[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// Escape is the inverse of Unescape for the supported escapes.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		case '\'', '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// Unquote decodes a raw double-quoted string lexeme.
func Unquote(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", ErrNotQuoted
	}

	return Unescape(raw[1 : len(raw)-1]), nil
}

func Quote(s string) string {
	return `"` + Escape(s) + `"`
}

// Char decodes the body of a char literal (without quotes): one character or one escape
// among \n \t \r \' \\.
func Char(body string) (rune, error) {
	if body == "" {
		return 0, errors.New("empty char literal")
	}

	if body[0] != '\\' {
		r, w := utf8.DecodeRuneInString(body)
		if w != len(body) {
			return 0, errors.New("char literal %q: more than one character", body)
		}

		return r, nil
	}

	switch body {
	case `\n`:
		return '\n', nil
	case `\t`:
		return '\t', nil
	case `\r`:
		return '\r', nil
	case `\'`:
		return '\'', nil
	case `\\`:
		return '\\', nil
	}

	return 0, UnknownEscapeError{Seq: body}
}

// Value decodes any literal lexeme that has an integer value: integers in every radix
// and quoted chars (which also accept \0 and \" and map unknown escapes to '\\').
// ok is false for text that is not such a literal.
func Value(s string) (v int64, ok bool) {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		body := s[1 : len(s)-1]

		if r, w := utf8.DecodeRuneInString(body); w == len(body) && w != 0 {
			return int64(r), true
		}

		if len(body) == 0 || body[0] != '\\' {
			return 0, false
		}

		switch body {
		case `\n`:
			return '\n', true
		case `\t`:
			return '\t', true
		case `\r`:
			return '\r', true
		case `\0`:
			return 0, true
		case `\'`:
			return '\'', true
		case `\"`:
			return '"', true
		}

		return '\\', true
	}

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	v, _, err := Int(s)
	if err != nil {
		return 0, false
	}

	if neg {
		v = -v
	}

	return v, true
}

func (e UnknownEscapeError) Error() string {
	return fmt.Sprintf("unknown escape %s", e.Seq)
}
