package lex

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/chasm/compiler/lit"
	"github.com/slowlang/chasm/compiler/token"
)

type (
	InvalidEscapeError struct {
		Text string
		Pos  int
	}
)

// Lex splits text into tokens. Whitespace and bytes matching no rule produce no token.
// The only fatal conditions are malformed char escapes and integer overflow.
func Lex(ctx context.Context, text []byte) (toks []token.Token, err error) {
	for i := 0; ; {
		i = SpaceAll.Skip(text, i)
		if i == len(text) {
			break
		}

		var t token.Token
		var ok bool
		st := i

		t, ok, i, err = Next(text, i)
		if err != nil {
			return nil, err
		}

		if !ok {
			if tlog.If("lex") {
				tlog.Printw("skip unrecognized", "pos", st, "text", text[st:i])
			}

			continue
		}

		toks = append(toks, t)
	}

	return toks, nil
}

// Next scans one token starting exactly at st.
// If nothing matches, ok is false and i is past the skipped character.
func Next(b []byte, st int) (t token.Token, ok bool, i int, err error) {
	if st >= len(b) {
		return t, false, st, nil
	}

	switch c := b[st]; {
	case c == '"':
		t, ok, i = String(b, st)
	case c == '\'':
		t, ok, i, err = Char(b, st)
	case c == '@':
		t, ok, i = Directive(b, st)
	case isDigit(c):
		t, ok, i, err = Number(b, st)
	case isIdentStart(c):
		t, ok, i = Word(b, st)
	default:
		t, ok, i = Punct(b, st)
	}

	if err != nil {
		return t, false, i, err
	}

	if ok {
		t.Pos = st
		t.End = i

		return t, true, i, nil
	}

	_, w := utf8.DecodeRune(b[st:])

	return token.Token{}, false, st + w, nil
}

func Punct(b []byte, st int) (t token.Token, ok bool, i int) {
	for _, p := range token.Punct {
		if bytes.HasPrefix(b[st:], []byte(p.Text)) {
			i = st + len(p.Text)

			return token.Token{Kind: p.Kind, Text: p.Text}, true, i
		}
	}

	return t, false, st
}

// Word scans an identifier or a keyword.
// macro_rules! and for! take the trailing '!' as part of the keyword.
func Word(b []byte, st int) (t token.Token, ok bool, i int) {
	if st == len(b) || !isIdentStart(b[st]) {
		return t, false, st
	}

	i = skipIdent(b, st+1)
	w := string(b[st:i])

	if i < len(b) && b[i] == '!' {
		if k, ok := token.Keywords[w+"!"]; ok {
			return token.Token{Kind: k, Text: w + "!"}, true, i + 1
		}
	}

	if k, ok := token.Keywords[w]; ok {
		return token.Token{Kind: k, Text: w}, true, i
	}

	return token.Token{Kind: token.Ident, Text: w}, true, i
}

func Directive(b []byte, st int) (t token.Token, ok bool, i int) {
	if st+1 >= len(b) || b[st] != '@' || !isIdentStart(b[st+1]) {
		return t, false, st
	}

	i = skipIdent(b, st+2)

	return token.Token{Kind: token.Directive, Text: string(b[st:i])}, true, i
}

// Number scans an integer literal. A radix prefix only counts when
// at least one digit of that radix follows it; "0x" alone is 0 followed by x.
func Number(b []byte, st int) (t token.Token, ok bool, i int, err error) {
	if st == len(b) || !isDigit(b[st]) {
		return t, false, st, nil
	}

	i = st

	base, n := lit.Prefix(string(b[st:min(st+2, len(b))]))
	if n != 0 && st+n < len(b) && isRadixDigit(b[st+n], base) {
		i = st + n
	} else {
		base = 10
	}

	for i < len(b) && isRadixDigit(b[i], base) {
		i++
	}

	text := string(b[st:i])

	v, base, err := lit.Int(text)
	if err != nil {
		return t, false, i, errors.Wrap(err, "at %d", st)
	}

	return token.Token{Kind: token.Int, Text: text, Value: v, Base: base}, true, i, nil
}

// String scans a double-quoted literal. The token keeps the raw text; see lit.Unquote.
func String(b []byte, st int) (t token.Token, ok bool, i int) {
	if st == len(b) || b[st] != '"' {
		return t, false, st
	}

	for i = st + 1; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '"':
			i++

			return token.Token{Kind: token.String, Text: string(b[st:i])}, true, i
		}
	}

	return t, false, st
}

// Char scans a single-quoted literal: one character or one escape.
// A well-formed escape with an unsupported character is fatal.
func Char(b []byte, st int) (t token.Token, ok bool, i int, err error) {
	if st+2 >= len(b) || b[st] != '\'' {
		return t, false, st, nil
	}

	i = st + 1

	switch b[i] {
	case '\'':
		return t, false, st, nil
	case '\\':
		i += 2
	default:
		_, w := utf8.DecodeRune(b[i:])
		i += w
	}

	if i >= len(b) || b[i] != '\'' {
		return t, false, st, nil
	}

	i++
	text := string(b[st:i])

	r, err := lit.Char(text[1 : len(text)-1])
	if err != nil {
		return t, false, i, InvalidEscapeError{Text: text, Pos: st}
	}

	return token.Token{Kind: token.Char, Text: text, Value: int64(r)}, true, i, nil
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (isIdentStart(b[i]) || isDigit(b[i])) {
		i++
	}

	return i
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isRadixDigit(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	case 16:
		return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
	}

	return isDigit(c)
}

func (e InvalidEscapeError) Error() string {
	return fmt.Sprintf("invalid escape in char literal %s", e.Text)
}
