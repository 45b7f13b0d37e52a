package parse

import (
	"github.com/slowlang/chasm/compiler/token"
)

type (
	// Stream is a materialized token sequence with a cursor.
	Stream struct {
		toks []token.Token
		pos  int
	}
)

func NewStream(toks []token.Token) *Stream {
	return &Stream{toks: toks}
}

func (s *Stream) Peek() (token.Token, bool) {
	return s.PeekAt(0)
}

// PeekAt returns the token n positions past the cursor without moving it.
// Past the end it returns the zero Token (Kind Invalid) and false.
func (s *Stream) PeekAt(n int) (token.Token, bool) {
	if n < 0 || s.pos+n >= len(s.toks) {
		return token.Token{}, false
	}

	return s.toks[s.pos+n], true
}

func (s *Stream) Next() (t token.Token, ok bool) {
	t, ok = s.Peek()
	if ok {
		s.pos++
	}

	return
}

// Expect consumes the next token and fails unless it has kind k.
func (s *Stream) Expect(k token.Kind) (token.Token, error) {
	t, ok := s.Next()
	if !ok {
		return t, ErrUnexpectedEOF
	}

	if t.Kind != k {
		return t, UnexpectedTokenError{Want: k.String(), Got: t}
	}

	return t, nil
}

// ExpectMatch consumes the next token and fails unless it matches want by kind and data.
func (s *Stream) ExpectMatch(want token.Token) error {
	t, ok := s.Next()
	if !ok {
		return ErrUnexpectedEOF
	}

	if !t.Matches(want) {
		return UnexpectedTokenError{Want: want.String(), Got: t}
	}

	return nil
}

func (s *Stream) EOF() bool { return s.pos >= len(s.toks) }

func (s *Stream) Pos() int { return s.pos }

func (s *Stream) Len() int { return len(s.toks) }
