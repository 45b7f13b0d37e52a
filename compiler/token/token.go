package token

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	Kind int

	// Token is one classified lexeme.
	// Value is the decoded integer of an Int or the code point of a Char.
	Token struct {
		Kind  Kind
		Text  string
		Value int64
		Base  int

		Pos int
		End int
	}
)

const (
	Invalid Kind = iota

	Tilde
	Grave
	Pound
	Plus
	PlusPlus
	Minus
	MinusMinus
	Star
	Slash
	Mod
	Bang
	Greater
	GreaterGreater
	Less
	LessLess
	Amp
	AmpAmp
	Pipe
	PipePipe
	Xor

	Equal
	LParen
	RParen
	LBrace
	RBrace
	Comma
	Colon
	DoubleColon
	Dot
	Semicolon

	Var
	Const
	Include
	MacroRules
	ForBang

	Directive
	Ident
	Int
	String
	Char

	kindEnd
)

var names = [...]string{
	Invalid: "Invalid",

	Tilde:          "~",
	Grave:          "`",
	Pound:          "#",
	Plus:           "+",
	PlusPlus:       "++",
	Minus:          "-",
	MinusMinus:     "--",
	Star:           "*",
	Slash:          "/",
	Mod:            "%",
	Bang:           "!",
	Greater:        ">",
	GreaterGreater: ">>",
	Less:           "<",
	LessLess:       "<<",
	Amp:            "&",
	AmpAmp:         "&&",
	Pipe:           "|",
	PipePipe:       "||",
	Xor:            "^",

	Equal:       "=",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	Comma:       ",",
	Colon:       ":",
	DoubleColon: "::",
	Dot:         ".",
	Semicolon:   ";",

	Var:        "var",
	Const:      "const",
	Include:    "include",
	MacroRules: "macro_rules!",
	ForBang:    "for!",

	Directive: "Directive",
	Ident:     "Ident",
	Int:       "Int",
	String:    "String",
	Char:      "Char",
}

// Punct lists fixed tokens by their text.
// Two-char forms must be tried before their one-char prefix.
var Punct = []struct {
	Text string
	Kind Kind
}{
	{"++", PlusPlus},
	{"--", MinusMinus},
	{">>", GreaterGreater},
	{"<<", LessLess},
	{"&&", AmpAmp},
	{"||", PipePipe},
	{"::", DoubleColon},

	{"~", Tilde},
	{"`", Grave},
	{"#", Pound},
	{"+", Plus},
	{"-", Minus},
	{"*", Star},
	{"/", Slash},
	{"%", Mod},
	{"!", Bang},
	{">", Greater},
	{"<", Less},
	{"&", Amp},
	{"|", Pipe},
	{"^", Xor},
	{"=", Equal},
	{"(", LParen},
	{")", RParen},
	{"{", LBrace},
	{"}", RBrace},
	{",", Comma},
	{":", Colon},
	{".", Dot},
	{";", Semicolon},
}

// Keywords are matched only when the whole word (including a trailing '!') equals the keyword.
var Keywords = map[string]Kind{
	"var":          Var,
	"const":        Const,
	"include":      Include,
	"macro_rules!": MacroRules,
	"for!":         ForBang,
}

func (k Kind) String() string {
	if k >= 0 && k < kindEnd {
		return names[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Fixed reports whether the kind carries no data beyond its tag.
func (k Kind) Fixed() bool {
	return k > Invalid && k < Directive
}

func (t Token) Is(k Kind) bool { return t.Kind == k }

// Matches reports whether t and o have the same kind and the same associated data.
func (t Token) Matches(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}

	switch t.Kind {
	case Ident, Directive, String:
		return t.Text == o.Text
	case Int, Char:
		return t.Value == o.Value
	}

	return true
}

func (t Token) String() string {
	switch t.Kind {
	case Int:
		return fmt.Sprintf("Int(%d)", t.Value)
	case Char:
		return fmt.Sprintf("Char(%q)", rune(t.Value))
	case Ident, Directive, String:
		return fmt.Sprintf("%v(%s)", t.Kind, t.Text)
	}

	return fmt.Sprintf("%q", t.Kind.String())
}

func (k Kind) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, k.String())
}

func (t Token) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	n := 2
	if t.Kind == Int || t.Kind == Char {
		n = 3
	}

	b = e.AppendMap(b, n)

	b = e.AppendString(b, "kind")
	b = e.AppendString(b, t.Kind.String())

	b = e.AppendString(b, "text")
	b = e.AppendString(b, t.Text)

	if n == 3 {
		b = e.AppendString(b, "value")
		b = e.AppendInt(b, int(t.Value))
	}

	return b
}
