package ast

import (
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/chasm/compiler/lit"
)

type (
	// Stmt is one of the statement types below.
	Stmt interface {
		stmt()
	}

	VarAssign struct {
		Name  string
		Value int64
	}

	ConstAssign struct {
		Name  string
		Value int64
	}

	LabelScope int

	Label struct {
		Name  string
		Scope LabelScope
	}

	Instruction struct {
		Name string
		Args []string
	}

	// Directive name is without the leading '@'.
	Directive struct {
		Name string
		Args []string
	}

	// Include File is the raw string literal including quotes.
	Include struct {
		File string
	}

	MacroDef struct {
		Name   string
		Params []string
		Body   []Stmt
	}

	// ForLoop repeats Body for Var in [Start, End).
	ForLoop struct {
		Var   string
		Start int64
		End   int64
		Body  []Stmt
	}

	Block struct {
		Stmts []Stmt
	}
)

const (
	LabelPlain LabelScope = iota // name:
	LabelLocal                   // .name:
	LabelGlobal                  // ::name:
)

func (VarAssign) stmt()   {}
func (ConstAssign) stmt() {}
func (Label) stmt()       {}
func (Instruction) stmt() {}
func (Directive) stmt()   {}
func (Include) stmt()     {}
func (MacroDef) stmt()    {}
func (ForLoop) stmt()     {}
func (Block) stmt()       {}

// Path decodes the include file literal.
func (x Include) Path() (string, error) {
	return lit.Unquote(x.File)
}

// Prefix is the source punctuation in front of the label name.
func (s LabelScope) Prefix() string {
	switch s {
	case LabelLocal:
		return "."
	case LabelGlobal:
		return "::"
	}

	return ""
}

func (s LabelScope) String() string {
	switch s {
	case LabelPlain:
		return "plain"
	case LabelLocal:
		return "local"
	case LabelGlobal:
		return "global"
	}

	return "unknown"
}

func (s LabelScope) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, s.String())
}

// Walk calls fn for every statement in pre-order, descending into
// macro, loop and block bodies unless fn returns false.
func Walk(l []Stmt, fn func(Stmt) bool) {
	for _, s := range l {
		if !fn(s) {
			continue
		}

		switch s := s.(type) {
		case MacroDef:
			Walk(s.Body, fn)
		case ForLoop:
			Walk(s.Body, fn)
		case Block:
			Walk(s.Stmts, fn)
		}
	}
}
