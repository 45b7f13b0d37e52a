package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/chasm/compiler/ast"
	"github.com/slowlang/chasm/compiler/lex"
	"github.com/slowlang/chasm/compiler/parse"
	"github.com/slowlang/chasm/compiler/token"
)

type (
	// Stats counts statements by type, nested bodies included.
	Stats struct {
		Vars         int
		Consts       int
		Labels       int
		Instructions int
		Directives   int
		Includes     int
		Macros       int
		Loops        int
		Blocks       int
	}
)

func ParseFile(ctx context.Context, name string) ([]ast.Stmt, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Parse(ctx, name, text)
}

// Parse lexes and parses one compilation unit.
// On error no statements are returned.
func Parse(ctx context.Context, name string, text []byte) (l []ast.Stmt, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compiler: parse", "name", name)
	defer tr.Finish("err", &err)

	toks, err := Lex(ctx, name, text)
	if err != nil {
		return nil, err
	}

	l, err = parse.New(toks).Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse %v", name)
	}

	if tr.If("stats") {
		tr.Printw("parsed", "tokens", len(toks), "stmts", len(l), "stats", Count(l))
	}

	return l, nil
}

func Lex(ctx context.Context, name string, text []byte) ([]token.Token, error) {
	toks, err := lex.Lex(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "lex %v", name)
	}

	if tlog.If("tokens") {
		for _, t := range toks {
			tlog.Printw("token", "tok", t, "pos", t.Pos)
		}
	}

	return toks, nil
}

func Count(l []ast.Stmt) (s Stats) {
	ast.Walk(l, func(x ast.Stmt) bool {
		switch x.(type) {
		case ast.VarAssign:
			s.Vars++
		case ast.ConstAssign:
			s.Consts++
		case ast.Label:
			s.Labels++
		case ast.Instruction:
			s.Instructions++
		case ast.Directive:
			s.Directives++
		case ast.Include:
			s.Includes++
		case ast.MacroDef:
			s.Macros++
		case ast.ForLoop:
			s.Loops++
		case ast.Block:
			s.Blocks++
		}

		return true
	})

	return s
}
