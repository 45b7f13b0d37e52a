package format

import (
	"context"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/chasm/compiler/ast"
	"github.com/slowlang/chasm/compiler/token"
)

// Format appends source text for a statement list or a single statement.
// Nested bodies are indented with tabs.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	return format(ctx, b, x, 0)
}

func format(ctx context.Context, b []byte, x any, d int) ([]byte, error) {
	switch x := x.(type) {
	case []ast.Stmt:
		return formatStmts(ctx, b, x, d)
	case ast.Stmt:
		return formatStmt(ctx, b, x, d)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatStmts(ctx context.Context, b []byte, l []ast.Stmt, d int) (_ []byte, err error) {
	for i, s := range l {
		b, err = formatStmt(ctx, b, s, d)
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i)
		}
	}

	return b, nil
}

func formatStmt(ctx context.Context, b []byte, s ast.Stmt, d int) (_ []byte, err error) {
	switch s := s.(type) {
	case ast.VarAssign:
		b = app(b, d, "var %s = %d\n", s.Name, s.Value)
	case ast.ConstAssign:
		b = app(b, d, "const %s = %d\n", s.Name, s.Value)
	case ast.Label:
		b = app(b, d, "%s%s:\n", s.Scope.Prefix(), s.Name)
	case ast.Instruction:
		b = app(b, d, "%s", s.Name)
		b = appArgs(b, s.Args)
	case ast.Directive:
		b = app(b, d, "@%s", s.Name)
		b = appArgs(b, s.Args)
	case ast.Include:
		b = app(b, d, "include %s\n", s.File)
	case ast.MacroDef:
		b = app(b, d, "macro_rules! %s(%s) ", s.Name, strings.Join(s.Params, ", "))

		b, err = formatBody(ctx, b, s.Body, d)
		if err != nil {
			return nil, errors.Wrap(err, "macro %v", s.Name)
		}
	case ast.ForLoop:
		b = app(b, d, "for!(var %s = %d; %s < %d; %s++) ", s.Var, s.Start, s.Var, s.End, s.Var)

		b, err = formatBody(ctx, b, s.Body, d)
		if err != nil {
			return nil, errors.Wrap(err, "for loop %v", s.Var)
		}
	case ast.Block:
		b = app(b, d, "")

		b, err = formatBody(ctx, b, s.Stmts, d)
		if err != nil {
			return nil, errors.Wrap(err, "block")
		}
	default:
		return nil, errors.New("unsupported stmt: %T", s)
	}

	return b, nil
}

func formatBody(ctx context.Context, b []byte, l []ast.Stmt, d int) (_ []byte, err error) {
	if len(l) == 0 {
		return append(b, "{}\n"...), nil
	}

	b = append(b, "{\n"...)

	b, err = formatStmts(ctx, b, l, d+1)
	if err != nil {
		return nil, err
	}

	b = app(b, d, "}\n")

	return b, nil
}

func appArgs(b []byte, args []string) []byte {
	for _, a := range args {
		b = append(b, ' ')
		b = append(b, a...)
	}

	return append(b, '\n')
}

// FormatTokens appends one line per token: kind, lexeme and the decoded value if any.
func FormatTokens(b []byte, toks []token.Token) []byte {
	for _, t := range toks {
		b = hfmt.AppendPrintf(b, "%-6d %-14v %s", t.Pos, t.Kind, t.Text)

		if t.Kind == token.Int || t.Kind == token.Char {
			b = hfmt.AppendPrintf(b, "  = %d", t.Value)
		}

		b = append(b, '\n')
	}

	return b
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	for d > len(tabs) {
		b = append(b, tabs...)
		d -= len(tabs)
	}

	b = append(b, tabs[:d]...)
	b = hfmt.AppendPrintf(b, f, args...)

	return b
}
