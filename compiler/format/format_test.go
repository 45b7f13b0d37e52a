package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/chasm/compiler/ast"
	"github.com/slowlang/chasm/compiler/parse"
	"github.com/slowlang/chasm/compiler/token"
)

func TestFormat(t *testing.T) {
	ctx := context.Background()

	l := []ast.Stmt{
		ast.Directive{Name: "define", Args: []string{"SIZE", "32"}},
		ast.VarAssign{Name: "x", Value: 10},
		ast.ConstAssign{Name: "y", Value: -2},
		ast.Include{File: `"lib.asm"`},
		ast.MacroDef{Name: "add2", Params: []string{"a", "b"}, Body: []ast.Stmt{
			ast.Label{Name: "tmp", Scope: ast.LabelLocal},
			ast.Instruction{Name: "nand", Args: []string{"a", "b"}},
		}},
		ast.ForLoop{Var: "i", Start: 0, End: 4, Body: []ast.Stmt{
			ast.Block{Stmts: []ast.Stmt{ast.Instruction{Name: "inc"}}},
		}},
		ast.ForLoop{Var: "j", End: 1, Body: []ast.Stmt{}},
		ast.Label{Name: "main", Scope: ast.LabelGlobal},
		ast.Block{},
	}

	b, err := Format(ctx, nil, l)
	require.NoError(t, err)

	assert.Equal(t, `@define SIZE 32
var x = 10
const y = -2
include "lib.asm"
macro_rules! add2(a, b) {
	.tmp:
	nand a b
}
for!(var i = 0; i < 4; i++) {
	{
		inc
	}
}
for!(var j = 0; j < 1; j++) {}
::main:
{}
`, string(b))
}

func TestFormatSingle(t *testing.T) {
	b, err := Format(context.Background(), []byte("> "), ast.Label{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "> x:\n", string(b))

	_, err = Format(context.Background(), nil, 5)
	assert.Error(t, err)
}

func TestFormatReparse(t *testing.T) {
	ctx := context.Background()

	src := `var x = 10
const y = 0x20
::entry:
macro_rules! m(p, q) {
	.l:
	@emit p q
}
for!(var i = 0; i < 3; i++) {
	{}
}
`

	l, err := parse.Parse(ctx, []byte(src))
	require.NoError(t, err)

	b, err := Format(ctx, nil, l)
	require.NoError(t, err)

	l2, err := parse.Parse(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, l, l2)
}

func TestFormatTokens(t *testing.T) {
	b := FormatTokens(nil, []token.Token{
		{Kind: token.Ident, Text: "mov", Pos: 0},
		{Kind: token.Int, Text: "0x10", Value: 16, Base: 16, Pos: 4},
	})

	assert.Equal(t, "0      Ident          mov\n4      Int            0x10  = 16\n", string(b))
}
