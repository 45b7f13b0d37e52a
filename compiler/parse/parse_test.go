package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/chasm/compiler/ast"
	"github.com/slowlang/chasm/compiler/lex"
)

func parse(t *testing.T, text string) []ast.Stmt {
	t.Helper()

	l, err := Parse(context.Background(), []byte(text))
	require.NoError(t, err, "%q", text)

	return l
}

func TestParseSample(t *testing.T) {
	l := parse(t, `
@define SIZE 32
var x = 10
const y = 20

include "testfile.asm"

macro_rules! add2(reg1, reg2) {
    %tmp:
    nand %tmp, %tmp
}

for!(var i = 0; i < 4; i++)

{
    R1 = R1 + i
}

label:
.local_label:
::global_label:

"Hello\nWorld"
0xFF 0b1011 0o77 1234 'A' '\n'
`)

	assert.Equal(t, []ast.Stmt{
		ast.Directive{Name: "define", Args: []string{"SIZE", "32"}},
		ast.VarAssign{Name: "x", Value: 10},
		ast.ConstAssign{Name: "y", Value: 20},
		ast.Include{File: `"testfile.asm"`},
		ast.MacroDef{
			Name:   "add2",
			Params: []string{"reg1", "reg2"},
			Body: []ast.Stmt{
				ast.Label{Name: "tmp"},
				ast.Instruction{Name: "nand"},
				ast.Instruction{Name: "tmp"},
				ast.Instruction{Name: "tmp"},
			},
		},
		ast.ForLoop{
			Var:   "i",
			Start: 0,
			End:   4,
			Body: []ast.Stmt{
				ast.Instruction{Name: "R1"},
				ast.Instruction{Name: "R1"},
				ast.Instruction{Name: "i"},
			},
		},
		ast.Label{Name: "label", Scope: ast.LabelPlain},
		ast.Label{Name: "local_label", Scope: ast.LabelLocal},
		ast.Label{Name: "global_label", Scope: ast.LabelGlobal},
	}, l)
}

func TestLookaheadDoesNotConsume(t *testing.T) {
	assert.Equal(t, []ast.Stmt{
		ast.Instruction{Name: "R1", Args: []string{"R2"}},
	}, parse(t, "R1 R2"))

	assert.Equal(t, []ast.Stmt{
		ast.Instruction{Name: "x"},
	}, parse(t, ". x"))

	assert.Equal(t, []ast.Stmt{
		ast.Instruction{Name: "x", Args: []string{"y"}},
	}, parse(t, ":: x y"))
}

func TestLabels(t *testing.T) {
	for _, tc := range []struct {
		In   string
		Want ast.Label
	}{
		{"label:", ast.Label{Name: "label", Scope: ast.LabelPlain}},
		{".local:", ast.Label{Name: "local", Scope: ast.LabelLocal}},
		{"::global:", ast.Label{Name: "global", Scope: ast.LabelGlobal}},
	} {
		assert.Equal(t, []ast.Stmt{tc.Want}, parse(t, tc.In), tc.In)
	}
}

func TestInstructionArgs(t *testing.T) {
	assert.Equal(t, []ast.Stmt{
		ast.Instruction{Name: "mov", Args: []string{"R1", "16", `"s\n"`, "c", "R1", "5"}},
	}, parse(t, `mov R1 0x10 "s\n" 'c' R1 0b101`))

	assert.Equal(t, []ast.Stmt{
		ast.Instruction{Name: "mov", Args: []string{"a"}},
		ast.Instruction{Name: "b"},
	}, parse(t, "mov a, b"))

	// an identifier followed by a label is taken as an argument
	assert.Equal(t, []ast.Stmt{
		ast.Instruction{Name: "nop", Args: []string{"loop"}},
		ast.Instruction{Name: "jmp", Args: []string{"loop"}},
	}, parse(t, "nop\nloop: jmp loop"))

	assert.Equal(t, []ast.Stmt{
		ast.Label{Name: "start"},
		ast.Instruction{Name: "nop"},
		ast.VarAssign{Name: "x", Value: 1},
	}, parse(t, "start: nop var x = 1"))
}

func TestDirective(t *testing.T) {
	assert.Equal(t, []ast.Stmt{
		ast.Directive{Name: "org", Args: []string{"256", `"x"`}},
	}, parse(t, `@org 0x100 "x" 'c'`))

	assert.Equal(t, []ast.Stmt{
		ast.Directive{Name: "align"},
		ast.Instruction{Name: "nop"},
	}, parse(t, "@align, nop"))
}

func TestForLoop(t *testing.T) {
	assert.Equal(t, []ast.Stmt{
		ast.ForLoop{Var: "i", Start: 0, End: 0, Body: []ast.Stmt{}},
	}, parse(t, "for!(var i = 0; i < 0; i++) {}"))

	assert.Equal(t, []ast.Stmt{
		ast.ForLoop{Var: "k", Start: 1, End: 16, Body: []ast.Stmt{
			ast.ForLoop{Var: "j", Start: 0, End: 2, Body: []ast.Stmt{
				ast.Instruction{Name: "add", Args: []string{"k", "j"}},
			}},
		}},
	}, parse(t, "for!(var k = 1; k < 0x10; k++) { for!(var j = 0; j < 2; j++) { add k j } }"))
}

func TestMacro(t *testing.T) {
	assert.Equal(t, []ast.Stmt{
		ast.MacroDef{Name: "m", Params: []string{}, Body: []ast.Stmt{
			ast.Label{Name: "l", Scope: ast.LabelLocal},
			ast.Instruction{Name: "jmp", Args: []string{"l"}},
		}},
	}, parse(t, "macro_rules! m() { .l: jmp l }"))

	assert.Equal(t, []ast.Stmt{
		ast.MacroDef{Name: "m", Params: []string{"a", "b", "a"}, Body: []ast.Stmt{}},
	}, parse(t, "macro_rules! m(a,, b a) {}"))
}

func TestBlocks(t *testing.T) {
	assert.Equal(t, []ast.Stmt{
		ast.Block{Stmts: []ast.Stmt{}},
	}, parse(t, "{}"))

	assert.Equal(t, []ast.Stmt{
		ast.Block{Stmts: []ast.Stmt{
			ast.Block{Stmts: []ast.Stmt{ast.Instruction{Name: "nop"}}},
			ast.ConstAssign{Name: "c", Value: 3},
		}},
	}, parse(t, "{ ; { nop } const c = 3 }"))
}

func TestSkipUnrecognized(t *testing.T) {
	assert.Equal(t, []ast.Stmt{
		ast.VarAssign{Name: "x", Value: 5},
	}, parse(t, "$ var x = 5"))

	assert.Equal(t, []ast.Stmt{
		ast.VarAssign{Name: "x", Value: 5},
	}, parse(t, "= ; 7 \"s\" var x = 5 )"))

	assert.Empty(t, parse(t, ""))
	assert.Empty(t, parse(t, "} } ,"))
}

func TestFatalErrors(t *testing.T) {
	var (
		unexpected UnexpectedTokenError
		missing    MissingNameError
		mismatch   TypeMismatchError
		escape     lex.InvalidEscapeError
	)

	for _, tc := range []struct {
		In   string
		Want any
	}{
		{"var 5 = 3", &missing},
		{"const = 3", &missing},
		{"var x = y", &mismatch},
		{`const x = "s"`, &mismatch},
		{"var x = 'c'", &mismatch},
		{"var x 5", &unexpected},
		{"include foo", &unexpected},
		{"macro_rules! 5() {}", &missing},
		{"macro_rules! m(a; b) {}", &unexpected},
		{"macro_rules! m(a) nop", &unexpected},
		{"macro_rules! m a", &unexpected},
		{"for!(i = 0; i < 4; i++) {}", &unexpected},
		{"for!(var 1 = 0; i < 4; i++) {}", &missing},
		{"for!(var i = x; i < 4; i++) {}", &mismatch},
		{"for!(var i = 0; i < x; i++) {}", &mismatch},
		{"for!(var i = 0; j < 4; i++) {}", &unexpected},
		{"for!(var i = 0; i < 4; j++) {}", &unexpected},
		{"for!(var i = 0; i < 4; i--) {}", &unexpected},
		{"for!(var i = 0; i <= 4; i++) {}", &mismatch},
		{"for!(var i = 0; i < 4; i++) nop", &unexpected},
		{"{ var x = y }", &mismatch},
		{`nop '\q'`, &escape},
	} {
		l, err := Parse(context.Background(), []byte(tc.In))
		assert.ErrorAs(t, err, tc.Want, "%q", tc.In)
		assert.Nil(t, l, "%q", tc.In)
	}
}

func TestUnexpectedEOF(t *testing.T) {
	for _, in := range []string{
		"var",
		"var x",
		"var x =",
		"include",
		"macro_rules!",
		"macro_rules! m(a, b",
		"macro_rules! m(a)",
		"macro_rules! m(a) { nop",
		"for!(var i = 0; i < 4",
		"for!(var i = 0; i < 4; i++)",
		"{",
		"{ { nop }",
	} {
		l, err := Parse(context.Background(), []byte(in))
		assert.ErrorIs(t, err, ErrUnexpectedEOF, "%q", in)
		assert.Nil(t, l, "%q", in)
	}
}

func TestIncludePath(t *testing.T) {
	l := parse(t, `include "lib/std\tx.asm"`)
	require.Len(t, l, 1)

	inc := l[0].(ast.Include)
	assert.Equal(t, `"lib/std\tx.asm"`, inc.File)

	p, err := inc.Path()
	require.NoError(t, err)
	assert.Equal(t, "lib/std\tx.asm", p)
}
