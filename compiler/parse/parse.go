package parse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/chasm/compiler/ast"
	"github.com/slowlang/chasm/compiler/lex"
	"github.com/slowlang/chasm/compiler/token"
)

type (
	Parser struct {
		s *Stream
	}

	// UnexpectedTokenError is a structural mismatch inside a committed construct.
	UnexpectedTokenError struct {
		Want string
		Got  token.Token
	}

	// MissingNameError is a non-identifier where a name is required.
	MissingNameError struct {
		What string
		Got  token.Token
	}

	// TypeMismatchError is a literal of the wrong category.
	TypeMismatchError struct {
		Want string
		Got  token.Token
	}

	argKinds uint64
)

var ErrUnexpectedEOF = errors.New("unexpected end of input")

var (
	instructionArgs = newArgKinds(token.Ident, token.Int, token.String, token.Char)
	directiveArgs   = newArgKinds(token.Ident, token.Int, token.String)
)

// Parse lexes and parses one unit of source text.
func Parse(ctx context.Context, text []byte) ([]ast.Stmt, error) {
	toks, err := lex.Lex(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "lex")
	}

	return New(toks).Parse(ctx)
}

func New(toks []token.Token) *Parser {
	return &Parser{
		s: NewStream(toks),
	}
}

// Parse returns top-level statements. Tokens starting no statement are skipped one by one.
// Any error rejects the whole input.
func (p *Parser) Parse(ctx context.Context) (l []ast.Stmt, err error) {
	for !p.s.EOF() {
		x, ok, err := p.statement(ctx)
		if err != nil {
			return nil, err
		}

		if !ok {
			p.skip()
			continue
		}

		l = append(l, x)
	}

	return l, nil
}

// statement parses one statement at the cursor.
// ok == false with nil error means nothing was recognized and nothing was consumed.
func (p *Parser) statement(ctx context.Context) (x ast.Stmt, ok bool, err error) {
	t, ok := p.s.Peek()
	if !ok {
		return nil, false, nil
	}

	if scope, ok := p.labelAhead(); ok {
		x, err = p.label(ctx, scope)
		return x, err == nil, err
	}

	switch t.Kind {
	case token.Var, token.Const:
		x, err = p.assign(ctx)
	case token.Ident:
		x, err = p.instruction(ctx)
	case token.Directive:
		x, err = p.directive(ctx)
	case token.Include:
		x, err = p.include(ctx)
	case token.MacroRules:
		x, err = p.macro(ctx)
	case token.ForBang:
		x, err = p.forLoop(ctx)
	case token.LBrace:
		var body []ast.Stmt

		body, err = p.block(ctx)
		x = ast.Block{Stmts: body}
	default:
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return x, true, nil
}

// labelAhead reports whether the cursor is at name:, .name: or ::name:.
// It never moves the cursor.
func (p *Parser) labelAhead() (ast.LabelScope, bool) {
	a, _ := p.s.PeekAt(0)
	b, _ := p.s.PeekAt(1)
	c, _ := p.s.PeekAt(2)

	switch {
	case a.Is(token.Ident) && b.Is(token.Colon):
		return ast.LabelPlain, true
	case a.Is(token.Dot) && b.Is(token.Ident) && c.Is(token.Colon):
		return ast.LabelLocal, true
	case a.Is(token.DoubleColon) && b.Is(token.Ident) && c.Is(token.Colon):
		return ast.LabelGlobal, true
	}

	return 0, false
}

func (p *Parser) label(ctx context.Context, scope ast.LabelScope) (x ast.Stmt, err error) {
	switch scope {
	case ast.LabelLocal:
		_, err = p.s.Expect(token.Dot)
	case ast.LabelGlobal:
		_, err = p.s.Expect(token.DoubleColon)
	}
	if err != nil {
		return nil, errors.Wrap(err, "label")
	}

	name, err := p.s.Expect(token.Ident)
	if err != nil {
		return nil, errors.Wrap(err, "label")
	}

	_, err = p.s.Expect(token.Colon)
	if err != nil {
		return nil, errors.Wrap(err, "label %v", name.Text)
	}

	return ast.Label{Name: name.Text, Scope: scope}, nil
}

func (p *Parser) instruction(ctx context.Context) (x ast.Stmt, err error) {
	name, err := p.s.Expect(token.Ident)
	if err != nil {
		return nil, errors.Wrap(err, "instruction")
	}

	return ast.Instruction{
		Name: name.Text,
		Args: p.args(instructionArgs),
	}, nil
}

func (p *Parser) directive(ctx context.Context) (x ast.Stmt, err error) {
	t, err := p.s.Expect(token.Directive)
	if err != nil {
		return nil, errors.Wrap(err, "directive")
	}

	return ast.Directive{
		Name: strings.TrimPrefix(t.Text, "@"),
		Args: p.args(directiveArgs),
	}, nil
}

// args consumes the run of tokens of the given kinds. There is no terminator:
// the first token of any other kind ends the list and is left in place.
func (p *Parser) args(kinds argKinds) (args []string) {
	for {
		t, ok := p.s.Peek()
		if !ok || !kinds.has(t.Kind) {
			return args
		}

		switch t.Kind {
		case token.Int:
			args = append(args, strconv.FormatInt(t.Value, 10))
		case token.Char:
			args = append(args, string(rune(t.Value)))
		default:
			args = append(args, t.Text)
		}

		p.s.Next()
	}
}

func (p *Parser) include(ctx context.Context) (x ast.Stmt, err error) {
	_, err = p.s.Expect(token.Include)
	if err != nil {
		return nil, errors.Wrap(err, "include")
	}

	t, ok := p.s.Next()
	if !ok {
		return nil, errors.Wrap(ErrUnexpectedEOF, "include")
	}

	if t.Kind != token.String {
		return nil, UnexpectedTokenError{Want: "string literal after include", Got: t}
	}

	return ast.Include{File: t.Text}, nil
}

func (p *Parser) macro(ctx context.Context) (x ast.Stmt, err error) {
	_, err = p.s.Expect(token.MacroRules)
	if err != nil {
		return nil, errors.Wrap(err, "macro")
	}

	name, err := p.name("macro name")
	if err != nil {
		return nil, errors.Wrap(err, "macro")
	}

	_, err = p.s.Expect(token.LParen)
	if err != nil {
		return nil, errors.Wrap(err, "macro %v", name)
	}

	params := []string{}

params:
	for {
		t, ok := p.s.Next()
		if !ok {
			return nil, errors.Wrap(ErrUnexpectedEOF, "macro %v: params", name)
		}

		switch t.Kind {
		case token.Ident:
			params = append(params, t.Text)
		case token.Comma:
		case token.RParen:
			break params
		default:
			return nil, errors.Wrap(UnexpectedTokenError{Want: "macro parameter", Got: t}, "macro %v", name)
		}
	}

	body, err := p.block(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "macro %v: body", name)
	}

	return ast.MacroDef{
		Name:   name,
		Params: params,
		Body:   body,
	}, nil
}

// forLoop parses for!(var i = START; i < END; i++) { ... }.
// The loop variable must be repeated verbatim in the condition and the increment.
func (p *Parser) forLoop(ctx context.Context) (x ast.Stmt, err error) {
	err = p.expect(token.ForBang, token.LParen, token.Var)
	if err != nil {
		return nil, errors.Wrap(err, "for loop")
	}

	v, _ := p.s.Peek()

	name, err := p.name("loop variable")
	if err != nil {
		return nil, errors.Wrap(err, "for loop")
	}

	err = p.expect(token.Equal)
	if err != nil {
		return nil, errors.Wrap(err, "for loop %v: init", name)
	}

	start, err := p.intLit("loop start")
	if err != nil {
		return nil, errors.Wrap(err, "for loop %v: init", name)
	}

	err = p.expect(token.Semicolon)
	if err == nil {
		err = p.s.ExpectMatch(v)
	}
	if err == nil {
		err = p.expect(token.Less)
	}
	if err != nil {
		return nil, errors.Wrap(err, "for loop %v: condition", name)
	}

	end, err := p.intLit("loop end")
	if err != nil {
		return nil, errors.Wrap(err, "for loop %v: condition", name)
	}

	err = p.expect(token.Semicolon)
	if err == nil {
		err = p.s.ExpectMatch(v)
	}
	if err == nil {
		err = p.expect(token.PlusPlus, token.RParen)
	}
	if err != nil {
		return nil, errors.Wrap(err, "for loop %v: increment", name)
	}

	body, err := p.block(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "for loop %v: body", name)
	}

	return ast.ForLoop{
		Var:   name,
		Start: start,
		End:   end,
		Body:  body,
	}, nil
}

func (p *Parser) block(ctx context.Context) (l []ast.Stmt, err error) {
	_, err = p.s.Expect(token.LBrace)
	if err != nil {
		return nil, errors.Wrap(err, "block")
	}

	l = []ast.Stmt{}

	for {
		t, ok := p.s.Peek()
		if !ok {
			return nil, errors.Wrap(ErrUnexpectedEOF, "block")
		}

		if t.Is(token.RBrace) {
			break
		}

		x, ok, err := p.statement(ctx)
		if err != nil {
			return nil, err
		}

		if !ok {
			p.skip()
			continue
		}

		l = append(l, x)
	}

	_, err = p.s.Expect(token.RBrace)
	if err != nil {
		return nil, errors.Wrap(err, "block")
	}

	return l, nil
}

func (p *Parser) assign(ctx context.Context) (x ast.Stmt, err error) {
	kw, _ := p.s.Next()

	name, err := p.name("variable name")
	if err != nil {
		return nil, errors.Wrap(err, "%v", kw.Kind)
	}

	_, err = p.s.Expect(token.Equal)
	if err != nil {
		return nil, errors.Wrap(err, "%v %v", kw.Kind, name)
	}

	v, err := p.intLit("initializer")
	if err != nil {
		return nil, errors.Wrap(err, "%v %v", kw.Kind, name)
	}

	if kw.Is(token.Const) {
		return ast.ConstAssign{Name: name, Value: v}, nil
	}

	return ast.VarAssign{Name: name, Value: v}, nil
}

func (p *Parser) name(what string) (string, error) {
	t, ok := p.s.Next()
	if !ok {
		return "", ErrUnexpectedEOF
	}

	if t.Kind != token.Ident {
		return "", MissingNameError{What: what, Got: t}
	}

	return t.Text, nil
}

func (p *Parser) intLit(what string) (int64, error) {
	t, ok := p.s.Next()
	if !ok {
		return 0, ErrUnexpectedEOF
	}

	if t.Kind != token.Int {
		return 0, TypeMismatchError{Want: "integer literal " + what, Got: t}
	}

	return t.Value, nil
}

func (p *Parser) expect(kinds ...token.Kind) error {
	for _, k := range kinds {
		if _, err := p.s.Expect(k); err != nil {
			return err
		}
	}

	return nil
}

func (p *Parser) skip() {
	t, _ := p.s.Next()

	if tlog.If("parse") {
		tlog.Printw("skip token", "pos", p.s.Pos()-1, "tok", t, "from", loc.Callers(1, 2))
	}
}

func newArgKinds(kinds ...token.Kind) (a argKinds) {
	for _, k := range kinds {
		a |= 1 << k
	}

	return a
}

func (a argKinds) has(k token.Kind) bool {
	return k >= 0 && k < 64 && a&(1<<k) != 0
}

func (e UnexpectedTokenError) Error() string {
	return fmt.Sprintf("expected %v, got %v", e.Want, e.Got)
}

func (e MissingNameError) Error() string {
	return fmt.Sprintf("expected %v, got %v", e.What, e.Got)
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %v, got %v", e.Want, e.Got)
}
