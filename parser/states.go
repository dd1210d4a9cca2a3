package parser

import (
	"strings"

	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/token"
)

// stateParser parses "states { ... }" blocks. ZScript terminates every
// frame with ';'; DECORATE frames end at the end of the line.
type stateParser struct {
	*exprParser
	stmts      *stmtParser
	terminated bool
}

var frameFlags = map[string]bool{
	"bright":   true,
	"fast":     true,
	"slow":     true,
	"nodelay":  true,
	"canraise": true,
}

var frameCalls = map[string]bool{
	"offset": true,
	"light":  true,
}

var flowOps = map[string]bool{
	"stop": true,
	"loop": true,
	"wait": true,
	"fail": true,
}

// states parses the block; the current token must be the "states" keyword.
func (sp *stateParser) states() *ast.States {
	kw := sp.next()
	st := &ast.States{}
	if open, ok := sp.accept(token.LPAREN); ok {
		for sp.at(token.IDENT) {
			st.Scope = append(st.Scope, sp.ident(sp.next()))
			if _, ok := sp.accept(token.COMMA); !ok {
				break
			}
		}
		sp.expectClose(token.RPAREN, open)
	}
	open, ok := sp.expect(token.LBRACE, "after states")
	if !ok {
		st.Range = sp.spanFrom(kw.Span.Start)
		return st
	}

	saved := sp.lineBound
	sp.lineBound = !sp.terminated
	for !sp.at(token.RBRACE) && !sp.atEOF() && !sp.atDecl() {
		start := sp.pos
		if item := sp.item(); item != nil {
			st.Items = append(st.Items, item)
		}
		if sp.pos == start {
			st.Items = append(st.Items, sp.recover("state", sp.itemSync()))
		}
	}
	sp.lineBound = saved

	sp.expectClose(token.RBRACE, open)
	st.Range = sp.spanFrom(kw.Span.Start)
	return st
}

func (sp *stateParser) item() ast.Node {
	if !sp.enter() {
		return nil
	}
	defer sp.leave()

	tok := sp.cur()
	switch {
	case tok.Type == token.SEMICOLON:
		sp.next()
		return nil
	case sp.isLabel():
		return sp.label()
	case tok.IsWord("goto"):
		return sp.gotoFlow()
	case tok.Type == token.IDENT && flowOps[strings.ToLower(tok.Literal)] && sp.flowEnds():
		sp.next()
		sp.terminator()
		return &ast.StateFlow{Range: sp.spanFrom(tok.Span.Start), Op: strings.ToLower(tok.Literal)}
	}
	return sp.frame()
}

// itemSync stops error recovery at the next line when frames are not
// terminated by ';'.
func (sp *stateParser) itemSync() func() bool {
	if sp.terminated {
		return nil
	}
	line := sp.cur().Start.Line
	return func() bool { return sp.cur().Start.Line != line }
}

func (sp *stateParser) terminator() {
	if sp.terminated {
		sp.expect(token.SEMICOLON, "after state")
		return
	}
	sp.accept(token.SEMICOLON)
}

// isLabel reports whether the tokens ahead form "Name(.Name)*:".
func (sp *stateParser) isLabel() bool {
	if sp.cur().Type != token.IDENT {
		return false
	}
	i := 1
	for isLabelSep(sp.peek(i)) && sp.peek(i+1).Type == token.IDENT {
		i += 2
	}
	return sp.peek(i).Type == token.COLON
}

func isLabelSep(tok token.Token) bool {
	return tok.Type == token.PERIOD || tok.Type == token.DOUBLE_COLON
}

func (sp *stateParser) label() ast.Node {
	first := sp.next()
	for isLabelSep(sp.cur()) {
		sp.next()
		sp.next()
	}
	name := sp.identSpan(sp.spanFrom(first.Span.Start))
	sp.next() // ':'
	return &ast.StateLabel{Range: sp.spanFrom(first.Span.Start), Name: name}
}

// flowEnds reports whether a flow keyword stands alone, rather than being
// the sprite name of a frame such as "STOP A 1".
func (sp *stateParser) flowEnds() bool {
	next := sp.peek(1)
	switch next.Type {
	case token.SEMICOLON, token.RBRACE, token.EOF:
		return true
	}
	return next.Start.Line != sp.cur().End.Line
}

func (sp *stateParser) gotoFlow() ast.Node {
	kw := sp.next()
	flow := &ast.StateFlow{Op: "goto"}
	if sp.at(token.IDENT) || sp.at(token.KEYWORD) {
		first := sp.next()
		if _, ok := sp.accept(token.DOUBLE_COLON); ok {
			if sp.at(token.IDENT) {
				sp.next()
			} else {
				sp.expected("state label", "after '::'")
			}
		}
		for sp.at(token.PERIOD) && sp.peek(1).Type == token.IDENT {
			sp.next()
			sp.next()
		}
		flow.Target = sp.identSpan(sp.spanFrom(first.Span.Start))
		if _, ok := sp.accept(token.PLUS); ok {
			if sp.at(token.INT) {
				flow.Offset = sp.primary()
			} else {
				sp.expected("offset", "after '+'")
			}
		}
	} else {
		sp.expected("state label", "after goto")
	}
	sp.terminator()
	flow.Range = sp.spanFrom(kw.Span.Start)
	return flow
}

func isSpriteToken(tok token.Token) bool {
	switch tok.Type {
	case token.IDENT, token.INT, token.KEYWORD, token.HASH, token.MINUS, token.MINUS_MINUS, token.STRING:
		return true
	}
	return false
}

func isFrameToken(tok token.Token) bool {
	switch tok.Type {
	case token.IDENT, token.INT, token.HASH, token.LBRACKET, token.RBRACKET, token.BACKSLASH, token.STRING:
		return true
	}
	return false
}

// frame parses "SPRT ABC duration [modifiers] [action]".
func (sp *stateParser) frame() ast.Node {
	m := sp.mark()
	start := sp.cur().Span.Start
	sprite := sp.run(isSpriteToken)
	if sprite == nil {
		return nil
	}
	frames := sp.run(isFrameToken)
	if frames == nil || (!sp.terminated && sp.prev().Start.Line != sp.toks[m.pos].Start.Line) {
		// Not a frame after all; let the caller recover from the start.
		sp.reset(m)
		return nil
	}
	f := &ast.StateFrame{Sprite: sprite, Frames: frames}

	if sp.canStartExpr() && (sp.terminated || sp.sameLine()) {
		f.Duration = sp.exprPrec(LOWEST)
	} else {
		sp.expected("duration", "after frame letters")
		f.Duration = sp.missing("duration")
	}

	for sp.terminated || sp.sameLine() {
		tok := sp.cur()
		if tok.Type != token.IDENT && tok.Type != token.KEYWORD {
			break
		}
		name := strings.ToLower(tok.Literal)
		if frameFlags[name] {
			sp.next()
			f.Modifiers = append(f.Modifiers, &ast.Modifier{Range: tok.Span, Name: name})
			continue
		}
		if frameCalls[name] && sp.peek(1).Type == token.LPAREN {
			sp.next()
			open := sp.next()
			mod := &ast.Modifier{Name: name}
			for !sp.at(token.RPAREN) && !sp.atEOF() {
				mod.Args = append(mod.Args, sp.expr())
				if _, ok := sp.accept(token.COMMA); !ok {
					break
				}
			}
			sp.expectClose(token.RPAREN, open)
			mod.Range = sp.spanFrom(tok.Span.Start)
			f.Modifiers = append(f.Modifiers, mod)
			continue
		}
		break
	}

	if sp.terminated || sp.sameLine() {
		f.Action = sp.action()
	}
	if _, ok := f.Action.(*ast.Block); ok {
		sp.accept(token.SEMICOLON)
	} else {
		sp.terminator()
	}
	f.Range = sp.spanFrom(start)
	return f
}

// action parses the frame's action function: a call, a bare name or an
// anonymous block.
func (sp *stateParser) action() ast.Node {
	switch {
	case sp.at(token.LBRACE):
		if sp.stmts != nil {
			return sp.stmts.block()
		}
		return sp.recover("action", sp.itemSync())
	case sp.at(token.IDENT) || sp.atKeyword("null"):
		tok := sp.cur()
		var fun ast.Expr
		if tok.Type == token.KEYWORD {
			sp.next()
			fun = sp.ident(tok)
		} else {
			fun = sp.dotted()
		}
		if sp.at(token.LPAREN) && sp.sameLine() {
			return sp.call(fun)
		}
		return fun
	}
	return nil
}
