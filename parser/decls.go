package parser

import (
	"strings"

	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/token"
)

// declParser holds the declaration forms that ZScript and DECORATE share:
// enums, constants, method signatures and actor property lists.
type declParser struct {
	*stmtParser
	states *stateParser
}

func newDeclParser(e *engine, terminated bool) *declParser {
	x := newExprParser(e)
	s := &stmtParser{exprParser: x}
	return &declParser{
		stmtParser: s,
		states:     &stateParser{exprParser: x, stmts: s, terminated: terminated},
	}
}

// name consumes an identifier, or reports what was expected and returns
// nil.
func (p *declParser) name(what, context string) *ast.Ident {
	if p.at(token.IDENT) {
		return p.ident(p.next())
	}
	p.expected(what, context)
	return nil
}

// modifier consumes one qualifier keyword. version, deprecated and action
// take an optional argument list.
func (p *declParser) modifier() *ast.Modifier {
	tok := p.next()
	m := &ast.Modifier{Name: strings.ToLower(tok.Literal)}
	if p.at(token.LPAREN) {
		open := p.next()
		for !p.at(token.RPAREN) && !p.atEOF() {
			m.Args = append(m.Args, p.expr())
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.expectClose(token.RPAREN, open)
	}
	m.Range = p.spanFrom(tok.Span.Start)
	return m
}

// enumDecl parses "enum Name [: type] { A = 1, B, }".
func (p *declParser) enumDecl() ast.Node {
	kw := p.next()
	n := &ast.Enum{Name: p.name("enum name", "after enum")}
	if _, ok := p.accept(token.COLON); ok {
		n.Type = p.name("type", "after ':'")
	}
	if open, ok := p.expect(token.LBRACE, "in enum declaration"); ok {
		for !p.at(token.RBRACE) && !p.atEOF() && !p.atDecl() {
			if !p.at(token.IDENT) {
				p.recover("enumerator", func() bool { return p.at(token.COMMA) })
				if _, ok := p.accept(token.COMMA); !ok {
					break
				}
				continue
			}
			name := p.next()
			m := &ast.EnumMember{Name: p.ident(name)}
			if _, ok := p.accept(token.ASSIGN); ok {
				m.Value = p.expr()
			}
			m.Range = p.spanFrom(name.Span.Start)
			n.Members = append(n.Members, m)
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.expectClose(token.RBRACE, open)
	}
	p.accept(token.SEMICOLON)
	n.Range = p.spanFrom(kw.Span.Start)
	return n
}

// constDecl parses "const [type] Name = value;". typed selects the
// DECORATE form where the type is mandatory.
func (p *declParser) constDecl(typed bool) ast.Node {
	kw := p.next()
	n := &ast.Const{}
	if typed || p.peek(1).Type == token.IDENT {
		n.Type = p.typeRef()
		if n.Type == nil {
			p.expected("type", "after const")
		}
	}
	n.Name = p.name("constant name", "in const declaration")
	if _, ok := p.expect(token.ASSIGN, "in const declaration"); ok {
		n.Value = p.expr()
	}
	p.expectSemi()
	n.Range = p.spanFrom(kw.Span.Start)
	return n
}

// method parses the rest of a method declaration once the return types
// have been read; the current token is the method name.
func (p *declParser) method(start int, mods []*ast.Modifier, returns []*ast.TypeRef) ast.Node {
	m := &ast.Method{Modifiers: mods, Returns: returns, Name: p.ident(p.next())}
	open := p.next() // '('
	for !p.at(token.RPAREN) && !p.atEOF() {
		if _, ok := p.accept(token.ELLIPSIS); ok {
			m.Varargs = true
			break
		}
		if p.atWord("void") && p.peek(1).Type == token.RPAREN {
			p.next()
			break
		}
		param := p.param()
		if param == nil {
			break
		}
		m.Params = append(m.Params, param)
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expectClose(token.RPAREN, open)
	if _, ok := p.acceptKeyword("const"); ok {
		m.Const = true
	}
	if p.at(token.LBRACE) {
		m.Body = p.block()
	} else {
		p.expectSemi()
	}
	m.Range = p.spanFrom(start)
	return m
}

func (p *declParser) param() *ast.Param {
	start := p.cur().Span.Start
	var mods []*ast.Modifier
	for p.atKeyword("out") || (p.atWord("in") && p.peek(1).Type == token.IDENT && p.peek(2).Type == token.IDENT) {
		mods = append(mods, p.modifier())
	}
	typ := p.typeRef()
	if typ == nil {
		p.unexpected("parameter type")
		return nil
	}
	param := &ast.Param{Modifiers: mods, Type: typ}
	param.Name = p.name("parameter name", "")
	if _, ok := p.accept(token.ASSIGN); ok {
		param.Default = p.expr()
	}
	param.Range = p.spanFrom(start)
	return param
}

// flag parses "+NAME" or "-NAME" in a defaults block or actor body.
func (p *declParser) flag() ast.Node {
	sign := p.next()
	f := &ast.Flag{On: sign.Type == token.PLUS}
	if p.at(token.IDENT) || p.at(token.KEYWORD) {
		f.Name = p.dotted()
	} else {
		p.expected("flag name", "after '"+sign.Literal+"'")
	}
	f.Range = p.spanFrom(sign.Span.Start)
	return f
}
