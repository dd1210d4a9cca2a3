package parser

import (
	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/token"
)

type decorateGrammar struct{}

func (decorateGrammar) Dialect() token.Dialect { return token.Decorate }

func (decorateGrammar) ParseUnit(e *engine) *ast.File {
	p := &decorateParser{declParser: newDeclParser(e, false)}
	return e.finish(e.unit("actor definition", p.topLevel, p.atTopLevel))
}

type decorateParser struct {
	*declParser
}

func (p *decorateParser) atTopLevel() bool {
	tok := p.cur()
	if tok.Type == token.DIRECTIVE {
		return true
	}
	switch tok.Keyword {
	case "actor", "const", "enum":
		return tok.Type == token.KEYWORD
	}
	return false
}

func (p *decorateParser) topLevel() ast.Node {
	tok := p.cur()
	switch tok.Type {
	case token.SEMICOLON:
		p.next()
		return nil
	case token.DIRECTIVE:
		if tok.Keyword == "include" {
			return p.include()
		}
	case token.KEYWORD:
		switch tok.Keyword {
		case "actor":
			return p.actor()
		case "const":
			return p.constDecl(true)
		case "enum":
			return p.enumDecl()
		}
	}
	return nil
}

// actor parses "actor Name [: Parent] [replaces R] [ednum] [native] { ... }".
func (p *decorateParser) actor() ast.Node {
	kw := p.next()
	a := &ast.Actor{}
	if p.at(token.IDENT) {
		a.Name = p.dotted()
	} else {
		p.expected("actor name", "after actor")
	}
	if _, ok := p.accept(token.COLON); ok {
		if p.at(token.IDENT) {
			a.Parent = p.dotted()
		} else {
			p.expected("parent actor", "after ':'")
		}
	}
	if _, ok := p.acceptWord("replaces"); ok {
		if p.at(token.IDENT) {
			a.Replaces = p.dotted()
		} else {
			p.expected("actor name", "after replaces")
		}
	}
	if p.at(token.INT) {
		tok := p.next()
		v, _ := tok.Value.(int64)
		a.EdNum = &ast.Int{Range: tok.Span, Literal: tok.Literal, Value: v}
	}
	if p.atKeyword("native") {
		a.Modifiers = append(a.Modifiers, p.modifier())
	}
	if open, ok := p.expect(token.LBRACE, "in actor definition"); ok {
		saved := p.lineBound
		p.lineBound = true
		for !p.at(token.RBRACE) && !p.atEOF() && !p.atDecl() {
			start := p.pos
			if m := p.member(); m != nil {
				a.Members = append(a.Members, m)
			}
			if p.pos == start {
				a.Members = append(a.Members, p.recover("property, flag or states", p.lineSync()))
			}
		}
		p.lineBound = saved
		p.expectClose(token.RBRACE, open)
	}
	a.Range = p.spanFrom(kw.Span.Start)
	return a
}

// lineSync stops recovery at the start of the next line.
func (p *decorateParser) lineSync() func() bool {
	line := p.cur().Start.Line
	return func() bool { return p.cur().Start.Line != line }
}

func (p *decorateParser) member() ast.Node {
	tok := p.cur()
	switch tok.Type {
	case token.SEMICOLON:
		p.next()
		return nil
	case token.PLUS, token.MINUS:
		f := p.flag()
		p.accept(token.SEMICOLON)
		return f
	case token.KEYWORD:
		switch tok.Keyword {
		case "states":
			return p.states.states()
		case "const":
			return p.withStatements(func() ast.Node { return p.constDecl(true) })
		case "enum":
			return p.withStatements(p.enumDecl)
		}
	case token.IDENT:
		switch {
		case tok.IsWord("var") && p.peek(1).Type == token.IDENT:
			return p.withStatements(p.userVar)
		case tok.IsWord("action") && p.peek(1).IsKeyword("native"):
			return p.withStatements(p.actionImport)
		}
		return p.property()
	}
	return nil
}

// withStatements runs fn with line-bound expressions turned off, for the
// members that end in ';'.
func (p *decorateParser) withStatements(fn func() ast.Node) ast.Node {
	saved := p.lineBound
	p.lineBound = false
	defer func() { p.lineBound = saved }()
	return fn()
}

// userVar parses "var int user_x;" or "var float user_arr[4];".
func (p *decorateParser) userVar() ast.Node {
	kw := p.next()
	f := &ast.Field{Modifiers: []*ast.Modifier{{Range: kw.Span, Name: "var"}}}
	f.Type = p.typeRef()
	f.Vars = p.varSpecs()
	p.expectSemi()
	f.Range = p.spanFrom(kw.Span.Start)
	return f
}

// actionImport parses "action native [type] Name(params);".
func (p *decorateParser) actionImport() ast.Node {
	kw := p.next()
	mods := []*ast.Modifier{{Range: kw.Span, Name: "action"}, p.modifier()}
	var returns []*ast.TypeRef
	if p.at(token.IDENT) && p.peek(1).Type == token.IDENT {
		returns = append(returns, p.typeRef())
	}
	if !p.at(token.IDENT) || p.peek(1).Type != token.LPAREN {
		p.expected("action name", "after action native")
		return &ast.Bad{Range: p.spanFrom(kw.Span.Start), Message: "incomplete action"}
	}
	return p.method(kw.Span.Start, mods, returns)
}

// property parses a property line. Values are separated by commas, or by
// spaces as in "Monster" combos; a value list ends at the end of the line.
func (p *decorateParser) property() ast.Node {
	start := p.cur()
	prop := &ast.Property{Name: p.dotted()}
	for p.sameLine() && p.canStartExpr() {
		if p.at(token.PLUS) || p.at(token.MINUS) {
			// A flag on the same line as a property.
			next := p.peek(1)
			if adjacent(p.cur(), next) && next.Type == token.IDENT {
				break
			}
		}
		prop.Values = append(prop.Values, p.expr())
		if _, ok := p.accept(token.COMMA); ok && !p.sameLine() && p.canStartExpr() {
			// Continued on the next line.
			prop.Values = append(prop.Values, p.expr())
			p.accept(token.COMMA)
		}
	}
	p.accept(token.SEMICOLON)
	prop.Range = p.spanFrom(start.Span.Start)
	return prop
}
