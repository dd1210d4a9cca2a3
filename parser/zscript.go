package parser

import (
	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/token"
)

type zscriptGrammar struct{}

func (zscriptGrammar) Dialect() token.Dialect { return token.ZScript }

func (zscriptGrammar) ParseUnit(e *engine) *ast.File {
	p := &zscriptParser{declParser: newDeclParser(e, true)}
	return e.finish(e.unit("declaration", p.topLevel, p.atTopLevel))
}

type zscriptParser struct {
	*declParser
}

var topLevelKeywords = map[string]bool{
	"class":   true,
	"struct":  true,
	"enum":    true,
	"const":   true,
	"extend":  true,
	"mixin":   true,
	"version": true,
}

// memberKeywords start a class or struct member other than a plain field
// or method.
var memberKeywords = map[string]bool{
	"default":  true,
	"states":   true,
	"property": true,
	"flagdef":  true,
	"mixin":    true,
	"const":    true,
	"enum":     true,
	"struct":   true,
}

// Qualifiers accepted before a member's type.
var memberModifiers = map[string]bool{
	"native": true, "static": true, "private": true, "protected": true,
	"virtual": true, "override": true, "final": true, "abstract": true,
	"action": true, "readonly": true, "internal": true, "meta": true,
	"transient": true, "ui": true, "play": true, "clearscope": true,
	"virtualscope": true, "deprecated": true, "version": true,
	"vararg": true, "latent": true, "const": true,
}

var classModifiers = map[string]bool{
	"abstract": true, "native": true, "ui": true, "play": true,
	"version": true, "final": true, "clearscope": true,
}

func (p *zscriptParser) atTopLevel() bool {
	tok := p.cur()
	return tok.Type == token.DIRECTIVE || tok.Type == token.KEYWORD && topLevelKeywords[tok.Keyword]
}

func (p *zscriptParser) topLevel() ast.Node {
	tok := p.cur()
	switch tok.Type {
	case token.SEMICOLON:
		p.next()
		return nil
	case token.DIRECTIVE:
		if tok.Keyword == "include" {
			return p.include()
		}
		return nil
	case token.KEYWORD:
		switch tok.Keyword {
		case "version":
			return p.version()
		case "class":
			return p.class(tok.Span.Start, false, false)
		case "struct":
			return p.structDecl(tok.Span.Start, false)
		case "enum":
			return p.enumDecl()
		case "const":
			return p.constDecl(false)
		case "extend", "mixin":
			p.next()
			switch {
			case p.atKeyword("class"):
				return p.class(tok.Span.Start, tok.Keyword == "extend", tok.Keyword == "mixin")
			case p.atKeyword("struct") && tok.Keyword == "extend":
				return p.structDecl(tok.Span.Start, true)
			}
			p.expected("'class' or 'struct'", "after "+tok.Keyword)
			return &ast.Bad{Range: p.spanFrom(tok.Span.Start), Message: "incomplete " + tok.Keyword, Tokens: []token.Token{tok}}
		}
	}
	return nil
}

// include parses "#include "file"".
func (p *declParser) include() ast.Node {
	dir := p.next()
	n := &ast.Include{}
	if p.at(token.STRING) {
		n.Path = p.str()
	} else {
		p.expected("file name", "after #include")
	}
	n.Range = p.spanFrom(dir.Span.Start)
	return n
}

func (p *zscriptParser) version() ast.Node {
	kw := p.next()
	n := &ast.Version{}
	if p.at(token.STRING) {
		n.Value = p.str()
	} else {
		p.expected("version string", "after version")
	}
	p.accept(token.SEMICOLON)
	n.Range = p.spanFrom(kw.Span.Start)
	return n
}

func (p *zscriptParser) class(start int, extend, mixin bool) ast.Node {
	p.next() // class
	c := &ast.Class{Extend: extend, Mixin: mixin}
	c.Name = p.name("class name", "after class")
	if _, ok := p.accept(token.COLON); ok {
		if p.at(token.IDENT) {
			c.Parent = p.dotted()
		} else {
			p.expected("parent class", "after ':'")
		}
	}
	for {
		tok := p.cur()
		if tok.IsWord("replaces") {
			p.next()
			if p.at(token.IDENT) {
				c.Replaces = p.dotted()
			} else {
				p.expected("class name", "after replaces")
			}
			continue
		}
		if tok.Type == token.KEYWORD && classModifiers[tok.Keyword] || tok.IsWord("sealed") {
			c.Modifiers = append(c.Modifiers, p.modifier())
			continue
		}
		break
	}
	if !extend && !mixin && p.at(token.SEMICOLON) {
		p.next()
		c.Open = true
		c.Members = p.members(true)
		c.Range = p.spanFrom(start)
		return c
	}
	if open, ok := p.expect(token.LBRACE, "in class declaration"); ok {
		c.Members = p.members(false)
		p.expectClose(token.RBRACE, open)
	}
	p.accept(token.SEMICOLON)
	c.Range = p.spanFrom(start)
	return c
}

func (p *zscriptParser) structDecl(start int, extend bool) ast.Node {
	p.next() // struct
	s := &ast.Struct{Extend: extend}
	s.Name = p.name("struct name", "after struct")
	for p.at(token.KEYWORD) && classModifiers[p.cur().Keyword] {
		s.Modifiers = append(s.Modifiers, p.modifier())
	}
	if open, ok := p.expect(token.LBRACE, "in struct declaration"); ok {
		s.Members = p.members(false)
		p.expectClose(token.RBRACE, open)
	}
	p.accept(token.SEMICOLON)
	s.Range = p.spanFrom(start)
	return s
}

// members parses a class or struct body up to its closing brace, or up to
// EOF for the file-scope class form.
func (p *zscriptParser) members(open bool) []ast.Node {
	var out []ast.Node
	for !p.atEOF() && (open || !p.at(token.RBRACE)) {
		if p.atDecl() || open && (p.atKeyword("class") || p.atKeyword("extend")) {
			break
		}
		start := p.pos
		if m := p.member(); m != nil {
			out = append(out, m)
		}
		if p.pos == start {
			out = append(out, p.recover("member declaration", p.atMember))
		}
	}
	return out
}

func (p *zscriptParser) atMember() bool {
	tok := p.cur()
	return tok.Type == token.KEYWORD && (memberKeywords[tok.Keyword] || memberModifiers[tok.Keyword])
}

func (p *zscriptParser) member() ast.Node {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	tok := p.cur()
	switch tok.Type {
	case token.SEMICOLON:
		p.next()
		return nil
	case token.KEYWORD:
		switch tok.Keyword {
		case "default":
			if p.peek(1).Type == token.LBRACE {
				return p.defaults()
			}
		case "states":
			return p.states.states()
		case "property":
			return p.propertyDef()
		case "flagdef":
			return p.flagDef()
		case "mixin":
			p.next()
			n := &ast.Mixin{Name: p.name("mixin name", "after mixin")}
			p.expectSemi()
			n.Range = p.spanFrom(tok.Span.Start)
			return n
		case "const":
			if p.peek(1).Type == token.IDENT && p.peek(2).Type == token.ASSIGN {
				return p.constDecl(false)
			}
		case "enum":
			return p.enumDecl()
		case "struct":
			return p.structDecl(tok.Span.Start, false)
		}
	}
	return p.fieldOrMethod()
}

func (p *zscriptParser) modifiers() []*ast.Modifier {
	var mods []*ast.Modifier
	for {
		tok := p.cur()
		if tok.Type != token.KEYWORD || !memberModifiers[tok.Keyword] {
			return mods
		}
		if tok.Keyword == "readonly" && p.peek(1).Type == token.LT {
			// readonly<T> is a type.
			return mods
		}
		mods = append(mods, p.modifier())
	}
}

func (p *zscriptParser) atMethodName() bool {
	return p.at(token.IDENT) && p.peek(1).Type == token.LPAREN
}

func (p *zscriptParser) fieldOrMethod() ast.Node {
	start := p.cur().Span.Start
	mods := p.modifiers()
	typ := p.typeRef()
	if typ == nil {
		if len(mods) == 0 {
			return nil
		}
		return p.recover("type", p.atMember)
	}
	returns, isMethod := choice(p.engine,
		func() ([]*ast.TypeRef, bool) {
			return []*ast.TypeRef{typ}, p.atMethodName()
		},
		// int, double F() declares several return types.
		func() ([]*ast.TypeRef, bool) {
			if !p.at(token.COMMA) {
				return nil, false
			}
			returns := []*ast.TypeRef{typ}
			for p.at(token.COMMA) {
				p.next()
				t := p.typeRef()
				if t == nil {
					return nil, false
				}
				returns = append(returns, t)
			}
			return returns, p.atMethodName()
		},
	)
	if isMethod {
		return p.method(start, mods, returns)
	}
	f := &ast.Field{Modifiers: mods, Type: typ}
	f.Vars = p.varSpecs()
	p.expectSemi()
	f.Range = p.spanFrom(start)
	return f
}

// defaults parses "default { properties and flags }".
func (p *zscriptParser) defaults() ast.Node {
	kw := p.next()
	open := p.next()
	d := &ast.Defaults{}
	for !p.at(token.RBRACE) && !p.atEOF() && !p.atDecl() {
		start := p.pos
		if item := p.defaultItem(); item != nil {
			d.Items = append(d.Items, item)
		}
		if p.pos == start {
			d.Items = append(d.Items, p.recover("property or flag", nil))
		}
	}
	p.expectClose(token.RBRACE, open)
	d.Range = p.spanFrom(kw.Span.Start)
	return d
}

func (p *zscriptParser) defaultItem() ast.Node {
	tok := p.cur()
	switch tok.Type {
	case token.SEMICOLON:
		p.next()
		return nil
	case token.PLUS, token.MINUS:
		f := p.flag()
		p.accept(token.SEMICOLON)
		return f
	case token.IDENT:
		prop := &ast.Property{Name: p.dotted()}
		for !p.at(token.SEMICOLON) && !p.at(token.RBRACE) && !p.atEOF() {
			if !p.canStartExpr() {
				p.unexpected("property value")
				break
			}
			prop.Values = append(prop.Values, p.expr())
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.expectSemi()
		prop.Range = p.spanFrom(tok.Span.Start)
		return prop
	}
	return nil
}

// propertyDef parses "property Name: field1, field2;".
func (p *zscriptParser) propertyDef() ast.Node {
	kw := p.next()
	n := &ast.PropertyDef{Name: p.name("property name", "after property")}
	if _, ok := p.expect(token.COLON, "in property definition"); ok {
		for p.at(token.IDENT) {
			n.Fields = append(n.Fields, p.ident(p.next()))
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
	}
	p.expectSemi()
	n.Range = p.spanFrom(kw.Span.Start)
	return n
}

// flagDef parses "flagdef Name: field, bit;".
func (p *zscriptParser) flagDef() ast.Node {
	kw := p.next()
	n := &ast.FlagDef{Name: p.name("flag name", "after flagdef")}
	if _, ok := p.expect(token.COLON, "in flag definition"); ok {
		n.Field = p.name("field name", "in flag definition")
		if _, ok := p.expect(token.COMMA, "in flag definition"); ok {
			n.Bit = p.expr()
		}
	}
	p.expectSemi()
	n.Range = p.spanFrom(kw.Span.Start)
	return n
}
