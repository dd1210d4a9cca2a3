package parser

import (
	"strings"

	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/token"
)

// UMAPINFO

type umapinfoGrammar struct{}

func (umapinfoGrammar) Dialect() token.Dialect { return token.UMapInfo }

func (umapinfoGrammar) ParseUnit(e *engine) *ast.File {
	p := &umapinfoParser{exprParser: newExprParser(e)}
	return e.finish(e.unit("map definition", p.mapBlock, func() bool { return p.atKeyword("map") }))
}

type umapinfoParser struct {
	*exprParser
}

// mapBlock parses "map NAME { key = value[, value...] ... }".
func (p *umapinfoParser) mapBlock() ast.Node {
	if !p.atKeyword("map") {
		return nil
	}
	kw := p.next()
	m := &ast.MapBlock{}
	switch {
	case p.at(token.IDENT) || p.at(token.INT):
		m.Name = p.ident(p.next())
	default:
		p.expected("map name", "after map")
	}
	if open, ok := p.expect(token.LBRACE, "in map definition"); ok {
		for !p.at(token.RBRACE) && !p.atEOF() && !p.atKeyword("map") {
			start := p.pos
			if prop := p.property(); prop != nil {
				m.Props = append(m.Props, prop)
			}
			if p.pos == start {
				m.Props = append(m.Props, p.recover("map property", p.atPropertyStart))
			}
		}
		p.expectClose(token.RBRACE, open)
	}
	m.Range = p.spanFrom(kw.Span.Start)
	return m
}

func (p *umapinfoParser) atPropertyStart() bool {
	return p.at(token.IDENT) && p.peek(1).Type == token.ASSIGN || p.atKeyword("map")
}

func (p *umapinfoParser) property() ast.Node {
	if !p.at(token.IDENT) {
		return nil
	}
	key := p.next()
	prop := &ast.MapProperty{Key: p.ident(key)}
	if _, ok := p.expect(token.ASSIGN, "after map property name"); ok {
		for {
			v := p.value()
			if v == nil {
				break
			}
			prop.Values = append(prop.Values, v)
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
	}
	prop.Range = p.spanFrom(key.Span.Start)
	return prop
}

// value parses one property value: a string, a possibly negative number,
// an identifier or "clear".
func (p *umapinfoParser) value() ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case token.STRING:
		return p.str()
	case token.INT, token.FLOAT, token.IDENT:
		return p.primary()
	case token.MINUS:
		if next := p.peek(1); next.Type == token.INT || next.Type == token.FLOAT {
			p.next()
			x := p.primary()
			return &ast.Prefix{Range: p.spanFrom(tok.Span.Start), Op: "-", X: x}
		}
	}
	p.unexpected("value")
	return nil
}

// CVARINFO

type cvarinfoGrammar struct{}

func (cvarinfoGrammar) Dialect() token.Dialect { return token.CVarInfo }

func (cvarinfoGrammar) ParseUnit(e *engine) *ast.File {
	p := &cvarinfoParser{exprParser: newExprParser(e)}
	return e.finish(e.unit("cvar definition", p.cvar, p.atDefinition))
}

type cvarinfoParser struct {
	*exprParser
}

var cvarFlags = map[string]bool{
	"server":    true,
	"user":      true,
	"nosave":    true,
	"noarchive": true,
	"cheat":     true,
	"latch":     true,
}

var cvarTypes = map[string]bool{
	"int":    true,
	"float":  true,
	"color":  true,
	"bool":   true,
	"string": true,
}

func (p *cvarinfoParser) atDefinition() bool {
	tok := p.cur()
	return tok.Type == token.KEYWORD && (cvarFlags[tok.Keyword] || cvarTypes[tok.Keyword])
}

// cvar parses "[flags] type name [= value];".
func (p *cvarinfoParser) cvar() ast.Node {
	if !p.atDefinition() {
		return nil
	}
	start := p.cur().Span.Start
	c := &ast.CVar{}
	for p.at(token.KEYWORD) && cvarFlags[p.cur().Keyword] {
		c.Flags = append(c.Flags, p.ident(p.next()))
	}
	if p.at(token.KEYWORD) && cvarTypes[p.cur().Keyword] {
		c.Type = p.ident(p.next())
	} else {
		p.expected("type", "in cvar definition")
	}
	if p.at(token.IDENT) {
		c.Name = p.ident(p.next())
	} else {
		p.expected("cvar name", "")
	}
	if _, ok := p.accept(token.ASSIGN); ok {
		if p.canStartExpr() || p.at(token.KEYWORD) {
			c.Value = p.initializer(c.Type)
		} else {
			p.expected("value", "after '='")
		}
	}
	p.expect(token.SEMICOLON, "after cvar definition")
	c.Range = p.spanFrom(start)
	return c
}

// initializer parses a literal and checks it against the declared type.
func (p *cvarinfoParser) initializer(typ *ast.Ident) ast.Expr {
	tok := p.cur()
	var v ast.Expr
	if tok.Type == token.KEYWORD && (tok.Keyword == "true" || tok.Keyword == "false") {
		p.next()
		v = &ast.Bool{Range: tok.Span, Value: tok.Keyword == "true"}
	} else {
		v = p.unary()
	}
	if typ == nil || ast.IsError(v) {
		return v
	}
	if msg := checkCVarValue(strings.ToLower(typ.Name), v); msg != "" {
		p.report(diag.New(diag.P206, v.Span(), "%s", msg))
	}
	return v
}

func checkCVarValue(typ string, v ast.Expr) string {
	if pre, ok := v.(*ast.Prefix); ok && pre.Op == "-" {
		v = pre.X
	}
	switch x := v.(type) {
	case *ast.Int:
		if typ == "int" || typ == "float" {
			return ""
		}
	case *ast.Float:
		if typ == "float" {
			return ""
		}
	case *ast.Bool:
		if typ == "bool" {
			return ""
		}
	case *ast.String:
		switch typ {
		case "string":
			return ""
		case "color":
			if !validColor(x.Value) {
				return "invalid color " + x.String() + `, expected "RR GG BB"`
			}
			return ""
		}
	}
	return "value " + v.String() + " does not match cvar type " + typ
}

// validColor accepts three two-digit hexadecimal components, optionally
// separated by spaces: "F5 3a 95" or "f53a95".
func validColor(s string) bool {
	s = strings.TrimSpace(s)
	digits := 0
	for i := 0; i < len(s); {
		if s[i] == ' ' || s[i] == '\t' {
			if digits%2 != 0 {
				return false
			}
			i++
			continue
		}
		if !isHex(s[i]) {
			return false
		}
		digits++
		i++
	}
	return digits == 6
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// LOADACS

type loadacsGrammar struct{}

func (loadacsGrammar) Dialect() token.Dialect { return token.LoadACS }

func (loadacsGrammar) ParseUnit(e *engine) *ast.File {
	return e.finish(e.unit("library name", func() ast.Node {
		if !e.at(token.IDENT) {
			return nil
		}
		tok := e.next()
		return &ast.Library{Range: tok.Span, Name: e.ident(tok)}
	}, func() bool { return e.at(token.IDENT) }))
}
