package parser

import (
	"strings"

	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/token"
)

type dehackedGrammar struct{}

func (dehackedGrammar) Dialect() token.Dialect { return token.DeHackEd }

func (dehackedGrammar) ParseUnit(e *engine) *ast.File {
	p := &dehackedParser{engine: e}
	return e.finish(p.patch())
}

// Entry header words. A line starting with one of these and containing no
// '=' opens a new entry.
var patchHeaders = map[string]bool{
	"thing":   true,
	"frame":   true,
	"pointer": true,
	"sound":   true,
	"ammo":    true,
	"weapon":  true,
	"sprite":  true,
	"cheat":   true,
	"misc":    true,
	"text":    true,
}

// dehackedParser works line by line. Entries and BEX sections collect the
// lines that follow them until the next header.
type dehackedParser struct {
	*engine

	out     []ast.Node
	entry   *ast.PatchEntry
	section *ast.PatchSection
	lastEnd int
}

func (p *dehackedParser) patch() []ast.Node {
	for !p.atEOF() {
		if _, ok := p.accept(token.NEWLINE); ok {
			continue
		}
		p.line()
	}
	p.close()
	return p.out
}

func (p *dehackedParser) line() {
	tok := p.cur()
	switch {
	case p.isHeader():
		p.close()
		if strings.EqualFold(tok.Literal, "text") {
			p.out = append(p.out, p.text())
			return
		}
		p.entry = p.header()
		p.out = append(p.out, p.entry)
		p.lastEnd = p.prevEnd()
	case tok.Type == token.LBRACKET && p.isSectionHeader():
		p.close()
		p.section = p.sectionHeader()
		p.out = append(p.out, p.section)
		p.lastEnd = p.prevEnd()
	case tok.IsWord("include") && !p.lineHas(token.ASSIGN):
		p.close()
		p.out = append(p.out, p.include())
	case p.section != nil:
		switch {
		case strings.EqualFold(p.section.Name.Name, "strings") && p.lineHas(token.ASSIGN):
			p.add(p.stringField())
		case p.lineHas(token.ASSIGN):
			p.add(p.field())
		default:
			p.add(p.patchLine())
		}
	case p.entry != nil:
		if p.lineHas(token.ASSIGN) {
			p.add(p.field())
		} else {
			p.add(p.skipLine("field assignment"))
		}
	default:
		if p.lineHas(token.ASSIGN) {
			p.out = append(p.out, p.field())
		} else {
			p.out = append(p.out, p.patchLine())
		}
	}
}

// add appends n to the open entry or section.
func (p *dehackedParser) add(n ast.Node) {
	switch {
	case p.entry != nil:
		p.entry.Fields = append(p.entry.Fields, n)
	case p.section != nil:
		p.section.Items = append(p.section.Items, n)
	}
	p.lastEnd = n.Span().End
}

// close finishes the open entry or section: its range grows to cover the
// lines it collected.
func (p *dehackedParser) close() {
	if p.entry != nil {
		p.entry.Range = token.NewSpan(p.file, p.entry.Range.Start, max(p.entry.Range.End, p.lastEnd))
		p.entry = nil
	}
	if p.section != nil {
		p.section.Range = token.NewSpan(p.file, p.section.Range.Start, max(p.section.Range.End, p.lastEnd))
		p.section = nil
	}
}

// lineHas reports whether a token of type typ occurs before the end of the
// current line.
func (p *dehackedParser) lineHas(typ token.Type) bool {
	for i := 0; ; i++ {
		tok := p.peek(i)
		switch tok.Type {
		case typ:
			return true
		case token.NEWLINE, token.EOF:
			return false
		}
	}
}

func (p *dehackedParser) atLineEnd() bool {
	return p.at(token.NEWLINE) || p.atEOF()
}

func (p *dehackedParser) isHeader() bool {
	tok := p.cur()
	return tok.Type == token.IDENT && patchHeaders[strings.ToLower(tok.Literal)] && !p.lineHas(token.ASSIGN)
}

func (p *dehackedParser) isSectionHeader() bool {
	return p.peek(1).Type == token.IDENT && p.peek(2).Type == token.RBRACKET
}

// number builds an integer node from the current INT token.
func (p *dehackedParser) number() *ast.Int {
	tok := p.next()
	v, _ := tok.Value.(int64)
	return &ast.Int{Range: tok.Span, Literal: tok.Literal, Value: v}
}

// header parses "Type N [(label)]".
func (p *dehackedParser) header() *ast.PatchEntry {
	typ := p.next()
	entry := &ast.PatchEntry{Type: p.ident(typ)}
	switch {
	case p.at(token.INT):
		entry.Index = p.number()
	case p.atLineEnd() || p.at(token.LPAREN):
		p.expected(strings.ToLower(typ.Literal)+" number", "")
		entry.Index = p.missing("number")
	default:
		entry.Index = p.skipLine("number")
	}
	if open, ok := p.accept(token.LPAREN); ok {
		first := p.cur()
		for !p.at(token.RPAREN) && !p.atLineEnd() {
			p.next()
		}
		if first.Span.Start < p.prevEnd() {
			entry.Label = p.identSpan(token.NewSpan(p.file, first.Span.Start, p.prevEnd()))
		}
		p.expectClose(token.RPAREN, open)
	}
	if !p.atLineEnd() {
		entry.Fields = append(entry.Fields, p.skipLine("end of line"))
	}
	entry.Range = p.spanFrom(typ.Span.Start)
	return entry
}

// text parses "Text L1 L2" and cuts the two strings that follow the header
// line out of the raw source.
func (p *dehackedParser) text() ast.Node {
	kw := p.next()
	n := &ast.PatchText{OldLen: p.length(), NewLen: p.length()}
	if !p.atLineEnd() {
		p.skipLine("end of line")
	}
	headerEnd := p.prevEnd()
	oldLen, ok1 := intValue(n.OldLen)
	newLen, ok2 := intValue(n.NewLen)
	if !ok1 || !ok2 || p.halted {
		n.Range = p.spanFrom(kw.Span.Start)
		return n
	}

	payload := len(p.src)
	if p.at(token.NEWLINE) {
		payload = p.cur().Span.End
	}
	avail := len(p.src) - payload
	if oldLen < 0 || newLen < 0 || oldLen > avail || newLen > avail-oldLen {
		p.errorf(diag.P206, token.NewSpan(p.file, kw.Span.Start, headerEnd),
			"text lengths %d and %d exceed the %d bytes that follow", oldLen, newLen, avail)
		if p.halted {
			n.Range = p.spanFrom(kw.Span.Start)
			return n
		}
		oldLen = min(max(oldLen, 0), avail)
		newLen = min(max(newLen, 0), avail-oldLen)
	}
	mid := payload + oldLen
	end := mid + newLen
	n.Old = &ast.String{Range: token.NewSpan(p.file, payload, mid), Value: p.src[payload:mid]}
	n.New = &ast.String{Range: token.NewSpan(p.file, mid, end), Value: p.src[mid:end]}
	for !p.atEOF() && p.cur().Span.Start < end {
		p.next()
	}
	n.Range = token.NewSpan(p.file, kw.Span.Start, max(end, headerEnd))
	return n
}

func (p *dehackedParser) length() ast.Node {
	switch {
	case p.at(token.INT):
		return p.number()
	case p.atLineEnd():
		p.expected("text length", "")
		return p.missing("text length")
	}
	tok := p.cur()
	p.unexpected("text length")
	p.next()
	return &ast.Bad{Range: tok.Span, Message: "unexpected " + describe(tok), Tokens: []token.Token{tok}}
}

func intValue(n ast.Node) (int, bool) {
	if x, ok := n.(*ast.Int); ok {
		return int(x.Value), true
	}
	return 0, false
}

func (p *dehackedParser) sectionHeader() *ast.PatchSection {
	open := p.next()
	s := &ast.PatchSection{Name: p.ident(p.next())}
	p.next() // ']'
	if !p.atLineEnd() {
		s.Items = append(s.Items, p.skipLine("end of line"))
	}
	s.Range = p.spanFrom(open.Span.Start)
	return s
}

// include parses the BEX "include file" line.
func (p *dehackedParser) include() ast.Node {
	kw := p.next()
	n := &ast.Include{}
	if p.atLineEnd() {
		p.expected("file name", "after include")
	} else {
		n.Path = p.restOfLine()
	}
	n.Range = p.spanFrom(kw.Span.Start)
	return n
}

// restOfLine consumes the remaining tokens of the line and returns their
// raw source text.
func (p *dehackedParser) restOfLine() *ast.String {
	first := p.cur()
	for !p.atLineEnd() {
		p.next()
	}
	span := token.NewSpan(p.file, first.Span.Start, p.prevEnd())
	return &ast.String{Range: span, Value: span.Text(p.src)}
}

// field parses "Key words = value".
func (p *dehackedParser) field() ast.Node {
	first := p.cur()
	f := &ast.PatchField{}
	if first.Type == token.ASSIGN {
		p.expected("field name", "")
	} else {
		for !p.at(token.ASSIGN) && !p.atEOF() {
			p.next()
		}
		f.Key = p.identSpan(token.NewSpan(p.file, first.Span.Start, p.prevEnd()))
	}
	p.next() // '='
	switch {
	case p.atLineEnd():
		p.expected("value", "after '='")
		f.Value = p.missing("value")
	case p.peek(1).Type == token.NEWLINE || p.peek(1).Type == token.EOF:
		tok := p.next()
		switch tok.Type {
		case token.INT:
			v, _ := tok.Value.(int64)
			f.Value = &ast.Int{Range: tok.Span, Literal: tok.Literal, Value: v}
		case token.FLOAT:
			v, _ := tok.Value.(float64)
			f.Value = &ast.Float{Range: tok.Span, Literal: tok.Literal, Value: v}
		default:
			f.Value = p.ident(tok)
		}
	default:
		text := p.restOfLine()
		f.Value = &ast.Ident{Range: text.Range, Name: text.Value}
	}
	f.Range = p.spanFrom(first.Span.Start)
	return f
}

// stringField parses a BEX [STRINGS] entry. A trailing backslash continues
// the value on the next line.
func (p *dehackedParser) stringField() ast.Node {
	first := p.cur()
	f := &ast.PatchField{}
	if first.Type == token.ASSIGN {
		p.expected("string name", "")
	} else {
		for !p.at(token.ASSIGN) && !p.atEOF() {
			p.next()
		}
		f.Key = p.identSpan(token.NewSpan(p.file, first.Span.Start, p.prevEnd()))
	}
	p.next() // '='
	if p.atLineEnd() {
		p.expected("value", "after '='")
		f.Value = p.missing("value")
		f.Range = p.spanFrom(first.Span.Start)
		return f
	}
	var sb strings.Builder
	start := p.cur().Span.Start
	for {
		line := p.restOfLine()
		text := line.Value
		if !strings.HasSuffix(text, `\`) {
			sb.WriteString(text)
			break
		}
		sb.WriteString(strings.TrimSuffix(text, `\`))
		if !p.at(token.NEWLINE) || p.peek(1).Type == token.NEWLINE || p.peek(1).Type == token.EOF {
			break
		}
		p.next()
	}
	f.Value = &ast.String{Range: token.NewSpan(p.file, start, p.prevEnd()), Value: sb.String()}
	f.Range = p.spanFrom(first.Span.Start)
	return f
}

// patchLine turns a free-form line into a list of words.
func (p *dehackedParser) patchLine() ast.Node {
	first := p.cur()
	n := &ast.PatchLine{}
	for !p.atLineEnd() {
		tok := p.next()
		switch tok.Type {
		case token.INT:
			v, _ := tok.Value.(int64)
			n.Words = append(n.Words, &ast.Int{Range: tok.Span, Literal: tok.Literal, Value: v})
		case token.FLOAT:
			v, _ := tok.Value.(float64)
			n.Words = append(n.Words, &ast.Float{Range: tok.Span, Literal: tok.Literal, Value: v})
		default:
			n.Words = append(n.Words, p.ident(tok))
		}
	}
	n.Range = p.spanFrom(first.Span.Start)
	return n
}
