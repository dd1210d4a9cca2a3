package parser

import (
	"strings"

	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/token"
)

// exprParser is the expression and literal sub-grammar shared by ZScript,
// DECORATE and CVARINFO.
type exprParser struct {
	*engine

	// lineBound ends an expression before an operator that starts a new
	// line. DECORATE property values have no terminator, so
	// "Speed 8" followed by "-FLOAT" on the next line must stay apart.
	lineBound bool

	// vectorOps enables the "cross" and "dot" operators and "is".
	vectorOps bool
}

func newExprParser(e *engine) *exprParser {
	return &exprParser{engine: e, vectorOps: e.dialect == token.ZScript}
}

// expr parses a full expression, including assignments.
func (x *exprParser) expr() ast.Expr {
	if x.lineBound {
		return x.exprPrec(LOWEST)
	}
	n := x.memo(ruleExpr, func() ast.Node { return x.exprPrec(LOWEST) })
	return n.(ast.Expr)
}

// canStartExpr reports whether the current token may begin an expression.
func (x *exprParser) canStartExpr() bool {
	tok := x.cur()
	switch tok.Type {
	case token.INT, token.FLOAT, token.STRING, token.NAME, token.IDENT,
		token.LPAREN, token.MINUS, token.PLUS, token.BANG, token.TILDE,
		token.PLUS_PLUS, token.MINUS_MINUS:
		return true
	case token.KEYWORD:
		switch tok.Keyword {
		case "true", "false", "null", "default", "sizeof", "alignof":
			return true
		}
	}
	return false
}

// exprPrec is the Pratt loop: it parses a unary expression and then folds
// in infix operators that bind tighter than prec.
func (x *exprParser) exprPrec(prec int) ast.Expr {
	if !x.enter() {
		return x.missing("expression")
	}
	defer x.leave()

	left := x.unary()
	for {
		op, p, n := x.infixOp()
		if n == 0 || p <= prec {
			return left
		}
		for i := 0; i < n; i++ {
			x.next()
		}
		start := left.Span().Start
		if op == "?" {
			then := x.exprPrec(LOWEST)
			var els ast.Expr
			if _, ok := x.expect(token.COLON, "in conditional expression"); ok {
				els = x.exprPrec(TERNARY - 1)
			} else {
				els = x.missing("expression")
			}
			left = &ast.Ternary{Range: x.spanFrom(start), Cond: left, Then: then, Else: els}
			continue
		}
		rp := p
		if rightAssoc(p) {
			rp = p - 1
		}
		right := x.exprPrec(rp)
		left = &ast.Binary{Range: x.spanFrom(start), X: left, Op: op, Y: right}
	}
}

// infixOp returns the operator at the current position, its precedence and
// the number of tokens it spans. The lexer never produces ">>" so that type
// argument lists close cleanly; shifts are rebuilt here from adjacent '>'
// tokens.
func (x *exprParser) infixOp() (string, int, int) {
	tok := x.cur()
	if x.lineBound && !x.sameLine() {
		return "", 0, 0
	}
	switch tok.Type {
	case token.GT:
		next := x.peek(1)
		if adjacent(tok, next) {
			switch next.Type {
			case token.GT:
				third := x.peek(2)
				if adjacent(next, third) {
					switch third.Type {
					case token.GT:
						return ">>>", SHIFT, 3
					case token.GT_EQUALS:
						return ">>>=", ASSIGN, 3
					}
				}
				return ">>", SHIFT, 2
			case token.GT_EQUALS:
				return ">>=", ASSIGN, 2
			}
		}
		return ">", COMPARE, 1
	case token.KEYWORD:
		if x.vectorOps && tok.Keyword == "is" {
			return "is", COMPARE, 1
		}
		return "", 0, 0
	case token.IDENT:
		if x.vectorOps && (tok.IsWord("cross") || tok.IsWord("dot")) {
			return strings.ToLower(tok.Literal), PRODUCT, 1
		}
		return "", 0, 0
	}
	if p, ok := precedences[tok.Type]; ok {
		return tok.Literal, p, 1
	}
	return "", 0, 0
}

func (x *exprParser) unary() ast.Expr {
	tok := x.cur()
	switch tok.Type {
	case token.MINUS, token.PLUS, token.BANG, token.TILDE, token.PLUS_PLUS, token.MINUS_MINUS:
		x.next()
		operand := x.exprPrec(PREFIX)
		return &ast.Prefix{Range: x.spanFrom(tok.Span.Start), Op: tok.Literal, X: operand}
	case token.KEYWORD:
		if tok.Keyword == "sizeof" || tok.Keyword == "alignof" {
			x.next()
			var operand ast.Expr
			if open, ok := x.expect(token.LPAREN, "after "+tok.Keyword); ok {
				operand = x.expr()
				x.expectClose(token.RPAREN, open)
			} else {
				operand = x.missing("expression")
			}
			return &ast.SizeOf{Range: x.spanFrom(tok.Span.Start), Op: tok.Keyword, X: operand}
		}
	}
	return x.postfix(x.primary())
}

func (x *exprParser) postfix(left ast.Expr) ast.Expr {
	for {
		tok := x.cur()
		switch tok.Type {
		case token.LPAREN:
			if x.lineBound && !x.sameLine() {
				return left
			}
			left = x.call(left)
		case token.LBRACKET:
			if x.lineBound && !x.sameLine() {
				return left
			}
			x.next()
			idx := x.expr()
			x.expectClose(token.RBRACKET, tok)
			left = &ast.Index{Range: x.spanFrom(left.Span().Start), X: left, Index: idx}
		case token.PERIOD:
			x.next()
			var name *ast.Ident
			if x.at(token.IDENT) || x.at(token.KEYWORD) {
				name = x.ident(x.next())
			} else {
				x.expected("member name", "after '.'")
			}
			left = &ast.Member{Range: x.spanFrom(left.Span().Start), X: left, Name: name}
		case token.PLUS_PLUS, token.MINUS_MINUS:
			if !x.sameLine() {
				return left
			}
			x.next()
			left = &ast.Postfix{Range: x.spanFrom(left.Span().Start), X: left, Op: tok.Literal}
		default:
			return left
		}
	}
}

// call parses the argument list of a call whose callee has been parsed.
func (x *exprParser) call(fun ast.Expr) *ast.Call {
	open := x.next()
	var args []*ast.Arg
	for !x.at(token.RPAREN) && !x.atEOF() {
		args = append(args, x.arg())
		if _, ok := x.accept(token.COMMA); !ok {
			break
		}
	}
	x.expectClose(token.RPAREN, open)
	return &ast.Call{Range: x.spanFrom(fun.Span().Start), Fun: fun, Args: args}
}

func (x *exprParser) arg() *ast.Arg {
	start := x.cur().Span.Start
	var name *ast.Ident
	if x.at(token.IDENT) && x.peek(1).Type == token.COLON {
		name = x.ident(x.next())
		x.next()
	}
	if name == nil && !x.canStartExpr() {
		x.unexpected("argument")
		bad := x.missing("argument")
		return &ast.Arg{Range: bad.Range, Value: bad}
	}
	value := x.expr()
	return &ast.Arg{Range: x.spanFrom(start), Name: name, Value: value}
}

func (x *exprParser) primary() ast.Expr {
	tok := x.cur()
	switch tok.Type {
	case token.INT:
		x.next()
		v, _ := tok.Value.(int64)
		return &ast.Int{Range: tok.Span, Literal: tok.Literal, Value: v}
	case token.FLOAT:
		x.next()
		v, _ := tok.Value.(float64)
		return &ast.Float{Range: tok.Span, Literal: tok.Literal, Value: v}
	case token.STRING:
		return x.str()
	case token.NAME:
		x.next()
		v, _ := tok.Value.(string)
		return &ast.Name{Range: tok.Span, Value: v}
	case token.IDENT:
		x.next()
		return x.ident(tok)
	case token.KEYWORD:
		switch tok.Keyword {
		case "true", "false":
			x.next()
			return &ast.Bool{Range: tok.Span, Value: tok.Keyword == "true"}
		case "null":
			x.next()
			return &ast.Null{Range: tok.Span}
		case "default":
			x.next()
			return x.ident(tok)
		}
	case token.LPAREN:
		return x.paren()
	case token.LBRACE:
		return x.braceList()
	case token.ILLEGAL:
		x.unexpected("expression")
		x.next()
		return &ast.Bad{Range: tok.Span, Message: "illegal token", Tokens: []token.Token{tok}}
	}
	x.unexpected("expression")
	return x.missing("expression")
}

// str parses one string literal, joining adjacent literals as C does.
func (x *exprParser) str() *ast.String {
	first := x.next()
	var sb strings.Builder
	last := first
	for {
		v, _ := last.Value.(string)
		sb.WriteString(v)
		if !x.at(token.STRING) {
			break
		}
		last = x.next()
	}
	return &ast.String{Range: token.NewSpan(x.file, first.Span.Start, last.Span.End), Value: sb.String()}
}

// paren parses a parenthesized expression, a vector literal or a class
// cast.
func (x *exprParser) paren() ast.Expr {
	open := x.next()
	if x.atKeyword("class") && x.peek(1).Type == token.LT {
		typ := x.typeRef()
		x.expectClose(token.RPAREN, open)
		var operand ast.Expr
		if inner, ok := x.expect(token.LPAREN, "after class cast"); ok {
			operand = x.expr()
			x.expectClose(token.RPAREN, inner)
		} else {
			operand = x.missing("expression")
		}
		return &ast.Cast{Range: x.spanFrom(open.Span.Start), Type: typ, X: operand}
	}
	first := x.expr()
	if x.at(token.COMMA) {
		elems := []ast.Expr{first}
		for {
			if _, ok := x.accept(token.COMMA); !ok {
				break
			}
			elems = append(elems, x.expr())
		}
		x.expectClose(token.RPAREN, open)
		return &ast.Vector{Range: x.spanFrom(open.Span.Start), Elems: elems}
	}
	x.expectClose(token.RPAREN, open)
	return first
}

// braceList parses an initializer list "{ a, b, c }".
func (x *exprParser) braceList() ast.Expr {
	open := x.next()
	var elems []ast.Expr
	for !x.at(token.RBRACE) && !x.atEOF() {
		elems = append(elems, x.expr())
		if _, ok := x.accept(token.COMMA); !ok {
			break
		}
	}
	x.expectClose(token.RBRACE, open)
	return &ast.Vector{Range: x.spanFrom(open.Span.Start), Elems: elems}
}

// dotted parses a possibly qualified name "A.B.C" into one identifier.
func (x *exprParser) dotted() *ast.Ident {
	first := x.next()
	for x.at(token.PERIOD) && (x.peek(1).Type == token.IDENT || x.peek(1).Type == token.KEYWORD) {
		x.next()
		x.next()
	}
	return x.identSpan(x.spanFrom(first.Span.Start))
}

var genericTypes = map[string]bool{
	"array":       true,
	"class":       true,
	"map":         true,
	"mapiterator": true,
	"readonly":    true,
	"function":    true,
}

// typeRef parses a type reference, returning nil without reporting when
// the current token cannot begin one.
func (x *exprParser) typeRef() *ast.TypeRef {
	n := x.memo(ruleType, func() ast.Node {
		if t := x.parseTypeRef(); t != nil {
			return t
		}
		return nil
	})
	t, _ := n.(*ast.TypeRef)
	return t
}

func (x *exprParser) parseTypeRef() *ast.TypeRef {
	if !x.enter() {
		return nil
	}
	defer x.leave()

	start := x.cur()
	var name *ast.Ident
	switch {
	case x.at(token.IDENT):
		name = x.dotted()
	case x.atKeyword("class"), x.atKeyword("readonly"):
		name = x.ident(x.next())
	default:
		return nil
	}
	t := &ast.TypeRef{Name: name}
	if x.at(token.LT) && genericTypes[strings.ToLower(name.Name)] {
		x.next()
		for {
			arg := x.parseTypeRef()
			if arg == nil {
				x.expected("type", "in type arguments")
				break
			}
			t.Args = append(t.Args, arg)
			if _, ok := x.accept(token.COMMA); !ok {
				break
			}
		}
		if _, ok := x.accept(token.GT); !ok {
			x.expected("'>'", "to close type arguments")
		}
	}
	t.Range = x.spanFrom(start.Span.Start)
	return t
}
