package parser

import (
	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/token"
)

// stmtParser parses function bodies and anonymous state actions.
type stmtParser struct {
	*exprParser
}

func (s *stmtParser) expectSemi() {
	s.expect(token.SEMICOLON, "after statement")
}

// block parses "{ statements }"; the current token must be '{'.
func (s *stmtParser) block() *ast.Block {
	open := s.next()
	b := &ast.Block{}
	saved := s.lineBound
	s.lineBound = false
	defer func() { s.lineBound = saved }()

	for !s.at(token.RBRACE) && !s.atEOF() && !s.atDecl() {
		start := s.pos
		if st := s.stmt(); st != nil {
			b.Stmts = append(b.Stmts, st)
		}
		if s.pos == start {
			b.Stmts = append(b.Stmts, s.recover("statement", nil))
		}
	}
	s.expectClose(token.RBRACE, open)
	b.Range = s.spanFrom(open.Span.Start)
	return b
}

// stmt parses one statement. It returns nil without consuming anything when
// the current token cannot start a statement.
func (s *stmtParser) stmt() ast.Stmt {
	if !s.enter() {
		return nil
	}
	defer s.leave()

	tok := s.cur()
	switch tok.Type {
	case token.LBRACE:
		return s.block()
	case token.SEMICOLON:
		s.next()
		return nil
	case token.LBRACKET:
		return s.multiAssign()
	case token.KEYWORD:
		switch tok.Keyword {
		case "if":
			return s.ifStmt()
		case "while", "until":
			return s.whileStmt()
		case "do":
			return s.doStmt()
		case "for":
			return s.forStmt()
		case "foreach":
			return s.foreachStmt()
		case "switch":
			return s.switchStmt()
		case "case":
			s.next()
			value := s.expr()
			s.expect(token.COLON, "after case value")
			return &ast.Case{Range: s.spanFrom(tok.Span.Start), Value: value}
		case "default":
			if s.peek(1).Type == token.COLON {
				s.next()
				s.next()
				return &ast.Case{Range: s.spanFrom(tok.Span.Start)}
			}
		case "break", "continue":
			s.next()
			s.expectSemi()
			return &ast.Branch{Range: s.spanFrom(tok.Span.Start), Tok: tok.Keyword}
		case "return":
			return s.returnStmt()
		case "let":
			return s.letStmt()
		}
	}
	st, _ := choice(s.engine,
		func() (ast.Stmt, bool) {
			lv := s.localVar()
			return lv, lv != nil
		},
		func() (ast.Stmt, bool) {
			if !s.canStartExpr() {
				return nil, false
			}
			x := s.expr()
			s.expectSemi()
			return &ast.ExprStmt{Range: s.spanFrom(tok.Span.Start), X: x}, true
		},
	)
	return st
}

// body parses the statement controlled by if, while, for and friends.
func (s *stmtParser) body() ast.Stmt {
	if s.at(token.RBRACE) || s.atEOF() {
		s.expected("statement", "")
		return s.missing("statement")
	}
	start := s.pos
	st := s.stmt()
	if st == nil && s.pos == start {
		return s.recover("statement", nil)
	}
	return st
}

// condition parses "( expr )".
func (s *stmtParser) condition(context string) ast.Expr {
	open, ok := s.expect(token.LPAREN, context)
	if !ok {
		return s.missing("condition")
	}
	cond := s.expr()
	s.expectClose(token.RPAREN, open)
	return cond
}

func (s *stmtParser) ifStmt() ast.Stmt {
	kw := s.next()
	n := &ast.If{Cond: s.condition("after if")}
	n.Then = s.body()
	if _, ok := s.acceptKeyword("else"); ok {
		n.Else = s.body()
	}
	n.Range = s.spanFrom(kw.Span.Start)
	return n
}

func (s *stmtParser) whileStmt() ast.Stmt {
	kw := s.next()
	n := &ast.While{Until: kw.Keyword == "until"}
	n.Cond = s.condition("after " + kw.Keyword)
	n.Body = s.body()
	n.Range = s.spanFrom(kw.Span.Start)
	return n
}

func (s *stmtParser) doStmt() ast.Stmt {
	kw := s.next()
	n := &ast.DoWhile{Body: s.body()}
	switch {
	case s.atKeyword("while"):
		s.next()
	case s.atKeyword("until"):
		s.next()
		n.Until = true
	default:
		s.expected("'while' or 'until'", "after do body")
	}
	n.Cond = s.condition("after do loop")
	s.expectSemi()
	n.Range = s.spanFrom(kw.Span.Start)
	return n
}

func (s *stmtParser) forStmt() ast.Stmt {
	kw := s.next()
	n := &ast.For{}
	open, ok := s.expect(token.LPAREN, "after for")
	if ok {
		if !s.at(token.SEMICOLON) {
			if lv := s.localVarNoSemi(); lv != nil {
				n.Init = append(n.Init, lv)
			} else {
				for s.canStartExpr() {
					start := s.cur().Span.Start
					x := s.expr()
					n.Init = append(n.Init, &ast.ExprStmt{Range: s.spanFrom(start), X: x})
					if _, ok := s.accept(token.COMMA); !ok {
						break
					}
				}
			}
		}
		s.expect(token.SEMICOLON, "in for clause")
		if !s.at(token.SEMICOLON) {
			n.Cond = s.expr()
		}
		s.expect(token.SEMICOLON, "in for clause")
		for !s.at(token.RPAREN) && !s.atEOF() {
			n.Post = append(n.Post, s.expr())
			if _, ok := s.accept(token.COMMA); !ok {
				break
			}
		}
		s.expectClose(token.RPAREN, open)
	}
	n.Body = s.body()
	n.Range = s.spanFrom(kw.Span.Start)
	return n
}

func (s *stmtParser) foreachStmt() ast.Stmt {
	kw := s.next()
	n := &ast.ForEach{}
	if open, ok := s.expect(token.LPAREN, "after foreach"); ok {
		for s.at(token.IDENT) {
			n.Vars = append(n.Vars, s.ident(s.next()))
			if _, ok := s.accept(token.COMMA); !ok {
				break
			}
		}
		s.expect(token.COLON, "in foreach clause")
		n.Iter = s.expr()
		s.expectClose(token.RPAREN, open)
	}
	n.Body = s.body()
	n.Range = s.spanFrom(kw.Span.Start)
	return n
}

func (s *stmtParser) switchStmt() ast.Stmt {
	kw := s.next()
	n := &ast.Switch{Tag: s.condition("after switch")}
	if s.at(token.LBRACE) {
		n.Body = s.block()
	} else {
		s.expected("'{'", "after switch")
	}
	n.Range = s.spanFrom(kw.Span.Start)
	return n
}

func (s *stmtParser) returnStmt() ast.Stmt {
	kw := s.next()
	n := &ast.Return{}
	if !s.at(token.SEMICOLON) {
		for {
			n.Values = append(n.Values, s.expr())
			if _, ok := s.accept(token.COMMA); !ok {
				break
			}
		}
	}
	s.expectSemi()
	n.Range = s.spanFrom(kw.Span.Start)
	return n
}

func (s *stmtParser) letStmt() ast.Stmt {
	kw := s.next()
	n := &ast.Let{}
	if s.at(token.IDENT) {
		n.Name = s.ident(s.next())
	} else {
		s.expected("name", "after let")
	}
	if _, ok := s.expect(token.ASSIGN, "in let statement"); ok {
		n.Value = s.expr()
	}
	s.expectSemi()
	n.Range = s.spanFrom(kw.Span.Start)
	return n
}

func (s *stmtParser) multiAssign() ast.Stmt {
	open := s.next()
	n := &ast.MultiAssign{}
	for !s.at(token.RBRACKET) && !s.atEOF() {
		n.Targets = append(n.Targets, s.expr())
		if _, ok := s.accept(token.COMMA); !ok {
			break
		}
	}
	s.expectClose(token.RBRACKET, open)
	if _, ok := s.expect(token.ASSIGN, "after assignment targets"); ok {
		n.Value = s.expr()
	}
	s.expectSemi()
	n.Range = s.spanFrom(open.Span.Start)
	return n
}

// localVar speculatively parses "Type name ...;". It returns nil, with the
// position unchanged, when the input is not a declaration.
func (s *stmtParser) localVar() *ast.LocalVar {
	lv := s.localVarNoSemi()
	if lv != nil {
		s.expectSemi()
		lv.Range = s.spanFrom(lv.Range.Start)
	}
	return lv
}

func (s *stmtParser) localVarNoSemi() *ast.LocalVar {
	var lv *ast.LocalVar
	s.try(func() bool {
		start := s.cur().Span.Start
		typ := s.typeRef()
		if typ == nil || !s.at(token.IDENT) {
			return false
		}
		switch s.peek(1).Type {
		case token.ASSIGN, token.SEMICOLON, token.COMMA, token.LBRACKET:
		default:
			return false
		}
		vars := s.varSpecs()
		lv = &ast.LocalVar{Range: s.spanFrom(start), Type: typ, Vars: vars}
		return true
	})
	return lv
}

// varSpecs parses "a = 1, b[4], c" after a type.
func (s *stmtParser) varSpecs() []*ast.VarSpec {
	var out []*ast.VarSpec
	for {
		if !s.at(token.IDENT) {
			s.expected("name", "in declaration")
			return out
		}
		name := s.next()
		v := &ast.VarSpec{Name: s.ident(name)}
		for s.at(token.LBRACKET) {
			open := s.next()
			var size ast.Expr
			if !s.at(token.RBRACKET) {
				size = s.expr()
			}
			v.Size = append(v.Size, size)
			s.expectClose(token.RBRACKET, open)
		}
		if _, ok := s.accept(token.ASSIGN); ok {
			v.Init = s.expr()
		}
		v.Range = s.spanFrom(name.Span.Start)
		out = append(out, v)
		if _, ok := s.accept(token.COMMA); !ok {
			return out
		}
	}
}
