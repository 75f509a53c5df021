package parser

import (
	"mend/internal/diag"
	"mend/internal/token"
	"mend/internal/tree"
)

// Block: '{' Stmt* '}'
func (p *Parser) parseBlock() (tree.NodeID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return tree.NoNode, false
	}
	var kids []tree.NodeID
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.report(diag.SynUnclosedBrace, diag.SevError, p.getDiagnosticSpan(), "expected '}' to close block")
			return tree.NoNode, false
		}
		if p.opts.Enough() {
			return tree.NoNode, false
		}
		if s, ok := p.parseStmt(); ok {
			kids = append(kids, s)
		} else {
			p.resyncStmt()
		}
	}
	p.advance() // '}'
	return p.b.Add(Block, "", p.spanFrom(open.Span), kids...), true
}

// resyncStmt — до ';' (съедаем), '}' или ключевого слова начала оператора.
func (p *Parser) resyncStmt() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace, token.KwIf, token.KwWhile, token.KwDo, token.KwFor,
			token.KwReturn, token.KwBreak, token.KwContinue:
			return
		case token.LBrace:
			p.skipBalanced(token.LBrace, token.RBrace)
			return
		}
		p.advance()
	}
}

func (p *Parser) parseStmt() (tree.NodeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		p.advance()
		return p.b.Add(EmptyStatement, "", tok.Span), true
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDo()
	case token.KwFor:
		return p.parseFor()
	case token.KwReturn:
		p.advance()
		var kids []tree.NodeID
		if !p.at(token.Semicolon) {
			e, ok := p.parseExpr()
			if !ok {
				return tree.NoNode, false
			}
			kids = append(kids, e)
		}
		if !p.expectSemicolon() {
			return tree.NoNode, false
		}
		return p.b.Add(ReturnStatement, "", p.spanFrom(tok.Span), kids...), true
	case token.KwBreak, token.KwContinue:
		p.advance()
		if !p.expectSemicolon() {
			return tree.NoNode, false
		}
		typ := BreakStatement
		if tok.Kind == token.KwContinue {
			typ = ContinueStatement
		}
		return p.b.Add(typ, "", p.spanFrom(tok.Span)), true
	case token.KwElse:
		p.err(diag.SynUnexpectedToken, "'else' without 'if'")
		return tree.NoNode, false
	}

	if p.atLocalDecl() {
		id, ok := p.parseLocalDecl()
		if !ok || !p.expectSemicolon() {
			return tree.NoNode, false
		}
		return id, true
	}

	e, ok := p.parseExpr()
	if !ok || !p.expectSemicolon() {
		return tree.NoNode, false
	}
	return p.b.Add(ExpressionStatement, "", p.spanFrom(tok.Span), e), true
}

// VariableDeclarationStatement без ';': Modifier? Type Fragments
func (p *Parser) parseLocalDecl() (tree.NodeID, bool) {
	start := p.peek().Span
	var kids []tree.NodeID
	if p.at(token.KwFinal) {
		kids = append(kids, p.leaf(Modifier, p.advance()))
	}
	typ, ok := p.parseType()
	if !ok {
		return tree.NoNode, false
	}
	kids = append(kids, typ)
	frags, ok := p.parseFragments()
	if !ok {
		return tree.NoNode, false
	}
	kids = append(kids, frags...)
	id := p.b.Add(VariableDeclarationStmt, "", p.spanFrom(start), kids...)
	return id, true
}

// parseCond: '(' Expr ')'
func (p *Parser) parseCond(what string) (tree.NodeID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '"+what+"'"); !ok {
		return tree.NoNode, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return tree.NoNode, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return tree.NoNode, false
	}
	return cond, true
}

// IfStatement: cond, then, else?
func (p *Parser) parseIf() (tree.NodeID, bool) {
	start := p.advance().Span
	cond, ok := p.parseCond("if")
	if !ok {
		return tree.NoNode, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return tree.NoNode, false
	}
	kids := []tree.NodeID{cond, then}
	if p.at(token.KwElse) {
		p.advance()
		els, ok := p.parseStmt()
		if !ok {
			return tree.NoNode, false
		}
		kids = append(kids, els)
	}
	return p.b.Add(IfStatement, "", p.spanFrom(start), kids...), true
}

// WhileStatement: cond, body
func (p *Parser) parseWhile() (tree.NodeID, bool) {
	start := p.advance().Span
	cond, ok := p.parseCond("while")
	if !ok {
		return tree.NoNode, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return tree.NoNode, false
	}
	return p.b.Add(WhileStatement, "", p.spanFrom(start), cond, body), true
}

// DoStatement: body, cond
func (p *Parser) parseDo() (tree.NodeID, bool) {
	start := p.advance().Span
	body, ok := p.parseStmt()
	if !ok {
		return tree.NoNode, false
	}
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do body"); !ok {
		return tree.NoNode, false
	}
	cond, ok := p.parseCond("while")
	if !ok || !p.expectSemicolon() {
		return tree.NoNode, false
	}
	return p.b.Add(DoStatement, "", p.spanFrom(start), body, cond), true
}

// ForStatement: ForInit, cond?, ForUpdate, body
//
// ForInit holds either one VariableDeclarationStatement or expressions.
func (p *Parser) parseFor() (tree.NodeID, bool) {
	start := p.advance().Span
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		return tree.NoNode, false
	}

	initStart := p.peek().Span
	var inits []tree.NodeID
	if !p.at(token.Semicolon) {
		if p.atLocalDecl() {
			d, ok := p.parseLocalDecl()
			if !ok {
				return tree.NoNode, false
			}
			inits = append(inits, d)
		} else {
			list, ok := p.parseExprList(token.Semicolon)
			if !ok {
				return tree.NoNode, false
			}
			inits = list
		}
	}
	if !p.expectSemicolon() {
		return tree.NoNode, false
	}
	kids := []tree.NodeID{p.b.Add(ForInit, "", p.spanFrom(initStart), inits...)}

	if !p.at(token.Semicolon) {
		cond, ok := p.parseExpr()
		if !ok {
			return tree.NoNode, false
		}
		kids = append(kids, cond)
	}
	if !p.expectSemicolon() {
		return tree.NoNode, false
	}

	updStart := p.peek().Span
	var upd []tree.NodeID
	if !p.at(token.RParen) {
		list, ok := p.parseExprList(token.RParen)
		if !ok {
			return tree.NoNode, false
		}
		upd = list
	}
	kids = append(kids, p.b.Add(ForUpdate, "", p.spanFrom(updStart), upd...))
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after for clauses"); !ok {
		return tree.NoNode, false
	}

	body, ok := p.parseStmt()
	if !ok {
		return tree.NoNode, false
	}
	kids = append(kids, body)
	return p.b.Add(ForStatement, "", p.spanFrom(start), kids...), true
}

// parseExprList: Expr (',' Expr)* до end (не съедая его)
func (p *Parser) parseExprList(end token.Kind) ([]tree.NodeID, bool) {
	var out []tree.NodeID
	for {
		e, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		out = append(out, e)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(end) {
			p.err(diag.SynUnexpectedToken, "expected ',' or '"+end.String()+"', got "+describe(p.peek()))
			return nil, false
		}
		return out, true
	}
}
