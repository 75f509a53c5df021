package parser

import (
	"mend/internal/diag"
	"mend/internal/source"
	"mend/internal/token"
	"mend/internal/tree"
)

// parseExpr — точка входа: Assignment
func (p *Parser) parseExpr() (tree.NodeID, bool) {
	return p.parseAssignment()
}

// Assignment: Conditional (AssignOp Assignment)?  (правоассоциативно)
func (p *Parser) parseAssignment() (tree.NodeID, bool) {
	start := p.peek().Span
	lhs, ok := p.parseConditional()
	if !ok {
		return tree.NoNode, false
	}
	if !p.peek().IsAssignOp() {
		return lhs, true
	}
	op := p.advance()
	if typ := p.b.Type(lhs); typ != SimpleName && typ != FieldAccess {
		p.report(diag.SynInvalidAssignment, diag.SevError, op.Span, "left side of '"+op.Text+"' is not assignable")
		return tree.NoNode, false
	}
	rhs, ok := p.parseAssignment()
	if !ok {
		return tree.NoNode, false
	}
	return p.b.Add(Assignment, op.Text, p.spanFrom(start), lhs, rhs), true
}

// Conditional: Binary ('?' Expr ':' Conditional)?
func (p *Parser) parseConditional() (tree.NodeID, bool) {
	start := p.peek().Span
	cond, ok := p.parseBinary(precLogicalOr)
	if !ok {
		return tree.NoNode, false
	}
	if !p.at(token.Question) {
		return cond, true
	}
	p.advance()
	then, ok := p.parseExpr()
	if !ok {
		return tree.NoNode, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression"); !ok {
		return tree.NoNode, false
	}
	els, ok := p.parseConditional()
	if !ok {
		return tree.NoNode, false
	}
	return p.b.Add(ConditionalExpression, "", p.spanFrom(start), cond, then, els), true
}

// parseBinary — precedence climbing, все операторы левоассоциативны.
func (p *Parser) parseBinary(minPrec int) (tree.NodeID, bool) {
	start := p.peek().Span
	lhs, ok := p.parseUnary()
	if !ok {
		return tree.NoNode, false
	}
	for {
		prec := binaryPrec(p.peek().Kind)
		if prec < minPrec {
			return lhs, true
		}
		op := p.advance()
		rhs, ok := p.parseBinary(prec + 1)
		if !ok {
			return tree.NoNode, false
		}
		lhs = p.b.Add(InfixExpression, op.Text, p.spanFrom(start), lhs, rhs)
	}
}

// Unary: PrefixOp Unary | Postfix
func (p *Parser) parseUnary() (tree.NodeID, bool) {
	if !isPrefixOp(p.peek().Kind) {
		return p.parsePostfix()
	}
	op := p.advance()
	operand, ok := p.parseUnary()
	if !ok {
		return tree.NoNode, false
	}
	if op.Kind == token.PlusPlus || op.Kind == token.MinusMinus {
		if typ := p.b.Type(operand); typ != SimpleName && typ != FieldAccess {
			p.report(diag.SynInvalidAssignment, diag.SevError, op.Span, "operand of '"+op.Text+"' is not assignable")
			return tree.NoNode, false
		}
	}
	return p.b.Add(PrefixExpression, op.Text, p.spanFrom(op.Span), operand), true
}

// Postfix: Primary ( '.' Ident Args? | '++' | '--' )*
func (p *Parser) parsePostfix() (tree.NodeID, bool) {
	start := p.peek().Span
	expr, ok := p.parsePrimary()
	if !ok {
		return tree.NoNode, false
	}
	for {
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			name, ok := p.ident("member name after '.'")
			if !ok {
				return tree.NoNode, false
			}
			if p.at(token.LParen) {
				args, ok := p.parseArgs()
				if !ok {
					return tree.NoNode, false
				}
				expr = p.b.Add(MethodInvocation, "", p.spanFrom(start), expr, name, args)
				continue
			}
			expr = p.b.Add(FieldAccess, "", p.spanFrom(start), expr, name)
		case token.PlusPlus, token.MinusMinus:
			if typ := p.b.Type(expr); typ != SimpleName && typ != FieldAccess {
				p.report(diag.SynInvalidAssignment, diag.SevError, p.peek().Span, "operand of '"+p.peek().Text+"' is not assignable")
				return tree.NoNode, false
			}
			op := p.advance()
			expr = p.b.Add(PostfixExpression, op.Text, p.spanFrom(start), expr)
		default:
			return expr, true
		}
	}
}

// Arguments: '(' (Expr (',' Expr)*)? ')'
func (p *Parser) parseArgs() (tree.NodeID, bool) {
	open := p.advance() // '('
	var args []tree.NodeID
	if !p.at(token.RParen) {
		list, ok := p.parseExprList(token.RParen)
		if !ok {
			return tree.NoNode, false
		}
		args = list
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close argument list"); !ok {
		return tree.NoNode, false
	}
	return p.b.Add(Arguments, "", p.spanFrom(open.Span), args...), true
}

func (p *Parser) parsePrimary() (tree.NodeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		return p.leaf(NumberLiteral, p.advance()), true
	case token.StringLit:
		return p.leaf(StringLiteral, p.advance()), true
	case token.KwTrue, token.KwFalse:
		return p.leaf(BooleanLiteral, p.advance()), true
	case token.KwNull:
		p.advance()
		return p.b.Add(NullLiteral, "", tok.Span), true
	case token.KwThis:
		p.advance()
		return p.b.Add(ThisExpression, "", tok.Span), true
	case token.Ident:
		name := p.leaf(SimpleName, p.advance())
		if p.at(token.LParen) {
			args, ok := p.parseArgs()
			if !ok {
				return tree.NoNode, false
			}
			return p.b.Add(MethodInvocation, "", p.spanFrom(tok.Span), name, args), true
		}
		return name, true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return tree.NoNode, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return tree.NoNode, false
		}
		return p.b.Add(ParenthesizedExpression, "", p.spanFrom(tok.Span), inner), true
	case token.KwNew:
		return p.parseNew()
	}
	p.report(diag.SynExpectExpression, diag.SevError, p.exprErrSpan(), "expected expression, got "+describe(tok))
	return tree.NoNode, false
}

func (p *Parser) exprErrSpan() source.Span {
	if p.at(token.EOF) {
		return p.afterLast()
	}
	return p.peek().Span
}

// ClassInstanceCreation: 'new' SimpleType Arguments
func (p *Parser) parseNew() (tree.NodeID, bool) {
	start := p.advance().Span
	if !p.at(token.Ident) {
		p.err(diag.SynExpectType, "expected class name after 'new', got "+describe(p.peek()))
		return tree.NoNode, false
	}
	typ, ok := p.parseType()
	if !ok {
		return tree.NoNode, false
	}
	if !p.at(token.LParen) {
		p.err(diag.SynUnexpectedToken, "expected '(' after class name, got "+describe(p.peek()))
		return tree.NoNode, false
	}
	args, ok := p.parseArgs()
	if !ok {
		return tree.NoNode, false
	}
	return p.b.Add(ClassInstanceCreation, "", p.spanFrom(start), typ, args), true
}
