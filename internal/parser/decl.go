package parser

import (
	"strings"

	"mend/internal/diag"
	"mend/internal/token"
	"mend/internal/tree"
)

// PackageDeclaration: 'package' Name ';'
func (p *Parser) parsePackage() (tree.NodeID, bool) {
	start := p.advance().Span
	name, ok := p.parseName()
	if !ok || !p.expectSemicolon() {
		return tree.NoNode, false
	}
	return p.b.Add(PackageDeclaration, "", p.spanFrom(start), name), true
}

// ImportDeclaration: 'import' Name ';'
func (p *Parser) parseImport() (tree.NodeID, bool) {
	start := p.advance().Span
	name, ok := p.parseName()
	if !ok || !p.expectSemicolon() {
		return tree.NoNode, false
	}
	return p.b.Add(ImportDeclaration, "", p.spanFrom(start), name), true
}

// parseName — a или a.b.c; составное имя хранится одним листом QualifiedName.
func (p *Parser) parseName() (tree.NodeID, bool) {
	first, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected name")
	if !ok {
		return tree.NoNode, false
	}
	if !p.at(token.Dot) {
		return p.leaf(SimpleName, first), true
	}
	parts := []string{first.Text}
	for p.at(token.Dot) {
		p.advance()
		tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected name after '.'")
		if !ok {
			return tree.NoNode, false
		}
		parts = append(parts, tok.Text)
	}
	return p.b.Add(QualifiedName, strings.Join(parts, "."), p.spanFrom(first.Span)), true
}

// parseModifiers: (Modifier | '@' Ident)*
func (p *Parser) parseModifiers() []tree.NodeID {
	var mods []tree.NodeID
	for {
		switch {
		case p.peek().IsModifier():
			mods = append(mods, p.leaf(Modifier, p.advance()))
		case p.at(token.At):
			at := p.advance()
			name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected annotation name")
			if !ok {
				return mods
			}
			mods = append(mods, p.b.Add(MarkerAnnotation, name.Text, at.Span.Cover(name.Span)))
		default:
			return mods
		}
	}
}

// TypeDeclaration: Modifiers 'class' Ident '{' Member* '}'
//
// children: Modifier*, SimpleName, (FieldDeclaration | MethodDeclaration)*
func (p *Parser) parseTypeDecl() (tree.NodeID, bool) {
	start := p.peek().Span
	kids := p.parseModifiers()
	if _, ok := p.expect(token.KwClass, diag.SynUnexpectedTopLevel, "expected 'class'"); !ok {
		return tree.NoNode, false
	}
	name, ok := p.ident("class name")
	if !ok {
		return tree.NoNode, false
	}
	kids = append(kids, name)
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after class name"); !ok {
		return tree.NoNode, false
	}

	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.report(diag.SynUnclosedBrace, diag.SevError, p.getDiagnosticSpan(), "expected '}' to close class body")
			return tree.NoNode, false
		}
		if p.opts.Enough() {
			return tree.NoNode, false
		}
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		if m, ok := p.parseMember(); ok {
			kids = append(kids, m)
		} else {
			p.resyncMember()
		}
	}
	p.advance() // '}'
	return p.b.Add(TypeDeclaration, "", p.spanFrom(start), kids...), true
}

// resyncMember — до ';' (съедаем) или '}' / начала следующего члена.
func (p *Parser) resyncMember() {
	for !p.at(token.EOF) && !p.at(token.RBrace) {
		if p.at(token.Semicolon) {
			p.advance()
			return
		}
		if p.at(token.LBrace) {
			p.skipBalanced(token.LBrace, token.RBrace)
			return
		}
		if p.peek().IsModifier() {
			return
		}
		p.advance()
	}
}

// Member: Modifiers Type Ident ( '(' Params ')' (Block | ';') | Fragments ';' )
func (p *Parser) parseMember() (tree.NodeID, bool) {
	start := p.peek().Span
	kids := p.parseModifiers()
	typ, ok := p.parseType()
	if !ok {
		return tree.NoNode, false
	}
	kids = append(kids, typ)

	if p.at(token.Ident) && p.peekN(1).Kind == token.LParen {
		name := p.leaf(SimpleName, p.advance())
		kids = append(kids, name)
		params, ok := p.parseParams()
		if !ok {
			return tree.NoNode, false
		}
		kids = append(kids, params...)
		if p.at(token.Semicolon) {
			p.advance()
		} else {
			body, ok := p.parseBlock()
			if !ok {
				return tree.NoNode, false
			}
			kids = append(kids, body)
		}
		return p.b.Add(MethodDeclaration, "", p.spanFrom(start), kids...), true
	}

	frags, ok := p.parseFragments()
	if !ok || !p.expectSemicolon() {
		return tree.NoNode, false
	}
	kids = append(kids, frags...)
	return p.b.Add(FieldDeclaration, "", p.spanFrom(start), kids...), true
}

// parseFragments: Ident ('=' Expr)? (',' Ident ('=' Expr)?)*
func (p *Parser) parseFragments() ([]tree.NodeID, bool) {
	var out []tree.NodeID
	for {
		start := p.peek().Span
		name, ok := p.ident("variable name")
		if !ok {
			return nil, false
		}
		kids := []tree.NodeID{name}
		if p.at(token.Assign) {
			p.advance()
			init, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			kids = append(kids, init)
		}
		out = append(out, p.b.Add(VariableDeclarationFrag, "", p.spanFrom(start), kids...))
		if !p.at(token.Comma) {
			return out, true
		}
		p.advance()
	}
}

// Params: '(' (Type Ident (',' Type Ident)*)? ')'
func (p *Parser) parseParams() ([]tree.NodeID, bool) {
	p.advance() // '('
	var out []tree.NodeID
	if p.at(token.RParen) {
		p.advance()
		return out, true
	}
	for {
		start := p.peek().Span
		var kids []tree.NodeID
		if p.at(token.KwFinal) {
			kids = append(kids, p.leaf(Modifier, p.advance()))
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		name, ok := p.ident("parameter name")
		if !ok {
			return nil, false
		}
		kids = append(kids, typ, name)
		out = append(out, p.b.Add(SingleVariableDeclaration, "", p.spanFrom(start), kids...))
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parameter list"); !ok {
			return nil, false
		}
		return out, true
	}
}

// parseType: PrimitiveType | SimpleType (Ident ('.' Ident)*)
func (p *Parser) parseType() (tree.NodeID, bool) {
	if p.peek().IsPrimitiveType() {
		return p.leaf(PrimitiveType, p.advance()), true
	}
	if !p.at(token.Ident) {
		p.err(diag.SynExpectType, "expected type, got "+describe(p.peek()))
		return tree.NoNode, false
	}
	first := p.advance()
	parts := []string{first.Text}
	for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
		p.advance()
		parts = append(parts, p.advance().Text)
	}
	return p.b.Add(SimpleType, strings.Join(parts, "."), p.spanFrom(first.Span)), true
}

// atLocalDecl — начинается ли здесь объявление локальной переменной.
func (p *Parser) atLocalDecl() bool {
	t := p.peek()
	if t.Kind == token.KwFinal {
		return true
	}
	if t.IsPrimitiveType() {
		return t.Kind != token.KwVoid
	}
	if t.Kind != token.Ident {
		return false
	}
	// Ident Ident | Ident . Ident ... Ident Ident
	i := 1
	for p.peekN(i).Kind == token.Dot && p.peekN(i+1).Kind == token.Ident {
		i += 2
	}
	return p.peekN(i).Kind == token.Ident
}
