package parser

import (
	"mend/internal/diag"
	"mend/internal/source"
	"mend/internal/token"
	"mend/internal/tree"
)

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// afterLast — пустой span сразу за последним съеденным токеном.
// Так "expected ';'" указывает на конец строки, а не на следующий токен.
func (p *Parser) afterLast() source.Span {
	return source.Span{Unit: p.lastSpan.Unit, Start: p.lastSpan.End, End: p.lastSpan.End}
}

// getDiagnosticSpan — лучший span для диагностики об отсутствующем токене.
func (p *Parser) getDiagnosticSpan() source.Span {
	if p.at(token.EOF) && p.lastSpan.End > 0 {
		return p.afterLast()
	}
	return p.peek().Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg+", got "+describe(p.peek()))
	return token.Token{Kind: token.Invalid, Span: diagSpan}, false
}

// expectSemicolon репортит на позиции конца предыдущего токена.
func (p *Parser) expectSemicolon() bool {
	if p.at(token.Semicolon) {
		p.advance()
		return true
	}
	p.report(diag.SynExpectSemicolon, diag.SevError, p.afterLast(), "expected ';', got "+describe(p.peek()))
	return false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Reporter == nil {
		return false // нет reporter - ничего не записали
	}
	if p.opts.MaxErrors > 0 && p.opts.CurrentErrors > p.opts.MaxErrors {
		return false // достигли максимального количества ошибок
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
	return true
}

// resyncUntil прокручивает токены до любого из stop (не съедая его) или EOF.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(stop...) {
		// пропускаем сбалансированные скобки целиком
		if p.at(token.LBrace) {
			p.skipBalanced(token.LBrace, token.RBrace)
			continue
		}
		p.advance()
	}
}

func (p *Parser) skipBalanced(open, closing token.Kind) {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// spanFrom покрывает всё от start до последнего съеденного токена.
func (p *Parser) spanFrom(start source.Span) source.Span {
	if p.lastSpan.End < start.Start {
		return start
	}
	return start.Cover(p.lastSpan)
}

// leaf добавляет лист для только что съеденного токена.
func (p *Parser) leaf(typ string, tok token.Token) tree.NodeID {
	return p.b.Add(typ, tok.Text, tok.Span)
}

// ident ожидает Ident и строит SimpleName.
func (p *Parser) ident(what string) (tree.NodeID, bool) {
	if p.at(token.Ident) {
		return p.leaf(SimpleName, p.advance()), true
	}
	p.err(diag.SynExpectIdentifier, "expected "+what+", got "+describe(p.peek()))
	return tree.NoNode, false
}
