package parser

import (
	"slices"

	"mend/internal/diag"
	"mend/internal/lexer"
	"mend/internal/source"
	"mend/internal/token"
	"mend/internal/tree"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	Lexer         lexer.Options
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Result of parsing one unit. Tree is nil whenever any lexical or syntax
// error was reported: a partial tree is never handed out.
type Result struct {
	Tree   *tree.Tree
	Errors uint
}

// Parser — состояние парсера на один юнит
type Parser struct {
	unit     *source.Unit
	b        *tree.Builder
	toks     []token.Token // Invalid-токены уже отфильтрованы: лексер о них сообщил
	pos      int
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// Parse lexes and parses one source unit into a syntax tree.
func Parse(u *source.Unit, opts Options) Result {
	lxOpts := opts.Lexer
	if lxOpts.Reporter == nil {
		lxOpts.Reporter = opts.Reporter
	}
	lx := lexer.New(u, lxOpts)
	all := lx.All()
	toks := make([]token.Token, 0, len(all))
	for _, t := range all {
		if t.Kind != token.Invalid {
			toks = append(toks, t)
		}
	}

	p := Parser{
		unit:     u,
		b:        tree.NewBuilder(uint(len(toks))),
		toks:     toks,
		opts:     opts,
		lastSpan: source.Span{Unit: u.ID},
	}
	p.b.SetSource(tree.RefOf(u))
	p.opts.CurrentErrors += uint(lx.ErrorCount())

	root := p.parseCompilationUnit()
	res := Result{Errors: p.opts.CurrentErrors}
	if res.Errors > 0 {
		return res
	}
	t, err := p.b.Finish(root)
	if err != nil {
		// сбой построения дерева — ошибка парсера, а не исходника
		p.report(diag.SynUnexpectedToken, diag.SevError, p.peek().Span, "internal parser error: "+err.Error())
		res.Errors = p.opts.CurrentErrors
		return res
	}
	res.Tree = t
	return res
}

func (p *Parser) peek() token.Token { return p.peekN(0) }

// peekN смотрит на n токенов вперёд; за концом всегда EOF.
func (p *Parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// parseCompilationUnit — основной цикл верхнего уровня.
//
//	CompilationUnit: PackageDeclaration? ImportDeclaration* TypeDeclaration*
func (p *Parser) parseCompilationUnit() tree.NodeID {
	start := p.peek().Span
	var kids []tree.NodeID

	if p.at(token.KwPackage) {
		if id, ok := p.parsePackage(); ok {
			kids = append(kids, id)
		} else {
			p.resyncTop()
		}
	}
	for p.at(token.KwImport) {
		if id, ok := p.parseImport(); ok {
			kids = append(kids, id)
		} else {
			p.resyncTop()
		}
	}
	for !p.at(token.EOF) {
		if p.opts.Enough() {
			break
		}
		switch {
		case p.at(token.RBrace):
			p.report(diag.SynUnmatchedBrace, diag.SevError, p.peek().Span, "unmatched '}'")
			p.advance()
		case p.at(token.KwClass) || p.peek().IsModifier() || p.at(token.At):
			if id, ok := p.parseTypeDecl(); ok {
				kids = append(kids, id)
			} else {
				p.resyncTop()
			}
		default:
			p.report(diag.SynUnexpectedTopLevel, diag.SevError, p.peek().Span, "expected class declaration, got "+describe(p.peek()))
			p.advance()
			p.resyncTop()
		}
	}
	sp := start
	if len(kids) > 0 {
		sp = start.Cover(p.lastSpan)
	}
	return p.b.Add(CompilationUnit, "", sp, kids...)
}

// resyncTop — прокручиваем до стартового токена следующего класса или EOF.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) {
		if p.at(token.KwClass) || p.peek().IsModifier() || p.at(token.At) {
			return
		}
		p.advance()
	}
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.StringLit:
		return t.Kind.String() + " \"" + t.Text + "\""
	default:
		return "'" + t.Kind.String() + "'"
	}
}
