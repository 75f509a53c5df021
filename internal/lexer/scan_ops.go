package lexer

import (
	"mend/internal/diag"
	"mend/internal/token"
)

// двухсимвольные операторы имеют приоритет над односимвольными
var pairOps = map[[2]byte]token.Kind{
	{'&', '&'}: token.AndAnd,
	{'|', '|'}: token.OrOr,
	{'=', '='}: token.EqEq,
	{'!', '='}: token.BangEq,
	{'<', '='}: token.LtEq,
	{'>', '='}: token.GtEq,
	{'+', '+'}: token.PlusPlus,
	{'-', '-'}: token.MinusMinus,
	{'+', '='}: token.PlusAssign,
	{'-', '='}: token.MinusAssign,
	{'*', '='}: token.StarAssign,
	{'/', '='}: token.SlashAssign,
	{'%', '='}: token.PercentAssign,
}

var singleOps = [256]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
	'=': token.Assign, '!': token.Bang, '<': token.Lt, '>': token.Gt,
	'?': token.Question, ':': token.Colon, ';': token.Semicolon, ',': token.Comma, '.': token.Dot,
	'(': token.LParen, ')': token.RParen, '{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket, '@': token.At,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cur.mark()
	kind := token.Invalid
	if b0, b1, ok := lx.cur.peek2(); ok {
		if k, hit := pairOps[[2]byte{b0, b1}]; hit {
			lx.cur.next()
			lx.cur.next()
			kind = k
		}
	}
	if kind == token.Invalid {
		kind = singleOps[lx.cur.next()]
	}
	sp := lx.cur.spanFrom(start)
	if kind == token.Invalid {
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.cur.text(sp)}
}
