package token

import (
	"mend/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

type class uint8

const (
	clLiteral class = 1 << iota
	clModifier
	clPrimitive
	clAssign
)

var kindClass = [kindCount]class{
	IntLit: clLiteral, StringLit: clLiteral, KwTrue: clLiteral, KwFalse: clLiteral, KwNull: clLiteral,

	KwPublic: clModifier, KwPrivate: clModifier, KwProtected: clModifier,
	KwStatic: clModifier, KwFinal: clModifier, KwAbstract: clModifier,

	KwInt: clPrimitive, KwLong: clPrimitive, KwBoolean: clPrimitive, KwVoid: clPrimitive,

	Assign: clAssign, PlusAssign: clAssign, MinusAssign: clAssign,
	StarAssign: clAssign, SlashAssign: clAssign, PercentAssign: clAssign,
}

func (t Token) is(c class) bool { return t.Kind < kindCount && kindClass[t.Kind]&c != 0 }

// IsLiteral reports whether the token is a numeric, boolean, null or string literal.
func (t Token) IsLiteral() bool { return t.is(clLiteral) }

// IsModifier reports whether the token may start a member declaration as a modifier.
func (t Token) IsModifier() bool { return t.is(clModifier) }

// IsPrimitiveType reports whether the token names a built-in type, void included.
func (t Token) IsPrimitiveType() bool { return t.is(clPrimitive) }

// IsAssignOp reports whether the token is '=' or a compound assignment.
func (t Token) IsAssignOp() bool { return t.is(clAssign) }

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwPackage && t.Kind <= KwNull
}

func (t Token) IsIdent() bool { return t.Kind == Ident }
