package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	KwPackage   // package
	KwImport    // import
	KwClass     // class
	KwPublic    // public
	KwPrivate   // private
	KwProtected // protected
	KwStatic    // static
	KwFinal     // final
	KwAbstract  // abstract
	KwVoid      // void
	KwInt       // int
	KwLong      // long
	KwBoolean   // boolean
	KwIf        // if
	KwElse      // else
	KwWhile     // while
	KwDo        // do
	KwFor       // for
	KwReturn    // return
	KwBreak     // break
	KwContinue  // continue
	KwNew       // new
	KwThis      // this
	KwTrue      // true
	KwFalse     // false
	KwNull      // null

	// IntLit represents the integer literal token.
	IntLit
	// StringLit represents the string literal token.
	StringLit

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	PlusPlus      // ++
	MinusMinus    // --
	EqEq          // ==
	Bang          // !
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	AndAnd        // &&
	OrOr          // ||
	Question      // ?
	Colon         // :
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
	At            // @

	kindCount
)

var kindNames = [kindCount]string{
	Invalid: "invalid", EOF: "EOF", Ident: "identifier",
	KwPackage: "package", KwImport: "import", KwClass: "class", KwPublic: "public",
	KwPrivate: "private", KwProtected: "protected", KwStatic: "static", KwFinal: "final",
	KwAbstract: "abstract", KwVoid: "void", KwInt: "int", KwLong: "long", KwBoolean: "boolean",
	KwIf: "if", KwElse: "else", KwWhile: "while", KwDo: "do", KwFor: "for", KwReturn: "return",
	KwBreak: "break", KwContinue: "continue", KwNew: "new", KwThis: "this", KwTrue: "true",
	KwFalse: "false", KwNull: "null",
	IntLit: "integer literal", StringLit: "string literal",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=", PercentAssign: "%=",
	PlusPlus: "++", MinusMinus: "--", EqEq: "==", Bang: "!", BangEq: "!=",
	Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", AndAnd: "&&", OrOr: "||",
	Question: "?", Colon: ":", Semicolon: ";", Comma: ",", Dot: ".",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]", At: "@",
}

// String returns the source spelling for operators and keywords, a description otherwise.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}
