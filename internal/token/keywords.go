package token

var keywords = map[string]Kind{
	"package":   KwPackage,
	"import":    KwImport,
	"class":     KwClass,
	"public":    KwPublic,
	"private":   KwPrivate,
	"protected": KwProtected,
	"static":    KwStatic,
	"final":     KwFinal,
	"abstract":  KwAbstract,
	"void":      KwVoid,
	"int":       KwInt,
	"long":      KwLong,
	"boolean":   KwBoolean,
	"if":        KwIf,
	"else":      KwElse,
	"while":     KwWhile,
	"do":        KwDo,
	"for":       KwFor,
	"return":    KwReturn,
	"break":     KwBreak,
	"continue":  KwContinue,
	"new":       KwNew,
	"this":      KwThis,
	"true":      KwTrue,
	"false":     KwFalse,
	"null":      KwNull,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
