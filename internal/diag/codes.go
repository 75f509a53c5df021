package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnmatchedBrace     Code = 2002
	SynUnclosedParen      Code = 2006
	SynUnclosedBrace      Code = 2007
	SynExpectSemicolon    Code = 2012
	SynModifierNotAllowed Code = 2015
	SynUnexpectedTopLevel Code = 2101
	SynExpectIdentifier   Code = 2102
	SynExpectType         Code = 2202
	SynExpectExpression   Code = 2203
	SynInvalidAssignment  Code = 2204

	// Семантические
	SemaInfo             Code = 3000
	SemaError            Code = 3001
	SemaDuplicateSymbol  Code = 3002
	SemaUnresolvedSymbol Code = 3005
	SemaUnknownType      Code = 3006
	SemaTypeMismatch     Code = 3010
	SemaMissingReturn    Code = 3011
	SemaUnreachableCode  Code = 3012
	SemaArgumentCount    Code = 3013
	SemaStaticContext    Code = 3014
	SemaJumpOutsideLoop  Code = 3015
	SemaVoidValue        Code = 3016
	SemaDuplicateClass   Code = 3018
	SemaUnusedLocal      Code = 3019
	SemaDivisionByZero   Code = 3020
	SemaUninitialized    Code = 3021
	SemaInvalidOperand   Code = 3022
	SemaNotAStatement    Code = 3023
	SemaUnresolvedImport Code = 3024

	// Кодогенерация
	GenInfo         Code = 4000
	GenCodeTooLarge Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexTokenTooLong:             "Token too long",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnmatchedBrace:           "Unmatched closing brace",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynExpectSemicolon:          "Expected semicolon",
	SynModifierNotAllowed:       "Modifier not allowed here",
	SynUnexpectedTopLevel:       "Unexpected top-level construct",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectType:               "Expected type",
	SynExpectExpression:         "Expected expression",
	SynInvalidAssignment:        "Invalid assignment target",
	SemaInfo:                    "Semantic information",
	SemaError:                   "Semantic error",
	SemaDuplicateSymbol:         "Duplicate symbol",
	SemaUnresolvedSymbol:        "Cannot find symbol",
	SemaUnknownType:             "Unknown type",
	SemaTypeMismatch:            "Incompatible types",
	SemaMissingReturn:           "Missing return statement",
	SemaUnreachableCode:         "Unreachable statement",
	SemaArgumentCount:           "Wrong number of arguments",
	SemaStaticContext:           "Non-static member referenced from a static context",
	SemaJumpOutsideLoop:         "break or continue outside of loop",
	SemaVoidValue:               "Void value used as expression",
	SemaDuplicateClass:          "Duplicate class",
	SemaUnusedLocal:             "Unused local variable",
	SemaDivisionByZero:          "Division by constant zero",
	SemaUninitialized:           "Variable might not have been initialized",
	SemaInvalidOperand:          "Bad operand type",
	SemaNotAStatement:           "Not a statement",
	SemaUnresolvedImport:        "Unresolved import",
	GenInfo:                     "Code generation information",
	GenCodeTooLarge:             "Code too large",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
