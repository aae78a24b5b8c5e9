package parser

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenStringLiteral
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenAbstract
	TokenAs
	TokenBase
	TokenClass
	TokenConst
	TokenCovariant
	TokenDynamic
	TokenEnum
	TokenExtends
	TokenExtension
	TokenExternal
	TokenFactory
	TokenFinal
	TokenGet
	TokenImplements
	TokenImport
	TokenIs
	TokenLate
	TokenLibrary
	TokenMixin
	TokenNew
	TokenOperator
	TokenPart
	TokenRequired
	TokenReturn
	TokenSealed
	TokenSet
	TokenStatic
	TokenSuper
	TokenThis
	TokenTypedef
	TokenVar
	TokenVoid
	TokenWith

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenColon

	TokenAssign
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenTildeSlash
	TokenPercent
	TokenQuestion
	TokenQuestionDot
	TokenQuestionQuestion
	TokenArrow
	TokenBang
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:              "EOF",
	TokenError:            "Error",
	TokenWhitespace:       "Whitespace",
	TokenComment:          "Comment",
	TokenLineComment:      "LineComment",
	TokenIdent:            "Identifier",
	TokenIntLiteral:       "IntLiteral",
	TokenFloatLiteral:     "FloatLiteral",
	TokenStringLiteral:    "StringLiteral",
	TokenTrue:             "true",
	TokenFalse:            "false",
	TokenNull:             "null",
	TokenAbstract:         "abstract",
	TokenAs:               "as",
	TokenBase:             "base",
	TokenClass:            "class",
	TokenConst:            "const",
	TokenCovariant:        "covariant",
	TokenDynamic:          "dynamic",
	TokenEnum:             "enum",
	TokenExtends:          "extends",
	TokenExtension:        "extension",
	TokenExternal:         "external",
	TokenFactory:          "factory",
	TokenFinal:            "final",
	TokenGet:              "get",
	TokenImplements:       "implements",
	TokenImport:           "import",
	TokenIs:               "is",
	TokenLate:             "late",
	TokenLibrary:          "library",
	TokenMixin:            "mixin",
	TokenNew:              "new",
	TokenOperator:         "operator",
	TokenPart:             "part",
	TokenRequired:         "required",
	TokenReturn:           "return",
	TokenSealed:           "sealed",
	TokenSet:              "set",
	TokenStatic:           "static",
	TokenSuper:            "super",
	TokenThis:             "this",
	TokenTypedef:          "typedef",
	TokenVar:              "var",
	TokenVoid:             "void",
	TokenWith:             "with",
	TokenLParen:           "(",
	TokenRParen:           ")",
	TokenLBrace:           "{",
	TokenRBrace:           "}",
	TokenLBracket:         "[",
	TokenRBracket:         "]",
	TokenSemicolon:        ";",
	TokenComma:            ",",
	TokenDot:              ".",
	TokenEllipsis:         "...",
	TokenAt:               "@",
	TokenColon:            ":",
	TokenAssign:           "=",
	TokenEQ:               "==",
	TokenNE:               "!=",
	TokenLT:               "<",
	TokenLE:               "<=",
	TokenGT:               ">",
	TokenGE:               ">=",
	TokenAnd:              "&&",
	TokenOr:               "||",
	TokenNot:              "!",
	TokenBitAnd:           "&",
	TokenBitOr:            "|",
	TokenBitXor:           "^",
	TokenBitNot:           "~",
	TokenPlus:             "+",
	TokenMinus:            "-",
	TokenStar:             "*",
	TokenSlash:            "/",
	TokenTildeSlash:       "~/",
	TokenPercent:          "%",
	TokenQuestion:         "?",
	TokenQuestionDot:      "?.",
	TokenQuestionQuestion: "??",
	TokenArrow:            "=>",
	TokenBang:             "!",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// Dart reserves some of these only contextually (e.g. "required", "factory");
// the scanner treats them as keywords everywhere because the subset of the
// grammar it cares about never uses them as plain identifiers.
var keywords = map[string]TokenKind{
	"abstract":   TokenAbstract,
	"as":         TokenAs,
	"base":       TokenBase,
	"class":      TokenClass,
	"const":      TokenConst,
	"covariant":  TokenCovariant,
	"dynamic":    TokenDynamic,
	"enum":       TokenEnum,
	"extends":    TokenExtends,
	"extension":  TokenExtension,
	"external":   TokenExternal,
	"factory":    TokenFactory,
	"final":      TokenFinal,
	"get":        TokenGet,
	"implements": TokenImplements,
	"import":     TokenImport,
	"is":         TokenIs,
	"late":       TokenLate,
	"library":    TokenLibrary,
	"mixin":      TokenMixin,
	"new":        TokenNew,
	"operator":   TokenOperator,
	"part":       TokenPart,
	"required":   TokenRequired,
	"return":     TokenReturn,
	"sealed":     TokenSealed,
	"set":        TokenSet,
	"static":     TokenStatic,
	"super":      TokenSuper,
	"this":       TokenThis,
	"typedef":    TokenTypedef,
	"var":        TokenVar,
	"void":       TokenVoid,
	"with":       TokenWith,
	"true":       TokenTrue,
	"false":      TokenFalse,
	"null":       TokenNull,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
