package parser

import (
	"unicode"
	"unicode/utf8"
)

// Lexer turns Dart source bytes into a stream of tokens. It covers the
// entire input: whitespace and comments come back as tokens, and bytes it
// cannot classify come back as TokenError rather than being dropped.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
		return l.scanWhitespace(startPos)
	}

	// Raw string prefix: r'...' or r"..."
	if ch == 'r' && (l.peekN(1) == '\'' || l.peekN(1) == '"') {
		return l.scanString(startPos, true)
	}

	if isDartLetter(ch) {
		return l.scanIdentOrKeyword(startPos)
	}
	if ch >= utf8.RuneSelf {
		if r, _ := utf8.DecodeRune(l.input[l.pos:]); unicode.IsLetter(r) {
			return l.scanIdentOrKeyword(startPos)
		}
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	if ch == '\'' || ch == '"' {
		return l.scanString(startPos, false)
	}

	return l.scanOperator(startPos)
}

// Tokens returns the full token sequence for the input including the
// trailing EOF marker. The lexer is left positioned at end of input.
func (l *Lexer) Tokens() []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
		} else {
			break
		}
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	depth := 1 // Dart block comments nest
	for depth > 0 {
		if l.peek() == 0 {
			break
		}
		if l.peek() == '/' && l.peekN(1) == '*' {
			depth++
			l.advanceN(2)
			continue
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			depth--
			l.advanceN(2)
			continue
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch < utf8.RuneSelf {
			if !isDartLetterOrDigit(ch) {
				break
			}
			l.advance()
			continue
		}
		r, size := utf8.DecodeRune(l.input[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.advanceN(size)
	}
	end := l.Position()
	literal := string(l.input[start.Offset:end.Offset])
	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.advanceN(2)
		for isHexDigit(l.peek()) {
			l.advance()
		}
		return l.token(TokenIntLiteral, start)
	}

	isFloat := false
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	kind := TokenIntLiteral
	if isFloat {
		kind = TokenFloatLiteral
	}
	return l.token(kind, start)
}

func (l *Lexer) scanString(start Position, raw bool) Token {
	if raw {
		l.advance() // consume 'r'
	}
	quote := l.peek()
	if l.peekN(1) == quote && l.peekN(2) == quote {
		return l.scanMultilineString(start, quote, raw)
	}
	l.advance()
	for l.peek() != 0 && l.peek() != quote && l.peek() != '\n' {
		if !raw && l.peek() == '\\' {
			l.advance()
			if l.peek() != 0 {
				l.advance()
			}
			continue
		}
		if !raw && l.peek() == '$' && l.peekN(1) == '{' {
			l.advanceN(2)
			l.skipInterpolation()
			continue
		}
		l.advance()
	}
	if l.peek() == quote {
		l.advance()
	}
	return l.token(TokenStringLiteral, start)
}

func (l *Lexer) scanMultilineString(start Position, quote byte, raw bool) Token {
	l.advanceN(3)
	for l.peek() != 0 {
		if l.peek() == quote && l.peekN(1) == quote && l.peekN(2) == quote {
			l.advanceN(3)
			break
		}
		if !raw && l.peek() == '\\' {
			l.advance()
			if l.peek() != 0 {
				l.advance()
			}
			continue
		}
		if !raw && l.peek() == '$' && l.peekN(1) == '{' {
			l.advanceN(2)
			l.skipInterpolation()
			continue
		}
		l.advance()
	}
	return l.token(TokenStringLiteral, start)
}

// skipInterpolation consumes a ${...} interpolation body, tracking nested
// braces and nested string literals so the enclosing string scan does not
// terminate early.
func (l *Lexer) skipInterpolation() {
	depth := 1
	for l.peek() != 0 && depth > 0 {
		switch l.peek() {
		case '{':
			depth++
			l.advance()
		case '}':
			depth--
			l.advance()
		case '\'', '"':
			quote := l.peek()
			l.advance()
			for l.peek() != 0 && l.peek() != quote && l.peek() != '\n' {
				if l.peek() == '\\' {
					l.advance()
				}
				l.advance()
			}
			if l.peek() == quote {
				l.advance()
			}
		default:
			l.advance()
		}
	}
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '{':
		l.advance()
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		return l.token(TokenRBrace, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '@':
		l.advance()
		return l.token(TokenAt, start)
	case ':':
		l.advance()
		return l.token(TokenColon, start)
	case '^':
		l.advance()
		return l.token(TokenBitXor, start)
	case '%':
		l.advance()
		return l.token(TokenPercent, start)
	case '+':
		l.advance()
		return l.token(TokenPlus, start)
	case '*':
		l.advance()
		return l.token(TokenStar, start)
	case '/':
		l.advance()
		return l.token(TokenSlash, start)

	case '.':
		if l.peekN(1) == '.' && l.peekN(2) == '.' {
			l.advanceN(3)
			return l.token(TokenEllipsis, start)
		}
		l.advance()
		return l.token(TokenDot, start)

	case '~':
		if l.peekN(1) == '/' {
			l.advanceN(2)
			return l.token(TokenTildeSlash, start)
		}
		l.advance()
		return l.token(TokenBitNot, start)

	case '=':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenEQ, start)
		}
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(TokenArrow, start)
		}
		l.advance()
		return l.token(TokenAssign, start)

	case '!':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenNE, start)
		}
		l.advance()
		return l.token(TokenNot, start)

	case '<':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenLE, start)
		}
		l.advance()
		return l.token(TokenLT, start)

	case '>':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenGE, start)
		}
		l.advance()
		return l.token(TokenGT, start)

	case '&':
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(TokenAnd, start)
		}
		l.advance()
		return l.token(TokenBitAnd, start)

	case '|':
		if l.peekN(1) == '|' {
			l.advanceN(2)
			return l.token(TokenOr, start)
		}
		l.advance()
		return l.token(TokenBitOr, start)

	case '?':
		if l.peekN(1) == '.' {
			l.advanceN(2)
			return l.token(TokenQuestionDot, start)
		}
		if l.peekN(1) == '?' {
			l.advanceN(2)
			return l.token(TokenQuestionQuestion, start)
		}
		l.advance()
		return l.token(TokenQuestion, start)

	case '-':
		l.advance()
		return l.token(TokenMinus, start)
	}

	l.advance()
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isDartLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isDartLetterOrDigit(ch byte) bool {
	return isDartLetter(ch) || isDigit(ch)
}
