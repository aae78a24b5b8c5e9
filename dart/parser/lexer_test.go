package parser

import (
	"testing"
)

func TestLexerNewLexer(t *testing.T) {
	lexer := NewLexer([]byte("class Foo {}"), "test.dart")
	pos := lexer.Position()

	if pos.File != "test.dart" {
		t.Errorf("File = %q, want %q", pos.File, "test.dart")
	}
	if pos.Line != 1 {
		t.Errorf("Line = %d, want %d", pos.Line, 1)
	}
	if pos.Column != 1 {
		t.Errorf("Column = %d, want %d", pos.Column, 1)
	}
	if pos.Offset != 0 {
		t.Errorf("Offset = %d, want %d", pos.Offset, 0)
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"class", TokenClass},
		{"abstract", TokenAbstract},
		{"sealed", TokenSealed},
		{"base", TokenBase},
		{"factory", TokenFactory},
		{"const", TokenConst},
		{"final", TokenFinal},
		{"required", TokenRequired},
		{"covariant", TokenCovariant},
		{"this", TokenThis},
		{"super", TokenSuper},
		{"enum", TokenEnum},
		{"mixin", TokenMixin},
		{"extension", TokenExtension},
		{"dynamic", TokenDynamic},
		{"true", TokenTrue},
		{"false", TokenFalse},
		{"null", TokenNull},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.dart")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []string{
		"foo",
		"Bar",
		"_private",
		"_$Person",
		"$special",
		"camelCase",
		"SCREAMING_CASE",
		"with123Numbers",
		"int",
		"String",
		"DateTime",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lexer := NewLexer([]byte(input), "test.dart")
			tok := lexer.NextToken()
			if tok.Kind != TokenIdent {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenIdent)
			}
			if tok.Literal != input {
				t.Errorf("Literal = %q, want %q", tok.Literal, input)
			}
		})
	}
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"(", TokenLParen},
		{")", TokenRParen},
		{"{", TokenLBrace},
		{"}", TokenRBrace},
		{"[", TokenLBracket},
		{"]", TokenRBracket},
		{";", TokenSemicolon},
		{",", TokenComma},
		{".", TokenDot},
		{"...", TokenEllipsis},
		{"@", TokenAt},
		{":", TokenColon},
		{"=", TokenAssign},
		{"==", TokenEQ},
		{"!=", TokenNE},
		{"=>", TokenArrow},
		{"<", TokenLT},
		{"<=", TokenLE},
		{">", TokenGT},
		{">=", TokenGE},
		{"?", TokenQuestion},
		{"?.", TokenQuestionDot},
		{"??", TokenQuestionQuestion},
		{"~/", TokenTildeSlash},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.dart")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"0", TokenIntLiteral},
		{"42", TokenIntLiteral},
		{"0xFF", TokenIntLiteral},
		{"3.14", TokenFloatLiteral},
		{"1e10", TokenFloatLiteral},
		{"2.5e-3", TokenFloatLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.dart")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"single quoted", `'hello'`},
		{"double quoted", `"hello"`},
		{"escaped quote", `'it\'s'`},
		{"interpolation", `'value: ${a + b}'`},
		{"nested string in interpolation", `'${m['key']}'`},
		{"raw string", `r'no \escapes'`},
		{"multiline", `'''line one
line two'''`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.dart")
			tok := lexer.NextToken()
			if tok.Kind != TokenStringLiteral {
				t.Fatalf("Kind = %v, want %v", tok.Kind, TokenStringLiteral)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
			if next := lexer.NextToken(); next.Kind != TokenEOF {
				t.Errorf("trailing token %v, want EOF", next.Kind)
			}
		})
	}
}

func TestLexerComments(t *testing.T) {
	lexer := NewLexer([]byte("// line\n/* block /* nested */ */ x"), "test.dart")

	tok := lexer.NextToken()
	if tok.Kind != TokenLineComment {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenLineComment)
	}
	if tok.Literal != "// line" {
		t.Errorf("Literal = %q, want %q", tok.Literal, "// line")
	}

	tok = lexer.NextToken()
	if tok.Kind != TokenWhitespace {
		t.Fatalf("Kind = %v, want %v", tok.Kind, TokenWhitespace)
	}

	tok = lexer.NextToken()
	if tok.Kind != TokenComment {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenComment)
	}
	if tok.Literal != "/* block /* nested */ */" {
		t.Errorf("Literal = %q, want %q", tok.Literal, "/* block /* nested */ */")
	}
}

func TestLexerCoversEveryByte(t *testing.T) {
	input := []byte("@freezed\nclass Person {\n  const factory Person({required String name}) = _Person;\n}\n")
	lexer := NewLexer(input, "person.dart")

	offset := 0
	for _, tok := range lexer.Tokens() {
		if tok.Kind == TokenEOF {
			break
		}
		if tok.Span.Start.Offset != offset {
			t.Fatalf("gap before token %v at offset %d, expected %d", tok.Kind, tok.Span.Start.Offset, offset)
		}
		offset = tok.Span.End.Offset
	}
	if offset != len(input) {
		t.Errorf("tokens cover %d bytes, want %d", offset, len(input))
	}
}

func TestLexerPositions(t *testing.T) {
	lexer := NewLexer([]byte("a\n  b"), "test.dart")

	tok := lexer.NextToken()
	if tok.Span.Start.Line != 1 || tok.Span.Start.Column != 1 {
		t.Errorf("a at %d:%d, want 1:1", tok.Span.Start.Line, tok.Span.Start.Column)
	}

	lexer.NextToken() // whitespace

	tok = lexer.NextToken()
	if tok.Literal != "b" {
		t.Fatalf("Literal = %q, want %q", tok.Literal, "b")
	}
	if tok.Span.Start.Line != 2 || tok.Span.Start.Column != 3 {
		t.Errorf("b at %d:%d, want 2:3", tok.Span.Start.Line, tok.Span.Start.Column)
	}
}

func TestLexerUnicodeIdentifiers(t *testing.T) {
	tests := []string{
		"café",
		"über",
		"naïve_$1",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lexer := NewLexer([]byte(input), "test.dart")
			tok := lexer.NextToken()
			if tok.Kind != TokenIdent {
				t.Fatalf("Kind = %v, want %v", tok.Kind, TokenIdent)
			}
			if tok.Literal != input {
				t.Errorf("Literal = %q, want %q", tok.Literal, input)
			}
			if next := lexer.NextToken(); next.Kind != TokenEOF {
				t.Errorf("trailing token %v %q, want EOF", next.Kind, next.Literal)
			}
		})
	}
}
