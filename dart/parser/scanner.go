package parser

import (
	"strings"

	"github.com/Apeiron-Software/faster-freezed/diag"
)

// Annotation is a single @name or @name(...) marker. Argument expressions
// are captured as opaque text, split at top-level commas, never evaluated.
type Annotation struct {
	Name string
	Args []string
	Span Span
}

// Constructor is a redirecting factory constructor captured from a class
// body: `const factory Person(...) = _Person;`. Params holds the token span
// between the outer parentheses; the raw source stays available through the
// scanner for verbatim slicing.
type Constructor struct {
	IsConst     bool
	Name        string // "" for the unnamed constructor
	RedirectsTo string
	Params      []Token
	Annotations []Annotation // member annotations preceding the factory
	Span        Span
}

// ClassDecl is one class declaration guarded by the @freezed marker.
type ClassDecl struct {
	Name             string
	Annotations      []Annotation
	Constructors     []Constructor
	HasFromJSON      bool
	HasPrivateCtor   bool
	PrivateCtorConst bool
	Span             Span
}

// MarkerAnnotation guards declarations the scanner models; everything else
// is skipped with balanced-delimiter tracking so scanning position stays
// valid.
const MarkerAnnotation = "freezed"

// Scanner locates annotated class declarations in a token stream without
// building a full syntax tree. Method bodies and unannotated declarations
// are skipped by balancing delimiters.
type Scanner struct {
	src      []byte
	file     string
	toks     []Token
	comments []Token
	pos      int
	col      *diag.Collector
}

func NewScanner(src []byte, file string, col *diag.Collector) *Scanner {
	lexer := NewLexer(src, file)
	var toks, comments []Token
	for {
		tok := lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenComment, TokenLineComment:
			comments = append(comments, tok)
			continue
		case TokenError:
			col.Warnf(file, tok.Span.Start.Line, tok.Span.Start.Column,
				"unrecognized character %q", tok.Literal)
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return &Scanner{src: src, file: file, toks: toks, comments: comments, col: col}
		}
	}
}

// Source returns the raw input so downstream stages can slice verbatim text
// out of token spans.
func (s *Scanner) Source() []byte { return s.src }

func (s *Scanner) Comments() []Token { return s.comments }

func (s *Scanner) cur() Token  { return s.toks[s.pos] }
func (s *Scanner) atEOF() bool { return s.cur().Kind == TokenEOF }

func (s *Scanner) peekKind(n int) TokenKind {
	if s.pos+n >= len(s.toks) {
		return TokenEOF
	}
	return s.toks[s.pos+n].Kind
}

func (s *Scanner) peekLit(n int) string {
	if s.pos+n >= len(s.toks) {
		return ""
	}
	return s.toks[s.pos+n].Literal
}

func (s *Scanner) next() Token {
	tok := s.cur()
	if tok.Kind != TokenEOF {
		s.pos++
	}
	return tok
}

// Scan walks the whole token stream and returns every marker-annotated
// class declaration in source order.
func (s *Scanner) Scan() []ClassDecl {
	var decls []ClassDecl
	var pending []Annotation

	for !s.atEOF() {
		tok := s.cur()
		switch tok.Kind {
		case TokenAt:
			if ann, ok := s.parseAnnotation(); ok {
				pending = append(pending, ann)
			}
		case TokenAbstract, TokenBase, TokenSealed, TokenFinal:
			// Modifier between annotation run and the declaration itself.
			s.next()
		case TokenClass:
			if hasMarker(pending) {
				if decl, ok := s.parseClass(pending); ok {
					decls = append(decls, decl)
				} else {
					s.recoverToTopLevel()
				}
			} else {
				s.skipDeclaration()
			}
			pending = nil
		case TokenEnum, TokenMixin, TokenExtension:
			s.skipDeclaration()
			pending = nil
		default:
			s.next()
			if tok.Kind == TokenSemicolon || tok.Kind == TokenRBrace {
				pending = nil
			}
		}
	}
	return decls
}

func hasMarker(anns []Annotation) bool {
	for _, a := range anns {
		if a.Name == MarkerAnnotation {
			return true
		}
	}
	return false
}

func (s *Scanner) parseAnnotation() (Annotation, bool) {
	start := s.next().Span.Start // '@'
	if s.cur().Kind != TokenIdent {
		s.col.Errorf(s.file, start.Line, start.Column, "expected annotation name after '@'")
		return Annotation{}, false
	}
	name := s.next().Literal
	for s.cur().Kind == TokenDot && s.peekKind(1) == TokenIdent {
		s.next()
		name += "." + s.next().Literal
	}

	ann := Annotation{Name: name}
	if s.cur().Kind == TokenLParen {
		args, end, ok := s.captureArguments()
		if !ok {
			s.col.Errorf(s.file, start.Line, start.Column,
				"unterminated argument list for annotation @%s", name)
			return Annotation{}, false
		}
		ann.Args = args
		ann.Span = Span{Start: start, End: end}
		return ann, true
	}
	ann.Span = Span{Start: start, End: s.toks[s.pos-1].Span.End}
	return ann, true
}

// captureArguments consumes a balanced parenthesized argument list and
// returns the verbatim argument texts, split at top-level commas.
func (s *Scanner) captureArguments() ([]string, Position, bool) {
	s.next() // '('
	var args []string
	depth := delimDepth{}
	argStart := -1
	flush := func(endOffset int) {
		if argStart < 0 {
			return
		}
		text := strings.TrimSpace(string(s.src[argStart:endOffset]))
		if text != "" {
			args = append(args, text)
		}
		argStart = -1
	}

	for !s.atEOF() {
		tok := s.cur()
		if depth.zero() {
			switch tok.Kind {
			case TokenRParen:
				flush(tok.Span.Start.Offset)
				s.next()
				return args, tok.Span.End, true
			case TokenComma:
				flush(tok.Span.Start.Offset)
				s.next()
				continue
			}
		}
		if argStart < 0 {
			argStart = tok.Span.Start.Offset
		}
		depth.track(s.prevKind(), tok)
		s.next()
	}
	return nil, Position{}, false
}

func (s *Scanner) prevKind() TokenKind {
	if s.pos == 0 {
		return TokenEOF
	}
	return s.toks[s.pos-1].Kind
}

// delimDepth tracks nesting of (), [], {} and — heuristically — <> so that
// commas inside nested expressions and generic type arguments do not split
// the enclosing list. '<' only opens a generic context when it follows an
// identifier or a closing '>' / ']', which rules out comparison operators.
type delimDepth struct {
	paren, bracket, brace, angle int
}

func (d *delimDepth) zero() bool {
	return d.paren == 0 && d.bracket == 0 && d.brace == 0 && d.angle == 0
}

func (d *delimDepth) track(prev TokenKind, tok Token) {
	switch tok.Kind {
	case TokenLParen:
		d.paren++
	case TokenRParen:
		d.paren--
	case TokenLBracket:
		d.bracket++
	case TokenRBracket:
		d.bracket--
	case TokenLBrace:
		d.brace++
	case TokenRBrace:
		d.brace--
	case TokenLT:
		switch prev {
		case TokenIdent, TokenGT, TokenRBracket, TokenDynamic:
			d.angle++
		}
	case TokenGT:
		if d.angle > 0 {
			d.angle--
		}
	}
}

// parseClass consumes a marker-annotated class declaration. On malformed
// input it reports an Error diagnostic and returns ok=false; the caller
// performs best-effort recovery.
func (s *Scanner) parseClass(anns []Annotation) (ClassDecl, bool) {
	start := s.next().Span.Start // 'class'
	if s.cur().Kind != TokenIdent {
		s.col.Errorf(s.file, start.Line, start.Column, "expected class name after 'class'")
		return ClassDecl{}, false
	}
	name := s.next().Literal
	decl := ClassDecl{Name: name, Annotations: anns}

	// Header: generics, with/extends/implements clauses, up to the body.
	for s.cur().Kind != TokenLBrace {
		if s.atEOF() || s.cur().Kind == TokenSemicolon {
			s.col.Errorf(s.file, start.Line, start.Column,
				"class %s has no body", name)
			return ClassDecl{}, false
		}
		s.next()
	}
	s.next() // '{'

	var memberAnns []Annotation
	for {
		tok := s.cur()
		switch tok.Kind {
		case TokenEOF:
			s.col.Errorf(s.file, start.Line, start.Column,
				"unterminated body of class %s", name)
			return ClassDecl{}, false
		case TokenRBrace:
			s.next()
			decl.Span = Span{Start: start, End: tok.Span.End}
			return decl, true
		case TokenAt:
			if ann, ok := s.parseAnnotation(); ok {
				memberAnns = append(memberAnns, ann)
			}
		case TokenConst:
			if s.peekKind(1) == TokenFactory {
				s.next()
				if !s.parseFactory(&decl, true, memberAnns) {
					return ClassDecl{}, false
				}
			} else if s.peekKind(1) == TokenIdent && s.peekLit(1) == name {
				s.next()
				s.parseGenerativeCtor(&decl, true)
			} else {
				if !s.skipMember() {
					s.col.Errorf(s.file, tok.Span.Start.Line, tok.Span.Start.Column,
						"unbalanced delimiters in body of class %s", name)
					return ClassDecl{}, false
				}
			}
			memberAnns = nil
		case TokenFactory:
			if !s.parseFactory(&decl, false, memberAnns) {
				return ClassDecl{}, false
			}
			memberAnns = nil
		case TokenIdent:
			if tok.Literal == name && (s.peekKind(1) == TokenDot || s.peekKind(1) == TokenLParen) {
				s.parseGenerativeCtor(&decl, false)
			} else if !s.skipMember() {
				s.col.Errorf(s.file, tok.Span.Start.Line, tok.Span.Start.Column,
					"unbalanced delimiters in body of class %s", name)
				return ClassDecl{}, false
			}
			memberAnns = nil
		default:
			if !s.skipMember() {
				s.col.Errorf(s.file, tok.Span.Start.Line, tok.Span.Start.Column,
					"unbalanced delimiters in body of class %s", name)
				return ClassDecl{}, false
			}
			memberAnns = nil
		}
	}
}

// parseFactory handles `factory Name(...) = _Name;`, `factory Name.ctor(...)
// = _Name.ctor;` and the `factory Name.fromJson(...)` form. Positioned on
// the 'factory' keyword. Member annotations preceding the factory travel
// with the captured constructor.
func (s *Scanner) parseFactory(decl *ClassDecl, isConst bool, anns []Annotation) bool {
	start := s.next().Span.Start // 'factory'
	if s.cur().Kind != TokenIdent {
		s.col.Errorf(s.file, start.Line, start.Column, "expected class name after 'factory'")
		return s.skipMember()
	}
	s.next() // class name
	ctorName := ""
	if s.cur().Kind == TokenDot && s.peekKind(1) == TokenIdent {
		s.next()
		ctorName = s.next().Literal
	}

	if ctorName == "fromJson" {
		decl.HasFromJSON = true
		return s.skipMember()
	}

	if s.cur().Kind != TokenLParen {
		return s.skipMember()
	}
	params, ok := s.captureParameterSpan()
	if !ok {
		s.col.Errorf(s.file, start.Line, start.Column,
			"unbalanced parameter list in factory constructor of %s", decl.Name)
		return false
	}

	if s.cur().Kind != TokenAssign {
		// Factory with a body rather than a redirect; not a shape we model.
		return s.skipMember()
	}
	s.next() // '='
	if s.cur().Kind != TokenIdent {
		s.col.Errorf(s.file, start.Line, start.Column,
			"expected redirect target after '=' in factory constructor of %s", decl.Name)
		return s.skipMember()
	}
	redirect := s.next().Literal
	for s.cur().Kind != TokenSemicolon && !s.atEOF() {
		s.next() // generic arguments or '.name' suffix on the target
	}
	end := s.cur().Span.End
	s.next() // ';'

	decl.Constructors = append(decl.Constructors, Constructor{
		IsConst:     isConst,
		Name:        ctorName,
		RedirectsTo: redirect,
		Params:      params,
		Annotations: anns,
		Span:        Span{Start: start, End: end},
	})
	return true
}

// captureParameterSpan consumes a balanced parameter list and returns the
// tokens strictly between the outer parentheses. Nested delimiters inside
// default-value expressions are tracked and do not close the span.
func (s *Scanner) captureParameterSpan() ([]Token, bool) {
	s.next() // '('
	var span []Token
	depth := delimDepth{}
	for !s.atEOF() {
		tok := s.cur()
		if depth.zero() && tok.Kind == TokenRParen {
			s.next()
			return span, true
		}
		depth.track(s.prevKind(), tok)
		span = append(span, tok)
		s.next()
	}
	return nil, false
}

// parseGenerativeCtor recognizes the private `Name._()` constructor variant.
// Positioned on the class-name identifier.
func (s *Scanner) parseGenerativeCtor(decl *ClassDecl, isConst bool) {
	s.next() // class name
	private := false
	if s.cur().Kind == TokenDot && s.peekKind(1) == TokenIdent && s.peekLit(1) == "_" {
		private = true
	}
	if private {
		decl.HasPrivateCtor = true
		decl.PrivateCtorConst = decl.PrivateCtorConst || isConst
	}
	s.skipMember()
}

// skipMember consumes one class member: everything up to a top-level ';',
// or a balanced '{...}' body. Returns false when delimiters stay unbalanced
// until end of input.
func (s *Scanner) skipMember() bool {
	depth := delimDepth{}
	for !s.atEOF() {
		tok := s.cur()
		if depth.zero() {
			switch tok.Kind {
			case TokenSemicolon:
				s.next()
				return true
			case TokenLBrace:
				s.next()
				return s.skipBalancedBraces(1)
			case TokenRBrace:
				// Do not consume the class's closing brace.
				return true
			}
		}
		depth.track(s.prevKind(), tok)
		s.next()
	}
	return false
}

func (s *Scanner) skipBalancedBraces(depth int) bool {
	for !s.atEOF() {
		switch s.next().Kind {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// skipDeclaration consumes a declaration the scanner does not model,
// keeping the stream position valid.
func (s *Scanner) skipDeclaration() {
	s.next() // 'class' / 'enum' / 'mixin' / 'extension'
	for !s.atEOF() {
		switch s.cur().Kind {
		case TokenSemicolon:
			s.next()
			return
		case TokenLBrace:
			s.next()
			s.skipBalancedBraces(1)
			return
		}
		s.next()
	}
}

// recoverToTopLevel advances past a malformed declaration to the next
// plausible top-level declaration boundary.
func (s *Scanner) recoverToTopLevel() {
	for !s.atEOF() {
		switch s.cur().Kind {
		case TokenClass, TokenEnum, TokenMixin:
			return
		}
		s.next()
	}
}
