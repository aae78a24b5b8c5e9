package parser

import (
	"strings"

	"github.com/Apeiron-Software/faster-freezed/diag"
)

// Parameter is one entry of a constructor parameter list. Type and Default
// are verbatim source text; neither is evaluated.
type Parameter struct {
	Name               string
	Type               string
	Named              bool
	OptionalPositional bool
	Required           bool
	Default            string
	Annotations        []Annotation
	Span               Span
}

type section int

const (
	sectionPositional section = iota
	sectionOptional           // [ ... ] with defaults
	sectionNamed              // { ... }
)

// ParseSignature splits a captured parameter-list token span into individual
// parameters. Entries are separated at top-level commas; commas nested in
// parentheses, brackets, braces or generic angle brackets belong to the
// entry. Parameters that cannot be parsed are reported and dropped, never
// aborting the rest of the list.
func ParseSignature(src []byte, toks []Token, file string, col *diag.Collector) []Parameter {
	var params []Parameter
	sec := sectionPositional
	depth := delimDepth{}
	var entry []Token

	flush := func() {
		if len(entry) == 0 {
			return
		}
		if p, ok := parseEntry(src, entry, sec, file, col); ok {
			params = append(params, p)
		}
		entry = nil
	}

	for i, tok := range toks {
		prev := TokenEOF
		if i > 0 {
			prev = toks[i-1].Kind
		}
		if depth.zero() {
			switch tok.Kind {
			case TokenComma:
				flush()
				continue
			case TokenLBrace:
				if len(entry) == 0 && sec == sectionPositional {
					sec = sectionNamed
					continue
				}
			case TokenRBrace:
				if sec == sectionNamed && depth.brace == 0 {
					flush()
					continue
				}
			case TokenLBracket:
				if len(entry) == 0 && sec == sectionPositional {
					sec = sectionOptional
					continue
				}
			case TokenRBracket:
				if sec == sectionOptional && depth.bracket == 0 {
					flush()
					continue
				}
			}
		}
		depth.track(prev, tok)
		entry = append(entry, tok)
	}
	flush()
	return params
}

func parseEntry(src []byte, toks []Token, sec section, file string, col *diag.Collector) (Parameter, bool) {
	p := Parameter{
		Named:              sec == sectionNamed,
		OptionalPositional: sec == sectionOptional,
		Span:               Span{Start: toks[0].Span.Start, End: toks[len(toks)-1].Span.End},
	}

	i := 0
	for i < len(toks) && toks[i].Kind == TokenAt {
		ann, next, ok := parseInlineAnnotation(src, toks, i)
		if !ok {
			col.Errorf(file, toks[i].Span.Start.Line, toks[i].Span.Start.Column,
				"malformed parameter annotation")
			return Parameter{}, false
		}
		p.Annotations = append(p.Annotations, ann)
		i = next
	}

	if i < len(toks) && toks[i].Kind == TokenRequired {
		p.Required = true
		i++
	}
	for i < len(toks) && (toks[i].Kind == TokenCovariant || toks[i].Kind == TokenFinal) {
		i++
	}

	if i >= len(toks) {
		col.Errorf(file, p.Span.Start.Line, p.Span.Start.Column, "empty parameter declaration")
		return Parameter{}, false
	}

	// Locate a top-level default-value separator ('=' in modern Dart, ':'
	// in the legacy named-parameter form).
	defaultIdx := -1
	depth := delimDepth{}
	for j := i; j < len(toks); j++ {
		prev := TokenEOF
		if j > 0 {
			prev = toks[j-1].Kind
		}
		if depth.zero() && (toks[j].Kind == TokenAssign || toks[j].Kind == TokenColon) {
			defaultIdx = j
			break
		}
		depth.track(prev, toks[j])
	}

	declEnd := len(toks)
	if defaultIdx >= 0 {
		declEnd = defaultIdx
		if defaultIdx+1 < len(toks) {
			first := toks[defaultIdx+1].Span.Start.Offset
			last := toks[len(toks)-1].Span.End.Offset
			p.Default = strings.TrimSpace(string(src[first:last]))
		}
	}

	if declEnd-i < 1 || toks[declEnd-1].Kind != TokenIdent {
		col.Errorf(file, p.Span.Start.Line, p.Span.Start.Column,
			"expected parameter name")
		return Parameter{}, false
	}
	if declEnd-i == 1 {
		col.Errorf(file, p.Span.Start.Line, p.Span.Start.Column,
			"parameter %q is missing a type; parameter types are mandatory", toks[declEnd-1].Literal)
		return Parameter{}, false
	}
	if toks[i].Kind == TokenThis || toks[i].Kind == TokenSuper {
		col.Errorf(file, p.Span.Start.Line, p.Span.Start.Column,
			"field formal parameters are not supported in redirecting factory constructors")
		return Parameter{}, false
	}

	p.Name = toks[declEnd-1].Literal
	typeStart := toks[i].Span.Start.Offset
	typeEnd := toks[declEnd-2].Span.End.Offset
	p.Type = strings.TrimSpace(string(src[typeStart:typeEnd]))

	if p.Required && (p.Default != "" || hasDefaultAnnotation(p.Annotations)) {
		col.Warnf(file, p.Span.Start.Line, p.Span.Start.Column,
			"parameter %q is required and has a default value; the default is ignored", p.Name)
	}
	return p, true
}

func hasDefaultAnnotation(anns []Annotation) bool {
	for _, a := range anns {
		if a.Name == "Default" {
			return true
		}
	}
	return false
}

// parseInlineAnnotation parses @name or @name(args...) from a token slice,
// returning the index of the first token after the annotation.
func parseInlineAnnotation(src []byte, toks []Token, i int) (Annotation, int, bool) {
	start := toks[i].Span.Start
	i++ // '@'
	if i >= len(toks) || toks[i].Kind != TokenIdent {
		return Annotation{}, i, false
	}
	name := toks[i].Literal
	i++
	for i+1 < len(toks) && toks[i].Kind == TokenDot && toks[i+1].Kind == TokenIdent {
		name += "." + toks[i+1].Literal
		i += 2
	}
	ann := Annotation{Name: name}
	if i < len(toks) && toks[i].Kind == TokenLParen {
		i++ // '('
		depth := delimDepth{}
		argStart := -1
		flush := func(endOffset int) {
			if argStart < 0 {
				return
			}
			if text := strings.TrimSpace(string(src[argStart:endOffset])); text != "" {
				ann.Args = append(ann.Args, text)
			}
			argStart = -1
		}
		for ; i < len(toks); i++ {
			tok := toks[i]
			if depth.zero() {
				if tok.Kind == TokenRParen {
					flush(tok.Span.Start.Offset)
					ann.Span = Span{Start: start, End: tok.Span.End}
					return ann, i + 1, true
				}
				if tok.Kind == TokenComma {
					flush(tok.Span.Start.Offset)
					continue
				}
			}
			if argStart < 0 {
				argStart = tok.Span.Start.Offset
			}
			depth.track(toks[i-1].Kind, tok)
		}
		return Annotation{}, i, false
	}
	ann.Span = Span{Start: start, End: toks[i-1].Span.End}
	return ann, i, true
}
