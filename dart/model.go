// Package dart models Dart classes annotated for value-semantics code
// generation: their constructor parameters, resolved type shapes and
// capability flags.
package dart

import (
	"strings"

	"github.com/Apeiron-Software/faster-freezed/dart/parser"
)

// AnnotationRecord is an annotation attached to a class or a field. The
// recognized set is closed (the marker, Default, converters); anything else
// is retained opaquely and ignored by generation.
type AnnotationRecord struct {
	Name   string
	Args   []string
	Line   int
	Column int
}

// FieldSpec is one constructor parameter of an annotated class.
type FieldSpec struct {
	Name               string
	RawType            string
	Shape              *TypeShape
	Named              bool
	OptionalPositional bool
	Required           bool
	Default            string // verbatim `= expr` text, "" if none
	Annotations        []AnnotationRecord
	Line               int
	Column             int
}

func (f *FieldSpec) Nullable() bool {
	return f.Shape != nil && f.Shape.Kind == ShapeNullable
}

// HasDefault reports whether the field carries a default, either inline or
// through a @Default annotation.
func (f *FieldSpec) HasDefault() bool {
	return f.Default != "" || f.defaultAnnotationArg() != ""
}

func (f *FieldSpec) defaultAnnotationArg() string {
	for _, a := range f.Annotations {
		if a.Name == "Default" && len(a.Args) > 0 {
			return a.Args[0]
		}
	}
	return ""
}

// DefaultValue returns the Dart expression to use as the field's default.
// Collection and constructor-call expressions from @Default get a `const`
// prefix so they are usable as parameter defaults.
func (f *FieldSpec) DefaultValue() string {
	if f.Default != "" {
		return f.Default
	}
	arg := f.defaultAnnotationArg()
	if arg == "" {
		return ""
	}
	switch arg {
	case "true", "false", "null":
		return arg
	}
	if isNumericLiteral(arg) || isQuotedLiteral(arg) {
		return arg
	}
	if strings.HasSuffix(arg, ")") || strings.HasSuffix(arg, "]") || strings.HasSuffix(arg, "}") {
		if strings.HasPrefix(arg, "const ") {
			return arg
		}
		return "const " + arg
	}
	return arg
}

func isNumericLiteral(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' && c != '-' {
			return false
		}
	}
	return true
}

func isQuotedLiteral(s string) bool {
	return (strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'")) ||
		(strings.HasPrefix(s, "\"") && strings.HasSuffix(s, "\""))
}

// Converter returns the name of a custom JSON converter attached to the
// field, or "". A converter annotation is any annotation whose name ends in
// "Converter"; it overrides the shape-based JSON rules entirely.
func (f *FieldSpec) Converter() string {
	for _, a := range f.Annotations {
		if strings.HasSuffix(a.Name, "Converter") {
			return a.Name
		}
	}
	return ""
}

// ClassModel is one recognized annotated class. Models reference each other
// only by name through ClassRef shapes, resolved against the batch name
// table; they never own one another.
type ClassModel struct {
	Name            string
	File            string
	RedirectName    string // the generated implementation class, e.g. _Person
	Fields          []FieldSpec
	HasConstCtor    bool
	HasFromJSON     bool
	HasPrivateCtor  bool
	PositionalStyle bool
	Invalid         bool // an error diagnostic was reported while modeling this declaration
	Annotations     []AnnotationRecord
	Line            int
	Column          int
}

// CanCopyWith reports whether a copyWith method is generated: the class
// must expose a public unnamed redirecting constructor. A class whose only
// constructor variants are private or named has no canonical way to rebuild
// itself.
func (c *ClassModel) CanCopyWith() bool {
	return c.RedirectName != ""
}

func annotationRecords(anns []parser.Annotation) []AnnotationRecord {
	var out []AnnotationRecord
	for _, a := range anns {
		out = append(out, AnnotationRecord{
			Name:   a.Name,
			Args:   a.Args,
			Line:   a.Span.Start.Line,
			Column: a.Span.Start.Column,
		})
	}
	return out
}
