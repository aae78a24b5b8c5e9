package dart

import "strings"

// ShapeKind classifies a field's declared type into the closed set of
// shapes the generator knows how to handle.
type ShapeKind int

const (
	ShapeOpaque ShapeKind = iota
	ShapePrimitive
	ShapeNullable
	ShapeList
	ShapeSet
	ShapeMap
	ShapeClassRef
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeOpaque:
		return "Opaque"
	case ShapePrimitive:
		return "Primitive"
	case ShapeNullable:
		return "Nullable"
	case ShapeList:
		return "ListOf"
	case ShapeSet:
		return "SetOf"
	case ShapeMap:
		return "MapOf"
	case ShapeClassRef:
		return "ClassRef"
	}
	return "Unknown"
}

// TypeShape is the recursive classification of a type expression.
// Nullability is a wrapper shape, so Nullable(ListOf(Nullable(ClassRef)))
// composes naturally. For Opaque shapes Name holds the raw type text.
type TypeShape struct {
	Kind ShapeKind
	Name string
	Args []*TypeShape
}

// Primitives recognized without a name-table lookup.
var builtinPrimitives = map[string]bool{
	"int":      true,
	"double":   true,
	"num":      true,
	"bool":     true,
	"String":   true,
	"DateTime": true,
	"dynamic":  true,
	"Object":   true,
}

// ParseTypeShape classifies a raw type expression. The result is pure and
// deterministic; class references stay tentative until Resolve runs against
// the batch name table. Text that does not parse as `name<args>?` becomes
// Opaque, never an error.
func ParseTypeShape(raw string) *TypeShape {
	tp := &shapeParser{s: raw}
	shape, ok := tp.parse()
	tp.skipSpace()
	if !ok || tp.i != len(tp.s) {
		return &TypeShape{Kind: ShapeOpaque, Name: strings.TrimSpace(raw)}
	}
	return shape
}

type shapeParser struct {
	s string
	i int
}

func (p *shapeParser) skipSpace() {
	for p.i < len(p.s) && (p.s[p.i] == ' ' || p.s[p.i] == '\t' || p.s[p.i] == '\n' || p.s[p.i] == '\r') {
		p.i++
	}
}

func (p *shapeParser) parse() (*TypeShape, bool) {
	p.skipSpace()
	name := p.ident()
	if name == "" {
		return nil, false
	}

	var args []*TypeShape
	p.skipSpace()
	if p.i < len(p.s) && p.s[p.i] == '<' {
		p.i++
		for {
			arg, ok := p.parse()
			if !ok {
				return nil, false
			}
			args = append(args, arg)
			p.skipSpace()
			if p.i < len(p.s) && p.s[p.i] == ',' {
				p.i++
				continue
			}
			break
		}
		if p.i >= len(p.s) || p.s[p.i] != '>' {
			return nil, false
		}
		p.i++
	}

	shape := classify(name, args)

	p.skipSpace()
	if p.i < len(p.s) && p.s[p.i] == '?' {
		p.i++
		shape = &TypeShape{Kind: ShapeNullable, Args: []*TypeShape{shape}}
	}
	return shape, true
}

func (p *shapeParser) ident() string {
	start := p.i
	for p.i < len(p.s) {
		c := p.s[p.i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '_' || c == '$' || c == '.' {
			p.i++
			continue
		}
		break
	}
	return p.s[start:p.i]
}

func classify(name string, args []*TypeShape) *TypeShape {
	switch name {
	case "List", "Set":
		kind := ShapeList
		if name == "Set" {
			kind = ShapeSet
		}
		if len(args) == 0 {
			args = []*TypeShape{{Kind: ShapePrimitive, Name: "dynamic"}}
		}
		if len(args) == 1 {
			return &TypeShape{Kind: kind, Name: name, Args: args}
		}
		return opaqueOf(name, args)
	case "Map":
		if len(args) == 0 {
			args = []*TypeShape{
				{Kind: ShapePrimitive, Name: "dynamic"},
				{Kind: ShapePrimitive, Name: "dynamic"},
			}
		}
		if len(args) == 2 {
			return &TypeShape{Kind: ShapeMap, Name: name, Args: args}
		}
		return opaqueOf(name, args)
	}
	if builtinPrimitives[name] && len(args) == 0 {
		return &TypeShape{Kind: ShapePrimitive, Name: name}
	}
	return &TypeShape{Kind: ShapeClassRef, Name: name, Args: args}
}

func opaqueOf(name string, args []*TypeShape) *TypeShape {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Raw()
	}
	return &TypeShape{Kind: ShapeOpaque, Name: name + "<" + strings.Join(parts, ", ") + ">"}
}

// Raw reconstructs a type expression equivalent to the one the shape was
// parsed from. Nesting is never lost, so Raw round-trips through
// ParseTypeShape.
func (s *TypeShape) Raw() string {
	switch s.Kind {
	case ShapeNullable:
		return s.Args[0].Raw() + "?"
	case ShapeList:
		return "List<" + s.Args[0].Raw() + ">"
	case ShapeSet:
		return "Set<" + s.Args[0].Raw() + ">"
	case ShapeMap:
		return "Map<" + s.Args[0].Raw() + ", " + s.Args[1].Raw() + ">"
	case ShapeClassRef:
		if len(s.Args) == 0 {
			return s.Name
		}
		parts := make([]string, len(s.Args))
		for i, a := range s.Args {
			parts[i] = a.Raw()
		}
		return s.Name + "<" + strings.Join(parts, ", ") + ">"
	default:
		return s.Name
	}
}

// Unwrap strips a Nullable wrapper, if any.
func (s *TypeShape) Unwrap() *TypeShape {
	if s.Kind == ShapeNullable {
		return s.Args[0]
	}
	return s
}

// IsCollection reports whether the shape (ignoring nullability) is a
// List, Set or Map.
func (s *TypeShape) IsCollection() bool {
	switch s.Unwrap().Kind {
	case ShapeList, ShapeSet, ShapeMap:
		return true
	}
	return false
}

// resolve finalizes tentative class references against the batch name
// table. Unknown names and shapes the generator cannot classify degrade to
// Opaque through report, never to a failure.
func (s *TypeShape) resolve(table map[string]*ClassModel, prims map[string]bool, report func(format string, args ...interface{})) *TypeShape {
	switch s.Kind {
	case ShapeNullable, ShapeList, ShapeSet, ShapeMap:
		args := make([]*TypeShape, len(s.Args))
		for i, a := range s.Args {
			args[i] = a.resolve(table, prims, report)
		}
		return &TypeShape{Kind: s.Kind, Name: s.Name, Args: args}
	case ShapeClassRef:
		if len(s.Args) > 0 {
			report("generic type %s is not supported; treating it as opaque", s.Raw())
			return &TypeShape{Kind: ShapeOpaque, Name: s.Raw()}
		}
		if prims[s.Name] {
			return &TypeShape{Kind: ShapePrimitive, Name: s.Name}
		}
		if _, ok := table[s.Name]; ok {
			return s
		}
		report("reference to %s cannot be resolved in this batch; generated code falls back to pass-through handling", s.Name)
		return &TypeShape{Kind: ShapeOpaque, Name: s.Name}
	case ShapeOpaque:
		report("type %s is not supported; generated code falls back to pass-through handling", s.Name)
		return s
	default:
		return s
	}
}
