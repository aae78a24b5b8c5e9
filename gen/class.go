package gen

import (
	"fmt"
	"strings"

	"github.com/Apeiron-Software/faster-freezed/dart"
)

// writeImplClass emits the concrete class the redirecting constructor points
// at. A class with a private generative constructor is extended so the
// implementation can chain to super._(); otherwise the public class is just
// an interface to implement.
func writeImplClass(w *strings.Builder, c *dart.ClassModel) {
	rel := "implements"
	if c.HasPrivateCtor {
		rel = "extends"
	}
	fmt.Fprintf(w, "class %s %s %s {\n", c.RedirectName, rel, c.Name)
	writeCtor(w, c)
	if len(c.Fields) > 0 {
		w.WriteString("\n")
	}
	for i := range c.Fields {
		f := &c.Fields[i]
		fmt.Fprintf(w, "  @override\n  final %s %s;\n", f.RawType, f.Name)
	}
	if len(c.Fields) > 0 {
		w.WriteString("\n")
		writeCopyWithImpl(w, c)
	}
	if c.HasFromJSON {
		w.WriteString("\n  @override\n  Map<String, dynamic> toJson() {\n")
		fmt.Fprintf(w, "    return _$%sToJson(this);\n", c.Name)
		w.WriteString("  }\n")
	}
	w.WriteString("}\n")
}

func writeCtor(w *strings.Builder, c *dart.ClassModel) {
	var pos, opt, named []string
	for i := range c.Fields {
		f := &c.Fields[i]
		switch {
		case f.Named:
			named = append(named, ctorParam(f, true))
		case f.OptionalPositional:
			opt = append(opt, ctorParam(f, false))
		default:
			pos = append(pos, "this."+f.Name)
		}
	}
	parts := pos
	if len(opt) > 0 {
		parts = append(parts, "["+strings.Join(opt, ", ")+"]")
	}
	if len(named) > 0 {
		parts = append(parts, "{"+strings.Join(named, ", ")+"}")
	}
	kw := ""
	if c.HasConstCtor {
		kw = "const "
	}
	tail := ");"
	if c.HasPrivateCtor {
		tail = ") : super._();"
	}
	fmt.Fprintf(w, "  %s%s(%s%s\n", kw, c.RedirectName, strings.Join(parts, ", "), tail)
}

// ctorParam renders one named or optional-positional parameter. A required
// field never carries a default, even when one was declared; the parse stage
// already warned about that combination.
func ctorParam(f *dart.FieldSpec, allowRequired bool) string {
	if allowRequired && f.Required {
		return "required this." + f.Name
	}
	if def := f.DefaultValue(); def != "" {
		return fmt.Sprintf("this.%s = %s", f.Name, def)
	}
	return "this." + f.Name
}
