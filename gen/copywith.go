package gen

import (
	"fmt"
	"strings"

	"github.com/Apeiron-Software/faster-freezed/dart"
)

// writeCopyWithDecl emits the abstract copyWith signature in the mixin. All
// parameters are Object? so a nullable field can be set to null explicitly;
// the implementation's sentinel defaults distinguish "omitted" from null.
func writeCopyWithDecl(w *strings.Builder, c *dart.ClassModel) {
	params := make([]string, len(c.Fields))
	for i := range c.Fields {
		params[i] = "Object? " + c.Fields[i].Name
	}
	fmt.Fprintf(w, "  %s copyWith({%s});\n", c.Name, strings.Join(params, ", "))
}

// writeCopyWithImpl emits the concrete copyWith on the implementation class.
// Nullable fields default to the freezed sentinel so passing null overrides
// the current value; non-nullable fields use null itself as the sentinel
// since null is never a legal override for them.
func writeCopyWithImpl(w *strings.Builder, c *dart.ClassModel) {
	w.WriteString("  @override\n")
	fmt.Fprintf(w, "  %s copyWith({", c.Name)
	for i := range c.Fields {
		if i > 0 {
			w.WriteString(", ")
		}
		f := &c.Fields[i]
		if f.Nullable() {
			fmt.Fprintf(w, "Object? %s = freezed", f.Name)
		} else {
			fmt.Fprintf(w, "Object? %s = null", f.Name)
		}
	}
	w.WriteString("}) {\n")
	fmt.Fprintf(w, "    return %s(\n", c.RedirectName)
	for i := range c.Fields {
		f := &c.Fields[i]
		sentinel := "null"
		if f.Nullable() {
			sentinel = "freezed"
		}
		arg := fmt.Sprintf("%s == %s ? this.%s : %s as %s",
			sentinel, f.Name, f.Name, f.Name, f.RawType)
		if f.Named {
			fmt.Fprintf(w, "      %s: %s,\n", f.Name, arg)
		} else {
			fmt.Fprintf(w, "      %s,\n", arg)
		}
	}
	w.WriteString("    );\n  }\n")
}
