package gen

import (
	"fmt"
	"strings"

	"github.com/Apeiron-Software/faster-freezed/dart"
)

// writeMixin emits the _$Name mixin the annotated class applies: abstract
// getters for every field plus the shared value-semantics members.
func writeMixin(w *strings.Builder, c *dart.ClassModel) {
	fmt.Fprintf(w, "mixin _$%s {\n", c.Name)
	for i := range c.Fields {
		f := &c.Fields[i]
		fmt.Fprintf(w, "  %s get %s;\n", f.RawType, f.Name)
	}
	if len(c.Fields) > 0 {
		w.WriteString("\n")
	}
	writeEquality(w, "_$"+c.Name, c.Fields)
	w.WriteString("\n")
	writeHashCode(w, c.Fields)
	w.WriteString("\n")
	writeToString(w, c)
	if c.CanCopyWith() && len(c.Fields) > 0 {
		w.WriteString("\n")
		writeCopyWithDecl(w, c)
	}
	if c.HasFromJSON {
		w.WriteString("\n  Map<String, dynamic> toJson();\n")
	}
	w.WriteString("}\n")
}

func writeEquality(w *strings.Builder, typeName string, fields []dart.FieldSpec) {
	w.WriteString("  @override\n")
	w.WriteString("  bool operator ==(Object other) {\n")
	w.WriteString("    return identical(this, other) ||\n")
	w.WriteString("        (other.runtimeType == runtimeType &&\n")
	fmt.Fprintf(w, "            other is %s", typeName)
	for i := range fields {
		w.WriteString(" &&\n            ")
		w.WriteString(equalityCheck(&fields[i]))
	}
	w.WriteString(");\n  }\n")
}

// equalityCheck compares one field. Collections go through
// DeepCollectionEquality so structurally equal instances compare equal;
// everything else uses identity-then-== like hand-written value classes do.
func equalityCheck(f *dart.FieldSpec) string {
	if f.Shape != nil && f.Shape.IsCollection() {
		return fmt.Sprintf("const DeepCollectionEquality().equals(other.%s, %s)", f.Name, f.Name)
	}
	return fmt.Sprintf("(identical(other.%s, %s) || other.%s == %s)", f.Name, f.Name, f.Name, f.Name)
}

// writeHashCode mixes runtimeType with every field. Object.hash takes at
// most 20 arguments, so wider classes switch to Object.hashAll.
func writeHashCode(w *strings.Builder, fields []dart.FieldSpec) {
	if len(fields) == 0 {
		w.WriteString("  @override\n  int get hashCode => runtimeType.hashCode;\n")
		return
	}
	wide := len(fields) > 19
	if wide {
		w.WriteString("  @override\n  int get hashCode => Object.hashAll([\n        runtimeType,\n")
	} else {
		w.WriteString("  @override\n  int get hashCode => Object.hash(\n        runtimeType,\n")
	}
	for i := range fields {
		fmt.Fprintf(w, "        %s,\n", hashTerm(&fields[i]))
	}
	if wide {
		w.WriteString("      ]);\n")
	} else {
		w.WriteString("      );\n")
	}
}

func hashTerm(f *dart.FieldSpec) string {
	if f.Shape != nil && f.Shape.IsCollection() {
		return fmt.Sprintf("const DeepCollectionEquality().hash(%s)", f.Name)
	}
	return f.Name
}

func writeToString(w *strings.Builder, c *dart.ClassModel) {
	parts := make([]string, len(c.Fields))
	for i := range c.Fields {
		parts[i] = fmt.Sprintf("%s: $%s", c.Fields[i].Name, c.Fields[i].Name)
	}
	w.WriteString("  @override\n  String toString() {\n")
	fmt.Fprintf(w, "    return '%s(%s)';\n", c.Name, strings.Join(parts, ", "))
	w.WriteString("  }\n")
}
