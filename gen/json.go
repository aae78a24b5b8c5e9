package gen

import (
	"fmt"
	"strings"

	"github.com/Apeiron-Software/faster-freezed/dart"
)

// writeJSONFunctions emits the top-level _$NameFromJson and _$NameToJson
// functions backing the class's fromJson factory and toJson method.
func writeJSONFunctions(w *strings.Builder, c *dart.ClassModel) {
	writeFromJSON(w, c)
	w.WriteString("\n")
	writeToJSON(w, c)
	w.WriteString("\n")
}

func writeFromJSON(w *strings.Builder, c *dart.ClassModel) {
	fmt.Fprintf(w, "%s _$%sFromJson(Map<String, dynamic> json) {\n", c.RedirectName, c.Name)
	for i := range c.Fields {
		f := &c.Fields[i]
		if f.Required && !f.HasDefault() {
			fmt.Fprintf(w, "  if (!json.containsKey('%s')) {\n", f.Name)
			fmt.Fprintf(w, "    throw FormatException(\"missing required key '%s' for %s\");\n", f.Name, c.Name)
			w.WriteString("  }\n")
		}
	}
	fmt.Fprintf(w, "  return %s(\n", c.RedirectName)
	for i := range c.Fields {
		f := &c.Fields[i]
		if f.Named {
			fmt.Fprintf(w, "    %s: %s,\n", f.Name, fieldDecode(f))
		} else {
			fmt.Fprintf(w, "    %s,\n", fieldDecode(f))
		}
	}
	w.WriteString("  );\n}\n")
}

func writeToJSON(w *strings.Builder, c *dart.ClassModel) {
	fmt.Fprintf(w, "Map<String, dynamic> _$%sToJson(%s instance) => <String, dynamic>{\n", c.Name, c.RedirectName)
	for i := range c.Fields {
		f := &c.Fields[i]
		fmt.Fprintf(w, "      '%s': %s,\n", f.Name, fieldEncode(f))
	}
	w.WriteString("    };\n")
}

// fieldDecode builds the expression restoring one constructor argument from
// the json map. A converter annotation bypasses the shape rules entirely, a
// default value is applied when the key is absent.
func fieldDecode(f *dart.FieldSpec) string {
	src := fmt.Sprintf("json['%s']", f.Name)
	if conv := f.Converter(); conv != "" {
		call := fmt.Sprintf("const %s().fromJson(%s)", conv, src)
		if f.Nullable() {
			return fmt.Sprintf("%s == null ? null : %s", src, call)
		}
		return call
	}
	expr := decodeExpr(f.Shape, src, 0)
	if f.HasDefault() && !f.Required {
		return fmt.Sprintf("json.containsKey('%s') ? %s : %s", f.Name, expr, f.DefaultValue())
	}
	return expr
}

func fieldEncode(f *dart.FieldSpec) string {
	val := "instance." + f.Name
	if conv := f.Converter(); conv != "" {
		call := fmt.Sprintf("const %s().toJson(%s)", conv, val)
		if f.Nullable() {
			return fmt.Sprintf("%s == null ? null : %s", val, call)
		}
		return call
	}
	return encodeExpr(f.Shape, val, 0)
}

// lambdaVar names closure parameters so nested collection conversions do not
// shadow each other.
func lambdaVar(base string, depth int) string {
	if depth == 0 {
		return base
	}
	return fmt.Sprintf("%s%d", base, depth)
}

// decodeExpr converts the raw JSON value expr into the shape's Dart type.
// Opaque shapes pass through unconverted; resolution already warned about
// them.
func decodeExpr(s *dart.TypeShape, expr string, depth int) string {
	switch s.Kind {
	case dart.ShapeNullable:
		return decodeNullable(s.Args[0], expr, depth)
	case dart.ShapePrimitive:
		return decodePrimitive(s.Name, expr)
	case dart.ShapeList, dart.ShapeSet:
		v := lambdaVar("e", depth)
		collect := ".toList()"
		if s.Kind == dart.ShapeSet {
			collect = ".toSet()"
		}
		return fmt.Sprintf("(%s as List<dynamic>).map((%s) => %s)%s",
			expr, v, decodeExpr(s.Args[0], v, depth+1), collect)
	case dart.ShapeMap:
		return decodeMap(s, expr, depth, false)
	case dart.ShapeClassRef:
		return fmt.Sprintf("%s.fromJson(%s as Map<String, dynamic>)", s.Name, expr)
	default:
		return expr
	}
}

func decodeNullable(inner *dart.TypeShape, expr string, depth int) string {
	switch inner.Kind {
	case dart.ShapePrimitive:
		switch inner.Name {
		case "int":
			return fmt.Sprintf("(%s as num?)?.toInt()", expr)
		case "double":
			return fmt.Sprintf("(%s as num?)?.toDouble()", expr)
		case "DateTime":
			return fmt.Sprintf("%s == null ? null : DateTime.parse(%s as String)", expr, expr)
		case "dynamic":
			return expr
		default:
			return fmt.Sprintf("%s as %s?", expr, inner.Name)
		}
	case dart.ShapeList, dart.ShapeSet:
		v := lambdaVar("e", depth)
		collect := ".toList()"
		if inner.Kind == dart.ShapeSet {
			collect = ".toSet()"
		}
		return fmt.Sprintf("(%s as List<dynamic>?)?.map((%s) => %s)%s",
			expr, v, decodeExpr(inner.Args[0], v, depth+1), collect)
	case dart.ShapeMap:
		return decodeMap(inner, expr, depth, true)
	case dart.ShapeClassRef:
		return fmt.Sprintf("%s == null ? null : %s.fromJson(%s as Map<String, dynamic>)",
			expr, inner.Name, expr)
	default:
		return expr
	}
}

// decodeMap rebuilds a map field entry by entry. JSON object keys are always
// strings, so int keys round-trip through int.parse and everything else
// through toString on the encode side.
func decodeMap(s *dart.TypeShape, expr string, depth int, nullable bool) string {
	k := lambdaVar("k", depth)
	v := lambdaVar("v", depth)
	keyExpr := k
	if s.Args[0].Kind == dart.ShapePrimitive && s.Args[0].Name == "int" {
		keyExpr = fmt.Sprintf("int.parse(%s as String)", k)
	}
	valExpr := decodeExpr(s.Args[1], v, depth+1)

	cast := "Map<String, dynamic>"
	if nullable {
		cast += "?"
	}
	if keyExpr == k && valExpr == v {
		return fmt.Sprintf("%s as %s", expr, cast)
	}
	op := "."
	if nullable {
		op = "?."
	}
	return fmt.Sprintf("(%s as %s)%smap((%s, %s) => MapEntry(%s, %s))",
		expr, cast, op, k, v, keyExpr, valExpr)
}

func decodePrimitive(name, expr string) string {
	switch name {
	case "int":
		return fmt.Sprintf("(%s as num).toInt()", expr)
	case "double":
		return fmt.Sprintf("(%s as num).toDouble()", expr)
	case "DateTime":
		return fmt.Sprintf("DateTime.parse(%s as String)", expr)
	case "dynamic":
		return expr
	default:
		return fmt.Sprintf("%s as %s", expr, name)
	}
}

// encodeExpr converts a field value to its JSON representation. Primitives
// other than DateTime are already JSON-encodable and pass through.
func encodeExpr(s *dart.TypeShape, expr string, depth int) string {
	switch s.Kind {
	case dart.ShapeNullable:
		return encodeNullable(s.Args[0], expr, depth)
	case dart.ShapePrimitive:
		if s.Name == "DateTime" {
			return expr + ".toIso8601String()"
		}
		return expr
	case dart.ShapeList, dart.ShapeSet:
		v := lambdaVar("e", depth)
		inner := encodeExpr(s.Args[0], v, depth+1)
		if inner == v {
			if s.Kind == dart.ShapeSet {
				return expr + ".toList()"
			}
			return expr
		}
		return fmt.Sprintf("%s.map((%s) => %s).toList()", expr, v, inner)
	case dart.ShapeMap:
		return encodeMap(s, expr, depth, "")
	case dart.ShapeClassRef:
		return expr + ".toJson()"
	default:
		return expr
	}
}

func encodeNullable(inner *dart.TypeShape, expr string, depth int) string {
	switch inner.Kind {
	case dart.ShapePrimitive:
		if inner.Name == "DateTime" {
			return expr + "?.toIso8601String()"
		}
		return expr
	case dart.ShapeList, dart.ShapeSet:
		v := lambdaVar("e", depth)
		ie := encodeExpr(inner.Args[0], v, depth+1)
		if ie == v {
			if inner.Kind == dart.ShapeSet {
				return expr + "?.toList()"
			}
			return expr
		}
		return fmt.Sprintf("%s?.map((%s) => %s).toList()", expr, v, ie)
	case dart.ShapeMap:
		return encodeMap(inner, expr, depth, "?")
	case dart.ShapeClassRef:
		return expr + "?.toJson()"
	default:
		return expr
	}
}

func encodeMap(s *dart.TypeShape, expr string, depth int, nullOp string) string {
	k := lambdaVar("k", depth)
	v := lambdaVar("v", depth)
	keyExpr := k
	if !(s.Args[0].Kind == dart.ShapePrimitive && s.Args[0].Name == "String") {
		keyExpr = k + ".toString()"
	}
	valExpr := encodeExpr(s.Args[1], v, depth+1)
	if keyExpr == k && valExpr == v {
		return expr
	}
	return fmt.Sprintf("%s%s.map((%s, %s) => MapEntry(%s, %s))", expr, nullOp, k, v, keyExpr, valExpr)
}
