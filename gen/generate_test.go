package gen

import (
	"context"
	"strings"
	"testing"

	"github.com/Apeiron-Software/faster-freezed/dart"
	"github.com/Apeiron-Software/faster-freezed/diag"
)

const personSource = `
@freezed
class Person with _$Person {
  const factory Person({
    @Default('hi') String firstName,
    required String lastName,
    Map<String, int>? scores,
  }) = _Person;

  factory Person.fromJson(Map<String, dynamic> json) => _$PersonFromJson(json);
}
`

func generateOne(t *testing.T, path, src string) (map[string]string, *diag.Collector) {
	t.Helper()
	col := diag.NewCollector()
	outputs, err := Generate(context.Background(), map[string]string{path: src}, DefaultOptions(), col)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return outputs, col
}

func TestGeneratePerson(t *testing.T) {
	outputs, col := generateOne(t, "lib/person.dart", personSource)

	for _, d := range col.All() {
		if d.Severity == diag.SeverityError {
			t.Errorf("unexpected error: %s", d)
		}
	}

	companion, ok := outputs["lib/generated/person.freezed.dart"]
	if !ok {
		t.Fatalf("missing companion output, got %v", keys(outputs))
	}
	jsonPart, ok := outputs["lib/generated/person.g.dart"]
	if !ok {
		t.Fatalf("missing json output, got %v", keys(outputs))
	}

	for _, want := range []string{
		"// GENERATED CODE - DO NOT MODIFY BY HAND",
		"part of '../person.dart';",
		"mixin _$Person {",
		"String get firstName;",
		"String get lastName;",
		"Map<String, int>? get scores;",
		"bool operator ==(Object other)",
		"other is _$Person",
		"(identical(other.firstName, firstName) || other.firstName == firstName)",
		"const DeepCollectionEquality().equals(other.scores, scores)",
		"int get hashCode => Object.hash(",
		"const DeepCollectionEquality().hash(scores)",
		"return 'Person(firstName: $firstName, lastName: $lastName, scores: $scores)';",
		"Person copyWith({Object? firstName, Object? lastName, Object? scores});",
		"Map<String, dynamic> toJson();",
		"class _Person implements Person {",
		"const _Person({this.firstName = 'hi', required this.lastName, this.scores});",
		"final String firstName;",
		"Object? firstName = null",
		"Object? scores = freezed",
		"null == firstName ? this.firstName : firstName as String",
		"freezed == scores ? this.scores : scores as Map<String, int>?",
		"return _$PersonToJson(this);",
	} {
		if !strings.Contains(companion, want) {
			t.Errorf("companion output missing %q", want)
		}
	}

	for _, want := range []string{
		"part of '../person.dart';",
		"_Person _$PersonFromJson(Map<String, dynamic> json) {",
		"if (!json.containsKey('lastName')) {",
		`throw FormatException("missing required key 'lastName' for Person");`,
		"firstName: json.containsKey('firstName') ? json['firstName'] as String : 'hi',",
		"lastName: json['lastName'] as String,",
		"Map<String, dynamic> _$PersonToJson(_Person instance) => <String, dynamic>{",
		"'firstName': instance.firstName,",
	} {
		if !strings.Contains(jsonPart, want) {
			t.Errorf("json output missing %q", want)
		}
	}

	if strings.Contains(jsonPart, "containsKey('scores') ?") {
		t.Error("optional field without default should not get a containsKey guard")
	}
}

func TestGenerateNoJSONConstructor(t *testing.T) {
	outputs, _ := generateOne(t, "a.dart", `
@freezed
class Point {
  const factory Point(double x, double y) = _Point;
}
`)

	if _, ok := outputs["generated/a.freezed.dart"]; !ok {
		t.Fatalf("missing companion output, got %v", keys(outputs))
	}
	if _, ok := outputs["generated/a.g.dart"]; ok {
		t.Error("json output generated for a class without fromJson")
	}

	companion := outputs["generated/a.freezed.dart"]
	if strings.Contains(companion, "toJson") {
		t.Error("companion mentions toJson for a class without fromJson")
	}
	if !strings.Contains(companion, "const _Point(this.x, this.y);") {
		t.Error("positional constructor not generated as expected")
	}
}

func TestGeneratePrivateCtorExtends(t *testing.T) {
	outputs, _ := generateOne(t, "b.dart", `
@freezed
class Account with _$Account {
  const Account._();

  const factory Account({required int id}) = _Account;
}
`)

	companion := outputs["generated/b.freezed.dart"]
	if !strings.Contains(companion, "class _Account extends Account {") {
		t.Error("private constructor should make the implementation extend the class")
	}
	if !strings.Contains(companion, ") : super._();") {
		t.Error("implementation constructor should chain to super._()")
	}
}

func TestGenerateEmptyFieldsHashCode(t *testing.T) {
	outputs, _ := generateOne(t, "c.dart", `
@freezed
class Unit {
  const factory Unit() = _Unit;
}
`)

	companion := outputs["generated/c.freezed.dart"]
	if !strings.Contains(companion, "int get hashCode => runtimeType.hashCode;") {
		t.Error("empty class should hash on runtimeType only")
	}
	if strings.Contains(companion, "copyWith") {
		t.Error("empty class should not get copyWith")
	}
}

func TestGenerateCrossFileReference(t *testing.T) {
	col := diag.NewCollector()
	batch := map[string]string{
		"team.dart": `
@freezed
class Team with _$Team {
  factory Team({required Person lead}) = _Team;
  factory Team.fromJson(Map<String, dynamic> json) => _$TeamFromJson(json);
}
`,
		"person.dart": `
@freezed
class Person with _$Person {
  factory Person({required String name}) = _Person;
  factory Person.fromJson(Map<String, dynamic> json) => _$PersonFromJson(json);
}
`,
	}

	outputs, err := Generate(context.Background(), batch, DefaultOptions(), col)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, d := range col.All() {
		if d.Severity == diag.SeverityWarning && strings.Contains(d.Message, "Person") {
			t.Errorf("Person should resolve across files: %s", d)
		}
	}

	jsonPart := outputs["generated/team.g.dart"]
	if !strings.Contains(jsonPart, "Person.fromJson(json['lead'] as Map<String, dynamic>)") {
		t.Error("cross-file class reference should decode through fromJson")
	}
}

func TestGenerateUnresolvedReferenceDegrades(t *testing.T) {
	outputs, col := generateOne(t, "d.dart", `
@freezed
class Holder with _$Holder {
  factory Holder({required Ghost ghost}) = _Holder;
  factory Holder.fromJson(Map<String, dynamic> json) => _$HolderFromJson(json);
}
`)

	warned := false
	for _, d := range col.All() {
		if d.Severity == diag.SeverityWarning && strings.Contains(d.Message, "Ghost") {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a warning for the unresolved Ghost reference")
	}

	jsonPart := outputs["generated/d.g.dart"]
	if !strings.Contains(jsonPart, "ghost: json['ghost'],") {
		t.Error("unresolved reference should decode as pass-through")
	}
}

func TestGenerateErrorIsolation(t *testing.T) {
	col := diag.NewCollector()
	batch := map[string]string{
		"bad.dart": `
@freezed
class Broken {
  factory Broken({required int a
`,
		"good.dart": `
@freezed
class Fine {
  factory Fine(int b) = _Fine;
}
`,
	}

	outputs, err := Generate(context.Background(), batch, DefaultOptions(), col)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !col.HasErrors() {
		t.Error("expected errors for bad.dart")
	}
	if _, ok := outputs["generated/bad.freezed.dart"]; ok {
		t.Error("bad.dart should not produce outputs")
	}
	if _, ok := outputs["generated/good.freezed.dart"]; !ok {
		t.Errorf("good.dart should still produce outputs, got %v", keys(outputs))
	}
}

func TestGenerateErrorIsolationWithinFile(t *testing.T) {
	outputs, col := generateOne(t, "mix.dart", `
@freezed
class Broken {
  factory Broken({required lastName}) = _Broken;
}

@freezed
class Fine {
  factory Fine({required int b}) = _Fine;
}
`)

	if !col.HasErrors() {
		t.Error("expected an error for Broken's untyped parameter")
	}
	companion, ok := outputs["generated/mix.freezed.dart"]
	if !ok {
		t.Fatalf("Fine should still generate despite Broken's error; outputs: %v", keys(outputs))
	}
	if !strings.Contains(companion, "mixin _$Fine {") {
		t.Error("companion output missing the healthy class")
	}
	if strings.Contains(companion, "_$Broken") {
		t.Error("the broken declaration should not generate code")
	}
}

func TestGenerateFunctionTypeFieldWarns(t *testing.T) {
	_, col := generateOne(t, "f.dart", `
@freezed
class Callback with _$Callback {
  factory Callback({required int Function() thunk}) = _Callback;
}
`)

	warned := false
	for _, d := range col.All() {
		if d.Severity == diag.SeverityWarning && strings.Contains(d.Message, "int Function()") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a warning for the function-typed field, got %v", col.All())
	}
}

func TestGenerateDiagnosticOrdering(t *testing.T) {
	col := diag.NewCollector()
	batch := map[string]string{
		"z.dart": "@freezed\nclass Z { factory Z({required Missing m}) = _Z; }\n",
		"a.dart": "@freezed\nclass A { factory A({required Missing m}) = _A; }\n",
	}

	if _, err := Generate(context.Background(), batch, DefaultOptions(), col); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	ds := col.All()
	if len(ds) < 2 {
		t.Fatalf("got %d diagnostics, want at least 2", len(ds))
	}
	lastFile := ""
	for _, d := range ds {
		if d.File < lastFile {
			t.Fatalf("diagnostics out of file order: %s after %s", d.File, lastFile)
		}
		lastFile = d.File
	}
}

func TestGenerateExtraPrimitives(t *testing.T) {
	col := diag.NewCollector()
	opts := DefaultOptions()
	opts.ExtraPrimitives = []string{"Decimal"}
	batch := map[string]string{
		"e.dart": `
@freezed
class Price with _$Price {
  factory Price({required Decimal amount}) = _Price;
}
`,
	}

	if _, err := Generate(context.Background(), batch, opts, col); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, d := range col.All() {
		if strings.Contains(d.Message, "Decimal") {
			t.Errorf("Decimal should be accepted as primitive: %s", d)
		}
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	col := diag.NewCollector()
	_, err := Generate(ctx, map[string]string{"x.dart": personSource}, DefaultOptions(), col)
	if err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

func TestRenderFileSkipsModelsWithoutRedirect(t *testing.T) {
	col := diag.NewCollector()
	models := dart.ClassModelsFromSource([]byte(`
@freezed
class Odd with _$Odd {
  factory Odd.named(int x) = _OddNamed;
}
`), "odd.dart", col)

	companion, jsonPart := renderFile("odd.dart", models)
	if companion != "" || jsonPart != "" {
		t.Errorf("expected no output for a class without an unnamed constructor")
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
