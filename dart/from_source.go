package dart

import (
	"github.com/Apeiron-Software/faster-freezed/dart/parser"
	"github.com/Apeiron-Software/faster-freezed/diag"
)

// ClassModelsFromSource scans one source unit and builds a model for every
// marker-annotated class in it. Type shapes are parsed but class references
// stay tentative until ResolveBatch runs with the whole batch's name table.
func ClassModelsFromSource(src []byte, file string, col *diag.Collector) []*ClassModel {
	scanner := parser.NewScanner(src, file, col)
	decls := scanner.Scan()

	var models []*ClassModel
	for _, decl := range decls {
		before := col.ErrorCount(file)
		model := classModelFromDecl(scanner.Source(), decl, file, col)
		// An error anywhere in this declaration poisons only this model;
		// sibling classes in the same file still generate.
		model.Invalid = col.ErrorCount(file) > before
		models = append(models, model)
	}
	return models
}

func classModelFromDecl(src []byte, decl parser.ClassDecl, file string, col *diag.Collector) *ClassModel {
	model := &ClassModel{
		Name:           decl.Name,
		File:           file,
		HasFromJSON:    decl.HasFromJSON,
		HasPrivateCtor: decl.HasPrivateCtor,
		HasConstCtor:   decl.PrivateCtorConst,
		Annotations:    annotationRecords(decl.Annotations),
		Line:           decl.Span.Start.Line,
		Column:         decl.Span.Start.Column,
	}

	main := mainConstructor(decl)
	if main == nil {
		if len(decl.Constructors) > 0 {
			col.Warnf(file, decl.Span.Start.Line, decl.Span.Start.Column,
				"class %s has only named factory constructors; copyWith is not generated", decl.Name)
			main = &decl.Constructors[0]
		} else {
			col.Warnf(file, decl.Span.Start.Line, decl.Span.Start.Column,
				"class %s has no redirecting factory constructor", decl.Name)
			return model
		}
	} else {
		model.RedirectName = main.RedirectsTo
	}
	if len(decl.Constructors) > 1 {
		col.Warnf(file, decl.Span.Start.Line, decl.Span.Start.Column,
			"class %s declares %d factory constructors; union-style variants are not modeled, only the first is used",
			decl.Name, len(decl.Constructors))
	}
	model.HasConstCtor = model.HasConstCtor || main.IsConst

	params := parser.ParseSignature(src, main.Params, file, col)
	for _, p := range params {
		field := FieldSpec{
			Name:               p.Name,
			RawType:            p.Type,
			Shape:              ParseTypeShape(p.Type),
			Named:              p.Named,
			OptionalPositional: p.OptionalPositional,
			Required:           p.Required || (!p.Named && !p.OptionalPositional),
			Default:            p.Default,
			Annotations:        annotationRecords(p.Annotations),
			Line:               p.Span.Start.Line,
			Column:             p.Span.Start.Column,
		}
		if !field.Named && !field.OptionalPositional {
			model.PositionalStyle = true
		}
		model.Fields = append(model.Fields, field)
	}
	return model
}

// mainConstructor picks the public unnamed redirecting constructor. Named
// variants never serve as the canonical field list.
func mainConstructor(decl parser.ClassDecl) *parser.Constructor {
	for i := range decl.Constructors {
		if decl.Constructors[i].Name == "" {
			return &decl.Constructors[i]
		}
	}
	return nil
}

// BuildNameTable indexes models by class name. Later declarations of the
// same name win a warning, not a failure; the first declaration stays
// authoritative.
func BuildNameTable(models []*ClassModel, col *diag.Collector) map[string]*ClassModel {
	table := make(map[string]*ClassModel, len(models))
	for _, m := range models {
		if prev, ok := table[m.Name]; ok {
			col.Warnf(m.File, m.Line, m.Column,
				"class %s already declared in %s; the first declaration is used", m.Name, prev.File)
			continue
		}
		table[m.Name] = m
	}
	return table
}

// ResolveBatch finalizes every field's type shape against the batch-wide
// name table. Must run after all files have been scanned (the collection
// barrier); it is safe to call concurrently only with read access to table.
func ResolveBatch(models []*ClassModel, table map[string]*ClassModel, extraPrimitives []string, col *diag.Collector) {
	prims := make(map[string]bool, len(extraPrimitives))
	for _, p := range extraPrimitives {
		prims[p] = true
	}
	for _, m := range models {
		for i := range m.Fields {
			f := &m.Fields[i]
			f.Shape = f.Shape.resolve(table, prims, func(format string, args ...interface{}) {
				col.Warnf(m.File, f.Line, f.Column, format, args...)
			})
		}
	}
}
