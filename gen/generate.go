// Package gen turns annotated class models into companion Dart source:
// a value-semantics part file per input, plus a JSON part file for classes
// that opt into serialization.
package gen

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/copystructure"
	"golang.org/x/sync/errgroup"

	"github.com/Apeiron-Software/faster-freezed/dart"
	"github.com/Apeiron-Software/faster-freezed/diag"
)

const generatedHeader = "// GENERATED CODE - DO NOT MODIFY BY HAND\n\n"

// Options control output naming and batch execution.
type Options struct {
	Suffix          string   // companion file suffix, e.g. ".freezed.dart"
	JSONSuffix      string   // serialization file suffix, e.g. ".g.dart"
	GeneratedDir    string   // subdirectory next to each input for outputs
	Workers         int      // concurrent files per stage
	ExtraPrimitives []string // type names treated as JSON-encodable as-is
}

func DefaultOptions() Options {
	return Options{
		Suffix:       ".freezed.dart",
		JSONSuffix:   ".g.dart",
		GeneratedDir: "generated",
		Workers:      4,
	}
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

// Generate processes a batch of Dart sources keyed by file path and returns
// the generated outputs keyed by output path. Files are parsed concurrently,
// then cross-file references are resolved against a name table built from an
// isolated copy of every model, then outputs are rendered concurrently. A
// declaration that fails to parse suppresses only its own generated code,
// never that of sibling classes or other files; the collector carries the
// details.
func Generate(ctx context.Context, batch map[string]string, opts Options, col *diag.Collector) (map[string]string, error) {
	files := make([]string, 0, len(batch))
	for f := range batch {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		col.Register(f)
	}

	perFile := make([][]*dart.ClassModel, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perFile[i] = dart.ClassModelsFromSource([]byte(batch[file]), file, col)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Collection barrier: the name table holds a deep copy of every model
	// so the render stage can never observe a model another goroutine still
	// touches.
	var all []*dart.ClassModel
	for _, models := range perFile {
		all = append(all, models...)
	}
	table := map[string]*dart.ClassModel{}
	if len(all) > 0 {
		copied, err := copystructure.Copy(all)
		if err != nil {
			return nil, fmt.Errorf("snapshotting models for the name table: %w", err)
		}
		table = dart.BuildNameTable(copied.([]*dart.ClassModel), col)
	}
	dart.ResolveBatch(all, table, opts.ExtraPrimitives, col)

	outputs := make(map[string]string)
	var mu sync.Mutex
	r, rctx := errgroup.WithContext(ctx)
	r.SetLimit(opts.workers())
	for i, file := range files {
		file := file
		models := perFile[i]
		r.Go(func() error {
			if err := rctx.Err(); err != nil {
				return err
			}
			if len(models) == 0 {
				return nil
			}
			companion, jsonPart := renderFile(file, models)
			mu.Lock()
			defer mu.Unlock()
			if companion != "" {
				outputs[outputPath(file, opts.GeneratedDir, opts.Suffix)] = companion
			}
			if jsonPart != "" {
				outputs[outputPath(file, opts.GeneratedDir, opts.JSONSuffix)] = jsonPart
			}
			return nil
		})
	}
	if err := r.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// outputPath places outputs in a sibling subdirectory, mirroring how build
// runners keep generated parts out of the way of hand-written sources.
func outputPath(file, dir, suffix string) string {
	stem := strings.TrimSuffix(path.Base(file), path.Ext(file))
	return path.Join(path.Dir(file), dir, stem+suffix)
}

// partOfRef is the path from the generated file back to its source.
func partOfRef(file string) string {
	return "../" + path.Base(file)
}

func renderFile(file string, models []*dart.ClassModel) (companion, jsonPart string) {
	var cw, jw strings.Builder
	for _, m := range models {
		if m.RedirectName == "" || m.Invalid {
			continue
		}
		writeMixin(&cw, m)
		cw.WriteString("\n")
		writeImplClass(&cw, m)
		cw.WriteString("\n")
		if m.HasFromJSON {
			writeJSONFunctions(&jw, m)
		}
	}
	if cw.Len() == 0 {
		return "", ""
	}
	header := fmt.Sprintf("%spart of '%s';\n\n", generatedHeader, partOfRef(file))
	companion = header + strings.TrimRight(cw.String(), "\n") + "\n"
	if jw.Len() > 0 {
		jsonPart = header + strings.TrimRight(jw.String(), "\n") + "\n"
	}
	return companion, jsonPart
}
