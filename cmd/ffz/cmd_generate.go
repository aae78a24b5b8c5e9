package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/Apeiron-Software/faster-freezed/config"
	"github.com/Apeiron-Software/faster-freezed/diag"
	"github.com/Apeiron-Software/faster-freezed/gen"
)

func newGenerateCmd() *cobra.Command {
	var configPath string
	var check bool
	var workers int

	cmd := &cobra.Command{
		Use:   "generate <directory>",
		Short: "Generate companion files for annotated classes under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := commonlog.GetLogger("ffz.generate")

			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			opts := cfg.Options()
			if workers > 0 {
				opts.Workers = workers
			}

			batch, err := collectSources(args[0], opts.GeneratedDir)
			if err != nil {
				return err
			}
			if len(batch) == 0 {
				log.Info("no annotated files found", "directory", args[0])
				return nil
			}

			col := diag.NewCollector()
			outputs, err := gen.Generate(cmd.Context(), batch, opts, col)
			if err != nil {
				return err
			}

			for _, d := range col.All() {
				fmt.Fprintln(os.Stderr, d)
			}

			if check {
				return checkOutputs(outputs)
			}
			if err := writeOutputs(outputs); err != nil {
				return err
			}
			log.Info("generation finished", "inputs", len(batch), "outputs", len(outputs))
			if col.HasErrors() {
				return fmt.Errorf("generation finished with errors")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().BoolVar(&check, "check", false, "verify outputs are up to date instead of writing them")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent workers (overrides config)")

	return cmd
}

// collectSources walks a directory for Dart files that mention the marker
// annotation. Output directories are skipped so a previous run's files are
// never fed back in.
func collectSources(root, generatedDir string) (map[string]string, error) {
	batch := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == generatedDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".dart" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !strings.Contains(string(data), "@freezed") {
			return nil
		}
		batch[filepath.ToSlash(path)] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return batch, nil
}

func writeOutputs(outputs map[string]string) error {
	for path, content := range outputs {
		path = filepath.FromSlash(path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// checkOutputs diffs generated content against what is on disk and fails if
// anything is stale, printing unified diffs for the mismatches.
func checkOutputs(outputs map[string]string) error {
	paths := make([]string, 0, len(outputs))
	for p := range outputs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	stale := 0
	for _, p := range paths {
		existing, err := os.ReadFile(filepath.FromSlash(p))
		if err != nil {
			fmt.Fprintf(os.Stderr, "missing output: %s\n", p)
			stale++
			continue
		}
		if string(existing) == outputs[p] {
			continue
		}
		stale++
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(existing)),
			B:        difflib.SplitLines(outputs[p]),
			FromFile: p + " (on disk)",
			ToFile:   p + " (generated)",
			Context:  3,
		}
		text, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stderr, text)
	}
	if stale > 0 {
		return fmt.Errorf("%d generated file(s) out of date", stale)
	}
	return nil
}
