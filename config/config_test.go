package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Generator.Suffix != ".freezed.dart" {
		t.Errorf("Suffix = %q, want %q", cfg.Generator.Suffix, ".freezed.dart")
	}
	if cfg.Generator.JSONSuffix != ".g.dart" {
		t.Errorf("JSONSuffix = %q, want %q", cfg.Generator.JSONSuffix, ".g.dart")
	}
	if cfg.Generator.GeneratedDir != "generated" {
		t.Errorf("GeneratedDir = %q, want %q", cfg.Generator.GeneratedDir, "generated")
	}
	if cfg.Generator.Workers < 1 {
		t.Errorf("Workers = %d, want at least 1", cfg.Generator.Workers)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ffz.yaml")
	content := `
generator:
  suffix: .frozen.dart
  workers: 2
  extraPrimitives:
    - Decimal
    - Uri
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Generator.Suffix != ".frozen.dart" {
		t.Errorf("Suffix = %q, want %q", cfg.Generator.Suffix, ".frozen.dart")
	}
	if cfg.Generator.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Generator.Workers)
	}
	// Unset fields fall back to defaults.
	if cfg.Generator.JSONSuffix != ".g.dart" {
		t.Errorf("JSONSuffix = %q, want %q", cfg.Generator.JSONSuffix, ".g.dart")
	}
	if len(cfg.Generator.ExtraPrimitives) != 2 || cfg.Generator.ExtraPrimitives[0] != "Decimal" {
		t.Errorf("ExtraPrimitives = %v, want [Decimal Uri]", cfg.Generator.ExtraPrimitives)
	}

	opts := cfg.Options()
	if opts.Suffix != ".frozen.dart" || opts.Workers != 2 {
		t.Errorf("Options() = %+v, does not mirror config", opts)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
