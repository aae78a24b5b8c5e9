// Package config loads generator settings from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Apeiron-Software/faster-freezed/gen"
)

// Config is the on-disk configuration, typically ffz.yaml at the project
// root. Absent fields keep their defaults.
type Config struct {
	Generator Generator `yaml:"generator"`
}

type Generator struct {
	Suffix          string   `yaml:"suffix"`
	JSONSuffix      string   `yaml:"jsonSuffix"`
	GeneratedDir    string   `yaml:"generatedDir"`
	Workers         int      `yaml:"workers"`
	ExtraPrimitives []string `yaml:"extraPrimitives"`
}

func Default() *Config {
	opts := gen.DefaultOptions()
	return &Config{
		Generator: Generator{
			Suffix:       opts.Suffix,
			JSONSuffix:   opts.JSONSuffix,
			GeneratedDir: opts.GeneratedDir,
			Workers:      opts.Workers,
		},
	}
}

// Load reads a YAML config file and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default().Generator
	if c.Generator.Suffix == "" {
		c.Generator.Suffix = def.Suffix
	}
	if c.Generator.JSONSuffix == "" {
		c.Generator.JSONSuffix = def.JSONSuffix
	}
	if c.Generator.GeneratedDir == "" {
		c.Generator.GeneratedDir = def.GeneratedDir
	}
	if c.Generator.Workers <= 0 {
		c.Generator.Workers = def.Workers
	}
}

// Options translates the configuration into generator options.
func (c *Config) Options() gen.Options {
	return gen.Options{
		Suffix:          c.Generator.Suffix,
		JSONSuffix:      c.Generator.JSONSuffix,
		GeneratedDir:    c.Generator.GeneratedDir,
		Workers:         c.Generator.Workers,
		ExtraPrimitives: c.Generator.ExtraPrimitives,
	}
}
