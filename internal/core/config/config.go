// Package config handles configuration loading and validation for fuet.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultNamespace is the global object templates are assigned onto.
const DefaultNamespace = "window.templates"

// Config holds the application configuration.
type Config struct {
	Compiler    CompilerConfig  `yaml:"compiler"`
	Transform   TransformConfig `yaml:"transform"`
	Output      OutputConfig    `yaml:"output"`
	ReadWorkers int             `yaml:"read_workers"`
}

// CompilerConfig configures the node bridge to vue-template-compiler.
type CompilerConfig struct {
	Command            string        `yaml:"command"`             // node executable and leading args
	PreserveWhitespace bool          `yaml:"preserve_whitespace"` // keep whitespace-only text nodes
	OptimizeSSR        bool          `yaml:"optimize_ssr"`
	StripWith          bool          `yaml:"strip_with"`          // rewrite render bodies without with(this)
	Timeout            time.Duration `yaml:"timeout"`             // per template, 0 = unlimited
}

// TransformConfig configures the esbuild pass over render functions.
//
// Target only caps the syntax esbuild may emit. With strip_with enabled the
// bodies are already lowered to ES5 by vue-template-es2015-compiler; without
// it, ES2015+ syntax used inside template expressions passes through as
// written unless the target forces esbuild to lower it.
type TransformConfig struct {
	Minify bool   `yaml:"minify"`
	Target string `yaml:"target"` // es5, es2015 ... esnext
}

// OutputConfig holds defaults for the bundle layout. CLI flags override them.
type OutputConfig struct {
	Format     string   `yaml:"format"`    // global, commonjs, esmodule
	Namespace  string   `yaml:"namespace"` // used by the global format only
	PathFilter []string `yaml:"pathfilter"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Compiler: CompilerConfig{
			Command:     "node",
			OptimizeSSR: true,
			StripWith:   true,
			Timeout:     30 * time.Second,
		},
		Transform: TransformConfig{
			Minify: true,
			Target: "es2015",
		},
		Output: OutputConfig{
			Format:     "global",
			Namespace:  DefaultNamespace,
			PathFilter: []string{},
		},
		ReadWorkers: 16,
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Compiler.Command == "" {
		c.Compiler.Command = defaults.Compiler.Command
	}
	if c.Transform.Target == "" {
		c.Transform.Target = defaults.Transform.Target
	}
	if c.Output.Format == "" {
		c.Output.Format = defaults.Output.Format
	}
	if c.Output.Namespace == "" {
		c.Output.Namespace = defaults.Output.Namespace
	}
	if c.ReadWorkers == 0 {
		c.ReadWorkers = defaults.ReadWorkers
	}
}
