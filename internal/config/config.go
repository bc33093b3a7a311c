// Package config loads hotpath run settings from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hotpath/internal/calltree"
)

// DefaultDelimiter separates blocks in captures produced by the
// automation script.
const DefaultDelimiter = "====\n"

// DefaultDepth is used when neither the file nor the command line sets one.
const DefaultDepth = 3

// Config holds user-overridable tree settings.
type Config struct {
	// Delimiter separates function blocks in the capture.
	// Default: "====\n".
	Delimiter *string `yaml:"delimiter"`

	// Depth bounds the number of expanded levels. Default: 3.
	Depth *uint `yaml:"depth"`

	// Upcall expands callers instead of callees. Default: false.
	Upcall bool `yaml:"upcall"`

	// StopSymbols are regular expressions; matching callees are not expanded.
	StopSymbols []string `yaml:"stop_symbols"`

	// Retpoline maps guarded dispatch table sources to their real targets.
	Retpoline map[string]string `yaml:"retpoline"`
}

// Default returns the empty configuration; every Effective* accessor
// falls back to its built-in value.
func Default() *Config {
	return &Config{}
}

// Load reads the YAML file at path. An empty path yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// EffectiveDelimiter returns the configured delimiter or DefaultDelimiter.
func (c *Config) EffectiveDelimiter() string {
	if c.Delimiter != nil {
		return *c.Delimiter
	}
	return DefaultDelimiter
}

// EffectiveDepth returns the configured depth or DefaultDepth.
func (c *Config) EffectiveDepth() uint {
	if c.Depth != nil {
		return *c.Depth
	}
	return DefaultDepth
}

// Options converts the configuration into builder options.
func (c *Config) Options() calltree.Options {
	return calltree.Options{
		Upcall:      c.Upcall,
		Depth:       c.EffectiveDepth(),
		StopSymbols: append([]string(nil), c.StopSymbols...),
		Retpoline:   c.Retpoline,
	}
}
