// Package config loads interpreter settings from a YAML file
package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v2"

	"github.com/GriffinCanCode/brilgo/pkg/heap"
	"github.com/GriffinCanCode/brilgo/pkg/ir"
	"github.com/GriffinCanCode/brilgo/pkg/logger"
)

// Config holds interpreter settings. Command-line flags override it.
type Config struct {
	// Heap selects the allocator: "basic" or "arena"
	Heap string `yaml:"heap"`
	// Profile prints the dynamic instruction count after a run
	Profile bool `yaml:"profile"`
	// Check validates the program without running it
	Check bool      `yaml:"check"`
	Log   LogConfig `yaml:"log"`
	// Groups lists enabled opcode groups; empty enables all of them
	Groups []string `yaml:"groups"`
}

// LogConfig mirrors the logger settings that can be set from a file
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the settings used when no file is given
func Default() Config {
	return Config{
		Heap: "basic",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads path over the defaults and validates the result
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping fields the document does not set.
// Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return cfg.Validate()
}

// Validate rejects unknown heap kinds, log settings and opcode groups
func (c Config) Validate() error {
	if c.Heap != "" && !slices.Contains(heap.Kinds, c.Heap) {
		return fmt.Errorf("unknown heap %q (want one of %v)", c.Heap, heap.Kinds)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	_, err := c.OpGroups()
	return err
}

// OpGroups converts Groups to opcode groups. A nil result enables every group.
func (c Config) OpGroups() ([]ir.Group, error) {
	if len(c.Groups) == 0 {
		return nil, nil
	}
	groups := make([]ir.Group, 0, len(c.Groups))
	for _, name := range c.Groups {
		g, ok := ir.ParseGroup(name)
		if !ok {
			return nil, fmt.Errorf("unknown opcode group %q", name)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// Logger converts the log section into a logger configuration
func (c Config) Logger() (logger.Config, error) {
	lc := logger.DefaultConfig()
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return lc, err
	}
	lc.Level = level
	if c.Log.Format != "" {
		lc.Format = c.Log.Format
	}
	lc.LogFile = c.Log.File
	return lc, nil
}
