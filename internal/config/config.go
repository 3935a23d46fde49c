// Package config loads the tablegen.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "tablegen.yaml"

// Report modes.
const (
	ReportFirst = "first"
	ReportAll   = "all"
)

// Config is the project configuration.
type Config struct {
	// Package is the name of the generated Go package.
	Package string `yaml:"package"`
	// Output is the directory generated files are written to.
	Output string `yaml:"output"`
	// SourcePatterns are glob patterns matching source units.
	SourcePatterns []string `yaml:"sources"`
	// SQLite is an optional path of a SQLite export.
	SQLite string `yaml:"sqlite,omitempty"`
	// Report selects how many errors a run reports: "first" or "all".
	Report string `yaml:"report"`

	// dir is the directory relative paths are resolved against.
	dir string
}

// Default returns the configuration used without a config file.
func Default() *Config {
	return &Config{
		Package: "tables",
		Output:  "./tables",
		Report:  ReportFirst,
		dir:     ".",
	}
}

// Load reads the config file at path. Relative paths in it are resolved
// against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.dir = filepath.Dir(path)

	return cfg, nil
}

// Parse decodes YAML config data; unset keys keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Package == "" {
		return errors.New("package must not be empty")
	}

	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("package %q is not a valid Go package name", c.Package)
	}

	if c.Output == "" {
		return errors.New("output must not be empty")
	}

	switch c.Report {
	case ReportFirst, ReportAll:
	default:
		return fmt.Errorf("report must be %q or %q, got %q", ReportFirst, ReportAll, c.Report)
	}

	for _, p := range c.SourcePatterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("bad source pattern %q: %w", p, err)
		}
	}

	return nil
}

// Resolve returns p relative to the config file directory. Absolute paths
// are returned unchanged.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(c.dir, p)
}

// Sources expands the source patterns into a sorted, duplicate-free list
// of files. A pattern that matches nothing is an error.
func (c *Config) Sources() ([]string, error) {
	seen := make(map[string]bool)

	var out []string

	for _, p := range c.SourcePatterns {
		matches, err := filepath.Glob(c.Resolve(p))
		if err != nil {
			return nil, fmt.Errorf("bad source pattern %q: %w", p, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("source pattern %q matches no files", p)
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}

	sort.Strings(out)

	return out, nil
}
