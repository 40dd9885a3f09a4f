// Package config loads embedcss settings from .embedcss.yaml or from the
// "embedcss" key of package.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"bennypowers.dev/embedcss/internal/color"
	"bennypowers.dev/embedcss/internal/parser/common"
	"bennypowers.dev/embedcss/stylesheet"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileNames are the config files Load looks for, in order of preference.
var FileNames = []string{".embedcss.yaml", ".embedcss.yml"}

// packageJSONKey is the package.json field holding settings.
const packageJSONKey = "embedcss"

// Format configures the fmt command.
type Format struct {
	// Indent is one level of indentation inside blocks.
	Indent string `yaml:"indent" json:"indent"`
	// NormalizeColors rewrites colors in color-valued declarations.
	NormalizeColors bool `yaml:"normalizeColors" json:"normalizeColors"`
	// ColorFormat is "hex" or "rgb".
	ColorFormat string `yaml:"colorFormat" json:"colorFormat"`
}

// Config holds every setting.
type Config struct {
	// Include lists doublestar patterns of files to process when no paths
	// are given on the command line.
	Include []string `yaml:"include" json:"include"`
	// Exclude lists doublestar patterns of files to skip.
	Exclude []string `yaml:"exclude" json:"exclude"`
	// Dialects maps stylesheet tags to dialect names (css, scss, less).
	// It is merged over the defaults.
	Dialects map[string]string `yaml:"dialects" json:"dialects"`
	Format   Format            `yaml:"format" json:"format"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-" json:"-"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Include: []string{
			"**/*.{html,htm,vue,svelte}",
			"**/*.{md,markdown,mdx}",
			"**/*.{js,jsx,mjs,ts,tsx,mts}",
		},
		Exclude: []string{"**/node_modules/**", "**/.git/**"},
		Dialects: map[string]string{
			"css":     "css",
			"pcss":    "css",
			"postcss": "css",
			"scss":    "scss",
			"less":    "less",
		},
		Format: Format{Indent: "\t", ColorFormat: "hex"},
	}
}

// Load reads the config for dir: the first of FileNames that exists, else
// the "embedcss" key of package.json, else the defaults.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	cfg, err := loadPackageJSON(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}
	return DefaultConfig(), nil
}

// LoadFile reads a YAML config file, or a package.json when path is named
// so. Settings missing from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	if filepath.Base(path) == "package.json" {
		cfg, err := loadPackageJSON(path)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			return nil, fmt.Errorf("%s has no %q field", path, packageJSONKey)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: config path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return finish(&file, path)
}

// loadPackageJSON returns nil without an error when the file or its
// embedcss field does not exist.
func loadPackageJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading workspace package.json
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	// Parse as JSONC (allows comments)
	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	raw, ok := pkg[packageJSONKey]
	if !ok {
		return nil, nil
	}

	var file Config
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%s must be an object: %w", packageJSONKey, err)
	}
	return finish(&file, path)
}

// finish layers a decoded file over the defaults and validates it.
func finish(file *Config, path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Path = path
	if file.Include != nil {
		cfg.Include = slices.Clone(file.Include)
	}
	if file.Exclude != nil {
		cfg.Exclude = slices.Clone(file.Exclude)
	}
	for tag, dialect := range file.Dialects {
		cfg.Dialects[tag] = dialect
	}
	if file.Format.Indent != "" {
		cfg.Format.Indent = file.Format.Indent
	}
	if file.Format.ColorFormat != "" {
		cfg.Format.ColorFormat = file.Format.ColorFormat
	}
	cfg.Format.NormalizeColors = file.Format.NormalizeColors

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every dialect and the color format are known.
func (c *Config) Validate() error {
	if _, err := c.DialectMap(); err != nil {
		return err
	}
	if _, err := color.ParseFormat(c.Format.ColorFormat); err != nil {
		return err
	}
	return nil
}

// DialectMap converts Dialects for syntax.Options.
func (c *Config) DialectMap() (map[string]stylesheet.Dialect, error) {
	m := make(map[string]stylesheet.Dialect, len(c.Dialects))
	for tag, name := range c.Dialects {
		d, err := stylesheet.ParseDialect(name)
		if err != nil {
			return nil, fmt.Errorf("dialect for %q: %w", tag, err)
		}
		m[common.NormalizeLang(tag)] = d
	}
	return m, nil
}

// ColorFormat returns the parsed color format.
func (c *Config) ColorFormat() color.Format {
	f, _ := color.ParseFormat(c.Format.ColorFormat)
	return f
}
