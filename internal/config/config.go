// Package config provides configuration types and defaults for startools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/githubgphl/startools/internal/log"
	"github.com/githubgphl/startools/internal/tracing"
)

// Config holds all configuration options for startools.
type Config struct {
	// Verbosity is the default reporting mode for tokenize runs:
	// "q" (quiet), "t" (tally), or "a" (all tokens).
	Verbosity string `mapstructure:"verbosity"`

	// EmitComments includes comment tokens in streams by default.
	EmitComments bool `mapstructure:"emit_comments"`

	// LenientConstructs downgrades misused loop_/global_/stop_ keywords
	// to plain values instead of bad constructs.
	LenientConstructs bool `mapstructure:"lenient_constructs"`

	// LenientBrackets treats [ and ] initial values as plain strings.
	LenientBrackets bool `mapstructure:"lenient_brackets"`

	// Output selects the report renderer: "table" or "yaml".
	Output string `mapstructure:"output"`

	Scan    ScanConfig     `mapstructure:"scan"`
	Watch   WatchConfig    `mapstructure:"watch"`
	History HistoryConfig  `mapstructure:"history"`
	Theme   ThemeConfig    `mapstructure:"theme"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// ScanConfig holds directory scan options.
type ScanConfig struct {
	// Globs are the file name patterns a scan considers STAR sources.
	Globs []string `mapstructure:"globs"`
}

// WatchConfig holds file watcher options.
type WatchConfig struct {
	// Debounce is the quiet period before a change triggers a re-run.
	Debounce time.Duration `mapstructure:"debounce"`
}

// HistoryConfig holds run history storage options.
type HistoryConfig struct {
	// Path is the SQLite database file. Empty keeps history in the
	// default config directory.
	Path string `mapstructure:"path"`
}

// ThemeConfig holds the color tokens used by table and browser output.
type ThemeConfig struct {
	HeaderColor  string `mapstructure:"header_color"`
	ValueColor   string `mapstructure:"value_color"`
	KeywordColor string `mapstructure:"keyword_color"`
	ErrorColor   string `mapstructure:"error_color"`
	BorderColor  string `mapstructure:"border_color"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Verbosity: "a",
		Output:    "table",
		Scan: ScanConfig{
			Globs: []string{"*.cif", "*.star", "*.mmcif"},
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Theme: ThemeConfig{
			HeaderColor:  "#54A0FF",
			ValueColor:   "#73F59F",
			KeywordColor: "#F5D773",
			ErrorColor:   "#FF8787",
			BorderColor:  "#BBBBBB",
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate checks option values that have a closed domain.
func (c Config) Validate() error {
	switch c.Verbosity {
	case "q", "t", "a":
	default:
		return fmt.Errorf("invalid verbosity %q (want q, t or a)", c.Verbosity)
	}
	switch c.Output {
	case "table", "yaml":
	default:
		return fmt.Errorf("invalid output %q (want table or yaml)", c.Output)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}
	return nil
}

// DefaultConfigTemplate returns the commented YAML written for new users.
func DefaultConfigTemplate() string {
	return `# startools configuration
# Location: ~/.config/startools/config.yaml or .startools/config.yaml

# Default reporting mode for tokenize runs
#   q: quiet - errors only
#   t: tally - per-category histogram
#   a: all - every token, then the histogram
verbosity: a

# Include comment tokens in streams (default: false)
# emit_comments: true

# Downgrade misused loop_/global_/stop_ keywords to plain values
# lenient_constructs: true

# Treat [ and ] initial values as plain strings
# lenient_brackets: true

# Report renderer: table or yaml
output: table

# Directory scan settings
scan:
  # File name patterns treated as STAR sources
  globs:
    - "*.cif"
    - "*.star"
    - "*.mmcif"

# File watcher settings
watch:
  # Quiet period before a change triggers a re-run
  debounce: 300ms

# Run history settings
# history:
#   path: ~/.config/startools/history.db

# Color tokens for table and browser output
theme:
  header_color: "#54A0FF"
  value_color: "#73F59F"
  keyword_color: "#F5D773"
  error_color: "#FF8787"
  border_color: "#BBBBBB"

# Tracing configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/startools/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
