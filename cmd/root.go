// Package cmd implements the startools command line interface.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/githubgphl/startools/internal/config"
	"github.com/githubgphl/startools/internal/log"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "startools",
	Short:   "A lexical toolkit for STAR and CIF files",
	Long: `startools tokenizes STAR family files (STAR, CIF, mmCIF) into classified
token streams, reports per-category histograms, scans directory trees, and
keeps a local history of runs.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/startools/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging to startools.log")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("verbosity", defaults.Verbosity)
	viper.SetDefault("emit_comments", defaults.EmitComments)
	viper.SetDefault("lenient_constructs", defaults.LenientConstructs)
	viper.SetDefault("lenient_brackets", defaults.LenientBrackets)
	viper.SetDefault("output", defaults.Output)
	viper.SetDefault("scan.globs", defaults.Scan.Globs)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("history.path", defaults.History.Path)
	viper.SetDefault("theme.header_color", defaults.Theme.HeaderColor)
	viper.SetDefault("theme.value_color", defaults.Theme.ValueColor)
	viper.SetDefault("theme.keyword_color", defaults.Theme.KeywordColor)
	viper.SetDefault("theme.error_color", defaults.Theme.ErrorColor)
	viper.SetDefault("theme.border_color", defaults.Theme.BorderColor)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .startools/config.yaml (current directory)
		// 2. ~/.config/startools/config.yaml (user config)
		if _, err := os.Stat(".startools/config.yaml"); err == nil {
			viper.SetConfigFile(".startools/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "startools"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .startools/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".startools/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func initLogging() {
	if !debug && os.Getenv("STARTOOLS_DEBUG") == "" {
		log.SetEnabled(false)
		return
	}
	if _, err := log.Init("startools.log"); err != nil {
		// Logging is best effort; the run continues without it.
		return
	}
	log.SetEnabled(true)
	if level, ok := log.ParseLevel(os.Getenv("STARTOOLS_LOG_LEVEL")); ok {
		log.SetMinLevel(level)
	}
}

// historyPath resolves the run history database location.
func historyPath() string {
	if cfg.History.Path != "" {
		return cfg.History.Path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "startools-history.db"
	}
	dir := filepath.Join(home, ".config", "startools")
	_ = os.MkdirAll(dir, 0o750)
	return filepath.Join(dir, "history.db")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
