package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/githubgphl/startools/internal/config"
	"github.com/githubgphl/startools/internal/infrastructure/sqlite"
	"github.com/githubgphl/startools/internal/log"
	"github.com/githubgphl/startools/internal/scan"
	"github.com/githubgphl/startools/internal/tracing"
	"github.com/githubgphl/startools/internal/watcher"
)

var (
	scanNoCache   bool
	scanNoHistory bool
	scanWatch     bool
	scanGlobs     []string
	scanSaveGlobs bool
)

var scanCmd = &cobra.Command{
	Use:   "scan DIR",
	Short: "Tokenize every STAR file under a directory and record the runs",
	Long: `Walks DIR, tokenizes every file matching the configured globs, and saves
one history record per file. Unchanged files are served from an in-memory
cache keyed by path and modification time.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanNoCache, "no-cache", false,
		"re-tokenize every file even if unchanged")
	scanCmd.Flags().BoolVar(&scanNoHistory, "no-history", false,
		"skip saving run records")
	scanCmd.Flags().BoolVarP(&scanWatch, "watch", "w", false,
		"re-scan whenever a matching file changes")
	scanCmd.Flags().StringSliceVar(&scanGlobs, "globs", nil,
		"file name patterns to scan (overrides the configured globs)")
	scanCmd.Flags().BoolVar(&scanSaveGlobs, "save-globs", false,
		"persist the effective globs to the config file")
	scanCmd.Flags().BoolVar(&lenientConstructs, "lenient-constructs", false,
		"treat misused loop_/global_/stop_ keywords as plain values")
	scanCmd.Flags().BoolVar(&lenientBrackets, "lenient-brackets", false,
		"treat [ and ] initial values as plain strings")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]
	out := cmd.OutOrStdout()

	if len(scanGlobs) > 0 {
		cfg.Scan.Globs = scanGlobs
	}
	if scanSaveGlobs {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			configPath = ".startools/config.yaml"
		}
		if err := config.SaveScanGlobs(configPath, cfg.Scan.Globs); err != nil {
			return fmt.Errorf("saving scan globs: %w", err)
		}
		fmt.Fprintf(out, "saved scan globs to %s\n", configPath)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	var db *sqlite.DB
	if !scanNoHistory {
		db, err = sqlite.Open(historyPath())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
	}

	scanner := scan.New(cfg.Scan.Globs, provider.Tracer(), scanNoCache, streamOptions()...)

	scanOnce := func() error {
		results, err := scanner.Scan(ctx, root)
		if err != nil {
			return err
		}

		files, cached, failed := 0, 0, 0
		for _, res := range results {
			files++
			if res.Cached {
				cached++
			}
			if res.Err != nil {
				failed++
				fmt.Fprintf(out, "%-40s FAILED: %v\n", res.Path, res.Err)
				continue
			}
			fmt.Fprintf(out, "%-40s %6d tokens %4d bad\n", res.Path, res.Run.Tokens, res.Run.BadTokens)

			if db != nil && !res.Cached {
				if err := db.Runs().Save(res.Run); err != nil {
					log.ErrorErr(log.CatDB, "saving run failed", err, "path", res.Path)
				}
			}
		}
		fmt.Fprintf(out, "%d files, %d cached, %d failed\n", files, cached, failed)
		return nil
	}

	if err := scanOnce(); err != nil {
		return err
	}
	if !scanWatch {
		return nil
	}

	wcfg := watcher.DefaultConfig(root)
	wcfg.Globs = cfg.Scan.Globs
	if cfg.Watch.Debounce > 0 {
		wcfg.DebounceDur = cfg.Watch.Debounce
	}
	w, err := watcher.New(wcfg)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	fmt.Fprintln(out, "watching for changes, ctrl+c to stop")

	for {
		select {
		case <-onChange:
			log.Debug(log.CatWatch, "change detected", "root", root)
			fmt.Fprintln(out, "---")
			if err := scanOnce(); err != nil {
				fmt.Fprintln(out, "error:", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
