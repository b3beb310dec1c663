package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/githubgphl/startools/internal/log"
	"github.com/githubgphl/startools/internal/report"
	"github.com/githubgphl/startools/internal/star"
	"github.com/githubgphl/startools/internal/tracing"
	"github.com/githubgphl/startools/internal/watcher"
)

var (
	tokenizeVerbosity string
	tokenizeOutput    string
	emitComments      bool
	lenientConstructs bool
	lenientBrackets   bool
	tokenizeWatch     bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize FILE",
	Short: "Tokenize one STAR file and report its token histogram",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().StringVarP(&tokenizeVerbosity, "verbosity", "V", "",
		"reporting mode: q (quiet), t (tally) or a (all tokens)")
	tokenizeCmd.Flags().StringVarP(&tokenizeOutput, "output", "o", "",
		"report renderer: table or yaml")
	tokenizeCmd.Flags().BoolVar(&emitComments, "emit-comments", false,
		"include comment tokens in the stream")
	tokenizeCmd.Flags().BoolVar(&lenientConstructs, "lenient-constructs", false,
		"treat misused loop_/global_/stop_ keywords as plain values")
	tokenizeCmd.Flags().BoolVar(&lenientBrackets, "lenient-brackets", false,
		"treat [ and ] initial values as plain strings")
	tokenizeCmd.Flags().BoolVarP(&tokenizeWatch, "watch", "w", false,
		"re-run whenever the file changes")

	rootCmd.AddCommand(tokenizeCmd)
}

// streamOptions merges config defaults with command flags.
func streamOptions() []star.Option {
	var opts []star.Option
	if emitComments || cfg.EmitComments {
		opts = append(opts, star.WithComments())
	}
	if lenientConstructs || cfg.LenientConstructs {
		opts = append(opts, star.WithLenientConstructs())
	}
	if lenientBrackets || cfg.LenientBrackets {
		opts = append(opts, star.WithLenientBrackets())
	}
	return opts
}

// consumeFunc drains one stream. The mode is fixed before the loop starts so
// no per-token branching happens inside it.
type consumeFunc func(w io.Writer, s *star.Stream) (*report.Histogram, error)

// consumeQuiet drains the stream counting into the histogram, printing
// nothing.
func consumeQuiet(_ io.Writer, s *star.Stream) (*report.Histogram, error) {
	var h report.Histogram
	for {
		tok, err := s.Next()
		if err == io.EOF {
			return &h, nil
		}
		if err != nil {
			return &h, err
		}
		h.Add(tok)
	}
}

// consumeTally is consumeQuiet today; it exists so the tally loop can grow
// per-category short-circuits without touching the quiet path.
func consumeTally(w io.Writer, s *star.Stream) (*report.Histogram, error) {
	return consumeQuiet(w, s)
}

// consumeAll prints every token as it is pulled, then tallies it.
func consumeAll(w io.Writer, s *star.Stream) (*report.Histogram, error) {
	var h report.Histogram
	for {
		tok, err := s.Next()
		if err == io.EOF {
			return &h, nil
		}
		if err != nil {
			return &h, err
		}
		fmt.Fprintln(w, tok)
		h.Add(tok)
	}
}

func pickConsumer(verbosity string) (consumeFunc, error) {
	switch verbosity {
	case "q":
		return consumeQuiet, nil
	case "t":
		return consumeTally, nil
	case "a":
		return consumeAll, nil
	default:
		return nil, fmt.Errorf("invalid verbosity %q (want q, t or a)", verbosity)
	}
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	verbosity := tokenizeVerbosity
	if verbosity == "" {
		verbosity = cfg.Verbosity
	}
	output := tokenizeOutput
	if output == "" {
		output = cfg.Output
	}
	switch output {
	case "table", "yaml":
	default:
		return fmt.Errorf("invalid output %q (want table or yaml)", output)
	}

	consume, err := pickConsumer(verbosity)
	if err != nil {
		return err
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	opts := streamOptions()
	renderer := report.NewRenderer(cfg.Theme)

	runOnce := func() error {
		_, span := provider.Tracer().Start(ctx, tracing.SpanTokenizeFile)
		defer span.End()
		span.SetAttributes(attribute.String(tracing.AttrFilePath, path))

		stream, err := star.Open(path, opts...)
		if err != nil {
			return err
		}

		start := time.Now()
		hist, err := consume(out, stream)
		elapsed := time.Since(start)
		if err != nil {
			span.SetAttributes(attribute.String(tracing.AttrErrorMsg, err.Error()))
			return err
		}
		span.SetAttributes(attribute.Int(tracing.AttrTokenCount, hist.Total()))
		log.Info(log.CatDriver, "tokenize complete", "path", path, "tokens", hist.Total(), "elapsed", elapsed)

		// Every mode reports the grand total and elapsed time: quiet as a
		// bare summary line, table via its footer, yaml via its fields.
		sum := report.Summary{Source: path, Tokens: hist.Total(), Duration: elapsed}
		if verbosity == "q" {
			fmt.Fprintln(out, sum)
			return nil
		}
		if output == "yaml" {
			doc, err := report.YAML(hist, sum)
			if err != nil {
				return err
			}
			fmt.Fprint(out, doc)
			return nil
		}
		fmt.Fprintln(out, renderer.Table(hist, sum))
		return nil
	}

	if err := runOnce(); err != nil {
		return err
	}
	if !tokenizeWatch {
		return nil
	}

	wcfg := watcher.DefaultConfig(path)
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
			log.Debug(log.CatWatch, "change detected", "path", path)
			fmt.Fprintln(out, "---")
			if err := runOnce(); err != nil {
				// A broken intermediate save is routine while watching.
				fmt.Fprintln(out, "error:", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
