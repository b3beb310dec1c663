// Package scan walks a directory tree, tokenizes every STAR source it finds,
// and memoizes per-file results so repeated scans only re-read changed files.
package scan

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/githubgphl/startools/internal/cachemanager"
	"github.com/githubgphl/startools/internal/history"
	"github.com/githubgphl/startools/internal/log"
	"github.com/githubgphl/startools/internal/star"
	"github.com/githubgphl/startools/internal/tracing"
)

// Result is the outcome for one scanned file. Err is set when the file
// failed lexically; Run is set otherwise.
type Result struct {
	Path   string
	Run    *history.Run
	Err    error
	Cached bool
}

// Scanner tokenizes directory trees of STAR sources.
type Scanner struct {
	globs  []string
	opts   []star.Option
	cache  *cachemanager.ReadThroughCache[string, *history.Run, string]
	tracer trace.Tracer

	// loaded marks files the cache loader actually read during the
	// current Scan. Scans run on one goroutine.
	loaded map[string]bool
}

// New builds a scanner. Files are matched against globs by base name.
// When skipCache is true every scan re-reads every file.
func New(globs []string, tracer trace.Tracer, skipCache bool, opts ...star.Option) *Scanner {
	s := &Scanner{
		globs:  globs,
		opts:   opts,
		tracer: tracer,
	}
	mem := cachemanager.NewInMemoryCacheManager[string, *history.Run](
		"scan", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	s.cache = cachemanager.NewReadThroughCache[string, *history.Run, string](mem, s.tokenizeFile, skipCache)
	return s
}

// Scan walks root and tokenizes every matching file, in walk order.
// Lexical failures land in their Result; only walk errors abort the scan.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Result, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanScanDir)
	defer span.End()

	s.loaded = make(map[string]bool)
	var results []Result

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !s.matches(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		key := fmt.Sprintf("%s@%d", path, info.ModTime().UnixNano())

		run, err := s.cache.Get(ctx, key, path, cachemanager.DefaultExpiration)
		res := Result{Path: path, Run: run, Err: err, Cached: !s.loaded[path]}
		if err != nil {
			log.Warn(log.CatScan, "file failed to tokenize", "path", path, "error", err)
			res.Run = nil
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	cached := 0
	for _, r := range results {
		if r.Cached {
			cached++
		}
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrScanFiles, len(results)),
		attribute.Int(tracing.AttrScanCached, cached),
	)
	log.Info(log.CatScan, "scan complete", "root", root, "files", len(results), "cached", cached)

	return results, nil
}

func (s *Scanner) matches(base string) bool {
	if len(s.globs) == 0 {
		return true
	}
	for _, g := range s.globs {
		if ok, err := filepath.Match(g, base); err == nil && ok {
			return true
		}
	}
	return false
}

// tokenizeFile is the cache loader: a quiet full pass over one file.
func (s *Scanner) tokenizeFile(ctx context.Context, path string) (*history.Run, error) {
	s.loaded[path] = true

	ctx, span := s.tracer.Start(ctx, tracing.SpanTokenizeFile)
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrFilePath, path))

	if info, err := os.Stat(path); err == nil {
		span.SetAttributes(attribute.Int64(tracing.AttrFileBytes, info.Size()))
	}

	stream, err := star.Open(path, s.opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	counts := make(map[string]int)
	total, bad := 0, 0
	for {
		tok, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			span.SetAttributes(attribute.String(tracing.AttrErrorMsg, err.Error()))
			return nil, err
		}
		total++
		counts[tok.Category.String()]++
		if tok.Category.IsError() {
			bad++
		}
	}

	run := &history.Run{
		GUID:       uuid.NewString(),
		Path:       path,
		Tokens:     total,
		BadTokens:  bad,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Counts:     counts,
		CreatedAt:  time.Now(),
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrTokenCount, total),
		attribute.Int(tracing.AttrBadCount, bad),
		attribute.String(tracing.AttrRunGUID, run.GUID),
	)
	return run, nil
}
