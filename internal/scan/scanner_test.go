package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/githubgphl/startools/internal/star"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestScanner(skipCache bool, opts ...star.Option) *Scanner {
	return New([]string{"*.cif", "*.star"}, noop.NewTracerProvider().Tracer("test"), skipCache, opts...)
}

func TestScanner_TokenizesMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cif", "data_a\n_k v\n")
	writeFile(t, dir, "b.star", "data_b\nloop_\n_x\n1\n2\n")
	writeFile(t, dir, "notes.txt", "not star")

	s := newTestScanner(false)
	results, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byName := map[string]Result{}
	for _, r := range results {
		byName[filepath.Base(r.Path)] = r
	}

	a := byName["a.cif"]
	require.NoError(t, a.Err)
	require.NotNil(t, a.Run)
	assert.Equal(t, 3, a.Run.Tokens)
	assert.Zero(t, a.Run.BadTokens)
	assert.NotEmpty(t, a.Run.GUID)
	assert.Equal(t, 1, a.Run.Counts["DATA_BLOCK"])

	b := byName["b.star"]
	require.NoError(t, b.Err)
	assert.Equal(t, 5, b.Run.Tokens)
}

func TestScanner_LexicalFailureIsPerFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.cif", "data_g\n")
	writeFile(t, dir, "bad.cif", "_k 'unterminated\n")

	s := newTestScanner(false)
	results, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	var failures int
	for _, r := range results {
		if r.Err != nil {
			failures++
			assert.Nil(t, r.Run)
			var lexErr *star.LexError
			assert.ErrorAs(t, r.Err, &lexErr)
		}
	}
	assert.Equal(t, 1, failures)
}

func TestScanner_CachesUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.cif", "data_a\n")

	s := newTestScanner(false)

	first, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].Cached)

	second, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].Cached)
	assert.Equal(t, first[0].Run.GUID, second[0].Run.GUID)

	// Touching the file with new content invalidates the mtime key.
	require.NoError(t, os.WriteFile(path, []byte("data_a\n_k v\n"), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	third, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.False(t, third[0].Cached)
	assert.Equal(t, 3, third[0].Run.Tokens)
}

func TestScanner_SkipCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cif", "data_a\n")

	s := newTestScanner(true)

	_, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)

	second, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.False(t, second[0].Cached)
}

func TestScanner_LenientOptionsPropagate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cif", "loop_x\n")

	strict := newTestScanner(false)
	results, err := strict.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Run.BadTokens)

	lenient := newTestScanner(false, star.WithLenientConstructs())
	results, err = lenient.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].Run.BadTokens)
}

func TestScanner_MissingRoot(t *testing.T) {
	s := newTestScanner(false)
	_, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
