package star

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_OpenMissingFileFailsImmediately(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.cif"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "absent.cif")
}

func TestStream_OpenOwnsHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.star")
	require.NoError(t, os.WriteFile(path, []byte("data_a\n_k v\n"), 0o644))

	s, err := Open(path)
	require.NoError(t, err)

	var toks []Token
	for {
		tok, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		toks = append(toks, tok)
	}
	require.Len(t, toks, 3)

	// Exhaustion released the handle; closing again is a no-op.
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

type closeRecorder struct {
	io.Reader
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestStream_ReleasesSourceOnExhaustion(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader("_k v\n")}
	s := New(src)

	for {
		if _, err := s.Next(); err != nil {
			require.Equal(t, io.EOF, err)
			break
		}
	}
	assert.Equal(t, 1, src.closed)
}

func TestStream_ReleasesSourceOnError(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader("'broken")}
	s := New(src)

	_, err := s.Next()
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 1, src.closed)

	// The error repeats without closing again.
	_, again := s.Next()
	assert.Equal(t, err, again)
	assert.Equal(t, 1, src.closed)
}

func TestStream_EarlyAbandon(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader("data_x\n_k v\n_m w\n")}
	s := New(src)

	_, err := s.Next()
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.Equal(t, 1, src.closed)
}

type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func TestStream_Lazy(t *testing.T) {
	src := &countingReader{r: strings.NewReader("data_x\n_k v\n")}
	s := New(src)
	assert.Zero(t, src.reads, "stream construction must not read")

	_, err := s.Next()
	require.NoError(t, err)
	assert.Positive(t, src.reads)
}

func TestTokenize_ReturnsPrefixOnError(t *testing.T) {
	toks, err := Tokenize("_a 1 _b 'broken")
	require.Error(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "_a", toks[0].Lexeme)
	assert.Equal(t, "1", toks[1].Lexeme)
	assert.Equal(t, "_b", toks[2].Lexeme)
}
