package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/githubgphl/startools/internal/star"
)

func TestPickConsumer(t *testing.T) {
	for _, v := range []string{"q", "t", "a"} {
		consume, err := pickConsumer(v)
		require.NoError(t, err, "verbosity %q", v)
		require.NotNil(t, consume)
	}

	_, err := pickConsumer("loud")
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid verbosity")
}

func TestConsumeQuiet_CountsWithoutPrinting(t *testing.T) {
	var out strings.Builder
	s := star.New(strings.NewReader("data_x\n_k v\n"))

	hist, err := consumeQuiet(&out, s)
	require.NoError(t, err)
	assert.Equal(t, 3, hist.Total())
	assert.Empty(t, out.String())
}

func TestConsumeAll_PrintsEveryToken(t *testing.T) {
	var out strings.Builder
	s := star.New(strings.NewReader("data_x\n_k v\n"))

	hist, err := consumeAll(&out, s)
	require.NoError(t, err)
	assert.Equal(t, 3, hist.Total())

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "DATA_BLOCK")
	assert.Contains(t, lines[0], ">>>data_x<<<")
	assert.Contains(t, lines[2], "STRING")
}

func TestConsume_SurfacesLexicalError(t *testing.T) {
	var out strings.Builder
	s := star.New(strings.NewReader("_k 'broken"))

	_, err := consumeTally(&out, s)
	require.Error(t, err)
	var lexErr *star.LexError
	assert.ErrorAs(t, err, &lexErr)
}

func TestTokenizeQuiet_PrintsRunSummary(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("sample.cif", []byte("data_x\n_k v\n"), 0o600))
	require.NoError(t, os.WriteFile("cfg.yaml", []byte("verbosity: a\n"), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"tokenize", "-c", "cfg.yaml", "-V", "q", "sample.cif"})
	require.NoError(t, rootCmd.Execute())

	// Quiet suppresses the histogram, not the run totals.
	assert.Contains(t, out.String(), "sample.cif: 3 tokens in ")
	assert.NotContains(t, out.String(), "CATEGORY")
}

func TestConsume_IOContract(t *testing.T) {
	// An empty source yields an empty histogram, not an error.
	var out strings.Builder
	s := star.New(strings.NewReader(""))

	hist, err := consumeQuiet(&out, s)
	require.NoError(t, err)
	assert.Zero(t, hist.Total())
	assert.Empty(t, out.String())
}
