package star

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, r *reader) string {
	t.Helper()
	var sb strings.Builder
	for {
		c, err := r.next()
		if err == io.EOF {
			return sb.String()
		}
		require.NoError(t, err)
		sb.WriteRune(c)
	}
}

func TestReader_NormalizesLineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"crlf", "a\r\nb", "a\nb"},
		{"lone cr", "a\rb", "a\nb"},
		{"mixed", "a\r\nb\rc\nd", "a\nb\nc\nd"},
		{"trailing cr", "a\r", "a\n"},
		{"consecutive crlf", "a\r\n\r\nb", "a\n\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := drain(t, newReader(strings.NewReader(tc.input)))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReader_PositionTracking(t *testing.T) {
	r := newReader(strings.NewReader("ab\r\ncd"))
	assert.Equal(t, Position{Line: 1, Col: 1, Offset: 0}, r.pos)

	want := []struct {
		c   rune
		pos Position
	}{
		{'a', Position{Line: 1, Col: 2, Offset: 1}},
		{'b', Position{Line: 1, Col: 3, Offset: 2}},
		{'\n', Position{Line: 2, Col: 1, Offset: 3}},
		{'c', Position{Line: 2, Col: 2, Offset: 4}},
		{'d', Position{Line: 2, Col: 3, Offset: 5}},
	}
	for _, step := range want {
		c, err := r.next()
		require.NoError(t, err)
		assert.Equal(t, step.c, c)
		assert.Equal(t, step.pos, r.pos)
	}

	_, err := r.next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_PositionsMonotone(t *testing.T) {
	r := newReader(strings.NewReader("x\ny z\n\nw"))
	prev := r.pos
	for {
		_, err := r.next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.Greater(t, r.pos.Offset, prev.Offset)
		prev = r.pos
	}
}

func TestReader_PeekDoesNotAdvance(t *testing.T) {
	r := newReader(strings.NewReader("xy"))

	c, err := r.peek()
	require.NoError(t, err)
	assert.Equal(t, 'x', c)
	assert.Equal(t, Position{Line: 1, Col: 1, Offset: 0}, r.pos)

	c, err = r.peek()
	require.NoError(t, err)
	assert.Equal(t, 'x', c)

	c, err = r.next()
	require.NoError(t, err)
	assert.Equal(t, 'x', c)
	assert.Equal(t, Position{Line: 1, Col: 2, Offset: 1}, r.pos)
}

func TestReader_EOF(t *testing.T) {
	r := newReader(strings.NewReader(""))

	_, err := r.peek()
	assert.Equal(t, io.EOF, err)
	_, err = r.next()
	assert.Equal(t, io.EOF, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestReader_StickyError(t *testing.T) {
	r := newReader(failingReader{})

	_, err := r.next()
	require.True(t, errors.Is(err, io.ErrClosedPipe))

	_, again := r.peek()
	assert.Equal(t, err, again)
	_, again = r.next()
	assert.Equal(t, err, again)
}
