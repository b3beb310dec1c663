package star

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Stream is a pull-based, single-pass token sequence over one source. It is
// lazy: no token is computed before it is requested. A stream is finite, not
// restartable, and must not be driven from more than one goroutine;
// independent streams over distinct sources share no state.
type Stream struct {
	lx     *lexer
	closer io.Closer
}

// New wraps r in a token stream. If r is also an io.Closer the stream takes
// ownership and releases it on exhaustion, on error, or through Close.
func New(r io.Reader, opts ...Option) *Stream {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	s := &Stream{lx: newLexer(r, o)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Open acquires the file at path and returns a stream that owns the handle
// for its lifetime. An unreadable path fails here, not on the first pull.
func Open(path string, opts ...Option) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return New(f, opts...), nil
}

// Next returns the next token. io.EOF signals clean exhaustion; any other
// error is terminal and repeats on every later call. The underlying source
// is released as soon as the stream ends, either way.
func (s *Stream) Next() (Token, error) {
	tok, err := s.lx.next()
	if err != nil {
		_ = s.Close()
		return Token{}, err
	}
	return tok, nil
}

// Close releases the underlying source. It is idempotent and safe to call
// after exhaustion; consumers that stop pulling early must call it.
func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

// Tokenize runs input through a fresh stream and returns every token in
// order. On failure it returns the tokens produced before the error along
// with the error itself. A convenience for small inputs; large sources
// should pull from a Stream.
func Tokenize(input string, opts ...Option) ([]Token, error) {
	s := New(strings.NewReader(input), opts...)
	var toks []Token
	for {
		tok, err := s.Next()
		if err == io.EOF {
			return toks, nil
		}
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
}
