package star

import (
	"bufio"
	"io"
)

// reader feeds the lexer a normalized rune sequence with one rune of
// lookahead. CRLF and lone CR line endings are folded into a single '\n' so
// line and column tracking stay consistent across platforms. A read failure
// is sticky: once the underlying source errors, every later call returns the
// same error.
type reader struct {
	br     *bufio.Reader
	pos    Position
	ahead  rune
	peeked bool
	err    error
}

func newReader(r io.Reader) *reader {
	return &reader{br: bufio.NewReader(r), pos: Position{Line: 1, Col: 1}}
}

// peek returns the next rune without consuming it. io.EOF marks exhaustion.
func (r *reader) peek() (rune, error) {
	if r.peeked {
		return r.ahead, nil
	}
	if r.err != nil {
		return 0, r.err
	}
	c, err := r.readNormalized()
	if err != nil {
		r.err = err
		return 0, err
	}
	r.ahead = c
	r.peeked = true
	return c, nil
}

// next consumes the next rune and advances the position.
func (r *reader) next() (rune, error) {
	c, err := r.peek()
	if err != nil {
		return 0, err
	}
	r.peeked = false
	r.pos.Offset++
	if c == '\n' {
		r.pos.Line++
		r.pos.Col = 1
	} else {
		r.pos.Col++
	}
	return c, nil
}

// readNormalized reads one rune from the source, folding \r\n and \r into \n.
func (r *reader) readNormalized() (rune, error) {
	c, _, err := r.br.ReadRune()
	if err != nil {
		return 0, err
	}
	if c != '\r' {
		return c, nil
	}
	n, _, err := r.br.ReadRune()
	if err == nil && n != '\n' {
		if err := r.br.UnreadRune(); err != nil {
			return 0, err
		}
	}
	if err != nil && err != io.EOF {
		return 0, err
	}
	return '\n', nil
}
