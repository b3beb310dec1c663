package star

import (
	"fmt"
	"io"
	"strings"
)

// Options control the classification choices the STAR grammar leaves open.
type Options struct {
	// EmitComments emits Comment tokens. By default comments are consumed
	// and discarded, never surfacing as tokens.
	EmitComments bool

	// LenientConstructs reclassifies misused privileged constructs other
	// than data_ (loop_, global_ or stop_ carrying a trailing code) as plain
	// String values, the permissive CIF reading. A bare data_ is always a
	// BadConstruct.
	LenientConstructs bool

	// LenientBrackets reclassifies runs opening with [ or ] as plain String
	// values instead of the reserved SquareBracket category.
	LenientBrackets bool
}

// Option configures a Stream at construction time.
type Option func(*Options)

// WithComments emits comments as Comment tokens instead of discarding them.
func WithComments() Option {
	return func(o *Options) { o.EmitComments = true }
}

// WithLenientConstructs treats misused loop_/global_/stop_ runs as values.
func WithLenientConstructs() Option {
	return func(o *Options) { o.LenientConstructs = true }
}

// WithLenientBrackets treats [ and ] initial runs as values.
func WithLenientBrackets() Option {
	return func(o *Options) { o.LenientBrackets = true }
}

// lexer is the classifier state machine. It pulls runes from its reader one
// token at a time, applying the context-sensitive STAR rules: quoted values
// close only on a quote followed by whitespace, and text fields are bound to
// column one. The first error latches the machine; every later call to next
// repeats it.
type lexer struct {
	r      *reader
	opts   Options
	failed error
}

func newLexer(r io.Reader, opts Options) *lexer {
	return &lexer{r: newReader(r), opts: opts}
}

// next returns the next token, io.EOF on exhaustion, or the latched error.
func (l *lexer) next() (Token, error) {
	if l.failed != nil {
		return Token{}, l.failed
	}
	tok, err := l.scan()
	if err != nil {
		l.failed = err
	}
	return tok, err
}

func (l *lexer) scan() (Token, error) {
	for {
		ch, err := l.skipSpace()
		if err != nil {
			return Token{}, err
		}
		start := l.r.pos
		switch {
		case ch == '#':
			tok, err := l.lexComment(start)
			if err != nil {
				return Token{}, err
			}
			if l.opts.EmitComments {
				return tok, nil
			}
		case ch == ';' && start.Col == 1:
			return l.lexTextField(start)
		case ch == '\'' || ch == '"':
			return l.lexQuoted(start, ch)
		default:
			return l.lexBare(start)
		}
	}
}

// skipSpace discards whitespace and returns the first content rune, still
// unconsumed. io.EOF means clean exhaustion; other errors are I/O failures.
func (l *lexer) skipSpace() (rune, error) {
	for {
		c, err := l.r.peek()
		if err != nil {
			return 0, l.readErr(err)
		}
		if !isSpace(c) {
			return c, nil
		}
		if _, err := l.r.next(); err != nil {
			return 0, l.readErr(err)
		}
	}
}

// lexComment consumes a # comment through end of line. The terminating
// newline is not part of the token.
func (l *lexer) lexComment(start Position) (Token, error) {
	var sb strings.Builder
	for {
		c, err := l.r.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Token{}, l.readErr(err)
		}
		if c == '\n' {
			break
		}
		if _, err := l.r.next(); err != nil {
			return Token{}, l.readErr(err)
		}
		sb.WriteRune(c)
	}
	return Token{Category: Comment, Lexeme: sb.String(), Span: Span{Start: start, End: l.r.pos}}, nil
}

// lexQuoted consumes a quoted value. The closing delimiter is the quote
// character immediately followed by whitespace, end of line or end of input;
// a quote followed by anything else is content. Reaching end of line or end
// of input without a terminator is fatal.
func (l *lexer) lexQuoted(start Position, quote rune) (Token, error) {
	if _, err := l.r.next(); err != nil {
		return Token{}, l.readErr(err)
	}
	var sb strings.Builder
	for {
		c, err := l.r.peek()
		if err == io.EOF {
			return Token{}, &LexError{Pos: start, Reason: UnterminatedQuote}
		}
		if err != nil {
			return Token{}, l.readErr(err)
		}
		if c == '\n' {
			return Token{}, &LexError{Pos: start, Reason: UnterminatedQuote}
		}
		if _, err := l.r.next(); err != nil {
			return Token{}, l.readErr(err)
		}
		if c != quote {
			sb.WriteRune(c)
			continue
		}
		n, err := l.r.peek()
		if err == io.EOF || (err == nil && isSpace(n)) {
			cat := SingleQuote
			if quote == '"' {
				cat = DoubleQuote
			}
			return Token{Category: cat, Lexeme: sb.String(), Span: Span{Start: start, End: l.r.pos}}, nil
		}
		if err != nil {
			return Token{}, l.readErr(err)
		}
		// The STAR quoting quirk: a quote followed by a non-whitespace
		// character is content, not a terminator.
		sb.WriteRune(c)
	}
}

// lexTextField consumes a multi-line text field opened by a column-one
// semicolon. The field runs verbatim, newlines included, until a line whose
// first character is a semicolon itself followed by whitespace or end of
// input. Both delimiting semicolons stay out of the lexeme but inside the
// span. End of input inside the field is fatal.
func (l *lexer) lexTextField(start Position) (Token, error) {
	if _, err := l.r.next(); err != nil {
		return Token{}, l.readErr(err)
	}
	var sb strings.Builder
	for {
		c, err := l.r.peek()
		if err == io.EOF {
			return Token{}, &LexError{Pos: start, Reason: UnterminatedTextField}
		}
		if err != nil {
			return Token{}, l.readErr(err)
		}
		if _, err := l.r.next(); err != nil {
			return Token{}, l.readErr(err)
		}
		if c != '\n' {
			sb.WriteRune(c)
			continue
		}
		n, err := l.r.peek()
		if err == io.EOF {
			return Token{}, &LexError{Pos: start, Reason: UnterminatedTextField}
		}
		if err != nil {
			return Token{}, l.readErr(err)
		}
		if n != ';' {
			sb.WriteRune('\n')
			continue
		}
		if _, err := l.r.next(); err != nil {
			return Token{}, l.readErr(err)
		}
		after, err := l.r.peek()
		if err == io.EOF || (err == nil && isSpace(after)) {
			sb.WriteRune('\n')
			return Token{Category: Multiline, Lexeme: sb.String(), Span: Span{Start: start, End: l.r.pos}}, nil
		}
		if err != nil {
			return Token{}, l.readErr(err)
		}
		// A line-initial semicolon followed by more content does not close
		// the field; it is content itself.
		sb.WriteRune('\n')
		sb.WriteRune(';')
	}
}

// lexBare consumes a maximal run of non-whitespace characters and classifies
// it against the privileged STAR constructs.
func (l *lexer) lexBare(start Position) (Token, error) {
	var sb strings.Builder
	for {
		c, err := l.r.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Token{}, l.readErr(err)
		}
		if isSpace(c) {
			break
		}
		if _, err := l.r.next(); err != nil {
			return Token{}, l.readErr(err)
		}
		sb.WriteRune(c)
	}
	return l.classify(sb.String(), start, Span{Start: start, End: l.r.pos})
}

func (l *lexer) classify(run string, start Position, span Span) (Token, error) {
	tok := func(cat Category, lexeme string) (Token, error) {
		return Token{Category: cat, Lexeme: lexeme, Span: span}, nil
	}
	lower := strings.ToLower(run)
	switch {
	case run == ".":
		return tok(Null, run)
	case run == "?":
		return tok(Unknown, run)
	case run[0] == '_':
		if len(run) == 1 {
			return Token{}, &LexError{Pos: start, Reason: IllegalToken}
		}
		return tok(DataName, run)
	case run[0] == '$':
		if len(run) == 1 {
			return Token{}, &LexError{Pos: start, Reason: IllegalToken}
		}
		return tok(FrameRef, run)
	case run[0] == '[' || run[0] == ']':
		if l.opts.LenientBrackets {
			return tok(String, run)
		}
		return tok(SquareBracket, run)
	case lower == "global_":
		return tok(Global, lower)
	case lower == "loop_":
		return tok(Loop, lower)
	case lower == "stop_":
		return tok(LoopStop, lower)
	case lower == "save_":
		return tok(SaveEnd, lower)
	case strings.HasPrefix(lower, "save_"):
		return tok(SaveHeader, "save_"+run[len("save_"):])
	case lower == "data_":
		// data_ without a block code violates STAR regardless of leniency.
		return tok(BadConstruct, lower)
	case strings.HasPrefix(lower, "data_"):
		return tok(DataBlock, "data_"+run[len("data_"):])
	case strings.HasPrefix(lower, "loop_"), strings.HasPrefix(lower, "global_"), strings.HasPrefix(lower, "stop_"):
		if l.opts.LenientConstructs {
			return tok(String, run)
		}
		return tok(BadConstruct, run)
	default:
		return tok(String, run)
	}
}

// readErr passes io.EOF through untouched and wraps real I/O failures.
func (l *lexer) readErr(err error) error {
	if err == io.EOF {
		return io.EOF
	}
	return fmt.Errorf("reading source: %w", err)
}

// isSpace reports STAR whitespace. \r never reaches the lexer; the reader
// folds it into \n.
func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f':
		return true
	}
	return false
}
