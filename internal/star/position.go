package star

import "fmt"

// Position identifies a character in the normalized source: 1-based line and
// column, 0-based rune offset. Positions only ever increase while a stream
// advances.
type Position struct {
	Line   int
	Col    int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is the half-open extent [Start, End) of a token in the source.
// It covers exactly the characters composing the token's raw text,
// delimiters included, so diagnostics can reproduce the original extent.
type Span struct {
	Start Position
	End   Position
}

// Len is the span's length in runes of the normalized source.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}
