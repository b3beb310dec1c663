package star

import "fmt"

// Reason is the closed set of lexical failure codes.
type Reason int

const (
	// UnterminatedQuote: a quoted value reached end of line or end of input
	// without a closing quote followed by whitespace.
	UnterminatedQuote Reason = iota
	// UnterminatedTextField: end of input inside a semicolon text field.
	UnterminatedTextField
	// IllegalToken: a character sequence matching no defined category.
	IllegalToken
)

func (r Reason) String() string {
	switch r {
	case UnterminatedQuote:
		return "unterminated quoted value"
	case UnterminatedTextField:
		return "unterminated text field"
	case IllegalToken:
		return "character sequence matches no category"
	default:
		return "unknown reason"
	}
}

// LexError is a fatal tokenization failure. The stream that raised it is
// terminally failed and repeats the same error on every later pull.
type LexError struct {
	Pos    Position
	Reason Reason
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at %s: %s", e.Pos, e.Reason)
}
