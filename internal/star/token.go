// Package star implements a lexical tokenizer for the STAR text format, the
// self-defining archival format that CIF and mmCIF are profiles of.
//
// The package converts raw source text into a strictly ordered sequence of
// classified tokens via a pull-based Stream. It is a validating, fail-fast
// tokenizer: the first lexical error latches the stream into a terminal
// failure state. Grammar-level validation (matching loops, save frames and
// data blocks) belongs to a structural parser, not here.
package star

import "strings"

// Category classifies a lexical token. The set is closed: every category has
// an entry in the name table, and histogram consumers index arrays by it.
type Category int

// Categories in canonical order. The order follows the match precedence of
// the STAR grammar: constructs that need special whitespace handling first,
// then privileged keywords, tags, quoted forms, reserved markers, and plain
// values last.
const (
	// Multiline is a text-field value delimited by line-initial semicolons.
	Multiline Category = iota
	// Comment is a # comment running to end of line.
	Comment
	// Global is the STAR global_ block keyword (forbidden in CIF).
	Global
	// SaveHeader is a save frame header save_<code> (forbidden in CIF).
	SaveHeader
	// SaveEnd is the bare save_ frame terminator (forbidden in CIF).
	SaveEnd
	// FrameRef is a $<code> save frame reference (forbidden in CIF).
	FrameRef
	// LoopStop is the STAR stop_ nested-loop terminator (forbidden in CIF).
	LoopStop
	// DataBlock is a data block header data_<code>.
	DataBlock
	// Loop is the loop_ keyword.
	Loop
	// BadConstruct is a misused privileged construct: a bare data_, or
	// loop_/global_/stop_ carrying a trailing code.
	BadConstruct
	// DataName is a tag: an unquoted run beginning with an underscore.
	DataName
	// SingleQuote is a single-quoted value.
	SingleQuote
	// DoubleQuote is a double-quoted value.
	DoubleQuote
	// Null is the reserved inapplicable-value marker, an unquoted dot.
	Null
	// Unknown is the reserved unknown-value marker, an unquoted question mark.
	Unknown
	// SquareBracket is a run opening with [ or ], reserved by the CIF
	// specification for future use.
	SquareBracket
	// String is a generic unquoted value.
	String
	// BadToken marks text that matches no category. Streams never emit it;
	// it exists so error diagnostics and histograms share one closed table.
	BadToken

	// NumCategories is the size of the closed category set.
	NumCategories int = iota
)

// categoryNames maps categories to display names. The array is sized by
// NumCategories so a category without a slot fails to compile; there is no
// fallback name.
var categoryNames = [NumCategories]string{
	Multiline:     "MULTILINE",
	Comment:       "COMMENT",
	Global:        "GLOBAL",
	SaveHeader:    "SAVE_FRAME",
	SaveEnd:       "SAVE_FRAME_END",
	FrameRef:      "SAVE_FRAME_REF",
	LoopStop:      "LOOP_STOP",
	DataBlock:     "DATA_BLOCK",
	Loop:          "LOOP",
	BadConstruct:  "BAD_CONSTRUCT",
	DataName:      "DATA_NAME",
	SingleQuote:   "SQUOTE_STRING",
	DoubleQuote:   "DQUOTE_STRING",
	Null:          "NULL",
	Unknown:       "UNKNOWN",
	SquareBracket: "SQUARE_BRACKET",
	String:        "STRING",
	BadToken:      "BAD_TOKEN",
}

// String returns the category's display name.
func (c Category) String() string {
	return categoryNames[c]
}

// IsValue reports whether c carries a STAR data value, as opposed to a
// header, tag or keyword.
func (c Category) IsValue() bool {
	switch c {
	case Multiline, SingleQuote, DoubleQuote, Null, Unknown, String:
		return true
	}
	return false
}

// IsStarOnly reports whether c is valid STAR but forbidden in CIF files.
func (c Category) IsStarOnly() bool {
	switch c {
	case Global, SaveHeader, SaveEnd, FrameRef, LoopStop:
		return true
	}
	return false
}

// IsError reports whether c marks text that violates STAR syntax.
func (c Category) IsError() bool {
	return c == BadConstruct || c == BadToken
}

// Token is an immutable classified unit of STAR source text.
//
// Lexeme holds the decoded text: delimiters are stripped from quoted and
// text-field values, reserved keywords are normalized to lower case, and
// everything else is verbatim. Span covers the token's raw extent in the
// source, delimiters included.
type Token struct {
	Category Category
	Lexeme   string
	Span     Span
}

// Code returns the block or frame code of a DataBlock, SaveHeader or SaveEnd
// token, the lexeme with its reserved prefix removed. A SaveEnd code is
// always empty. For any other category Code returns the lexeme unchanged.
func (t Token) Code() string {
	switch t.Category {
	case DataBlock:
		return strings.TrimPrefix(t.Lexeme, "data_")
	case SaveHeader, SaveEnd:
		return strings.TrimPrefix(t.Lexeme, "save_")
	}
	return t.Lexeme
}

// String renders a human-readable summary of the token.
func (t Token) String() string {
	return t.Category.String() + " " + t.Span.Start.String() + " >>>" + t.Lexeme + "<<<"
}
