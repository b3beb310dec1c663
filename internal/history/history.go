// Package history defines the run history domain: one record per completed
// tokenize pass, with its per-category tallies.
package history

import (
	"time"
)

// Run is one completed tokenize pass over a single source.
type Run struct {
	// ID is the storage identity, zero until saved.
	ID int64

	// GUID identifies the run across databases.
	GUID string

	// Path is the tokenized source file.
	Path string

	// Tokens is the total token count.
	Tokens int

	// BadTokens counts tokens in error categories.
	BadTokens int

	// DurationMs is the wall time of the pass.
	DurationMs float64

	// Counts maps category display names to tallies. Only non-zero
	// categories are recorded.
	Counts map[string]int

	CreatedAt time.Time
}

// Repository persists runs.
type Repository interface {
	// Save inserts the run and sets its ID.
	Save(run *Run) error

	// List returns the newest runs first, at most limit when limit > 0.
	List(limit int) ([]*Run, error)

	// FindByGUID returns one run, or RunNotFoundError.
	FindByGUID(guid string) (*Run, error)
}

// RunNotFoundError reports a lookup miss.
type RunNotFoundError struct {
	GUID string
}

func (e *RunNotFoundError) Error() string {
	return "run not found: " + e.GUID
}
