package sqlite

import (
	"encoding/json"
	"time"

	"github.com/githubgphl/startools/internal/history"
)

// RunModel represents the database row for the runs table.
// Fields map directly to SQL columns with Unix timestamps for time values.
type RunModel struct {
	ID         int64
	GUID       string
	Path       string
	Tokens     int64
	BadTokens  int64
	DurationMs float64
	Counts     *string // nullable, JSON encoded
	CreatedAt  int64   // Unix timestamp
}

// toRunModel converts a domain Run to a database RunModel.
func toRunModel(r *history.Run) *RunModel {
	m := &RunModel{
		ID:         r.ID,
		GUID:       r.GUID,
		Path:       r.Path,
		Tokens:     int64(r.Tokens),
		BadTokens:  int64(r.BadTokens),
		DurationMs: r.DurationMs,
		CreatedAt:  r.CreatedAt.Unix(),
	}
	if len(r.Counts) > 0 {
		countsJSON, err := json.Marshal(r.Counts)
		if err == nil {
			counts := string(countsJSON)
			m.Counts = &counts
		}
	}
	return m
}

// toDomain converts a database RunModel to a domain Run.
func (m *RunModel) toDomain() *history.Run {
	var counts map[string]int
	if m.Counts != nil {
		_ = json.Unmarshal([]byte(*m.Counts), &counts)
	}
	return &history.Run{
		ID:         m.ID,
		GUID:       m.GUID,
		Path:       m.Path,
		Tokens:     int(m.Tokens),
		BadTokens:  int(m.BadTokens),
		DurationMs: m.DurationMs,
		Counts:     counts,
		CreatedAt:  time.Unix(m.CreatedAt, 0),
	}
}
