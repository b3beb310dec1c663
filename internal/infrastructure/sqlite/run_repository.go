package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/githubgphl/startools/internal/history"
)

// runColumns is the list of columns to select for run queries.
const runColumns = `id, guid, path, tokens, bad_tokens, duration_ms, counts, created_at`

// runRepository implements history.Repository using SQLite.
type runRepository struct {
	db *sql.DB
}

func newRunRepository(db *sql.DB) *runRepository {
	return &runRepository{db: db}
}

// Ensure runRepository implements history.Repository.
var _ history.Repository = (*runRepository)(nil)

// scanRun scans a row into a RunModel.
func scanRun(scanner interface{ Scan(...any) error }) (*RunModel, error) {
	var model RunModel
	err := scanner.Scan(
		&model.ID, &model.GUID, &model.Path,
		&model.Tokens, &model.BadTokens, &model.DurationMs,
		&model.Counts, &model.CreatedAt,
	)
	return &model, err
}

// Save inserts a run and sets its ID.
func (r *runRepository) Save(run *history.Run) error {
	model := toRunModel(run)

	result, err := r.db.Exec(
		`INSERT INTO runs (guid, path, tokens, bad_tokens, duration_ms, counts, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		model.GUID, model.Path, model.Tokens, model.BadTokens,
		model.DurationMs, model.Counts, model.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	run.ID = id
	return nil
}

// List retrieves runs ordered by created_at descending (newest first).
func (r *runRepository) List(limit int) ([]*history.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*history.Run
	for rows.Next() {
		model, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, model.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// FindByGUID retrieves a run by its GUID.
// Returns RunNotFoundError if no matching run exists.
func (r *runRepository) FindByGUID(guid string) (*history.Run, error) {
	row := r.db.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE guid = ?`,
		guid,
	)
	model, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &history.RunNotFoundError{GUID: guid}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find run by guid: %w", err)
	}
	return model.toDomain(), nil
}
