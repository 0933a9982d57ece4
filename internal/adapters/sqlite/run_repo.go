package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Amrsatrio/WrlXaml/internal/ports/secondary"
)

// RunRepository implements secondary.RunRepository with SQLite.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new SQLite run journal repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Record persists one pipeline run.
// The record must have ID, Status and timestamps pre-populated by the service layer.
func (r *RunRepository) Record(ctx context.Context, record *secondary.RunRecord) error {
	if record.ID == "" {
		return fmt.Errorf("run ID must be pre-populated by service layer")
	}

	startedAt, err := time.Parse(time.RFC3339, record.StartedAt)
	if err != nil {
		return fmt.Errorf("run StartedAt is not RFC3339: %w", err)
	}
	finishedAt, err := time.Parse(time.RFC3339, record.FinishedAt)
	if err != nil {
		return fmt.Errorf("run FinishedAt is not RFC3339: %w", err)
	}

	var detail sql.NullString
	if record.Detail != "" {
		detail = sql.NullString{String: record.Detail, Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO runs (id, workdir_id, command, status, detail, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		record.ID, record.WorkdirID, record.Command, record.Status, detail, startedAt, finishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// Latest retrieves the most recent run for a work directory.
// Returns nil when the work directory has no runs.
func (r *RunRepository) Latest(ctx context.Context, workdirID string) (*secondary.RunRecord, error) {
	record, err := r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT id, workdir_id, command, status, detail, started_at, finished_at FROM runs WHERE workdir_id = ? ORDER BY finished_at DESC, id LIMIT 1",
		workdirID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	return record, nil
}

// ListByWorkdir retrieves runs for a work directory, newest first.
func (r *RunRepository) ListByWorkdir(ctx context.Context, workdirID string, limit int) ([]*secondary.RunRecord, error) {
	query := "SELECT id, workdir_id, command, status, detail, started_at, finished_at FROM runs WHERE workdir_id = ? ORDER BY finished_at DESC, id"
	args := []any{workdirID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*secondary.RunRecord
	for rows.Next() {
		record, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RunRepository) scanOne(row rowScanner) (*secondary.RunRecord, error) {
	var (
		detail     sql.NullString
		startedAt  time.Time
		finishedAt time.Time
	)

	record := &secondary.RunRecord{}
	err := row.Scan(&record.ID, &record.WorkdirID, &record.Command, &record.Status, &detail, &startedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	record.Detail = detail.String
	record.StartedAt = startedAt.Format(time.RFC3339)
	record.FinishedAt = finishedAt.Format(time.RFC3339)

	return record, nil
}

// Ensure RunRepository implements the interface
var _ secondary.RunRepository = (*RunRepository)(nil)
