// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Amrsatrio/WrlXaml/internal/ports/secondary"
)

// WorkdirRepository implements secondary.WorkdirRepository with SQLite.
type WorkdirRepository struct {
	db *sql.DB
}

// NewWorkdirRepository creates a new SQLite work directory repository.
func NewWorkdirRepository(db *sql.DB) *WorkdirRepository {
	return &WorkdirRepository{db: db}
}

// Create persists a new work directory record.
// The record must have ID and Status pre-populated by the service layer.
func (r *WorkdirRepository) Create(ctx context.Context, record *secondary.WorkdirRecord) error {
	if record.ID == "" {
		return fmt.Errorf("workdir ID must be pre-populated by service layer")
	}
	if record.Status == "" {
		return fmt.Errorf("workdir Status must be pre-populated by service layer")
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO workdirs (id, sdk_version, dll_hash, dll_path, root_path, status) VALUES (?, ?, ?, ?, ?, ?)",
		record.ID, record.SdkVersion, record.DllHash, record.DllPath, record.RootPath, record.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create workdir record: %w", err)
	}

	return nil
}

// GetByID retrieves a work directory by its "<version>/<hash>" ID.
func (r *WorkdirRepository) GetByID(ctx context.Context, id string) (*secondary.WorkdirRecord, error) {
	var (
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.WorkdirRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, sdk_version, dll_hash, dll_path, root_path, status, created_at, updated_at FROM workdirs WHERE id = ?",
		id,
	).Scan(&record.ID, &record.SdkVersion, &record.DllHash, &record.DllPath, &record.RootPath, &record.Status, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("work directory %s not registered", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workdir record: %w", err)
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// List retrieves work directories matching the given filters.
func (r *WorkdirRepository) List(ctx context.Context, filters secondary.WorkdirFilters) ([]*secondary.WorkdirRecord, error) {
	query := "SELECT id, sdk_version, dll_hash, dll_path, root_path, status, created_at, updated_at FROM workdirs"
	args := []any{}

	if filters.Status != "" {
		query += " WHERE status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY sdk_version, dll_hash"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workdir records: %w", err)
	}
	defer rows.Close()

	var records []*secondary.WorkdirRecord
	for rows.Next() {
		var (
			createdAt time.Time
			updatedAt time.Time
		)

		record := &secondary.WorkdirRecord{}
		err := rows.Scan(&record.ID, &record.SdkVersion, &record.DllHash, &record.DllPath, &record.RootPath, &record.Status, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workdir record: %w", err)
		}

		record.CreatedAt = createdAt.Format(time.RFC3339)
		record.UpdatedAt = updatedAt.Format(time.RFC3339)

		records = append(records, record)
	}

	return records, nil
}

// UpdateStatus updates the status of a work directory.
func (r *WorkdirRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE workdirs SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update workdir status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("work directory %s not registered", id)
	}

	return nil
}

// Delete removes a work directory record entirely.
func (r *WorkdirRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM workdirs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete workdir record: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("work directory %s not registered", id)
	}

	return nil
}

// Ensure WorkdirRepository implements the interface
var _ secondary.WorkdirRepository = (*WorkdirRepository)(nil)
