// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// WorkdirRepository defines the secondary port for work directory persistence.
type WorkdirRepository interface {
	// Create persists a new work directory record.
	Create(ctx context.Context, record *WorkdirRecord) error

	// GetByID retrieves a work directory by its "<version>/<hash>" ID.
	GetByID(ctx context.Context, id string) (*WorkdirRecord, error)

	// List retrieves work directories matching the given filters.
	List(ctx context.Context, filters WorkdirFilters) ([]*WorkdirRecord, error)

	// UpdateStatus updates the status of a work directory.
	UpdateStatus(ctx context.Context, id, status string) error

	// Delete removes a work directory record entirely.
	Delete(ctx context.Context, id string) error
}

// WorkdirRecord represents a work directory as stored in persistence.
type WorkdirRecord struct {
	ID         string // "<sdk-version>/<dll-hash>"
	SdkVersion string
	DllHash    string
	DllPath    string
	RootPath   string
	Status     string
	CreatedAt  string
	UpdatedAt  string
}

// WorkdirFilters contains filter options for querying work directories.
type WorkdirFilters struct {
	Status string
	Limit  int
}

// RunRepository defines the secondary port for the run journal.
type RunRepository interface {
	// Record persists one pipeline run.
	Record(ctx context.Context, record *RunRecord) error

	// Latest retrieves the most recent run for a work directory.
	// Returns nil when the work directory has no runs.
	Latest(ctx context.Context, workdirID string) (*RunRecord, error)

	// ListByWorkdir retrieves runs for a work directory, newest first.
	ListByWorkdir(ctx context.Context, workdirID string, limit int) ([]*RunRecord, error)
}

// RunRecord represents one journaled pipeline invocation.
type RunRecord struct {
	ID         string
	WorkdirID  string
	Command    string
	Status     string
	Detail     string
	StartedAt  string
	FinishedAt string
}
