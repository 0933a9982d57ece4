package primary

import "context"

// WorkdirService defines the primary port for work directory operations.
type WorkdirService interface {
	// Register records a freshly set up work directory.
	Register(ctx context.Context, req RegisterWorkdirRequest) (*Workdir, error)

	// Get retrieves a work directory by its "<version>/<hash>" ID.
	Get(ctx context.Context, id string) (*Workdir, error)

	// List lists registered work directories with optional filters.
	List(ctx context.Context, filters WorkdirFilters) ([]*Workdir, error)

	// Remove marks a work directory removed.
	Remove(ctx context.Context, req RemoveWorkdirRequest) error

	// RecordRun journals one pipeline invocation against a work directory.
	RecordRun(ctx context.Context, req RecordRunRequest) error

	// LatestRun returns the most recent journaled run for a work directory,
	// or nil when none exists.
	LatestRun(ctx context.Context, workdirID string) (*Run, error)
}

// RegisterWorkdirRequest contains parameters for registering a work directory.
type RegisterWorkdirRequest struct {
	SdkVersion string
	DllHash    string
	DllPath    string
	RootPath   string // project root the work directory lives under
}

// RemoveWorkdirRequest contains parameters for removing a work directory.
type RemoveWorkdirRequest struct {
	ID    string
	Force bool
}

// RecordRunRequest contains parameters for journaling a run.
type RecordRunRequest struct {
	WorkdirID  string
	Command    string
	Err        error // nil records an ok run
	StartedAt  string
	FinishedAt string
}

// Workdir represents a work directory at the port boundary.
type Workdir struct {
	ID         string
	SdkVersion string
	DllHash    string
	DllPath    string
	RootPath   string
	Status     string
	CreatedAt  string
	UpdatedAt  string
}

// Run represents one journaled pipeline invocation.
type Run struct {
	ID         string
	WorkdirID  string
	Command    string
	Status     string
	Detail     string
	StartedAt  string
	FinishedAt string
}

// WorkdirFilters contains filter options for listing work directories.
type WorkdirFilters struct {
	Status string
	Limit  int
}

// Workdir status constants
const (
	WorkdirStatusActive  = "active"
	WorkdirStatusRemoved = "removed"
)

// Run status constants
const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)
