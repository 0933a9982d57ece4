package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Amrsatrio/WrlXaml/internal/core/patchset"
	"github.com/Amrsatrio/WrlXaml/internal/core/workdir"
	"github.com/Amrsatrio/WrlXaml/internal/ports/primary"
	"github.com/Amrsatrio/WrlXaml/internal/ports/secondary"
)

// WorkdirService implements primary.WorkdirService over the SQLite
// repositories and the filesystem workspace.
type WorkdirService struct {
	workdirs secondary.WorkdirRepository
	runs     secondary.RunRepository
	ws       secondary.Workspace
	git      *GitService
}

// NewWorkdirService creates a new WorkdirService.
func NewWorkdirService(workdirs secondary.WorkdirRepository, runs secondary.RunRepository, ws secondary.Workspace, git *GitService) *WorkdirService {
	return &WorkdirService{workdirs: workdirs, runs: runs, ws: ws, git: git}
}

// Register records a freshly set up work directory. A removed record for
// the same key is replaced, so cleaning and re-running setup works.
func (s *WorkdirService) Register(ctx context.Context, req primary.RegisterWorkdirRequest) (*primary.Workdir, error) {
	if req.SdkVersion == "" || req.DllHash == "" {
		return nil, fmt.Errorf("sdk version and dll hash are required")
	}
	id := req.SdkVersion + "/" + req.DllHash

	if existing, err := s.workdirs.GetByID(ctx, id); err == nil {
		if existing.Status == primary.WorkdirStatusActive {
			return nil, fmt.Errorf("work directory %s is already registered", id)
		}
		if err := s.workdirs.Delete(ctx, id); err != nil {
			return nil, err
		}
	}

	record := &secondary.WorkdirRecord{
		ID:         id,
		SdkVersion: req.SdkVersion,
		DllHash:    req.DllHash,
		DllPath:    req.DllPath,
		RootPath:   req.RootPath,
		Status:     primary.WorkdirStatusActive,
	}
	if err := s.workdirs.Create(ctx, record); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Get retrieves a work directory by its "<version>/<hash>" ID.
func (s *WorkdirService) Get(ctx context.Context, id string) (*primary.Workdir, error) {
	record, err := s.workdirs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapWorkdir(record), nil
}

// List lists registered work directories with optional filters.
func (s *WorkdirService) List(ctx context.Context, filters primary.WorkdirFilters) ([]*primary.Workdir, error) {
	records, err := s.workdirs.List(ctx, secondary.WorkdirFilters{
		Status: filters.Status,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, err
	}

	workdirs := make([]*primary.Workdir, 0, len(records))
	for _, record := range records {
		workdirs = append(workdirs, mapWorkdir(record))
	}
	return workdirs, nil
}

// Remove deletes the work directory tree and marks the record removed.
// Uncommitted edits block removal unless forced.
func (s *WorkdirService) Remove(ctx context.Context, req primary.RemoveWorkdirRequest) error {
	record, err := s.workdirs.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if record.Status == primary.WorkdirStatusRemoved {
		return fmt.Errorf("work directory %s is already removed", req.ID)
	}

	key, err := workdir.ParseKey(record.ID)
	if err != nil {
		return err
	}
	layout := workdir.Layout{Root: record.RootPath}

	dirty := false
	srcDir := layout.SourceDir(key)
	if exists, err := s.ws.DirExists(ctx, srcDir); err == nil && exists {
		if d, err := s.git.IsDirty(ctx, srcDir); err == nil {
			dirty = d
		}
	}

	patches, _ := s.ws.ListFilesWithExt(ctx, layout.PatchOutputDir(key), patchset.FileExt)

	guard := workdir.CanRemove(workdir.RemoveContext{
		Key:            key,
		SourceIsDirty:  dirty,
		PatchesWritten: len(patches) > 0,
		Force:          req.Force,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	if err := s.ws.RemoveDir(ctx, layout.Dir(key)); err != nil {
		return fmt.Errorf("failed to remove work directory: %w", err)
	}

	return s.workdirs.UpdateStatus(ctx, record.ID, primary.WorkdirStatusRemoved)
}

// RecordRun journals one pipeline invocation against a work directory.
func (s *WorkdirService) RecordRun(ctx context.Context, req primary.RecordRunRequest) error {
	status := primary.RunStatusOK
	detail := ""
	if req.Err != nil {
		status = primary.RunStatusFailed
		detail = req.Err.Error()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	record := &secondary.RunRecord{
		ID:         uuid.NewString(),
		WorkdirID:  req.WorkdirID,
		Command:    req.Command,
		Status:     status,
		Detail:     detail,
		StartedAt:  req.StartedAt,
		FinishedAt: req.FinishedAt,
	}
	if record.StartedAt == "" {
		record.StartedAt = now
	}
	if record.FinishedAt == "" {
		record.FinishedAt = now
	}

	return s.runs.Record(ctx, record)
}

// LatestRun returns the most recent journaled run for a work directory.
func (s *WorkdirService) LatestRun(ctx context.Context, workdirID string) (*primary.Run, error) {
	record, err := s.runs.Latest(ctx, workdirID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return mapRun(record), nil
}

func mapWorkdir(record *secondary.WorkdirRecord) *primary.Workdir {
	return &primary.Workdir{
		ID:         record.ID,
		SdkVersion: record.SdkVersion,
		DllHash:    record.DllHash,
		DllPath:    record.DllPath,
		RootPath:   record.RootPath,
		Status:     record.Status,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

func mapRun(record *secondary.RunRecord) *primary.Run {
	return &primary.Run{
		ID:         record.ID,
		WorkdirID:  record.WorkdirID,
		Command:    record.Command,
		Status:     record.Status,
		Detail:     record.Detail,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
	}
}

// Ensure WorkdirService implements the interface
var _ primary.WorkdirService = (*WorkdirService)(nil)
