package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Amrsatrio/WrlXaml/internal/core/sdkver"
	"github.com/Amrsatrio/WrlXaml/internal/core/workdir"
	"github.com/Amrsatrio/WrlXaml/internal/ports/primary"
	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// resolveKey turns a command line argument into a work directory key.
// It accepts the full "<version>/<hash>" ID, or a bare SDK version when
// exactly one registered work directory matches that version.
func resolveKey(ctx context.Context, arg string) (workdir.Key, error) {
	if key, err := workdir.ParseKey(arg); err == nil {
		return key, nil
	}

	version, err := sdkver.Parse(arg)
	if err != nil {
		return workdir.Key{}, fmt.Errorf("invalid work directory %q: expected <version>/<hash> or a bare SDK version", arg)
	}

	workdirs, err := wire.WorkdirService().List(ctx, primary.WorkdirFilters{Status: primary.WorkdirStatusActive})
	if err != nil {
		return workdir.Key{}, fmt.Errorf("failed to list work directories: %w", err)
	}

	var matches []*primary.Workdir
	for _, wd := range workdirs {
		if wd.SdkVersion == version.String() {
			matches = append(matches, wd)
		}
	}

	switch len(matches) {
	case 0:
		return workdir.Key{}, fmt.Errorf("no work directory registered for SDK %s (run 'wrlxaml setup %s' first)", version, version)
	case 1:
		return workdir.ParseKey(matches[0].ID)
	default:
		ids := make([]string, len(matches))
		for i, wd := range matches {
			ids[i] = wd.ID
		}
		return workdir.Key{}, fmt.Errorf("multiple work directories for SDK %s (%s), pass the full ID", version, strings.Join(ids, ", "))
	}
}

// journalRun records a pipeline invocation in the run journal. A journal
// failure never masks the pipeline result; it is logged and dropped.
func journalRun(ctx context.Context, key workdir.Key, command string, startedAt time.Time, runErr error) {
	err := wire.WorkdirService().RecordRun(ctx, primary.RecordRunRequest{
		WorkdirID:  key.ID(),
		Command:    command,
		Err:        runErr,
		StartedAt:  startedAt.UTC().Format(time.RFC3339),
		FinishedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		wire.Logger().Debug("failed to journal run",
			zap.String("workdir", key.ID()),
			zap.String("command", command),
			zap.Error(err))
	}
}
