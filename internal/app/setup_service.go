package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Amrsatrio/WrlXaml/internal/core/sdkver"
	"github.com/Amrsatrio/WrlXaml/internal/core/workdir"
	"github.com/Amrsatrio/WrlXaml/internal/ports/primary"
	"github.com/Amrsatrio/WrlXaml/internal/ports/secondary"
	"github.com/Amrsatrio/WrlXaml/internal/sdk"
	"github.com/Amrsatrio/WrlXaml/internal/templates"
	"github.com/Amrsatrio/WrlXaml/internal/version"
)

// SetupService runs the full work directory setup pipeline: locate the
// DLL, decompile it, freeze the baseline, apply patch sets, and drop the
// regeneration helper scripts.
type SetupService struct {
	layout     workdir.Layout
	ws         secondary.Workspace
	locator    sdk.Locator
	decompiler *DecompilerService
	git        *GitService
	patches    *PatchService
	workdirs   primary.WorkdirService
	logger     *zap.Logger
}

// NewSetupService creates a new SetupService.
func NewSetupService(
	layout workdir.Layout,
	ws secondary.Workspace,
	locator sdk.Locator,
	decompiler *DecompilerService,
	git *GitService,
	patches *PatchService,
	workdirs primary.WorkdirService,
	logger *zap.Logger,
) *SetupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SetupService{
		layout:     layout,
		ws:         ws,
		locator:    locator,
		decompiler: decompiler,
		git:        git,
		patches:    patches,
		workdirs:   workdirs,
		logger:     logger,
	}
}

// SetupRequest selects what to set up. Either an installed SDK version or
// an explicit DLL path must be given.
type SetupRequest struct {
	Version     sdkver.Version
	DllPath     string
	SkipPatches bool
}

// SetupResult reports what setup produced.
type SetupResult struct {
	Key           workdir.Key
	Dir           string
	DllPath       string
	Baseline      string
	AppliedSets   []AppliedSet
	HelperScripts []string
}

// Setup runs the pipeline. Every step failure is fatal; a failed run
// tears the half-built work directory down again so no broken state
// survives.
func (s *SetupService) Setup(ctx context.Context, req SetupRequest) (result *SetupResult, err error) {
	startedAt := time.Now().UTC()

	dllPath := req.DllPath
	if dllPath == "" {
		dllPath, err = s.locator.FindTaskDll(req.Version)
		if err != nil {
			return nil, err
		}
	} else if exists, ferr := s.ws.FileExists(ctx, dllPath); ferr != nil || !exists {
		return nil, fmt.Errorf("DLL not found at %s", dllPath)
	}

	hash, err := workdir.HashDLL(dllPath)
	if err != nil {
		return nil, err
	}
	key := workdir.Key{SdkVersion: req.Version, DllHash: hash}
	dir := s.layout.Dir(key)

	exists, err := s.ws.DirExists(ctx, dir)
	if err != nil {
		return nil, err
	}
	guard := workdir.CanCreate(workdir.CreateContext{
		Key:        key,
		DllPath:    dllPath,
		AlreadySet: exists,
	})
	if gerr := guard.Error(); gerr != nil {
		return nil, gerr
	}

	s.logger.Info("setting up work directory",
		zap.String("workdir", key.ID()),
		zap.String("dll", dllPath))

	// From here on a failure leaves a half-built tree behind; remove it
	// so a retry starts clean.
	defer func() {
		if err != nil {
			if cerr := s.ws.RemoveDir(context.Background(), dir); cerr != nil {
				s.logger.Warn("failed to clean up work directory",
					zap.String("dir", dir), zap.Error(cerr))
			}
		}
	}()

	srcDir := s.layout.SourceDir(key)
	if err = s.decompiler.Decompile(ctx, dllPath, srcDir); err != nil {
		return nil, err
	}

	baseline, err := s.freezeBaseline(ctx, srcDir)
	if err != nil {
		return nil, err
	}

	if err = s.writeMetadata(ctx, key, dllPath, baseline); err != nil {
		return nil, err
	}

	var applied []AppliedSet
	if !req.SkipPatches {
		applied, err = s.patches.ApplySets(ctx, key)
		if err != nil {
			return nil, err
		}
	}

	scripts, err := s.writeHelperScripts(ctx, key)
	if err != nil {
		return nil, err
	}

	if _, err = s.workdirs.Register(ctx, primary.RegisterWorkdirRequest{
		SdkVersion: key.SdkVersion.String(),
		DllHash:    key.DllHash,
		DllPath:    dllPath,
		RootPath:   s.layout.Root,
	}); err != nil {
		return nil, err
	}

	// Journaled only after Register so the run row always has a parent.
	if jerr := s.workdirs.RecordRun(ctx, primary.RecordRunRequest{
		WorkdirID: key.ID(),
		Command:   "setup",
		StartedAt: startedAt.Format(time.RFC3339),
	}); jerr != nil {
		s.logger.Warn("failed to journal setup run", zap.Error(jerr))
	}

	return &SetupResult{
		Key:           key,
		Dir:           dir,
		DllPath:       dllPath,
		Baseline:      baseline,
		AppliedSets:   applied,
		HelperScripts: scripts,
	}, nil
}

// freezeBaseline turns the freshly decompiled tree into a single-commit
// repository tagged as the immutable baseline, with a hook that rejects
// any further commits.
func (s *SetupService) freezeBaseline(ctx context.Context, srcDir string) (string, error) {
	if err := s.git.Init(ctx, srcDir); err != nil {
		return "", err
	}
	if err := s.git.AddAll(ctx, srcDir); err != nil {
		return "", err
	}
	if err := s.git.Commit(ctx, srcDir, "Decompiled baseline"); err != nil {
		return "", err
	}

	baseline, err := s.git.RevParse(ctx, srcDir, "HEAD")
	if err != nil {
		return "", err
	}
	if err := s.git.Tag(ctx, srcDir, BaselineTag); err != nil {
		return "", err
	}
	if err := s.git.InstallCommitGuard(srcDir); err != nil {
		return "", err
	}
	return baseline, nil
}

func (s *SetupService) writeMetadata(ctx context.Context, key workdir.Key, dllPath, baseline string) error {
	// The SDK root is recorded for provenance only. With an explicit DLL
	// path there may be no resolvable root, and that is fine.
	sdkRoot, rerr := s.locator.Root()
	if rerr != nil {
		sdkRoot = ""
	}

	meta := workdir.NewMetadata(key, sdkRoot, dllPath, baseline, version.String())
	return s.ws.WriteFile(ctx, s.layout.MetadataPath(key), workdir.EncodeMetadata(meta), 0o644)
}

func (s *SetupService) writeHelperScripts(ctx context.Context, key workdir.Key) ([]string, error) {
	binary, err := os.Executable()
	if err != nil {
		binary = "wrlxaml"
	}
	data := templates.ScriptData{
		Binary:    binary,
		Root:      s.layout.Root,
		WorkdirID: key.ID(),
	}

	cmdScript, err := templates.RenderMakePatchesCmd(data)
	if err != nil {
		return nil, err
	}
	cmdPath := s.layout.HelperScriptPath(key, "cmd")
	if err := s.ws.WriteFile(ctx, cmdPath, []byte(cmdScript), 0o644); err != nil {
		return nil, err
	}

	shScript, err := templates.RenderMakePatchesSh(data)
	if err != nil {
		return nil, err
	}
	shPath := s.layout.HelperScriptPath(key, "sh")
	if err := s.ws.WriteFile(ctx, shPath, []byte(shScript), 0o755); err != nil {
		return nil, err
	}

	return []string{cmdPath, shPath}, nil
}
