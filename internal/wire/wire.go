// Package wire provides dependency injection for the application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/Amrsatrio/WrlXaml/internal/adapters/filesystem"
	"github.com/Amrsatrio/WrlXaml/internal/adapters/sqlite"
	"github.com/Amrsatrio/WrlXaml/internal/app"
	"github.com/Amrsatrio/WrlXaml/internal/config"
	"github.com/Amrsatrio/WrlXaml/internal/core/workdir"
	"github.com/Amrsatrio/WrlXaml/internal/db"
	"github.com/Amrsatrio/WrlXaml/internal/ports/primary"
	"github.com/Amrsatrio/WrlXaml/internal/ports/secondary"
	"github.com/Amrsatrio/WrlXaml/internal/sdk"
)

var (
	cfg      *config.Config
	rootFlag string
	logger   = zap.NewNop()

	layout     workdir.Layout
	locator    sdk.Locator
	workspace  secondary.Workspace
	runner     *app.Runner
	gitSvc     *app.GitService
	decompiler *app.DecompilerService
	buildSvc   *app.BuildService
	patchSvc   *app.PatchService
	workdirSvc primary.WorkdirService
	setupSvc   *app.SetupService

	once sync.Once
)

// Configure sets the runtime inputs services are built from: the loaded
// configuration, the --root flag value, and the logger. Must be called
// before the first accessor; calls after services are built are ignored.
func Configure(c *config.Config, root string, l *zap.Logger) {
	cfg = c
	rootFlag = root
	if l != nil {
		logger = l
	}
}

// Logger returns the configured logger.
func Logger() *zap.Logger {
	return logger
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Layout returns the project directory layout.
func Layout() workdir.Layout {
	once.Do(initServices)
	return layout
}

// Locator returns the SDK locator.
func Locator() sdk.Locator {
	once.Do(initServices)
	return locator
}

// Workspace returns the filesystem workspace adapter.
func Workspace() secondary.Workspace {
	once.Do(initServices)
	return workspace
}

// Runner returns the external command runner.
func Runner() *app.Runner {
	once.Do(initServices)
	return runner
}

// GitService returns the singleton GitService instance.
func GitService() *app.GitService {
	once.Do(initServices)
	return gitSvc
}

// DecompilerService returns the singleton DecompilerService instance.
func DecompilerService() *app.DecompilerService {
	once.Do(initServices)
	return decompiler
}

// BuildService returns the singleton BuildService instance.
func BuildService() *app.BuildService {
	once.Do(initServices)
	return buildSvc
}

// PatchService returns the singleton PatchService instance.
func PatchService() *app.PatchService {
	once.Do(initServices)
	return patchSvc
}

// WorkdirService returns the singleton WorkdirService instance.
func WorkdirService() primary.WorkdirService {
	once.Do(initServices)
	return workdirSvc
}

// SetupService returns the singleton SetupService instance.
func SetupService() *app.SetupService {
	once.Do(initServices)
	return setupSvc
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	root := rootFlag
	if root == "" {
		root = cfg.WorkRoot
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			log.Fatalf("failed to resolve working directory: %v", err)
		}
		root = cwd
	}
	layout = workdir.Layout{Root: root, PatchBase: cfg.PatchRoot}
	locator = sdk.Locator{Override: cfg.SdkRoot}

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) with injected DB
	workdirRepo := sqlite.NewWorkdirRepository(database)
	runRepo := sqlite.NewRunRepository(database)
	workspace = filesystem.NewWorkspace()

	runner = app.NewRunner(logger)
	gitSvc = app.NewGitService(cfg.Git(), runner)
	decompiler = app.NewDecompilerService(cfg.Decompiler(), runner)
	buildBin, buildArgs := cfg.Build()
	buildSvc = app.NewBuildService(buildBin, buildArgs, runner)

	// Services (primary ports implementation)
	workdirSvc = app.NewWorkdirService(workdirRepo, runRepo, workspace, gitSvc)
	patchSvc = app.NewPatchService(layout, workspace, gitSvc)
	setupSvc = app.NewSetupService(layout, workspace, locator, decompiler, gitSvc, patchSvc, workdirSvc, logger)
}
