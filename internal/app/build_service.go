package app

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/Amrsatrio/WrlXaml/internal/sdk"
)

// BuildService rebuilds the patched DLL by shelling out to the configured
// build tool on the decompiled project.
type BuildService struct {
	bin      string
	baseArgs []string
	runner   *Runner
}

// NewBuildService creates a new BuildService. baseArgs are passed before
// the project file on every build (e.g. ["build"] for dotnet).
func NewBuildService(bin string, baseArgs []string, runner *Runner) *BuildService {
	if bin == "" {
		bin = "dotnet"
		if len(baseArgs) == 0 {
			baseArgs = []string{"build"}
		}
	}
	return &BuildService{bin: bin, baseArgs: baseArgs, runner: runner}
}

// Tool returns the configured build tool binary.
func (s *BuildService) Tool() string {
	return s.bin
}

// FindProject locates the single project file the decompiler emitted.
func (s *BuildService) FindProject(sourceDir string) (string, error) {
	var projects []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Build output may contain nested project artifacts.
			if name := d.Name(); name == "bin" || name == "obj" || name == ".git" {
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) == ".csproj" {
			projects = append(projects, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to search for project file: %w", err)
	}

	switch len(projects) {
	case 0:
		return "", fmt.Errorf("no .csproj found under %s (not a decompiled work directory?)", sourceDir)
	case 1:
		return projects[0], nil
	default:
		return "", fmt.Errorf("multiple project files found under %s: %s", sourceDir, strings.Join(projects, ", "))
	}
}

// Build compiles the decompiled project. The tool's output is returned
// verbatim in both outcomes so the caller can surface the compiler
// diagnostics unchanged.
func (s *BuildService) Build(ctx context.Context, sourceDir string, extraArgs ...string) (string, error) {
	project, err := s.FindProject(sourceDir)
	if err != nil {
		return "", err
	}

	args := append(append([]string{}, s.baseArgs...), project)
	args = append(args, extraArgs...)

	output, err := s.runner.CombinedOutput(ctx, sourceDir, s.bin, args...)
	if err != nil {
		return output, fmt.Errorf("build failed: %w", err)
	}

	return output, nil
}

// FindBuiltDll locates the rebuilt task DLL under the project's build
// output, newest first. Returns "" when no build output exists yet.
func (s *BuildService) FindBuiltDll(sourceDir string) string {
	var (
		newest     string
		newestTime time.Time
	)

	_ = filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if d.Name() != sdk.TaskDllName {
			return nil
		}
		if !strings.Contains(path, string(filepath.Separator)+"bin"+string(filepath.Separator)) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = path
			newestTime = info.ModTime()
		}
		return nil
	})

	return newest
}

// ConfigurationArgs maps a --configuration value onto the flag syntax of
// the configured build tool.
func (s *BuildService) ConfigurationArgs(configuration string) ([]string, error) {
	if configuration == "" {
		return nil, nil
	}

	tool := strings.TrimSuffix(strings.ToLower(filepath.Base(s.bin)), ".exe")
	switch tool {
	case "dotnet":
		return []string{"-c", configuration}, nil
	case "msbuild":
		return []string{"/p:Configuration=" + configuration}, nil
	default:
		return nil, fmt.Errorf("--configuration is not supported for build tool %q; set build_args in config instead", s.bin)
	}
}
