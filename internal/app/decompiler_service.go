package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DecompilerService drives the external decompiler that turns the
// build-task DLL into a buildable C# project.
type DecompilerService struct {
	bin    string
	runner *Runner
}

// NewDecompilerService creates a new DecompilerService using the given
// decompiler binary.
func NewDecompilerService(bin string, runner *Runner) *DecompilerService {
	if bin == "" {
		bin = "ilspycmd"
	}
	return &DecompilerService{bin: bin, runner: runner}
}

// Decompile produces a C# project for the DLL under outputDir.
func (s *DecompilerService) Decompile(ctx context.Context, dllPath, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	err := s.runner.Run(ctx, "", s.bin, "--project", "--outputdir", outputDir, dllPath)
	if err != nil {
		return fmt.Errorf("failed to decompile %s: %w", filepath.Base(dllPath), err)
	}

	return nil
}

// Version probes the decompiler. Used by doctor to verify the binary is
// reachable.
func (s *DecompilerService) Version(ctx context.Context) (string, error) {
	output, err := s.runner.Output(ctx, "", s.bin, "--version")
	if err != nil {
		return "", fmt.Errorf("failed to run %s --version: %w", s.bin, err)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	return strings.TrimSpace(line), nil
}
