package app

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Runner is the single choke point for external commands. Every git,
// decompiler and build-tool invocation goes through it: commands run
// sequentially, each must finish before the caller proceeds, and stderr
// is folded into the returned error.
type Runner struct {
	logger *zap.Logger
}

// NewRunner creates a Runner. A nil logger disables command tracing.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Run executes a command in dir, discarding stdout.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) error {
	_, err := r.Output(ctx, dir, name, args...)
	return err
}

// Output executes a command in dir and returns its stdout.
func (r *Runner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.trace(name, args, dir, time.Since(start), err)

	if err != nil {
		return "", fmt.Errorf("%w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// CombinedOutput executes a command in dir and returns interleaved
// stdout+stderr regardless of outcome. Used where the tool's output is the
// payload, like build logs.
func (r *Runner) CombinedOutput(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	start := time.Now()
	output, err := cmd.CombinedOutput()
	r.trace(name, args, dir, time.Since(start), err)

	return string(output), err
}

func (r *Runner) trace(name string, args []string, dir string, elapsed time.Duration, err error) {
	r.logger.Debug("external command",
		zap.String("command", name),
		zap.Strings("args", args),
		zap.String("dir", dir),
		zap.Duration("duration", elapsed),
		zap.Bool("ok", err == nil))
}
