package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BaselineTag marks the single immutable commit holding the pristine
// decompiled source.
const BaselineTag = "baseline"

// Commit identity for baseline commits, so work directories never depend
// on the engineer's global git config.
const (
	commitAuthorName  = "wrlxaml"
	commitAuthorEmail = "wrlxaml@localhost"
)

// commitGuardScript refuses all commits after the baseline. Patches, not
// commits, are how edits leave a work directory.
const commitGuardScript = `#!/bin/sh
echo "wrlxaml: commits are disabled in this work directory" >&2
echo "wrlxaml: the baseline must stay immutable; run make-patches to capture edits" >&2
exit 1
`

// GitService provides git operations for work directory source trees.
type GitService struct {
	bin    string
	runner *Runner
}

// NewGitService creates a new GitService using the given git binary.
func NewGitService(bin string, runner *Runner) *GitService {
	if bin == "" {
		bin = "git"
	}
	return &GitService{bin: bin, runner: runner}
}

// Init initializes a fresh repository in dir.
func (s *GitService) Init(ctx context.Context, dir string) error {
	if err := s.runner.Run(ctx, dir, s.bin, "init"); err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	return nil
}

// AddAll stages every file in the tree.
func (s *GitService) AddAll(ctx context.Context, dir string) error {
	if err := s.runner.Run(ctx, dir, s.bin, "add", "--all"); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	return nil
}

// Commit creates a commit with the fixed tool identity.
func (s *GitService) Commit(ctx context.Context, dir, message string) error {
	err := s.runner.Run(ctx, dir, s.bin,
		"-c", "user.name="+commitAuthorName,
		"-c", "user.email="+commitAuthorEmail,
		"commit", "-m", message)
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Tag creates a lightweight tag at HEAD.
func (s *GitService) Tag(ctx context.Context, dir, name string) error {
	if err := s.runner.Run(ctx, dir, s.bin, "tag", name); err != nil {
		return fmt.Errorf("failed to tag %s: %w", name, err)
	}
	return nil
}

// RevParse resolves a ref to a commit hash.
func (s *GitService) RevParse(ctx context.Context, dir, ref string) (string, error) {
	output, err := s.runner.Output(ctx, dir, s.bin, "rev-parse", "--verify", ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	return strings.TrimSpace(output), nil
}

// HasBaseline reports whether the baseline tag resolves in dir.
func (s *GitService) HasBaseline(ctx context.Context, dir string) bool {
	_, err := s.RevParse(ctx, dir, BaselineTag)
	return err == nil
}

// IsDirty checks if the working directory has uncommitted changes.
func (s *GitService) IsDirty(ctx context.Context, dir string) (bool, error) {
	output, err := s.runner.Output(ctx, dir, s.bin, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to check dirty state: %w", err)
	}
	return strings.TrimSpace(output) != "", nil
}

// DiffNames lists the paths changed relative to a ref, repo-relative with
// forward slashes as git reports them.
func (s *GitService) DiffNames(ctx context.Context, dir, ref string) ([]string, error) {
	output, err := s.runner.Output(ctx, dir, s.bin, "diff", "--name-only", "-z", ref, "--")
	if err != nil {
		return nil, fmt.Errorf("failed to list changed files: %w", err)
	}

	var names []string
	for _, name := range strings.Split(output, "\x00") {
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// DiffFile returns the diff of one path relative to a ref. The diff text
// is an opaque payload; it is written to patch files verbatim.
func (s *GitService) DiffFile(ctx context.Context, dir, ref, path string) (string, error) {
	output, err := s.runner.Output(ctx, dir, s.bin, "diff", ref, "--", path)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", path, err)
	}
	return output, nil
}

// ApplyPatch applies a patch file onto the tree.
func (s *GitService) ApplyPatch(ctx context.Context, dir, patchPath string) error {
	if err := s.runner.Run(ctx, dir, s.bin, "apply", "--whitespace=nowarn", patchPath); err != nil {
		return fmt.Errorf("failed to apply %s: %w", filepath.Base(patchPath), err)
	}
	return nil
}

// InstallCommitGuard writes the pre-commit hook that blocks commits after
// the baseline.
func (s *GitService) InstallCommitGuard(dir string) error {
	hookDir := filepath.Join(dir, ".git", "hooks")
	if err := os.MkdirAll(hookDir, 0755); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	hookPath := filepath.Join(hookDir, "pre-commit")
	if err := os.WriteFile(hookPath, []byte(commitGuardScript), 0755); err != nil {
		return fmt.Errorf("failed to install pre-commit hook: %w", err)
	}

	return nil
}
