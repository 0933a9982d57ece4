package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Amrsatrio/WrlXaml/internal/core/patchset"
	"github.com/Amrsatrio/WrlXaml/internal/core/workdir"
	"github.com/Amrsatrio/WrlXaml/internal/ports/secondary"
)

// PatchService turns baseline diffs into per-file patches and applies
// patch sets onto decompiled source trees.
type PatchService struct {
	layout workdir.Layout
	ws     secondary.Workspace
	git    *GitService
}

// NewPatchService creates a new PatchService.
func NewPatchService(layout workdir.Layout, ws secondary.Workspace, git *GitService) *PatchService {
	return &PatchService{layout: layout, ws: ws, git: git}
}

// AppliedSet reports one patch set applied to a source tree.
type AppliedSet struct {
	Name  string
	Files []string
}

// GeneratePatches diffs the source tree against the baseline commit and
// writes one patch file per changed source file. The output directory is
// rebuilt from scratch so patches from a previous run never linger.
func (s *PatchService) GeneratePatches(ctx context.Context, key workdir.Key) ([]string, error) {
	srcDir := s.layout.SourceDir(key)

	srcExists, err := s.ws.DirExists(ctx, srcDir)
	if err != nil {
		return nil, err
	}
	hasBaseline := srcExists && s.git.HasBaseline(ctx, srcDir)

	guard := workdir.CanGeneratePatches(workdir.GeneratePatchesContext{
		Key:          key,
		SourceExists: srcExists,
		HasBaseline:  hasBaseline,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	paths, err := s.git.DiffNames(ctx, srcDir, BaselineTag)
	if err != nil {
		return nil, err
	}

	outDir := s.layout.PatchOutputDir(key)
	if err := s.ws.RemoveDir(ctx, outDir); err != nil {
		return nil, err
	}
	if err := s.ws.EnsureDir(ctx, outDir); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(paths))
	for _, rel := range paths {
		diff, err := s.git.DiffFile(ctx, srcDir, BaselineTag, rel)
		if err != nil {
			return nil, err
		}

		name := patchset.FileNameForPath(rel)
		if err := s.ws.WriteFile(ctx, filepath.Join(outDir, name), []byte(diff), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write patch %s: %w", name, err)
		}
		written = append(written, name)
	}

	return written, nil
}

// DiscoverSets lists the patch sets under the patch root. A missing patch
// root simply means no sets.
func (s *PatchService) DiscoverSets(ctx context.Context) ([]patchset.Set, error) {
	root := s.layout.PatchRoot()
	names, err := s.ws.ListDirNames(ctx, root)
	if err != nil {
		return nil, err
	}
	return patchset.FromDirNames(root, names)
}

// ApplySets applies every patch set matching the work directory's SDK
// version onto its source tree, Common first. The first failing patch
// aborts the whole operation; sets applied so far are returned alongside
// the error so the caller can report how far it got.
func (s *PatchService) ApplySets(ctx context.Context, key workdir.Key) ([]AppliedSet, error) {
	sets, err := s.DiscoverSets(ctx)
	if err != nil {
		return nil, err
	}

	srcDir := s.layout.SourceDir(key)
	var applied []AppliedSet
	for _, set := range patchset.Select(sets, key.SdkVersion) {
		files, err := s.SetFiles(ctx, set)
		if err != nil {
			return applied, err
		}

		for _, file := range files {
			if err := s.git.ApplyPatch(ctx, srcDir, filepath.Join(set.Dir, file)); err != nil {
				return applied, fmt.Errorf("failed to apply %s from set %s: %w", file, set.Name, err)
			}
		}
		applied = append(applied, AppliedSet{Name: set.Name, Files: files})
	}

	return applied, nil
}

// SetFiles returns the patch files of a set, sorted by name. This is also
// the order ApplySets applies them in.
func (s *PatchService) SetFiles(ctx context.Context, set patchset.Set) ([]string, error) {
	return s.ws.ListFilesWithExt(ctx, set.Dir, patchset.FileExt)
}

// LoadManifest reads a set's optional manifest.yaml. A missing manifest
// yields a zero manifest, not an error.
func (s *PatchService) LoadManifest(ctx context.Context, set patchset.Set) (patchset.Manifest, error) {
	path := filepath.Join(set.Dir, patchset.ManifestFileName)

	exists, err := s.ws.FileExists(ctx, path)
	if err != nil || !exists {
		return patchset.Manifest{}, err
	}

	data, err := s.ws.ReadFile(ctx, path)
	if err != nil {
		return patchset.Manifest{}, err
	}
	return patchset.ParseManifest(data)
}
