// Package patchset contains the pure business logic for patch sets.
// A patch set is a directory of per-file diff patches, applied either
// unconditionally (Common) or gated by an SDK-version predicate encoded
// in the directory name (Sdk_<relation>_<version>).
package patchset

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Amrsatrio/WrlXaml/internal/core/sdkver"
)

const (
	// CommonSetName is the unconditionally applied patch set.
	CommonSetName = "Common"
	// FileExt is the extension of patch files.
	FileExt = ".patch"
)

// Set represents one patch set directory.
type Set struct {
	Name      string
	Predicate *sdkver.Predicate // nil for Common
	Dir       string
}

// Matches reports whether the set applies to the given SDK version.
// Common applies to every version.
func (s Set) Matches(v sdkver.Version) bool {
	if s.Predicate == nil {
		return true
	}
	return s.Predicate.Matches(v)
}

// String returns a human-readable description of the set's condition.
func (s Set) String() string {
	if s.Predicate == nil {
		return s.Name + " (always)"
	}
	return fmt.Sprintf("%s (%s)", s.Name, s.Predicate)
}

// FromDirNames classifies directory names under the patch root into sets.
// Common and Sdk_* names become sets; anything else (dotfiles, stray
// directories) is ignored. A malformed Sdk_* name is an error so a typo
// never silently drops a patch set. The result is sorted by name.
func FromDirNames(root string, names []string) ([]Set, error) {
	var sets []Set
	for _, name := range names {
		switch {
		case name == CommonSetName:
			sets = append(sets, Set{Name: name, Dir: filepath.Join(root, name)})
		case sdkver.IsPredicateDirName(name):
			p, err := sdkver.ParsePredicateDirName(name)
			if err != nil {
				return nil, err
			}
			sets = append(sets, Set{Name: name, Predicate: &p, Dir: filepath.Join(root, name)})
		}
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	return sets, nil
}

// Select returns the sets that apply to the given SDK version in
// application order: Common first, then matching predicate sets by name.
func Select(sets []Set, v sdkver.Version) []Set {
	var common, matched []Set
	for _, s := range sets {
		if !s.Matches(v) {
			continue
		}
		if s.Predicate == nil {
			common = append(common, s)
		} else {
			matched = append(matched, s)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return append(common, matched...)
}

// FileNameForPath returns the patch file name for a source-relative path.
// Path separators and drive colons become underscores so the flat patch
// directory never needs nesting.
func FileNameForPath(rel string) string {
	r := strings.NewReplacer("/", "_", `\`, "_", ":", "_")
	return r.Replace(rel) + FileExt
}
