package workdir

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateContext provides context for work directory creation guards.
type CreateContext struct {
	Key        Key
	DllPath    string
	AlreadySet bool // true if an active work directory exists for this key
}

// GeneratePatchesContext provides context for patch generation guards.
type GeneratePatchesContext struct {
	Key          Key
	SourceExists bool
	HasBaseline  bool // true if the baseline tag resolves in the source repo
}

// RemoveContext provides context for work directory removal guards.
type RemoveContext struct {
	Key            Key
	SourceIsDirty  bool // uncommitted edits in the source tree
	PatchesWritten bool // generated patches exist under the work directory
	Force          bool
}

// CanCreate evaluates whether a work directory can be set up.
// Rules:
// - DLL path must not be empty
// - DLL hash must not be empty
// - No active work directory may exist for the same key
func CanCreate(ctx CreateContext) GuardResult {
	if strings.TrimSpace(ctx.DllPath) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "DLL path cannot be empty",
		}
	}

	if strings.TrimSpace(ctx.Key.DllHash) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "DLL hash cannot be empty",
		}
	}

	if ctx.AlreadySet {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("work directory %s already exists", ctx.Key.ID()),
		}
	}

	return GuardResult{Allowed: true}
}

// CanGeneratePatches evaluates whether patches can be generated.
// Rules:
// - The decompiled source tree must exist
// - The baseline commit must be resolvable
func CanGeneratePatches(ctx GeneratePatchesContext) GuardResult {
	if !ctx.SourceExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("work directory %s has no decompiled source (run setup first)", ctx.Key.ID()),
		}
	}

	if !ctx.HasBaseline {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("work directory %s has no baseline commit", ctx.Key.ID()),
		}
	}

	return GuardResult{Allowed: true}
}

// CanRemove evaluates whether a work directory can be removed.
// Rules:
// - Uncommitted edits block removal unless forced
// - Generated patches block removal unless forced; they may not have
//   been copied into a shared patch set yet
func CanRemove(ctx RemoveContext) GuardResult {
	if ctx.SourceIsDirty && !ctx.Force {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("work directory %s has uncommitted edits (use --force to discard)", ctx.Key.ID()),
		}
	}

	if ctx.PatchesWritten && !ctx.Force {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("work directory %s has generated patches (use --force to discard)", ctx.Key.ID()),
		}
	}

	return GuardResult{Allowed: true}
}
