package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// ApplyCmd returns the apply command
func ApplyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "apply <workdir>",
		Short: "Apply matching patch sets to the source tree",
		Long: `Apply every patch set matching the work directory's SDK version, in
name order, Common first. Application stops at the first patch that
does not apply cleanly; earlier patches stay applied so the rejected
hunk can be inspected in place.

Applying on top of unsaved edits would fold them into the next
make-patches output, so a dirty source tree is refused unless --force
is given.

Setup already applies the matching sets, so this command is mostly
useful after resetting the source tree back to the baseline.

Examples:
  wrlxaml apply 10.0.19041.0
  wrlxaml apply 10.0.19041.0/a1b2c3d4e5f60718 --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			key, err := resolveKey(ctx, args[0])
			if err != nil {
				return err
			}

			sourceDir := wire.Layout().SourceDir(key)
			if exists, _ := wire.Workspace().DirExists(ctx, sourceDir); exists && !force {
				dirty, err := wire.GitService().IsDirty(ctx, sourceDir)
				if err != nil {
					return fmt.Errorf("failed to check source tree: %w", err)
				}
				if dirty {
					return fmt.Errorf("source tree has edits relative to the baseline; run 'wrlxaml make-patches %s' first or pass --force", key.ID())
				}
			}

			started := time.Now()
			applied, err := wire.PatchService().ApplySets(ctx, key)
			journalRun(ctx, key, "apply", started, err)
			for _, set := range applied {
				fmt.Printf("✓ Applied patch set %s (%d files)\n", set.Name, len(set.Files))
			}
			if err != nil {
				return fmt.Errorf("failed to apply patch sets: %w", err)
			}

			if len(applied) == 0 {
				fmt.Printf("✓ No patch sets match SDK %s\n", key.SdkVersion)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Apply even if the source tree has uncommitted edits")

	return cmd
}
