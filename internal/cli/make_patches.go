package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// MakePatchesCmd returns the make-patches command
func MakePatchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "make-patches <workdir>",
		Short: "Regenerate per-file patches from the edited source tree",
		Long: `Diff the edited source tree against the frozen baseline and write
one patch file per changed source file into the work directory's
Patches folder. The folder is rebuilt from scratch, so patches for
files that were reverted disappear again.

The work directory can be given as the full <version>/<hash> ID or as
a bare SDK version when only one work directory matches it.

Examples:
  wrlxaml make-patches 10.0.19041.0
  wrlxaml make-patches 10.0.19041.0/a1b2c3d4e5f60718`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			key, err := resolveKey(ctx, args[0])
			if err != nil {
				return err
			}

			started := time.Now()
			patches, err := wire.PatchService().GeneratePatches(ctx, key)
			journalRun(ctx, key, "make-patches", started, err)
			if err != nil {
				return fmt.Errorf("failed to generate patches: %w", err)
			}

			if len(patches) == 0 {
				fmt.Println("✓ Source tree matches the baseline, no patches written")
				return nil
			}
			for _, patch := range patches {
				fmt.Printf("✓ %s\n", patch)
			}
			fmt.Printf("✓ Wrote %d patch file(s) to %s\n", len(patches), wire.Layout().PatchOutputDir(key))
			return nil
		},
	}
}
