package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/ports/primary"
	"github.com/Amrsatrio/WrlXaml/internal/tmux"
	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// CleanCmd returns the clean command
func CleanCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clean <workdir>",
		Short: "Remove a work directory",
		Long: `Delete a work directory's tree and mark its registration removed.
A running edit session on the directory is killed first.

A source tree with edits relative to the baseline is refused unless
--force is given, as is a directory still holding generated patch
files that may not have been copied into a shared set. Applied patch
sets count as edits, so after 'apply' this always needs --force; run
'wrlxaml make-patches' first if the edits should survive as patch
files.

Examples:
  wrlxaml clean 10.0.19041.0
  wrlxaml clean 10.0.19041.0/a1b2c3d4e5f60718 --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			key, err := resolveKey(ctx, args[0])
			if err != nil {
				return err
			}

			// Kill a running edit session before its directory goes away.
			if adapter, err := tmux.NewGotmuxAdapter(); err == nil {
				name := tmux.SessionName(key.SdkVersion.String(), key.DllHash)
				if adapter.SessionExists(name) {
					if err := adapter.KillSession(name); err == nil {
						fmt.Printf("✓ Killed edit session %s\n", name)
					}
				}
			}

			if err := wire.WorkdirService().Remove(ctx, primary.RemoveWorkdirRequest{ID: key.ID(), Force: force}); err != nil {
				return fmt.Errorf("failed to remove work directory: %w", err)
			}
			fmt.Printf("✓ Removed work directory %s\n", key.ID())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even with edits relative to the baseline")

	return cmd
}
