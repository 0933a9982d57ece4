package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/watch"
	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <workdir>",
		Short: "Regenerate patches automatically while editing",
		Long: `Watch the work directory's source tree and regenerate the patch
files whenever edits settle. Repository bookkeeping and build output
(.git, .vs, bin, obj) are ignored.

Runs until interrupted. Pair it with 'wrlxaml edit' in another pane so
the Patches folder always mirrors the current edits.

Examples:
  wrlxaml watch 10.0.19041.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			key, err := resolveKey(ctx, args[0])
			if err != nil {
				return err
			}
			sourceDir := wire.Layout().SourceDir(key)
			started := time.Now()

			// One pass up front so the watch starts from the current state
			// instead of whatever the last run left behind.
			patches, err := wire.PatchService().GeneratePatches(ctx, key)
			if err != nil {
				return fmt.Errorf("failed to generate patches: %w", err)
			}
			fmt.Printf("✓ %d patch file(s) current\n", len(patches))

			regenerate := func(paths []string) {
				patches, err := wire.PatchService().GeneratePatches(context.Background(), key)
				if err != nil {
					fmt.Printf("✗ %s patch generation failed: %v\n", time.Now().Format("15:04:05"), err)
					return
				}
				fmt.Printf("✓ %s %d change(s) settled, %d patch file(s)\n", time.Now().Format("15:04:05"), len(paths), len(patches))
			}

			watcher, err := watch.NewSourceWatcher(sourceDir, regenerate, wire.Logger())
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}
			defer watcher.Stop()

			fmt.Printf("Watching %s (Ctrl+C to stop)\n", sourceDir)
			<-ctx.Done()

			stats := watcher.Stats()
			journalRun(context.Background(), key, "watch", started, nil)
			fmt.Printf("\n✓ Stopped after %d event(s), %d regeneration(s)\n", stats.Events, stats.Batches)
			return nil
		},
	}
}
