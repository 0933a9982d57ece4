package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/core/patchset"
	"github.com/Amrsatrio/WrlXaml/internal/core/sdkver"
	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// SetsCmd returns the sets command
func SetsCmd() *cobra.Command {
	var forVersion string

	cmd := &cobra.Command{
		Use:   "sets",
		Short: "List patch sets and their version conditions",
		Long: `List the patch sets under the Patches directory, their version
conditions, and how many patch files each carries. With --for-version,
only the sets that would apply to that SDK version are shown, in
application order.

Examples:
  wrlxaml sets
  wrlxaml sets --for-version 10.0.19041.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sets, err := wire.PatchService().DiscoverSets(ctx)
			if err != nil {
				return fmt.Errorf("failed to discover patch sets: %w", err)
			}

			if forVersion != "" {
				version, err := sdkver.Parse(forVersion)
				if err != nil {
					return fmt.Errorf("invalid SDK version %q: %w", forVersion, err)
				}
				sets = patchset.Select(sets, version)
			}

			if len(sets) == 0 {
				fmt.Printf("No patch sets under %s\n", wire.Layout().PatchRoot())
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCONDITION\tFILES\tDESCRIPTION")
			fmt.Fprintln(w, "----\t---------\t-----\t-----------")
			for _, set := range sets {
				condition := "always"
				if set.Predicate != nil {
					condition = set.Predicate.String()
				}
				files, err := wire.PatchService().SetFiles(ctx, set)
				if err != nil {
					return fmt.Errorf("failed to read patch set %s: %w", set.Name, err)
				}
				description := ""
				if manifest, err := wire.PatchService().LoadManifest(ctx, set); err == nil {
					description = manifest.Description
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", set.Name, condition, len(files), description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&forVersion, "for-version", "", "Show only sets that apply to this SDK version")

	return cmd
}
