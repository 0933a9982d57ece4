package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/app"
	"github.com/Amrsatrio/WrlXaml/internal/core/sdkver"
	"github.com/Amrsatrio/WrlXaml/internal/sdk"
	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// SetupCmd returns the setup command
func SetupCmd() *cobra.Command {
	var (
		dllPath     string
		sdkRoot     string
		skipPatches bool
	)

	cmd := &cobra.Command{
		Use:   "setup <sdk-version>",
		Short: "Decompile the build-task DLL and freeze a patchable baseline",
		Long: `Set up a work directory for one SDK's XAML build-task DLL.

The pipeline locates the DLL for the given SDK version, decompiles it
into Work/<version>/<hash>/Source, freezes the decompiled tree as a git
baseline commit, applies every matching patch set, and drops helper
scripts next to the source tree. Any step failure tears the half-built
work directory down again.

Examples:
  wrlxaml setup 10.0.19041.0
  wrlxaml setup 10.0.22621.0 --skip-patches
  wrlxaml setup 10.0.19041.0 --dll C:\custom\Microsoft.Windows.UI.Xaml.Build.Tasks.dll`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			version, err := sdkver.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid SDK version %q: %w", args[0], err)
			}

			// An explicit --sdk-root only affects this invocation, so
			// resolve the DLL here instead of reconfiguring the locator.
			dll := dllPath
			if dll == "" && sdkRoot != "" {
				locator := sdk.Locator{Override: sdkRoot}
				dll, err = locator.FindTaskDll(version)
				if err != nil {
					return fmt.Errorf("failed to locate build-task DLL: %w", err)
				}
			}

			fmt.Printf("Setting up work directory for SDK %s...\n", version)
			started := time.Now()

			result, err := wire.SetupService().Setup(ctx, app.SetupRequest{
				Version:     version,
				DllPath:     dll,
				SkipPatches: skipPatches,
			})
			if err != nil {
				return fmt.Errorf("setup failed: %w", err)
			}

			fmt.Printf("✓ Decompiled %s\n", filepath.Base(result.DllPath))
			fmt.Printf("✓ Baseline frozen at %.12s\n", result.Baseline)
			if skipPatches {
				fmt.Println("✓ Patch sets skipped")
			} else if len(result.AppliedSets) == 0 {
				fmt.Println("✓ No matching patch sets")
			} else {
				for _, set := range result.AppliedSets {
					fmt.Printf("✓ Applied patch set %s (%d files)\n", set.Name, len(set.Files))
				}
			}
			for _, script := range result.HelperScripts {
				fmt.Printf("✓ Helper script: %s\n", script)
			}
			fmt.Printf("✓ Work directory ready: %s (%s)\n", result.Dir, time.Since(started).Round(time.Millisecond))

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Printf("  1. Edit the sources:            wrlxaml edit %s\n", result.Key.ID())
			fmt.Printf("  2. Regenerate the patches:      wrlxaml make-patches %s\n", result.Key.ID())
			fmt.Printf("  3. Rebuild the DLL:             wrlxaml build %s\n", result.Key.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&dllPath, "dll", "", "Explicit path to the build-task DLL (skips SDK lookup)")
	cmd.Flags().StringVar(&sdkRoot, "sdk-root", "", "Windows SDK root to search instead of the configured one")
	cmd.Flags().BoolVar(&skipPatches, "skip-patches", false, "Freeze the baseline without applying patch sets")

	return cmd
}
