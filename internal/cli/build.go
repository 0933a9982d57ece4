package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// BuildCmd returns the build command
func BuildCmd() *cobra.Command {
	var configuration string

	cmd := &cobra.Command{
		Use:   "build <workdir>",
		Short: "Rebuild the DLL from the patched source tree",
		Long: `Run the configured build tool against the project in the work
directory's source tree. The build output is printed as-is; on success
the freshest DLL under the build output directories is reported.

Examples:
  wrlxaml build 10.0.19041.0
  wrlxaml build 10.0.19041.0 --configuration Release`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			key, err := resolveKey(ctx, args[0])
			if err != nil {
				return err
			}
			sourceDir := wire.Layout().SourceDir(key)

			extraArgs, err := wire.BuildService().ConfigurationArgs(configuration)
			if err != nil {
				return err
			}

			started := time.Now()
			output, err := wire.BuildService().Build(ctx, sourceDir, extraArgs...)
			journalRun(ctx, key, "build", started, err)
			if trimmed := strings.TrimSpace(output); trimmed != "" {
				fmt.Println(trimmed)
			}
			if err != nil {
				return err
			}

			fmt.Printf("✓ Build succeeded (%s)\n", time.Since(started).Round(time.Millisecond))
			if dll := wire.BuildService().FindBuiltDll(sourceDir); dll != "" {
				fmt.Printf("✓ Rebuilt DLL: %s\n", dll)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configuration, "configuration", "c", "", "Build configuration to pass to the build tool (e.g. Release)")

	return cmd
}
