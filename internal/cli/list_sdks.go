package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/sdk"
	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// ListSdksCmd returns the list-sdks command
func ListSdksCmd() *cobra.Command {
	var sdkRoot string

	cmd := &cobra.Command{
		Use:   "list-sdks",
		Short: "List installed Windows SDK versions and their build-task DLLs",
		Long: `List the SDK versions installed under the SDK root and whether each
one carries the XAML build-task DLL. Versions without the DLL cannot be
set up.

Examples:
  wrlxaml list-sdks
  wrlxaml list-sdks --sdk-root "C:\Program Files (x86)\Windows Kits\10"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			locator := wire.Locator()
			if sdkRoot != "" {
				locator = sdk.Locator{Override: sdkRoot}
			}

			root, err := locator.Root()
			if err != nil {
				return fmt.Errorf("failed to locate SDK root: %w", err)
			}
			versions, err := locator.Installed()
			if err != nil {
				return fmt.Errorf("failed to list installed SDKs: %w", err)
			}
			if len(versions) == 0 {
				fmt.Printf("No SDK versions found under %s\n", root)
				return nil
			}

			fmt.Printf("SDK root: %s\n\n", root)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tBUILD-TASK DLL")
			fmt.Fprintln(w, "-------\t--------------")
			for _, version := range versions {
				dll, err := locator.FindTaskDll(version)
				if err != nil {
					dll = "(not present)"
				}
				fmt.Fprintf(w, "%s\t%s\n", version, dll)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&sdkRoot, "sdk-root", "", "Windows SDK root to search instead of the configured one")

	return cmd
}
