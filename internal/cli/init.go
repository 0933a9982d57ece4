package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/config"
	"github.com/Amrsatrio/WrlXaml/internal/core/patchset"
	"github.com/Amrsatrio/WrlXaml/internal/db"
	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration, database and directory layout",
		Long: `Initialize everything wrlxaml needs to run.

Creates the default config file (~/.wrlxaml/config.json) if none exists,
initializes the run journal database, and creates the project layout
(Work/ and Patches/Common/) under the project root.

Examples:
  wrlxaml init
  wrlxaml --root D:\XamlWork init`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := config.Path()
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
				if err := config.Save(config.Default()); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Printf("✓ Default config written: %s\n", cfgPath)
			} else {
				fmt.Printf("✓ Config already present: %s\n", cfgPath)
			}

			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			dbPath, err := db.GetDBPath()
			if err != nil {
				return err
			}
			fmt.Printf("✓ Database initialized: %s\n", dbPath)

			layout := wire.Layout()
			for _, dir := range []string{layout.WorkRoot(), layout.SetDir(patchset.CommonSetName)} {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
			}
			fmt.Printf("✓ Project layout created under %s\n", layout.Root)

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  1. Check your tool setup:       wrlxaml doctor")
			fmt.Println("  2. List installed SDKs:         wrlxaml list-sdks")
			fmt.Println("  3. Set up a work directory:     wrlxaml setup <sdk-version>")
			return nil
		},
	}
}
