package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Amrsatrio/WrlXaml/internal/cli"
	"github.com/Amrsatrio/WrlXaml/internal/config"
	"github.com/Amrsatrio/WrlXaml/internal/version"
	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

var (
	rootDir string
	verbose bool

	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "wrlxaml",
		Short:   "wrlxaml - patch workflow for the Windows XAML build-task DLL",
		Version: version.String(),
		Long: `wrlxaml automates the decompile, patch and rebuild workflow for the
closed-source Microsoft.Windows.UI.Xaml.Build.Tasks.dll that ships with
the Windows SDK.

It decompiles the DLL into a per-SDK work directory, freezes the result
as a git baseline, applies version-conditional patch sets, and turns
later edits back into per-file patches that survive SDK updates.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logConfig := zap.NewProductionConfig()
			if verbose {
				logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = logConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			wire.Configure(cfg, rootDir, logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Project root holding Work/ and Patches/ (default: configured work_root or the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.ListSdksCmd())
	rootCmd.AddCommand(cli.SetupCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.SetsCmd())
	rootCmd.AddCommand(cli.MakePatchesCmd())
	rootCmd.AddCommand(cli.ApplyCmd())
	rootCmd.AddCommand(cli.BuildCmd())
	rootCmd.AddCommand(cli.EditCmd())
	rootCmd.AddCommand(cli.WatchCmd())
	rootCmd.AddCommand(cli.CleanCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
