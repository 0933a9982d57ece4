package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/core/patchset"
	"github.com/Amrsatrio/WrlXaml/internal/core/workdir"
	"github.com/Amrsatrio/WrlXaml/internal/ports/primary"
	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "status [workdir]",
		Short: "Show registered work directories or one directory in detail",
		Long: `Without arguments, list every registered work directory with its last
journaled run. With a work directory argument, show the full picture:
metadata, baseline, whether the source tree has edits, and the current
patch output.

Examples:
  wrlxaml status
  wrlxaml status 10.0.19041.0
  wrlxaml status --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if len(args) == 1 {
				return showWorkdirStatus(ctx, args[0])
			}
			return listWorkdirs(ctx, showAll)
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "Include removed work directories")

	return cmd
}

func listWorkdirs(ctx context.Context, showAll bool) error {
	filters := primary.WorkdirFilters{Status: primary.WorkdirStatusActive}
	if showAll {
		filters.Status = ""
	}

	workdirs, err := wire.WorkdirService().List(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list work directories: %w", err)
	}
	if len(workdirs) == 0 {
		fmt.Println("No work directories registered. Run 'wrlxaml setup <sdk-version>' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSOURCE\tLAST RUN\tCREATED")
	fmt.Fprintln(w, "--\t------\t------\t--------\t-------")
	for _, wd := range workdirs {
		lastRun := "-"
		if run, err := wire.WorkdirService().LatestRun(ctx, wd.ID); err == nil && run != nil {
			lastRun = fmt.Sprintf("%s (%s)", run.Command, run.Status)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", wd.ID, wd.Status, sourceState(ctx, wd.ID), lastRun, formatTime(wd.CreatedAt))
	}
	return w.Flush()
}

// sourceState summarizes a work directory's source tree for the list view.
func sourceState(ctx context.Context, id string) string {
	key, err := workdir.ParseKey(id)
	if err != nil {
		return "-"
	}
	sourceDir := wire.Layout().SourceDir(key)
	if exists, err := wire.Workspace().DirExists(ctx, sourceDir); err != nil || !exists {
		return "missing"
	}
	dirty, err := wire.GitService().IsDirty(ctx, sourceDir)
	switch {
	case err != nil:
		return "?"
	case dirty:
		return "edited"
	default:
		return "clean"
	}
}

func showWorkdirStatus(ctx context.Context, arg string) error {
	key, err := resolveKey(ctx, arg)
	if err != nil {
		return err
	}
	layout := wire.Layout()
	ws := wire.Workspace()

	fmt.Printf("Work Directory: %s\n", key.ID())
	fmt.Printf("  Path:       %s\n", layout.Dir(key))

	if registered, err := wire.WorkdirService().Get(ctx, key.ID()); err != nil {
		fmt.Println("  Registered: no")
	} else {
		fmt.Printf("  Registered: yes (%s, created %s)\n", registered.Status, formatTime(registered.CreatedAt))
	}

	if data, err := ws.ReadFile(ctx, layout.MetadataPath(key)); err == nil {
		if meta, err := workdir.DecodeMetadata(data); err == nil {
			fmt.Printf("  DLL:        %s\n", meta.DllPath)
			fmt.Printf("  Baseline:   %.12s\n", meta.Baseline)
			if meta.SdkRoot != "" {
				fmt.Printf("  SDK root:   %s\n", meta.SdkRoot)
			}
		}
	}
	fmt.Println()

	sourceDir := layout.SourceDir(key)
	if exists, err := ws.DirExists(ctx, sourceDir); err != nil || !exists {
		fmt.Println("Source: missing (run 'wrlxaml setup' again)")
		return nil
	}
	dirty, err := wire.GitService().IsDirty(ctx, sourceDir)
	switch {
	case err != nil:
		fmt.Printf("Source: present (git state unknown: %v)\n", err)
	case dirty:
		fmt.Println("Source: present, edited relative to baseline")
	default:
		fmt.Println("Source: present, clean")
	}

	patches, err := ws.ListFilesWithExt(ctx, layout.PatchOutputDir(key), patchset.FileExt)
	if err == nil && len(patches) > 0 {
		fmt.Printf("Patches: %d file(s) in %s\n", len(patches), layout.PatchOutputDir(key))
	} else {
		fmt.Println("Patches: none generated")
	}

	if run, err := wire.WorkdirService().LatestRun(ctx, key.ID()); err == nil && run != nil {
		fmt.Printf("Last run: %s (%s) at %s\n", run.Command, run.Status, formatTime(run.FinishedAt))
		if run.Detail != "" {
			fmt.Printf("  %s\n", run.Detail)
		}
	}
	return nil
}

// formatTime renders a stored RFC 3339 timestamp for table output. Values
// that do not parse are shown as stored.
func formatTime(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Local().Format("2006-01-02 15:04")
}
