package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/tmux"
	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// EditCmd returns the edit command
func EditCmd() *cobra.Command {
	var (
		detached     bool
		listSessions bool
	)

	cmd := &cobra.Command{
		Use:   "edit [workdir]",
		Short: "Open a tmux edit session on the decompiled source tree",
		Long: `Create (or re-attach to) a tmux session for editing a work
directory's source tree.

Layout:
  ┌─────────────────────┬──────────────┐
  │                     │    shell     │
  │       editor        ├──────────────┤
  │                     │    watch     │
  └─────────────────────┴──────────────┘

The editor pane runs the configured editor in the source directory,
the shell pane is for build runs, and the watch pane regenerates the
patch files whenever a source file is saved.

Examples:
  wrlxaml edit 10.0.19041.0
  wrlxaml edit 10.0.19041.0 --detached
  wrlxaml edit --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			adapter, err := tmux.NewGotmuxAdapter()
			if err != nil {
				return fmt.Errorf("tmux not available: %w", err)
			}

			if listSessions {
				return printEditSessions(adapter)
			}
			if len(args) != 1 {
				return fmt.Errorf("expected a work directory argument (or --list)")
			}

			key, err := resolveKey(ctx, args[0])
			if err != nil {
				return err
			}
			sourceDir := wire.Layout().SourceDir(key)
			if exists, err := wire.Workspace().DirExists(ctx, sourceDir); err != nil || !exists {
				return fmt.Errorf("no decompiled source at %s (run 'wrlxaml setup %s' first)", sourceDir, key.SdkVersion)
			}

			name := tmux.SessionName(key.SdkVersion.String(), key.DllHash)
			if adapter.SessionExists(name) {
				fmt.Printf("✓ Edit session already running: %s\n", name)
			} else {
				if err := adapter.CreateEditSession(name, sourceDir, wire.Config().EditorCommand(), watchCommand(key.ID())); err != nil {
					return fmt.Errorf("failed to create edit session: %w", err)
				}
				fmt.Printf("✓ Created edit session: %s\n", name)
			}

			if detached {
				fmt.Println()
				fmt.Print(tmux.AttachInstructions(name))
				return nil
			}
			return attachToSession(name)
		},
	}

	cmd.Flags().BoolVarP(&detached, "detached", "d", false, "Create the session without attaching to it")
	cmd.Flags().BoolVar(&listSessions, "list", false, "List running edit sessions")

	return cmd
}

// watchCommand builds the shell command for the watch pane. Without a
// resolvable binary path the pane is skipped rather than left broken.
func watchCommand(id string) string {
	binary, err := os.Executable()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%q --root %q watch %q", binary, wire.Layout().Root, id)
}

func printEditSessions(adapter *tmux.GotmuxAdapter) error {
	sessions, err := adapter.ListToolSessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No edit sessions running.")
		return nil
	}
	for _, session := range sessions {
		fmt.Println(session)
	}
	return nil
}

// attachToSession hands the terminal over to tmux.
func attachToSession(name string) error {
	tmuxPath, err := exec.LookPath("tmux")
	if err != nil {
		return fmt.Errorf("tmux not found in PATH: %w", err)
	}

	attach := exec.Command(tmuxPath, "attach", "-t", name)
	attach.Stdin = os.Stdin
	attach.Stdout = os.Stdout
	attach.Stderr = os.Stderr
	if err := attach.Run(); err != nil {
		fmt.Print(tmux.AttachInstructions(name))
		return fmt.Errorf("failed to attach to %s: %w", name, err)
	}
	return nil
}
