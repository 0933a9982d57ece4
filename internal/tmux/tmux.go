// Package tmux manages the interactive edit sessions the edit command
// opens on work directory source trees.
package tmux

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/GianlucaP106/gotmux/gotmux"
)

// SessionPrefix namespaces every session the tool creates.
const SessionPrefix = "wrlxaml-"

// SessionName derives the tmux session name for a work directory.
// tmux rejects '.' and ':' in session names, so version dots become
// dashes, and the hash is shortened to keep names readable.
func SessionName(version, hash string) string {
	short := hash
	if len(short) > 8 {
		short = short[:8]
	}
	return SessionPrefix + strings.ReplaceAll(version, ".", "-") + "-" + short
}

// GotmuxAdapter wraps the gotmux library for session lifecycle management.
type GotmuxAdapter struct {
	tmux *gotmux.Tmux
}

// NewGotmuxAdapter creates a new gotmux adapter.
func NewGotmuxAdapter() (*GotmuxAdapter, error) {
	tmux, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("failed to create tmux client: %w", err)
	}
	return &GotmuxAdapter{tmux: tmux}, nil
}

// CreateEditSession creates a detached session on the source tree:
// the editor in the main pane on the left, a shell and the patch
// watcher stacked beside it. An empty watchCommand leaves the watcher
// pane out.
//
//	┌─────────────────┬─────────┐
//	│                 │  shell  │
//	│     editor      ├─────────┤
//	│                 │  watch  │
//	└─────────────────┴─────────┘
func (g *GotmuxAdapter) CreateEditSession(name, sourceDir, editor, watchCommand string) error {
	session, err := g.tmux.NewSession(&gotmux.SessionOptions{
		Name:           name,
		StartDirectory: sourceDir,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	windows, err := session.ListWindows()
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}
	if len(windows) == 0 {
		return fmt.Errorf("no windows found in new session")
	}
	window := windows[0]

	if err := window.Rename("edit"); err != nil {
		return fmt.Errorf("failed to rename window: %w", err)
	}

	panes, err := window.ListPanes()
	if err != nil || len(panes) == 0 {
		return fmt.Errorf("failed to get initial pane: %w", err)
	}
	editorPane := panes[0]

	// Make the editor the root process of the first pane. SessionOptions
	// has no ShellCommand, so respawn the pane instead.
	if err := exec.Command("tmux", "respawn-pane", "-t", editorPane.Id, "-k", editor).Run(); err != nil {
		return fmt.Errorf("failed to start editor pane: %w", err)
	}

	if err := editorPane.SplitWindow(&gotmux.SplitWindowOptions{
		SplitDirection: gotmux.PaneSplitDirectionVertical,
		StartDirectory: sourceDir,
	}); err != nil {
		return fmt.Errorf("failed to split for shell pane: %w", err)
	}

	if watchCommand != "" {
		panes, err = window.ListPanes()
		if err != nil || len(panes) < 2 {
			return fmt.Errorf("failed to get shell pane: %w", err)
		}
		shellPane := panes[len(panes)-1]
		if err := shellPane.SplitWindow(&gotmux.SplitWindowOptions{
			SplitDirection: gotmux.PaneSplitDirectionVertical,
			StartDirectory: sourceDir,
		}); err != nil {
			return fmt.Errorf("failed to split for watch pane: %w", err)
		}
		panes, err = window.ListPanes()
		if err != nil || len(panes) < 3 {
			return fmt.Errorf("failed to get watch pane: %w", err)
		}
		watchPane := panes[len(panes)-1]
		if err := exec.Command("tmux", "respawn-pane", "-t", watchPane.Id, "-k", watchCommand).Run(); err != nil {
			return fmt.Errorf("failed to start watch pane: %w", err)
		}
	}

	// Set main-pane-width BEFORE applying the layout; tmux reads the
	// option at layout-selection time.
	if err := window.SetOption("main-pane-width", "65%"); err != nil {
		return fmt.Errorf("failed to set main-pane-width: %w", err)
	}
	if err := window.SelectLayout("main-vertical"); err != nil {
		return fmt.Errorf("failed to apply main-vertical layout: %w", err)
	}

	return nil
}

// GetSession returns a gotmux Session by name, or nil if not found.
func (g *GotmuxAdapter) GetSession(name string) (*gotmux.Session, error) {
	sessions, err := g.tmux.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	for _, s := range sessions {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, nil
}

// SessionExists checks if a tmux session exists.
func (g *GotmuxAdapter) SessionExists(name string) bool {
	session, err := g.GetSession(name)
	return err == nil && session != nil
}

// ListToolSessions returns the names of sessions this tool created,
// sorted.
func (g *GotmuxAdapter) ListToolSessions() ([]string, error) {
	sessions, err := g.tmux.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var names []string
	for _, s := range sessions {
		if strings.HasPrefix(s.Name, SessionPrefix) {
			names = append(names, s.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// KillSession terminates a tmux session.
func (g *GotmuxAdapter) KillSession(name string) error {
	session, err := g.GetSession(name)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", name)
	}
	if err := session.Kill(); err != nil {
		return fmt.Errorf("failed to kill session: %w", err)
	}
	return nil
}

// AttachInstructions returns user-facing instructions for attaching to an
// edit session.
func AttachInstructions(sessionName string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Attach to session: tmux attach -t %s\n", sessionName))
	b.WriteString("\n")
	b.WriteString("Pane Layout:\n")
	b.WriteString("  Left: editor on the decompiled source\n")
	b.WriteString("  Top right: shell in the source directory\n")
	b.WriteString("  Bottom right: patch watcher regenerating on save\n")
	b.WriteString("\n")
	b.WriteString("TMux Commands:\n")
	b.WriteString("  Switch panes: Ctrl+b then arrow keys\n")
	b.WriteString("  Detach session: Ctrl+b then d\n")

	return b.String()
}
