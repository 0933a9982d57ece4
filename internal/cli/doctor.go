package cli

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Amrsatrio/WrlXaml/internal/config"
	"github.com/Amrsatrio/WrlXaml/internal/db"
	"github.com/Amrsatrio/WrlXaml/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the wrlxaml tool environment",
		Long: `Health check for everything the pipelines depend on.

Validates:
- Config file and state directory
- git, decompiler and build tool binaries
- tmux availability (needed by 'wrlxaml edit' only)
- Windows SDK root
- Run journal database
- Project directory layout

Examples:
  wrlxaml doctor              # Run full health check
  wrlxaml doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			results := []CheckResult{
				checkConfig(),
				checkGit(ctx),
				checkDecompiler(ctx),
				checkBuildTool(),
				checkTmux(),
				checkSdkRoot(),
				checkDatabase(),
				checkLayout(ctx),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, statusMark(r.Status))
				}
				fmt.Println()

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Println("Details:")
							hasDetails = true
						}
						fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\n⚠ Issues found. Fix the ✗ checks before running pipelines.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// checkConfig validates the config file parses
func checkConfig() CheckResult {
	path, err := config.Path()
	if err != nil {
		return CheckResult{Name: "Config", Status: "✗", Details: "  " + err.Error()}
	}
	if _, err := config.Load(); err != nil {
		return CheckResult{
			Name:    "Config",
			Status:  "✗",
			Details: fmt.Sprintf("  %v\n  Fix or delete %s", err, path),
		}
	}
	return CheckResult{Name: "Config", Status: "✓"}
}

// checkGit validates the git binary used for baseline bookkeeping
func checkGit(ctx context.Context) CheckResult {
	bin := wire.Config().Git()
	out, err := exec.CommandContext(ctx, bin, "--version").Output()
	if err != nil {
		return CheckResult{
			Name:    "Git",
			Status:  "✗",
			Details: fmt.Sprintf("  '%s' not runnable: %v\n  Install git or set git_bin in the config", bin, err),
		}
	}
	return CheckResult{Name: "Git", Status: "✓", Details: "  " + firstLine(string(out))}
}

// checkDecompiler validates the decompiler binary
func checkDecompiler(ctx context.Context) CheckResult {
	bin := wire.Config().Decompiler()
	ver, err := wire.DecompilerService().Version(ctx)
	if err != nil {
		return CheckResult{
			Name:    "Decompiler",
			Status:  "✗",
			Details: fmt.Sprintf("  '%s' not runnable: %v\n  Run: dotnet tool install -g ilspycmd", bin, err),
		}
	}
	return CheckResult{Name: "Decompiler", Status: "✓", Details: "  " + ver}
}

// checkBuildTool validates the build tool binary
func checkBuildTool() CheckResult {
	bin := wire.BuildService().Tool()
	path, err := exec.LookPath(bin)
	if err != nil {
		return CheckResult{
			Name:    "Build Tool",
			Status:  "✗",
			Details: fmt.Sprintf("  '%s' not found in PATH\n  Install the .NET SDK or set build_bin in the config", bin),
		}
	}
	return CheckResult{Name: "Build Tool", Status: "✓", Details: "  " + path}
}

// checkTmux reports tmux availability. Only 'wrlxaml edit' needs it, so
// a missing tmux is a warning rather than an error.
func checkTmux() CheckResult {
	path, err := exec.LookPath("tmux")
	if err != nil {
		return CheckResult{
			Name:    "TMux",
			Status:  "⚠",
			Details: "  tmux not found in PATH ('wrlxaml edit' will not work)",
		}
	}
	return CheckResult{Name: "TMux", Status: "✓", Details: "  " + path}
}

// checkSdkRoot validates the Windows SDK root can be located
func checkSdkRoot() CheckResult {
	root, err := wire.Locator().Root()
	if err != nil {
		return CheckResult{
			Name:    "SDK Root",
			Status:  "⚠",
			Details: fmt.Sprintf("  %v\n  Set sdk_root in the config or pass --sdk-root / --dll to setup", err),
		}
	}
	return CheckResult{Name: "SDK Root", Status: "✓", Details: "  " + root}
}

// checkDatabase validates the run journal database opens
func checkDatabase() CheckResult {
	path, err := db.GetDBPath()
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	if _, err := db.GetDB(); err != nil {
		return CheckResult{
			Name:    "Database",
			Status:  "✗",
			Details: fmt.Sprintf("  Cannot open %s: %v", path, err),
		}
	}
	return CheckResult{Name: "Database", Status: "✓", Details: "  " + path}
}

// checkLayout validates the project directory layout exists
func checkLayout(ctx context.Context) CheckResult {
	layout := wire.Layout()
	ws := wire.Workspace()

	missing := []string{}
	for _, dir := range []string{layout.WorkRoot(), layout.PatchRoot()} {
		if exists, err := ws.DirExists(ctx, dir); err != nil || !exists {
			missing = append(missing, dir)
		}
	}
	if len(missing) > 0 {
		return CheckResult{
			Name:    "Layout",
			Status:  "⚠",
			Details: "  Missing: " + strings.Join(missing, ", ") + "\n  Run: wrlxaml init",
		}
	}
	return CheckResult{Name: "Layout", Status: "✓"}
}

// statusMark colors a check status for terminal output.
func statusMark(status string) string {
	switch status {
	case "✓":
		return color.New(color.FgGreen).Sprint(status)
	case "⚠":
		return color.New(color.FgYellow).Sprint(status)
	default:
		return color.New(color.FgRed).Sprint(status)
	}
}

// firstLine returns the first line of command output, trimmed.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
