package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Amrsatrio/WrlXaml/internal/sdk"
)

func TestBuildService_FindProject(t *testing.T) {
	service := NewBuildService("", nil, nil)
	dir := t.TempDir()

	writeSourceFile(t, dir, "Microsoft.Windows.UI.Xaml.Build.Tasks.csproj", "<Project/>\n")
	writeSourceFile(t, dir, "Program.cs", "class Program {}\n")
	// Project files under build output must not count as duplicates.
	writeSourceFile(t, dir, filepath.Join("obj", "Generated.csproj"), "<Project/>\n")

	project, err := service.FindProject(dir)
	if err != nil {
		t.Fatalf("FindProject() error = %v", err)
	}
	if filepath.Base(project) != "Microsoft.Windows.UI.Xaml.Build.Tasks.csproj" {
		t.Errorf("unexpected project %q", project)
	}
}

func TestBuildService_FindProject_None(t *testing.T) {
	service := NewBuildService("", nil, nil)

	_, err := service.FindProject(t.TempDir())
	if err == nil {
		t.Fatal("expected error for empty directory")
	}
	if !strings.Contains(err.Error(), "no .csproj") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildService_FindProject_Multiple(t *testing.T) {
	service := NewBuildService("", nil, nil)
	dir := t.TempDir()

	writeSourceFile(t, dir, "One.csproj", "<Project/>\n")
	writeSourceFile(t, dir, filepath.Join("Nested", "Two.csproj"), "<Project/>\n")

	_, err := service.FindProject(dir)
	if err == nil {
		t.Fatal("expected error for ambiguous project files")
	}
	if !strings.Contains(err.Error(), "multiple project files") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildService_FindBuiltDll(t *testing.T) {
	service := NewBuildService("", nil, nil)
	dir := t.TempDir()

	old := filepath.Join(dir, "bin", "Debug", "net472", sdk.TaskDllName)
	newer := filepath.Join(dir, "bin", "Release", "net472", sdk.TaskDllName)
	writeSourceFile(t, dir, filepath.Join("bin", "Debug", "net472", sdk.TaskDllName), "old")
	writeSourceFile(t, dir, filepath.Join("bin", "Release", "net472", sdk.TaskDllName), "new")
	// The source copy outside bin/ must never win.
	writeSourceFile(t, dir, sdk.TaskDllName, "source")

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("failed to age %s: %v", old, err)
	}

	if got := service.FindBuiltDll(dir); got != newer {
		t.Errorf("FindBuiltDll() = %q, want %q", got, newer)
	}
}

func TestBuildService_FindBuiltDll_NoOutput(t *testing.T) {
	service := NewBuildService("", nil, nil)

	if got := service.FindBuiltDll(t.TempDir()); got != "" {
		t.Errorf("expected empty path without build output, got %q", got)
	}
}

func TestBuildService_ConfigurationArgs(t *testing.T) {
	tests := []struct {
		name    string
		bin     string
		cfg     string
		want    []string
		wantErr bool
	}{
		{name: "dotnet", bin: "dotnet", cfg: "Release", want: []string{"-c", "Release"}},
		{name: "dotnet exe suffix", bin: "dotnet.exe", cfg: "Debug", want: []string{"-c", "Debug"}},
		{name: "dotnet full path", bin: "/usr/share/dotnet/dotnet", cfg: "Debug", want: []string{"-c", "Debug"}},
		{name: "msbuild", bin: "MSBuild.exe", cfg: "Release", want: []string{"/p:Configuration=Release"}},
		{name: "empty configuration", bin: "dotnet", cfg: "", want: nil},
		{name: "unknown tool", bin: "make", cfg: "Release", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewBuildService(tt.bin, []string{"build"}, nil)

			got, err := service.ConfigurationArgs(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ConfigurationArgs() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ConfigurationArgs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ConfigurationArgs()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewBuildService_Defaults(t *testing.T) {
	service := NewBuildService("", nil, nil)
	if service.Tool() != "dotnet" {
		t.Errorf("expected default tool 'dotnet', got %q", service.Tool())
	}
	if len(service.baseArgs) != 1 || service.baseArgs[0] != "build" {
		t.Errorf("expected default args [build], got %v", service.baseArgs)
	}

	custom := NewBuildService("msbuild", nil, nil)
	if len(custom.baseArgs) != 0 {
		t.Errorf("expected no injected args for custom tool, got %v", custom.baseArgs)
	}
}
