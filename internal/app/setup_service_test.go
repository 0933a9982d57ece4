package app

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/Amrsatrio/WrlXaml/internal/adapters/filesystem"
	"github.com/Amrsatrio/WrlXaml/internal/core/sdkver"
	"github.com/Amrsatrio/WrlXaml/internal/core/workdir"
	"github.com/Amrsatrio/WrlXaml/internal/ports/primary"
	"github.com/Amrsatrio/WrlXaml/internal/sdk"
)

// stubDecompilerScript stands in for the real decompiler. It emits a tiny
// deterministic project so the rest of the pipeline runs for real.
const stubDecompilerScript = `#!/bin/sh
out="$3"
mkdir -p "$out"
cat > "$out/Program.cs" <<'EOF'
using System;

class XamlTasks
{
}
EOF
cat > "$out/XamlTasks.csproj" <<'EOF'
<Project Sdk="Microsoft.NET.Sdk" />
EOF
`

const failingDecompilerScript = `#!/bin/sh
echo "stub decompiler: refusing" >&2
exit 3
`

func requireStubScripts(t *testing.T) {
	t.Helper()
	requireGit(t)
	if runtime.GOOS == "windows" {
		t.Skip("stub decompiler scripts need a POSIX shell")
	}
}

func writeStubDecompiler(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-ilspycmd")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write stub decompiler: %v", err)
	}
	return path
}

func writeFakeDll(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), sdk.TaskDllName)
	if err := os.WriteFile(path, []byte("MZ fake assembly payload"), 0644); err != nil {
		t.Fatalf("failed to write fake DLL: %v", err)
	}
	return path
}

func mustVersion(t *testing.T, s string) sdkver.Version {
	t.Helper()
	v, err := sdkver.Parse(s)
	if err != nil {
		t.Fatalf("failed to parse version %s: %v", s, err)
	}
	return v
}

func newTestSetupService(t *testing.T, decompilerBin string) (*SetupService, workdir.Layout, *mockWorkdirRepository, *mockRunRepository) {
	t.Helper()
	layout := workdir.Layout{Root: t.TempDir()}
	runner := NewRunner(nil)
	ws := filesystem.NewWorkspace()
	git := NewGitService("git", runner)

	wdRepo := newMockWorkdirRepository()
	runRepo := newMockRunRepository()
	workdirs := NewWorkdirService(wdRepo, runRepo, ws, git)
	patches := NewPatchService(layout, ws, git)
	decompiler := NewDecompilerService(decompilerBin, runner)

	service := NewSetupService(layout, ws, sdk.Locator{}, decompiler, git, patches, workdirs, nil)
	return service, layout, wdRepo, runRepo
}

func TestSetupService_Setup(t *testing.T) {
	requireStubScripts(t)
	stub := writeStubDecompiler(t, stubDecompilerScript)
	service, layout, wdRepo, runRepo := newTestSetupService(t, stub)
	ctx := context.Background()

	dll := writeFakeDll(t)
	result, err := service.Setup(ctx, SetupRequest{
		Version: mustVersion(t, "10.0.19041.0"),
		DllPath: dll,
	})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if result.Key.SdkVersion.String() != "10.0.19041.0" {
		t.Errorf("unexpected key version %q", result.Key.SdkVersion)
	}
	wantHash, err := workdir.HashDLL(dll)
	if err != nil {
		t.Fatalf("HashDLL() error = %v", err)
	}
	if result.Key.DllHash != wantHash {
		t.Errorf("key hash = %q, want %q", result.Key.DllHash, wantHash)
	}
	if !regexp.MustCompile(`^[0-9a-f]{40}$`).MatchString(result.Baseline) {
		t.Errorf("baseline %q is not a commit hash", result.Baseline)
	}

	if _, err := os.Stat(filepath.Join(layout.SourceDir(result.Key), "Program.cs")); err != nil {
		t.Errorf("decompiled source not in place: %v", err)
	}

	metaData, err := os.ReadFile(layout.MetadataPath(result.Key))
	if err != nil {
		t.Fatalf("metadata.json not written: %v", err)
	}
	meta, err := workdir.DecodeMetadata(metaData)
	if err != nil {
		t.Fatalf("DecodeMetadata() error = %v", err)
	}
	if meta.SdkVersion != "10.0.19041.0" || meta.DllHash != wantHash {
		t.Errorf("metadata identifies wrong workdir: %+v", meta)
	}
	if meta.Baseline != result.Baseline {
		t.Errorf("metadata baseline = %q, want %q", meta.Baseline, result.Baseline)
	}
	if meta.DllPath != dll {
		t.Errorf("metadata dll_path = %q, want %q", meta.DllPath, dll)
	}
	if meta.ToolVersion == "" {
		t.Error("metadata tool_version is empty")
	}

	if len(result.HelperScripts) != 2 {
		t.Fatalf("expected 2 helper scripts, got %v", result.HelperScripts)
	}
	shInfo, err := os.Stat(layout.HelperScriptPath(result.Key, "sh"))
	if err != nil {
		t.Fatalf("make-patches.sh not written: %v", err)
	}
	if shInfo.Mode().Perm()&0100 == 0 {
		t.Error("make-patches.sh is not executable")
	}
	cmdData, err := os.ReadFile(layout.HelperScriptPath(result.Key, "cmd"))
	if err != nil {
		t.Fatalf("make-patches.cmd not written: %v", err)
	}
	if !strings.Contains(string(cmdData), "\r\n") {
		t.Error("make-patches.cmd has no CRLF line endings")
	}
	if !strings.Contains(string(cmdData), result.Key.ID()) {
		t.Error("make-patches.cmd does not name the work directory")
	}

	record, ok := wdRepo.workdirs[result.Key.ID()]
	if !ok {
		t.Fatal("workdir not registered")
	}
	if record.Status != primary.WorkdirStatusActive {
		t.Errorf("registered status = %q, want active", record.Status)
	}

	if len(runRepo.runs) != 1 || runRepo.runs[0].Command != "setup" || runRepo.runs[0].Status != primary.RunStatusOK {
		t.Errorf("unexpected run journal: %+v", runRepo.runs)
	}
}

func TestSetupService_Setup_AppliesPatchSets(t *testing.T) {
	requireStubScripts(t)
	stub := writeStubDecompiler(t, stubDecompilerScript)
	ctx := context.Background()

	// Prime a real patch from a scratch setup of the same stub source.
	primer, primerLayout, _, _ := newTestSetupService(t, stub)
	primed, err := primer.Setup(ctx, SetupRequest{
		Version: mustVersion(t, "10.0.19041.0"),
		DllPath: writeFakeDll(t),
	})
	if err != nil {
		t.Fatalf("primer Setup() error = %v", err)
	}
	primerSrc := primerLayout.SourceDir(primed.Key)
	writeSourceFile(t, primerSrc, "Program.cs", "using System;\n\nclass XamlTasksPatched\n{\n}\n")
	git := NewGitService("git", NewRunner(nil))
	diff, err := git.DiffFile(ctx, primerSrc, BaselineTag, "Program.cs")
	if err != nil {
		t.Fatalf("DiffFile() error = %v", err)
	}

	service, layout, _, _ := newTestSetupService(t, stub)
	writeSourceFile(t, layout.SetDir("Common"), "Program.cs.patch", diff)
	// Non-matching set with the same patch; applying it twice would fail.
	writeSourceFile(t, layout.SetDir("Sdk_ge_10.0.22000.0"), "Program.cs.patch", diff)

	result, err := service.Setup(ctx, SetupRequest{
		Version: mustVersion(t, "10.0.19041.0"),
		DllPath: writeFakeDll(t),
	})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if len(result.AppliedSets) != 1 || result.AppliedSets[0].Name != "Common" {
		t.Fatalf("unexpected applied sets: %+v", result.AppliedSets)
	}

	content, err := os.ReadFile(filepath.Join(layout.SourceDir(result.Key), "Program.cs"))
	if err != nil {
		t.Fatalf("failed to read patched source: %v", err)
	}
	if !strings.Contains(string(content), "XamlTasksPatched") {
		t.Errorf("patch not applied to fresh source:\n%s", content)
	}
}

func TestSetupService_Setup_SkipPatches(t *testing.T) {
	requireStubScripts(t)
	stub := writeStubDecompiler(t, stubDecompilerScript)
	service, layout, _, _ := newTestSetupService(t, stub)

	// Would fail if applied.
	writeSourceFile(t, layout.SetDir("Common"), "Broken.patch", "this is not a diff\n")

	result, err := service.Setup(context.Background(), SetupRequest{
		Version:     mustVersion(t, "10.0.19041.0"),
		DllPath:     writeFakeDll(t),
		SkipPatches: true,
	})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if len(result.AppliedSets) != 0 {
		t.Errorf("expected no applied sets, got %+v", result.AppliedSets)
	}
}

func TestSetupService_Setup_AlreadyExists(t *testing.T) {
	requireStubScripts(t)
	stub := writeStubDecompiler(t, stubDecompilerScript)
	service, layout, _, _ := newTestSetupService(t, stub)
	ctx := context.Background()

	dll := writeFakeDll(t)
	result, err := service.Setup(ctx, SetupRequest{
		Version: mustVersion(t, "10.0.19041.0"),
		DllPath: dll,
	})
	if err != nil {
		t.Fatalf("first Setup() error = %v", err)
	}

	_, err = service.Setup(ctx, SetupRequest{
		Version: mustVersion(t, "10.0.19041.0"),
		DllPath: dll,
	})
	if err == nil {
		t.Fatal("expected error for existing work directory")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("unexpected error: %v", err)
	}

	// The rejected rerun must not have torn the existing directory down.
	if _, err := os.Stat(layout.SourceDir(result.Key)); err != nil {
		t.Errorf("existing work directory was damaged: %v", err)
	}
}

func TestSetupService_Setup_MissingDll(t *testing.T) {
	requireStubScripts(t)
	stub := writeStubDecompiler(t, stubDecompilerScript)
	service, _, _, _ := newTestSetupService(t, stub)

	_, err := service.Setup(context.Background(), SetupRequest{
		Version: mustVersion(t, "10.0.19041.0"),
		DllPath: filepath.Join(t.TempDir(), "nope.dll"),
	})
	if err == nil {
		t.Fatal("expected error for missing DLL")
	}
	if !strings.Contains(err.Error(), "DLL not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSetupService_Setup_DecompilerFailureCleansUp(t *testing.T) {
	requireStubScripts(t)
	stub := writeStubDecompiler(t, failingDecompilerScript)
	service, layout, wdRepo, runRepo := newTestSetupService(t, stub)

	dll := writeFakeDll(t)
	_, err := service.Setup(context.Background(), SetupRequest{
		Version: mustVersion(t, "10.0.19041.0"),
		DllPath: dll,
	})
	if err == nil {
		t.Fatal("expected error from failing decompiler")
	}

	hash, herr := workdir.HashDLL(dll)
	if herr != nil {
		t.Fatalf("HashDLL() error = %v", herr)
	}
	key := workdir.Key{SdkVersion: mustVersion(t, "10.0.19041.0"), DllHash: hash}
	if _, serr := os.Stat(layout.Dir(key)); !os.IsNotExist(serr) {
		t.Error("expected half-built work directory to be cleaned up")
	}
	if len(wdRepo.workdirs) != 0 {
		t.Errorf("expected no registered workdirs, got %v", wdRepo.workdirs)
	}
	if len(runRepo.runs) != 0 {
		t.Errorf("expected no journaled runs, got %+v", runRepo.runs)
	}
}

func TestSetupService_Setup_PatchFailureCleansUp(t *testing.T) {
	requireStubScripts(t)
	stub := writeStubDecompiler(t, stubDecompilerScript)
	service, layout, wdRepo, _ := newTestSetupService(t, stub)

	writeSourceFile(t, layout.SetDir("Common"), "Broken.patch", "this is not a diff\n")

	dll := writeFakeDll(t)
	_, err := service.Setup(context.Background(), SetupRequest{
		Version: mustVersion(t, "10.0.19041.0"),
		DllPath: dll,
	})
	if err == nil {
		t.Fatal("expected error from broken patch set")
	}

	hash, herr := workdir.HashDLL(dll)
	if herr != nil {
		t.Fatalf("HashDLL() error = %v", herr)
	}
	key := workdir.Key{SdkVersion: mustVersion(t, "10.0.19041.0"), DllHash: hash}
	if _, serr := os.Stat(layout.Dir(key)); !os.IsNotExist(serr) {
		t.Error("expected failed work directory to be cleaned up")
	}
	if len(wdRepo.workdirs) != 0 {
		t.Errorf("expected no registered workdirs, got %v", wdRepo.workdirs)
	}
}
