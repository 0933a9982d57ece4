package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecompilerService_Decompile(t *testing.T) {
	requireStubScripts(t)
	stub := writeStubDecompiler(t, stubDecompilerScript)
	service := NewDecompilerService(stub, NewRunner(nil))

	outDir := filepath.Join(t.TempDir(), "Source")
	err := service.Decompile(context.Background(), writeFakeDll(t), outDir)
	if err != nil {
		t.Fatalf("Decompile() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "Program.cs")); err != nil {
		t.Errorf("decompiled source not written: %v", err)
	}
}

func TestDecompilerService_Decompile_Fails(t *testing.T) {
	requireStubScripts(t)
	stub := writeStubDecompiler(t, failingDecompilerScript)
	service := NewDecompilerService(stub, NewRunner(nil))

	err := service.Decompile(context.Background(), writeFakeDll(t), t.TempDir())
	if err == nil {
		t.Fatal("expected error from failing decompiler")
	}
	if !strings.Contains(err.Error(), "failed to decompile") {
		t.Errorf("unexpected error: %v", err)
	}
	// The tool's stderr must survive into the error for diagnosis.
	if !strings.Contains(err.Error(), "refusing") {
		t.Errorf("error should carry decompiler stderr: %v", err)
	}
}

func TestDecompilerService_Version(t *testing.T) {
	requireStubScripts(t)
	stub := writeStubDecompiler(t, "#!/bin/sh\necho \"ilspycmd: 9.0.0.7660\"\necho \"ILSpy version 9.0.0.7660\"\n")
	service := NewDecompilerService(stub, NewRunner(nil))

	got, err := service.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if got != "ilspycmd: 9.0.0.7660" {
		t.Errorf("Version() = %q, want first output line", got)
	}
}
