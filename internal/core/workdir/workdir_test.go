package workdir

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Amrsatrio/WrlXaml/internal/core/sdkver"
)

func TestKeyID(t *testing.T) {
	key := Key{SdkVersion: sdkver.MustParse("10.0.19041.0"), DllHash: "a1b2c3d4e5f60718"}
	if got := key.ID(); got != "10.0.19041.0/a1b2c3d4e5f60718" {
		t.Errorf("ID() = %q, want %q", got, "10.0.19041.0/a1b2c3d4e5f60718")
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid key", id: "10.0.19041.0/a1b2c3d4e5f60718"},
		{name: "missing hash segment", id: "10.0.19041.0", wantErr: true},
		{name: "empty hash", id: "10.0.19041.0/", wantErr: true},
		{name: "invalid version", id: "banana/a1b2c3d4e5f60718", wantErr: true},
		{name: "too many segments", id: "10.0/19041/a1b2", wantErr: true},
		{name: "empty", id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseKey(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseKey(%q) succeeded, want error", tt.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKey(%q) failed: %v", tt.id, err)
			}
			if key.ID() != tt.id {
				t.Errorf("round trip: ID() = %q, want %q", key.ID(), tt.id)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	layout := Layout{Root: filepath.Join("proj")}
	key := Key{SdkVersion: sdkver.MustParse("10.0.19041.0"), DllHash: "a1b2c3d4e5f60718"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"work root", layout.WorkRoot(), filepath.Join("proj", "Work")},
		{"patch root", layout.PatchRoot(), filepath.Join("proj", "Patches")},
		{"set dir", layout.SetDir("Common"), filepath.Join("proj", "Patches", "Common")},
		{"workdir", layout.Dir(key), filepath.Join("proj", "Work", "10.0.19041.0", "a1b2c3d4e5f60718")},
		{"source dir", layout.SourceDir(key), filepath.Join("proj", "Work", "10.0.19041.0", "a1b2c3d4e5f60718", "Source")},
		{"patch output dir", layout.PatchOutputDir(key), filepath.Join("proj", "Work", "10.0.19041.0", "a1b2c3d4e5f60718", "Patches")},
		{"metadata path", layout.MetadataPath(key), filepath.Join("proj", "Work", "10.0.19041.0", "a1b2c3d4e5f60718", "metadata.json")},
		{"cmd helper script", layout.HelperScriptPath(key, "cmd"), filepath.Join("proj", "Work", "10.0.19041.0", "a1b2c3d4e5f60718", "make-patches.cmd")},
		{"sh helper script", layout.HelperScriptPath(key, "sh"), filepath.Join("proj", "Work", "10.0.19041.0", "a1b2c3d4e5f60718", "make-patches.sh")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLayoutPatchBase(t *testing.T) {
	layout := Layout{Root: "proj", PatchBase: filepath.Join("shared", "XamlPatches")}

	if got := layout.PatchRoot(); got != filepath.Join("shared", "XamlPatches") {
		t.Errorf("PatchRoot() = %q, want the relocated base", got)
	}
	if got := layout.SetDir("Common"); got != filepath.Join("shared", "XamlPatches", "Common") {
		t.Errorf("SetDir() = %q, want set under the relocated base", got)
	}
	if got := layout.WorkRoot(); got != filepath.Join("proj", "Work") {
		t.Errorf("WorkRoot() = %q, PatchBase must not move work directories", got)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	key := Key{SdkVersion: sdkver.MustParse("10.0.22000.0"), DllHash: "00ff00ff00ff00ff"}
	meta := NewMetadata(key,
		`C:\kits`,
		`C:\kits\bin\10.0.22000.0\x86\Microsoft.Windows.UI.Xaml.Build.Tasks.dll`,
		"deadbeef", "dev")

	if meta.Version != MetadataFormatVersion {
		t.Errorf("Version = %q, want %q", meta.Version, MetadataFormatVersion)
	}
	if meta.CreatedAt == "" {
		t.Error("CreatedAt is empty")
	}

	data := EncodeMetadata(meta)
	if !strings.Contains(string(data), `"sdk_version": "10.0.22000.0"`) {
		t.Errorf("encoded metadata missing sdk_version: %s", data)
	}

	decoded, err := DecodeMetadata(data)
	if err != nil {
		t.Fatalf("DecodeMetadata failed: %v", err)
	}
	if decoded != meta {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, meta)
	}

	gotKey, err := decoded.Key()
	if err != nil {
		t.Fatalf("Key() failed: %v", err)
	}
	if gotKey.ID() != key.ID() {
		t.Errorf("Key() = %q, want %q", gotKey.ID(), key.ID())
	}
}

func TestDecodeMetadataRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{"},
		{name: "missing sdk_version", data: `{"dll_hash": "abc"}`},
		{name: "missing dll_hash", data: `{"sdk_version": "10.0.19041.0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeMetadata([]byte(tt.data)); err == nil {
				t.Errorf("DecodeMetadata(%q) succeeded, want error", tt.data)
			}
		})
	}
}
