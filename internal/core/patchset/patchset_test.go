package patchset

import (
	"path/filepath"
	"testing"

	"github.com/Amrsatrio/WrlXaml/internal/core/sdkver"
)

func TestFromDirNames(t *testing.T) {
	root := filepath.Join("proj", "Patches")

	sets, err := FromDirNames(root, []string{
		"Sdk_le_10.0.19041.0",
		".gitkeep",
		"Common",
		"README.md",
		"Sdk_ge_10.0.22000.0",
	})
	if err != nil {
		t.Fatalf("FromDirNames failed: %v", err)
	}

	wantNames := []string{"Common", "Sdk_ge_10.0.22000.0", "Sdk_le_10.0.19041.0"}
	if len(sets) != len(wantNames) {
		t.Fatalf("got %d sets, want %d", len(sets), len(wantNames))
	}
	for i, want := range wantNames {
		if sets[i].Name != want {
			t.Errorf("sets[%d].Name = %q, want %q", i, sets[i].Name, want)
		}
		if sets[i].Dir != filepath.Join(root, want) {
			t.Errorf("sets[%d].Dir = %q, want %q", i, sets[i].Dir, filepath.Join(root, want))
		}
	}

	if sets[0].Predicate != nil {
		t.Error("Common has a predicate, want nil")
	}
	if sets[1].Predicate == nil || sets[2].Predicate == nil {
		t.Error("Sdk_* sets are missing predicates")
	}
}

func TestFromDirNamesRejectsMalformedSdkDir(t *testing.T) {
	if _, err := FromDirNames("Patches", []string{"Common", "Sdk_between_10_and_11"}); err == nil {
		t.Error("FromDirNames accepted malformed Sdk_* name, want error")
	}
}

func TestSetMatches(t *testing.T) {
	le := sdkver.Predicate{Relation: sdkver.RelationLE, Version: sdkver.MustParse("10.0.19041.0")}

	tests := []struct {
		name    string
		set     Set
		version string
		want    bool
	}{
		{name: "common matches anything", set: Set{Name: CommonSetName}, version: "10.0.10240.0", want: true},
		{name: "predicate matches in range", set: Set{Name: le.DirName(), Predicate: &le}, version: "10.0.17763.0", want: true},
		{name: "predicate rejects out of range", set: Set{Name: le.DirName(), Predicate: &le}, version: "10.0.22000.0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Matches(sdkver.MustParse(tt.version)); got != tt.want {
				t.Errorf("Matches(%s) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	mustSet := func(name string) Set {
		t.Helper()
		if name == CommonSetName {
			return Set{Name: name}
		}
		p, err := sdkver.ParsePredicateDirName(name)
		if err != nil {
			t.Fatalf("bad test set name %q: %v", name, err)
		}
		return Set{Name: name, Predicate: &p}
	}

	sets := []Set{
		mustSet("Sdk_lt_10.0.22000.0"),
		mustSet("Common"),
		mustSet("Sdk_ge_10.0.19041.0"),
		mustSet("Sdk_eq_10.0.17763.0"),
	}

	tests := []struct {
		name    string
		version string
		want    []string
	}{
		{
			name:    "middle version gets common plus both range sets",
			version: "10.0.19041.0",
			want:    []string{"Common", "Sdk_ge_10.0.19041.0", "Sdk_lt_10.0.22000.0"},
		},
		{
			name:    "old version gets common, lt and eq",
			version: "10.0.17763.0",
			want:    []string{"Common", "Sdk_eq_10.0.17763.0", "Sdk_lt_10.0.22000.0"},
		},
		{
			name:    "new version gets common and ge",
			version: "10.0.26100.0",
			want:    []string{"Common", "Sdk_ge_10.0.19041.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := Select(sets, sdkver.MustParse(tt.version))
			if len(selected) != len(tt.want) {
				t.Fatalf("got %d sets, want %d", len(selected), len(tt.want))
			}
			for i, want := range tt.want {
				if selected[i].Name != want {
					t.Errorf("selected[%d] = %q, want %q", i, selected[i].Name, want)
				}
			}
		})
	}
}

func TestSelectWithoutCommon(t *testing.T) {
	p, err := sdkver.ParsePredicateDirName("Sdk_ge_10.0.19041.0")
	if err != nil {
		t.Fatalf("ParsePredicateDirName failed: %v", err)
	}

	selected := Select([]Set{{Name: "Sdk_ge_10.0.19041.0", Predicate: &p}}, sdkver.MustParse("10.0.22000.0"))
	if len(selected) != 1 || selected[0].Name != "Sdk_ge_10.0.19041.0" {
		t.Errorf("Select = %v, want just the matching predicate set", selected)
	}
}

func TestFileNameForPath(t *testing.T) {
	tests := []struct {
		name string
		rel  string
		want string
	}{
		{name: "forward slashes", rel: "XamlCompiler/Compiler.cs", want: "XamlCompiler_Compiler.cs.patch"},
		{name: "backslashes", rel: `XamlCompiler\Compiler.cs`, want: "XamlCompiler_Compiler.cs.patch"},
		{name: "drive colon", rel: `C:\Source\File.cs`, want: "C__Source_File.cs.patch"},
		{name: "plain file", rel: "Program.cs", want: "Program.cs.patch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileNameForPath(tt.rel); got != tt.want {
				t.Errorf("FileNameForPath(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}
