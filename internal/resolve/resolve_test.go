package resolve

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

// newTree builds an in-memory tree containing the given files.
func newTree(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		if err := afero.WriteFile(fs, f, []byte("scene"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", f, err)
		}
	}
	return fs
}

func TestResolve(t *testing.T) {
	fs := newTree(t,
		"/proj/Assets/a/Lobby.scene",
		"/proj/Assets/b/Shop.scene",
		"/proj/Assets/c/Shop.scene",
		"/proj/Assets/b/Lobby.prefab",
		"/proj/Assets/Deep/er/Boss.scene",
	)
	r := New(fs, "/proj/Assets", "scene", nil)

	tests := []struct {
		name     string
		scene    string
		wantPath string
		wantErr  error
		matches  int
	}{
		{name: "unique", scene: "Lobby", wantPath: "/proj/Assets/a/Lobby.scene"},
		{name: "nested", scene: "Boss", wantPath: "/proj/Assets/Deep/er/Boss.scene"},
		{name: "missing", scene: "Title", wantErr: ErrNotFound},
		{name: "ambiguous", scene: "Shop", wantErr: ErrAmbiguous, matches: 2},
		{name: "prefix is not a match", scene: "Lob", wantErr: ErrNotFound},
		{name: "case sensitive", scene: "lobby", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.scene)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q) error = %v, want %v", tt.scene, err, tt.wantErr)
				}
				if !IsResolutionFailure(err) {
					t.Error("IsResolutionFailure() = false")
				}
				var rerr *Error
				if !errors.As(err, &rerr) {
					t.Fatalf("error is %T, want *Error", err)
				}
				if len(rerr.Matches) != tt.matches {
					t.Errorf("Matches = %v, want %d entries", rerr.Matches, tt.matches)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.scene, err)
			}
			if got != tt.wantPath {
				t.Errorf("Resolve(%q) = %q, want %q", tt.scene, got, tt.wantPath)
			}
		})
	}
}

func TestResolve_MissingRoot(t *testing.T) {
	r := New(afero.NewMemMapFs(), "/nowhere", ".scene", nil)

	_, err := r.Resolve("Lobby")
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if IsResolutionFailure(err) {
		t.Error("a missing root is an I/O failure, not a resolution miss")
	}
}

func TestSearch_Sorted(t *testing.T) {
	fs := newTree(t,
		"/root/z/Shop.scene",
		"/root/a/Shop.scene",
		"/root/m/Shop.scene",
	)
	r := New(fs, "/root", ".scene", nil)

	got, err := r.Search("Shop")
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	want := []string{"/root/a/Shop.scene", "/root/m/Shop.scene", "/root/z/Shop.scene"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilesExists(t *testing.T) {
	fs := newTree(t, "/proj/Assets/Lobby.scene", "/elsewhere/Shop.scene")
	files := Files{Fs: fs, Dir: "/proj"}

	tests := []struct {
		path string
		want bool
	}{
		{"Assets/Lobby.scene", true},
		{"/proj/Assets/Lobby.scene", true},
		{"/elsewhere/Shop.scene", true},
		{"Assets/Old.scene", false},
		{"/proj/Assets/Old.scene", false},
		{"Assets", false},
	}

	for _, tt := range tests {
		if got := files.Exists(tt.path); got != tt.want {
			t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNamesAndSuggest(t *testing.T) {
	fs := newTree(t,
		"/root/a/Lobby.scene",
		"/root/b/LobbyNight.scene",
		"/root/b/Shop.scene",
		"/root/c/Shop.scene",
		"/root/c/readme.txt",
	)
	r := New(fs, "/root", ".scene", nil)

	names, err := r.Names()
	if err != nil {
		t.Fatalf("Names() failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Lobby", "LobbyNight", "Shop"}, names); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	got, err := r.Suggest("lob", 5)
	if err != nil {
		t.Fatalf("Suggest() failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Lobby", "LobbyNight"}, got); diff != "" {
		t.Errorf("Suggest() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeExt(t *testing.T) {
	for in, want := range map[string]string{
		"unity":   ".unity",
		".unity":  ".unity",
		"..unity": ".unity",
	} {
		if got := NormalizeExt(in); got != want {
			t.Errorf("NormalizeExt(%q) = %q, want %q", in, got, want)
		}
	}
}
