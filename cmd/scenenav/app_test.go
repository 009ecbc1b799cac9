package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/pencils57/scenenav/internal/config"
	"github.com/pencils57/scenenav/internal/host"
	"github.com/pencils57/scenenav/internal/logging"
	"github.com/pencils57/scenenav/internal/registry"
	"github.com/pencils57/scenenav/internal/resolve"
)

// newTestApp wires an app for a project in a temp dir whose scene root is
// <dir>/Assets, the default layout.
func newTestApp(t *testing.T, scenes ...string) *app {
	t.Helper()
	dir := t.TempDir()
	for _, s := range scenes {
		path := filepath.Join(dir, s)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("scene"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := &config.Config{
		ProjectDir: dir,
		Root:       filepath.Join(dir, "Assets"),
		Extension:  ".unity",
		Registry:   filepath.Join(dir, ".scenenav", "bookmarks.json"),
		Session:    filepath.Join(dir, ".scenenav", "session.toml"),
	}
	sink := logging.NewSink(logging.Options{})
	a := &app{
		cfg:      cfg,
		sink:     sink,
		logger:   sink.Logger("scenenav"),
		store:    registry.NewStore(cfg.Registry, nil),
		resolver: newResolver(cfg, nil),
		files:    resolve.Files{Fs: afero.NewOsFs(), Dir: dir},
		host:     host.NewFileHost(cfg.Session, cfg.Extension),
		out:      os.Stdout,
	}
	if err := a.store.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return a
}

func TestOpen_AbsoluteBookmarkPathInsideProject(t *testing.T) {
	a := newTestApp(t, "Assets/Lobby.unity")
	abs := filepath.Join(a.cfg.ProjectDir, "Assets", "Lobby.unity")
	a.store.Add(registry.Bookmark{Name: "Lobby", Path: abs})

	d, err := a.navigator().Open(0)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if d.Outcome != registry.OutcomeOpened {
		t.Errorf("Open() outcome = %s, want %s", d.Outcome, registry.OutcomeOpened)
	}
	if a.store.Len() != 1 {
		t.Errorf("bookmark was removed, %d left", a.store.Len())
	}

	s, err := a.host.Session()
	if err != nil {
		t.Fatal(err)
	}
	if s.Active != abs {
		t.Errorf("active = %q, want %q", s.Active, abs)
	}
}

func TestOpen_RelativeAndMissingBookmarkPaths(t *testing.T) {
	a := newTestApp(t, "Assets/Scenes/Shop.unity")
	a.store.Add(registry.Bookmark{Name: "Shop", Path: "Assets/Scenes/Shop.unity"})
	a.store.Add(registry.Bookmark{Name: "Gone", Path: filepath.Join(a.cfg.ProjectDir, "Assets", "Gone.unity")})

	d, err := a.navigator().Open(0)
	if err != nil {
		t.Fatalf("Open(0) failed: %v", err)
	}
	if d.Outcome != registry.OutcomeOpened {
		t.Errorf("Open(0) outcome = %s, want %s", d.Outcome, registry.OutcomeOpened)
	}

	d, err = a.navigator().Open(1)
	if err != nil {
		t.Fatalf("Open(1) failed: %v", err)
	}
	if d.Outcome != registry.OutcomePruned {
		t.Errorf("Open(1) outcome = %s, want %s", d.Outcome, registry.OutcomePruned)
	}
	if a.store.Len() != 1 {
		t.Errorf("Len() = %d after pruning, want 1", a.store.Len())
	}
}

func TestResolverStoresProjectRelativePaths(t *testing.T) {
	a := newTestApp(t, "Assets/Scenes/Lobby.unity")

	path, err := a.resolver.Resolve("Lobby")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if want := filepath.Join("Assets", "Scenes", "Lobby.unity"); path != want {
		t.Errorf("Resolve() = %q, want %q", path, want)
	}
	if !a.files.Exists(path) {
		t.Errorf("Exists(%q) = false for the resolved path", path)
	}
}
