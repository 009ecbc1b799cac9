package navigate

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pencils57/scenenav/internal/registry"
	"github.com/pencils57/scenenav/internal/resolve"
	"github.com/spf13/afero"
)

// fakeHost records the calls the navigator makes.
type fakeHost struct {
	active  string
	saves   int
	opened  []string
	saveErr error
}

func (h *fakeHost) ActiveResourceName() (string, error) { return h.active, nil }

func (h *fakeHost) SaveActiveResource() error {
	if h.saveErr != nil {
		return h.saveErr
	}
	h.saves++
	return nil
}

func (h *fakeHost) OpenResource(path string) error {
	h.opened = append(h.opened, path)
	return nil
}

func setup(t *testing.T, host *fakeHost, files []string, bookmarks ...registry.Bookmark) (*Navigator, *registry.Store) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		if err := afero.WriteFile(fs, f, []byte("scene"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	store := registry.NewStore(filepath.Join(t.TempDir(), "bookmarks.json"), nil)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	for _, b := range bookmarks {
		store.Add(b)
	}
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}

	return New(store, host, resolve.Files{Fs: fs, Dir: "/"}, nil), store
}

func persisted(t *testing.T, store *registry.Store) []registry.Bookmark {
	t.Helper()
	doc, err := registry.ReadDocument(store.Path())
	if err != nil {
		t.Fatalf("ReadDocument() failed: %v", err)
	}
	return doc.Bookmarks
}

func TestOpen_ExistingScene(t *testing.T) {
	host := &fakeHost{active: "Lobby"}
	nav, store := setup(t, host, []string{"/b/Shop.scene"},
		registry.Bookmark{Name: "Lobby", Path: "/a/Lobby.scene"},
		registry.Bookmark{Name: "Shop", Path: "/b/Shop.scene"},
	)

	diag, err := nav.Open(1)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if diag.Outcome != registry.OutcomeOpened {
		t.Errorf("outcome = %s, want %s", diag.Outcome, registry.OutcomeOpened)
	}
	if host.saves != 1 {
		t.Errorf("active scene saved %d times, want 1", host.saves)
	}
	if diff := cmp.Diff([]string{"/b/Shop.scene"}, host.opened); diff != "" {
		t.Errorf("opened mismatch (-want +got):\n%s", diff)
	}
	if got := len(persisted(t, store)); got != 2 {
		t.Errorf("registry has %d bookmarks, want 2", got)
	}
}

func TestOpen_StaleEntryIsPruned(t *testing.T) {
	host := &fakeHost{active: "Lobby"}
	nav, store := setup(t, host, nil,
		registry.Bookmark{Name: "Lobby", Path: "/a/Lobby.scene"},
		registry.Bookmark{Name: "Old", Path: "/x/Old.scene"},
		registry.Bookmark{Name: "Shop", Path: "/b/Shop.scene"},
	)

	diag, err := nav.Open(1)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if diag.Outcome != registry.OutcomePruned {
		t.Errorf("outcome = %s, want %s", diag.Outcome, registry.OutcomePruned)
	}
	if diag.Message == "" {
		t.Error("pruned diagnostic should carry a notice")
	}
	if len(host.opened) != 0 {
		t.Errorf("OpenResource called with %v", host.opened)
	}
	if host.saves != 1 {
		t.Errorf("active scene saved %d times, want 1", host.saves)
	}

	want := []registry.Bookmark{
		{Name: "Lobby", Path: "/a/Lobby.scene"},
		{Name: "Shop", Path: "/b/Shop.scene"},
	}
	if diff := cmp.Diff(want, persisted(t, store)); diff != "" {
		t.Errorf("registry mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen_AlreadyOpen(t *testing.T) {
	host := &fakeHost{active: "Lobby"}
	// The file is missing too: an already-open scene is never checked.
	nav, store := setup(t, host, nil,
		registry.Bookmark{Name: "Lobby", Path: "/a/Lobby.scene"},
	)

	diag, err := nav.Open(0)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if diag.Outcome != registry.OutcomeAlreadyOpen {
		t.Errorf("outcome = %s, want %s", diag.Outcome, registry.OutcomeAlreadyOpen)
	}
	if len(host.opened) != 0 || host.saves != 0 {
		t.Errorf("host touched: opened=%v saves=%d", host.opened, host.saves)
	}
	if got := len(persisted(t, store)); got != 1 {
		t.Errorf("registry has %d bookmarks, want 1", got)
	}
}

func TestOpen_IndexOutOfRange(t *testing.T) {
	host := &fakeHost{}
	nav, _ := setup(t, host, nil, registry.Bookmark{Name: "Lobby", Path: "/a/Lobby.scene"})

	for _, idx := range []int{-1, 1} {
		_, err := nav.Open(idx)
		if !errors.Is(err, registry.ErrIndexOutOfRange) {
			t.Errorf("Open(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	if host.saves != 0 {
		t.Error("host should not be touched on a bad index")
	}
}

func TestOpen_SaveFailureAborts(t *testing.T) {
	host := &fakeHost{active: "Lobby", saveErr: errors.New("disk full")}
	nav, store := setup(t, host, nil,
		registry.Bookmark{Name: "Old", Path: "/x/Old.scene"},
	)

	if _, err := nav.Open(0); err == nil {
		t.Fatal("expected save failure to be returned")
	}
	if got := len(persisted(t, store)); got != 1 {
		t.Errorf("registry changed after failed save, have %d bookmarks", got)
	}
}
