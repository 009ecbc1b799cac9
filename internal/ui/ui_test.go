package ui

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/pencils57/scenenav/internal/registry"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestBookmarks(t *testing.T) {
	out := Bookmarks([]registry.Bookmark{
		{Name: "Lobby", Path: "/a/Lobby.unity"},
		{Name: "Shop", Path: "/b/Shop.unity"},
	}, "Shop")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "1  Lobby") || !strings.Contains(lines[0], "/a/Lobby.unity") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "*") {
		t.Errorf("active bookmark not marked: %q", lines[1])
	}
}

func TestBookmarks_Empty(t *testing.T) {
	if out := Bookmarks(nil, ""); !strings.Contains(out, "No bookmarks") {
		t.Errorf("empty output = %q", out)
	}
}

func TestDiagnostic(t *testing.T) {
	out := Diagnostic(registry.Diagnostic{
		Name:    "Shop",
		Outcome: registry.OutcomeAmbiguous,
		Message: "2 scene files share this name",
		Matches: []string{"/a/Shop.unity", "/b/Shop.unity"},
	})
	for _, want := range []string{"Shop: ambiguous", "2 scene files", "/a/Shop.unity", "/b/Shop.unity"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestColorEnabled_NonFile(t *testing.T) {
	if ColorEnabled(&bytes.Buffer{}) {
		t.Error("buffers never get colour")
	}
}

func TestInit_ProfileFollowsWriter(t *testing.T) {
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	for _, w := range []io.Writer{f, &bytes.Buffer{}} {
		lipgloss.SetColorProfile(termenv.TrueColor)
		Init(w)
		if got := lipgloss.ColorProfile(); got != termenv.Ascii {
			t.Errorf("Init(%T) profile = %v, want Ascii", w, got)
		}
		if out := RenderPass("ok"); out != "ok" {
			t.Errorf("Init(%T) left styling on: %q", w, out)
		}
	}
}
