// Package ui renders command output. Colour is used only when the output
// is a terminal and NO_COLOR is unset.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/pencils57/scenenav/internal/registry"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

// Init picks the colour profile for w.
func Init(w io.Writer) {
	if !ColorEnabled(w) {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
}

// ColorEnabled reports whether w is a terminal that should get colour.
func ColorEnabled(w io.Writer) bool {
	if termenv.EnvNoColor() {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// RenderAccent highlights informational markers.
func RenderAccent(s string) string { return accentStyle.Render(s) }

// RenderPass marks success.
func RenderPass(s string) string { return passStyle.Render(s) }

// RenderWarn marks non-fatal problems.
func RenderWarn(s string) string { return warnStyle.Render(s) }

// RenderFail marks errors.
func RenderFail(s string) string { return failStyle.Render(s) }

// RenderMuted de-emphasises secondary text.
func RenderMuted(s string) string { return mutedStyle.Render(s) }

// Bookmarks renders the registry as a numbered list starting at 1. The
// bookmark named active is highlighted.
func Bookmarks(bookmarks []registry.Bookmark, active string) string {
	if len(bookmarks) == 0 {
		return RenderMuted("No bookmarks. Add one with 'scenenav add'.") + "\n"
	}

	width := len(fmt.Sprint(len(bookmarks)))
	nameWidth := 0
	for _, b := range bookmarks {
		nameWidth = max(nameWidth, lipgloss.Width(b.Name))
	}

	var sb strings.Builder
	for i, b := range bookmarks {
		name := fmt.Sprintf("%-*s", nameWidth, b.Name)
		marker := " "
		if b.Name == active {
			name = activeStyle.Render(name)
			marker = RenderPass("*")
		}
		fmt.Fprintf(&sb, "%s %*d  %s  %s\n", marker, width, i+1, name, RenderMuted(b.Path))
	}
	return sb.String()
}

// Diagnostic renders one outcome as a single line.
func Diagnostic(d registry.Diagnostic) string {
	var icon string
	switch d.Outcome {
	case registry.OutcomeAdded, registry.OutcomeOpened:
		icon = RenderPass("✓")
	case registry.OutcomeAlreadyRegistered, registry.OutcomeAlreadyOpen, registry.OutcomeRemoved:
		icon = RenderAccent("•")
	default:
		icon = RenderWarn("⚠")
	}

	line := fmt.Sprintf("%s %s: %s", icon, d.Name, d.Outcome)
	if d.Message != "" {
		line += RenderMuted(" (" + d.Message + ")")
	}
	for _, m := range d.Matches {
		line += "\n    " + RenderMuted(m)
	}
	return line
}
