package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pencils57/scenenav/internal/registry"
	"github.com/pencils57/scenenav/internal/ui"
	"github.com/pencils57/scenenav/internal/watch"
)

func newWatchCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		GroupID: "advanced",
		Short:   "Report bookmarks that go stale while the scene tree changes",
		Long: `Watch the scene root and print a notice whenever a bookmarked scene file
is deleted or renamed, and when a scene reappears under the name of a stale
bookmark. The registry is never changed; stale bookmarks are removed when
opened. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			// Make sure the registry exists before watching for drift.
			if err := a.store.Load(); err != nil {
				return err
			}

			w, err := watch.New(func(path string) bool {
				return filepath.Ext(path) == a.cfg.Extension
			})
			if err != nil {
				return err
			}
			if err := w.Start(a.cfg.Root, true); err != nil {
				_ = w.Stop()
				return err
			}
			defer func() { _ = w.Stop() }()

			logger := a.sink.Logger("watch")
			fmt.Fprintf(a.out, "Watching %s (Ctrl+C to stop)\n", a.cfg.Root)

			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil

				case ev, ok := <-w.Events():
					if !ok {
						return nil
					}
					doc, err := registry.ReadDocument(a.cfg.Registry)
					if err != nil {
						fmt.Fprintf(a.out, "%s %v\n", ui.RenderFail("✗"), err)
						continue
					}
					for _, line := range staleNotices(a, doc.Bookmarks, ev) {
						logger.Print(line)
						fmt.Fprintln(a.out, line)
					}

				case err, ok := <-w.Errors():
					if !ok {
						return nil
					}
					logger.Printf("Watch error: %v", err)
				}
			}
		},
	}
}

// staleNotices describes how ev affects bookmarks.
func staleNotices(a *app, bookmarks []registry.Bookmark, ev watch.Event) []string {
	stored := a.bookmarkPath(ev.Path)

	var notices []string
	switch ev.Op {
	case watch.OpDelete:
		for _, b := range watch.Affected(bookmarks, stored) {
			notices = append(notices, fmt.Sprintf("%s %s: %s was removed; the bookmark is stale and will be dropped when opened",
				ui.RenderWarn("⚠"), b.Name, b.Path))
		}

	case watch.OpCreate:
		name := strings.TrimSuffix(filepath.Base(ev.Path), a.cfg.Extension)
		for _, b := range bookmarks {
			if b.Name != name || filepath.Clean(b.Path) == filepath.Clean(stored) {
				continue
			}
			if a.files.Exists(b.Path) {
				continue
			}
			notices = append(notices, fmt.Sprintf("%s %s: now at %s but bookmarked at %s; remove and add it again",
				ui.RenderAccent("•"), b.Name, stored, b.Path))
		}
	}
	return notices
}
