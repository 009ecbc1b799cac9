package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pencils57/scenenav/internal/feed"
	"github.com/pencils57/scenenav/internal/registry"
	"github.com/pencils57/scenenav/internal/watch"
)

func newServeCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "advanced",
		Short:   "Serve a live websocket feed of the registry",
		Long: `Serve the registry over a websocket at ws://localhost:PORT/ws.

Every client receives the current bookmarks on connect and again whenever
the registry file changes. GET /health reports the client count. Stop with
Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.Load(); err != nil {
				return err
			}

			port := a.cfg.Feed.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetInt("port")
			}

			snapshot := func() ([]registry.Bookmark, error) {
				doc, err := registry.ReadDocument(a.cfg.Registry)
				if err != nil {
					return nil, err
				}
				return doc.Bookmarks, nil
			}

			server := feed.NewServer(&feed.Config{Port: port, Logger: a.sink.Logger("feed")}, snapshot)
			if err := server.Start(); err != nil {
				return err
			}
			defer func() { _ = server.Stop() }()

			// The registry is replaced by rename on every save, so watch its
			// directory rather than the file.
			registryPath := filepath.Clean(a.cfg.Registry)
			w, err := watch.New(func(path string) bool {
				return filepath.Clean(path) == registryPath
			})
			if err != nil {
				return err
			}
			if err := w.Start(filepath.Dir(registryPath), false); err != nil {
				_ = w.Stop()
				return err
			}
			defer func() { _ = w.Stop() }()

			fmt.Fprintf(a.out, "Serving registry feed on ws://%s/ws (Ctrl+C to stop)\n", server.Addr())

			logger := a.sink.Logger("serve")
			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil

				case ev, ok := <-w.Events():
					if !ok {
						return nil
					}
					if ev.Op == watch.OpDelete {
						continue
					}
					bookmarks, err := snapshot()
					if err != nil {
						logger.Printf("Registry unreadable: %v", err)
						server.PublishError(err)
						continue
					}
					server.PublishRegistry(bookmarks)

				case err, ok := <-w.Errors():
					if !ok {
						return nil
					}
					logger.Printf("Watch error: %v", err)
				}
			}
		},
	}
	cmd.Flags().Int("port", 8080, "Listen port (overrides feed.port)")
	return cmd
}
