package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pencils57/scenenav/internal/config"
	"github.com/pencils57/scenenav/internal/project"
	"github.com/pencils57/scenenav/internal/ui"
)

func newInitCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		GroupID: "bookmarks",
		Short:   "Create the scenenav state directory in the project",
		Long: `Create .scenenav/ in the project directory (default: the working
directory) with a default config and an empty registry. Inside a git or
jj repository, per-user state (session, history, logs) is ignored so that
only the registry and config are shared. Running it again leaves existing
files untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("project")
			if dir == "" {
				dir = c.env.cwd
			} else if !filepath.IsAbs(dir) {
				dir = filepath.Join(c.env.cwd, dir)
			}

			created, err := project.Init(dir)
			if err != nil {
				return err
			}
			if _, err := config.WriteDefault(dir); err != nil {
				return err
			}

			repo, err := project.DetectRepo(dir)
			if err != nil {
				return err
			}
			if repo.Type != project.VCSNone {
				if _, err := project.IgnoreLocalState(dir); err != nil {
					return err
				}
			}

			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			// Load creates the registry when it is missing.
			if err := a.store.Load(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "%s Initialized %s\n", ui.RenderPass("✓"), project.StateDir(dir))
			} else {
				fmt.Fprintf(out, "Already initialized: %s\n", project.StateDir(dir))
			}
			fmt.Fprintf(out, "  Scene root: %s\n", a.cfg.Root)
			fmt.Fprintf(out, "  Registry:   %s\n", a.cfg.Registry)
			if repo.Type != project.VCSNone {
				fmt.Fprintf(out, "  Repository: %s at %s (session and history are not committed)\n", repo.Type, repo.Root)
			}
			return nil
		},
	}
}
