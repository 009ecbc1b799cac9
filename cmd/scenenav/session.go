package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pencils57/scenenav/internal/ui"
)

func newCurrentCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:     "current [PATH]",
		GroupID: "host",
		Short:   "Show or set the open scene",
		Long: `Without PATH, print the open scene. With PATH, make that scene file the
open one, as if the editor had opened it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if len(args) == 0 {
				s, err := a.host.Session()
				if err != nil {
					return err
				}
				if s.Active == "" {
					fmt.Fprintln(a.out, ui.RenderMuted("No open scene."))
					return nil
				}
				name, _ := a.host.ActiveResourceName()
				fmt.Fprintf(a.out, "%s  %s\n", ui.RenderAccent(name), ui.RenderMuted(s.Active))
				if s.SavedAt != nil {
					fmt.Fprintf(a.out, "  saved %d time(s), last at %s\n", s.Saves, s.SavedAt.Format("2006-01-02 15:04:05"))
				}
				return nil
			}

			path := args[0]
			if !filepath.IsAbs(path) {
				path = filepath.Join(c.env.cwd, path)
			}
			if filepath.Ext(path) != a.cfg.Extension {
				return fmt.Errorf("%s is not a scene (expected %s)", args[0], a.cfg.Extension)
			}
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("cannot open %s: %w", args[0], err)
			}
			if !info.Mode().IsRegular() {
				return fmt.Errorf("cannot open %s: not a file", args[0])
			}

			stored := a.bookmarkPath(path)
			if err := a.host.OpenResource(stored); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s Opened %s\n", ui.RenderPass("✓"), stored)
			return nil
		},
	}
}

func newSelectCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "select [PATH...]",
		GroupID: "host",
		Short:   "Set the project selection",
		Long: `Replace the selection with PATH arguments. Items of any type may be
selected; 'scenenav add --selected' only considers scenes. With no
arguments the selection is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			clearSelection, _ := cmd.Flags().GetBool("clear")
			if clearSelection && len(args) > 0 {
				return fmt.Errorf("--clear cannot be combined with paths")
			}

			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if !clearSelection && len(args) == 0 {
				s, err := a.host.Session()
				if err != nil {
					return err
				}
				if len(s.Selected) == 0 {
					fmt.Fprintln(a.out, ui.RenderMuted("Nothing selected."))
				}
				for _, item := range s.Selected {
					fmt.Fprintln(a.out, item)
				}
				return nil
			}

			if err := a.host.Select(args); err != nil {
				return err
			}
			names, err := a.host.SelectedResourceNames()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Selected %d item(s), %d scene(s)\n", len(args), len(names))
			return nil
		},
	}
	cmd.Flags().Bool("clear", false, "Clear the selection")
	return cmd
}

func newSaveCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:     "save",
		GroupID: "host",
		Short:   "Save the open scene",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			name, err := a.host.ActiveResourceName()
			if err != nil {
				return err
			}
			if name == "" {
				fmt.Fprintln(a.out, ui.RenderMuted("No open scene."))
				return nil
			}
			if err := a.host.SaveActiveResource(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s Saved %s\n", ui.RenderPass("✓"), name)
			return nil
		},
	}
}
