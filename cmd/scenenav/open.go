package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pencils57/scenenav/internal/registry"
	"github.com/pencils57/scenenav/internal/ui"
)

func newOpenCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:     "open [INDEX]",
		GroupID: "bookmarks",
		Short:   "Open the bookmarked scene at INDEX",
		Long: `Open the bookmarked scene at INDEX (as shown by list). Without INDEX an
interactive picker is shown when running in a terminal.

The open scene is saved first. If the bookmarked file has moved or been
deleted, the bookmark is removed and the scene must be added again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.Load(); err != nil {
				return err
			}

			var index int
			if len(args) == 1 {
				index, err = parseIndex(args[0])
				if err != nil {
					return err
				}
			} else {
				index, err = pick(cmd, a)
				if err != nil {
					return err
				}
				if index < 0 {
					return nil
				}
			}
			if err := checkIndex(a, index); err != nil {
				return err
			}

			d, err := a.navigator().Open(index)
			if err != nil {
				return err
			}

			a.record(cmd.Context(), "open", []registry.Diagnostic{d})
			fmt.Fprintln(a.out, ui.Diagnostic(d))
			return nil
		},
	}
}

// pick asks for a bookmark interactively. It returns -1 when there is
// nothing to pick from.
func pick(cmd *cobra.Command, a *app) (int, error) {
	bookmarks := a.store.List()
	if len(bookmarks) == 0 {
		fmt.Fprint(a.out, ui.Bookmarks(nil, ""))
		return -1, nil
	}
	if !isTerminal(cmd.InOrStdin()) {
		return 0, fmt.Errorf("INDEX is required when not running in a terminal")
	}

	options := make([]huh.Option[int], len(bookmarks))
	for i, b := range bookmarks {
		options[i] = huh.NewOption(fmt.Sprintf("%d  %s", i+1, b.Name), i)
	}

	var index int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Open scene").
			Options(options...).
			Value(&index),
	)).WithInput(cmd.InOrStdin()).WithOutput(cmd.OutOrStdout())
	if err := form.Run(); err != nil {
		return 0, fmt.Errorf("selection cancelled: %w", err)
	}
	return index, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
