package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pencils57/scenenav/internal/reconcile"
	"github.com/pencils57/scenenav/internal/registry"
	"github.com/pencils57/scenenav/internal/ui"
)

func newAddCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add [NAME...]",
		GroupID: "bookmarks",
		Short:   "Bookmark the open scene, the selection, or scenes by name",
		Long: `Bookmark scenes.

With no arguments the open scene is added unless a bookmark whose name
contains its name already exists. With --selected every selected scene is
added, and with NAME arguments every named scene; both skip names already
bookmarked exactly.

Each name is resolved to the one file <root>/**/<NAME><ext>. A name that
matches no file or several files is reported and skipped; the others are
still added.`,
		Example: `  scenenav add
  scenenav add --selected
  scenenav add Lobby Shop`,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, _ := cmd.Flags().GetBool("selected")
			if selected && len(args) > 0 {
				return fmt.Errorf("--selected cannot be combined with scene names")
			}

			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			r := a.reconciler()
			var diags []registry.Diagnostic
			switch {
			case selected:
				names, err := a.host.SelectedResourceNames()
				if err != nil {
					return err
				}
				// An empty batch still reloads and saves the registry.
				diags, err = r.AddBatch(names)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					fmt.Fprintln(a.out, ui.RenderMuted("No scenes selected."))
				}
			case len(args) > 0:
				diags, err = r.AddBatch(args)
				if err != nil {
					return err
				}
			default:
				name, err := a.host.ActiveResourceName()
				if err != nil {
					return err
				}
				diags, err = r.AddCurrent(name)
				if errors.Is(err, reconcile.ErrEmptyName) {
					return fmt.Errorf("no open scene (open one with 'scenenav current PATH')")
				}
				if err != nil {
					return err
				}
			}

			a.record(cmd.Context(), "add", diags)
			printDiagnostics(a, diags)
			return nil
		},
	}
	cmd.Flags().Bool("selected", false, "Add the selected scenes")
	return cmd
}

func printDiagnostics(a *app, diags []registry.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(a.out, ui.Diagnostic(d))
		if d.Outcome == registry.OutcomeNotFound {
			suggestions, err := a.resolver.Suggest(d.Name, 3)
			if err == nil && len(suggestions) > 0 {
				fmt.Fprintf(a.out, "    %s\n", ui.RenderMuted(fmt.Sprintf("did you mean: %v", suggestions)))
			}
		}
	}
}
