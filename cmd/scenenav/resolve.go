package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pencils57/scenenav/internal/ui"
)

func newResolveCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:     "resolve NAME",
		GroupID: "bookmarks",
		Short:   "Show which scene files NAME resolves to",
		Long: `Search the scene root for NAME<ext> and print every match. Exactly one
match is required for NAME to be added; with none, similar scene names
are suggested.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			name := args[0]
			matches, err := a.resolver.Search(name)
			if err != nil {
				return err
			}

			switch len(matches) {
			case 0:
				fmt.Fprintf(a.out, "%s %s: not found under %s\n", ui.RenderWarn("⚠"), name, a.resolver.Root())
				suggestions, err := a.resolver.Suggest(name, 5)
				if err != nil {
					return err
				}
				for _, s := range suggestions {
					fmt.Fprintf(a.out, "    %s\n", ui.RenderMuted("did you mean "+s+"?"))
				}
			case 1:
				fmt.Fprintf(a.out, "%s %s: %s\n", ui.RenderPass("✓"), name, matches[0])
			default:
				fmt.Fprintf(a.out, "%s %s: ambiguous, %d files\n", ui.RenderWarn("⚠"), name, len(matches))
				for _, m := range matches {
					fmt.Fprintf(a.out, "    %s\n", m)
				}
			}
			return nil
		},
	}
}
