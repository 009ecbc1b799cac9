package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pencils57/scenenav/internal/ui"
)

func newListCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: "bookmarks",
		Short:   "List bookmarks in order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.Load(); err != nil {
				return err
			}

			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				data, err := json.MarshalIndent(a.store.List(), "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode bookmarks: %w", err)
				}
				fmt.Fprintln(a.out, string(data))
				return nil
			}

			active, err := a.host.ActiveResourceName()
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, ui.Bookmarks(a.store.List(), active))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output JSON")
	return cmd
}
