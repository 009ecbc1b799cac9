package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		GroupID: "advanced",
		Short:   "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after applying config.yaml, SCENENAV_*
environment variables and flags. Paths are shown resolved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			data, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "# project: %s\n%s", a.cfg.ProjectDir, data)
			return nil
		},
	})
	return cmd
}
