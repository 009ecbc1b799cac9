package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pencils57/scenenav/internal/registry"
	"github.com/pencils57/scenenav/internal/ui"
)

func newRmCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm INDEX",
		Aliases: []string{"remove"},
		GroupID: "bookmarks",
		Short:   "Remove the bookmark at INDEX (as shown by list)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.Load(); err != nil {
				return err
			}

			if err := checkIndex(a, index); err != nil {
				return err
			}

			d, err := a.reconciler().Remove(index)
			if err != nil {
				return err
			}

			a.record(cmd.Context(), "rm", []registry.Diagnostic{d})
			fmt.Fprintln(a.out, ui.Diagnostic(d))
			return nil
		},
	}
}

// parseIndex converts a 1-based index as shown by list to the 0-based
// index used by the registry.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: expected a number", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", registry.ErrIndexOutOfRange, n)
	}
	return n - 1, nil
}

// checkIndex reports an out-of-range index in the 1-based form the user
// typed.
func checkIndex(a *app, index int) error {
	if n := a.store.Len(); index >= n {
		return fmt.Errorf("%w: %d (have %d)", registry.ErrIndexOutOfRange, index+1, n)
	}
	return nil
}
