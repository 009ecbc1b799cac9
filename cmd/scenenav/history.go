package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/pencils57/scenenav/internal/history"
	"github.com/pencils57/scenenav/internal/registry"
	"github.com/pencils57/scenenav/internal/ui"
)

func newHistoryCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		GroupID: "advanced",
		Short:   "Show journaled outcomes, newest first",
		Long: `Show what add, rm and open did, newest first.

--since accepts a duration ("2h"), a date ("2026-03-01"), an RFC 3339
timestamp, or a phrase such as "yesterday" or "last monday".`,
		Example: `  scenenav history --since yesterday
  scenenav history --outcome pruned
  scenenav history --stats`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if !a.cfg.History.Enabled {
				fmt.Fprintln(a.out, ui.RenderMuted("History is disabled (history.enabled: false)."))
				return nil
			}

			db, err := history.Open(a.cfg.History.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			if stats, _ := cmd.Flags().GetBool("stats"); stats {
				counts, err := db.Count(cmd.Context())
				if err != nil {
					return err
				}
				outcomes := make([]string, 0, len(counts))
				for o := range counts {
					outcomes = append(outcomes, string(o))
				}
				sort.Strings(outcomes)
				for _, o := range outcomes {
					fmt.Fprintf(a.out, "%-20s %d\n", o, counts[registry.Outcome(o)])
				}
				return nil
			}

			q := history.Query{}
			q.Limit, _ = cmd.Flags().GetInt("limit")
			q.Name, _ = cmd.Flags().GetString("name")
			outcome, _ := cmd.Flags().GetString("outcome")
			q.Outcome = registry.Outcome(outcome)
			if since, _ := cmd.Flags().GetString("since"); since != "" {
				q.Since, err = history.ParseSince(since, time.Now())
				if err != nil {
					return err
				}
			}

			events, err := db.Recent(cmd.Context(), q)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(a.out, ui.RenderMuted("No history."))
				return nil
			}
			for _, e := range events {
				line := fmt.Sprintf("%s  %-4s  %s: %s", e.At.Local().Format("2006-01-02 15:04:05"), e.Command, e.Name, e.Outcome)
				if e.Message != "" {
					line += ui.RenderMuted(" (" + e.Message + ")")
				}
				fmt.Fprintln(a.out, line)
			}
			return nil
		},
	}
	cmd.Flags().String("since", "", "Only events at or after this time")
	cmd.Flags().Int("limit", 20, "Maximum number of events (0 for all)")
	cmd.Flags().String("outcome", "", "Only events with this outcome")
	cmd.Flags().String("name", "", "Only events for this scene name")
	cmd.Flags().Bool("stats", false, "Print event counts per outcome")
	return cmd
}
