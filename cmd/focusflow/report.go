package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/focusflow/internal/commands"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/views"
)

func summaryCmd(opts *rootOptions) *cobra.Command {
	var asJSON, plain bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print today's coach report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.Summary()
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			case plain:
				fmt.Fprintln(out, res.Report)
			default:
				fmt.Fprintln(out, views.RenderMarkdown(res.Report))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output report and stats as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "Output raw Markdown")
	return cmd
}

func tasksCmd(opts *rootOptions) *cobra.Command {
	var week bool
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List today's blocks, or the whole weekly plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if week {
				plan := slices.Clone(a.Store.Snapshot().WeeklyPlan)
				slices.SortStableFunc(plan, func(x, y model.Task) int {
					return cmp.Or(cmp.Compare(x.Weekday, y.Weekday), cmp.Compare(x.Hour, y.Hour), cmp.Compare(x.Minute, y.Minute))
				})
				for _, t := range plan {
					fmt.Fprintf(out, "%s %02d:%02d  %-24s %-9s +%d\n", commands.DayName(t.Weekday), t.Hour, t.Minute, t.Title, t.Difficulty, t.CoinReward)
				}
				return nil
			}
			blocks := a.Today()
			if len(blocks) == 0 {
				fmt.Fprintln(out, "No blocks planned for today.")
				return nil
			}
			for i, b := range blocks {
				fmt.Fprintf(out, "%d. %s-%s  %-24s [%s] +%d\n", i+1, b.Start.Format("15:04"), b.End.Format("15:04"), b.Title, b.Status, b.Reward)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&week, "week", "w", false, "List the whole weekly plan")
	return cmd
}

func ledgerCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show the coin bank and the latest ledger entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			snap := a.Store.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Bank: %d coins\n", snap.CoinBank)
			entries := snap.CoinLedger
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-7s %+5d  %s\n", e.Date.Local().Format("2006-01-02 15:04"), e.Type, e.Amount, e.Label)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum entries (0 for all)")
	return cmd
}
