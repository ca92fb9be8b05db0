package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newQuotaCommand(ctx *commandContext) *cobra.Command {
	quotaCmd := &cobra.Command{
		Use:   "quota",
		Short: "Inspect or reset daily identification counters",
	}
	quotaCmd.AddCommand(newQuotaGetCommand(ctx))
	quotaCmd.AddCommand(newQuotaResetCommand(ctx))
	return quotaCmd
}

func newQuotaGetCommand(ctx *commandContext) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "get <identity>",
		Short: "Show the counter of one identity (user id or ip:<addr>)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}
			u, err := svc.Quota.Usage(cmd.Context(), args[0], day)
			if err != nil {
				return err
			}
			if ctx.jsonOut {
				return writeJSON(cmd, u)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Identity", "Day", "Count", "Limit"},
				[][]string{{u.Identity, u.Day, strconv.Itoa(u.Count), strconv.Itoa(u.Limit)}},
				3, 4))
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "UTC day as YYYY-MM-DD (default today)")
	return cmd
}

func newQuotaResetCommand(ctx *commandContext) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "reset <identity>",
		Short: "Clear the counter of one identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Quota.Reset(cmd.Context(), args[0], day); err != nil {
				return err
			}
			label := day
			if label == "" {
				label = "today"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset quota for %s (%s)\n", args[0], label)
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "UTC day as YYYY-MM-DD (default today)")
	return cmd
}
