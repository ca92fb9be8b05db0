package main

import (
	"fmt"
	"strconv"
	"time"

	"birdspot/internal/services/usage/domain"

	"github.com/spf13/cobra"
)

func newUsageCommand(ctx *commandContext) *cobra.Command {
	usageCmd := &cobra.Command{
		Use:   "usage",
		Short: "Read the usage log",
	}
	usageCmd.AddCommand(newUsageRecentCommand(ctx))
	return usageCmd
}

func newUsageRecentCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the newest usage entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}
			logs, err := svc.Usage.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if ctx.jsonOut {
				if logs == nil {
					logs = []domain.Entry{}
				}
				return writeJSON(cmd, map[string]any{"logs": logs})
			}
			out := cmd.OutOrStdout()
			if len(logs) == 0 {
				fmt.Fprintln(out, "No usage entries")
				return nil
			}
			rows := make([][]string, 0, len(logs))
			for _, e := range logs {
				rows = append(rows, []string{
					e.CreatedAt.UTC().Format(time.DateTime),
					e.Endpoint,
					e.Identity,
					e.IP,
					strconv.FormatBool(e.Cached),
					e.Model,
					strconv.FormatInt(e.InputBytes, 10),
					short(e.Fingerprint),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Time", "Endpoint", "Identity", "IP", "Cached", "Model", "Bytes", "Fingerprint"},
				rows, 7))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultRecent, "Number of entries (capped at 500)")
	return cmd
}

// short trims a fingerprint to a readable prefix
func short(fp string) string {
	const n = 16
	if len(fp) <= n {
		return fp
	}
	return fp[:n] + "…"
}
