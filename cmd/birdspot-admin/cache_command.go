package main

import (
	"fmt"
	"strconv"

	perr "birdspot/internal/platform/errors"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and evict cached identification results",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheDeleteCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show result cache size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}
			st, err := svc.Cache.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOut {
				return writeJSON(cmd, st)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Backend", "Entries"},
				[][]string{{string(st.Backend), strconv.FormatInt(st.Entries, 10)}},
				2))
			return nil
		},
	}
}

func newCacheDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Evict one cached result by its fingerprint key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := svc.Cache.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return perr.NotFoundf("no cached result for %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
