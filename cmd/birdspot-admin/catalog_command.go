package main

import (
	"fmt"

	"birdspot/internal/core/catalog"

	"github.com/spf13/cobra"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with the species catalog file",
	}
	catalogCmd.AddCommand(newCatalogCheckCommand(ctx))
	return catalogCmd
}

func newCatalogCheckCommand(ctx *commandContext) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load and validate the species catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = ctx.root.MayString("SPECIES_FILE", "./data/species_list.json")
			}
			cat, err := catalog.Load(file)
			if err != nil {
				return err
			}
			if ctx.jsonOut {
				return writeJSON(cmd, map[string]any{"file": file, "species": cat.Len()})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d species OK\n", file, cat.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Catalog path (default $SPECIES_FILE)")
	return cmd
}
