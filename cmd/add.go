package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/entry"
)

var addCmd = &cobra.Command{
	Use:   "add <schema>",
	Short: "Interactively add one entry to a schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		schema, src, err := cfg.OpenSource(name)
		if err != nil {
			return err
		}

		rec, err := entry.Prompt(schema)
		if err != nil {
			return err
		}
		if err := src.Append(cmd.Context(), rec); err != nil {
			return fmt.Errorf("append to %s: %w", name, err)
		}
		fmt.Printf("Added 1 entry to %s\n", name)
		return nil
	},
}
