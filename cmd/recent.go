package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"tally/internal/cache"
	"tally/internal/tally"
)

var (
	flagCount  int
	flagCached bool
)

var recentCmd = &cobra.Command{
	Use:   "recent <schema>",
	Short: "Print the most recent entries of a schema, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		count := flagCount
		if count <= 0 {
			count = cfg.DefaultCount
		}

		schema, origin, err := cfg.OpenSource(name)
		if err != nil {
			return err
		}

		var src tally.Source = origin
		if flagCached {
			store, err := cache.Open(cfg.Cache.Path)
			if err != nil {
				return err
			}
			defer store.Close()
			src = store
		}

		return tally.PrintRecent(cmd.Context(), os.Stdout, src, schema, count)
	},
}

func init() {
	recentCmd.Flags().IntVarP(&flagCount, "count", "n", 0, "number of entries (default from config)")
	recentCmd.Flags().BoolVar(&flagCached, "cached", false, "read from the local mirror instead of the origin source")
}
