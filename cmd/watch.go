package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tally/internal/cache"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the cache mirror daemon (fsnotify + scheduled rebuilds)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		err = cache.NewMirror(cfg, store).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
