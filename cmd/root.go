package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Tally typed entries and report the most recent ones",
	Long: "tally keeps schema-defined entries (weight, food, water, ...) in per-schema\n" +
		"datafiles or external stores and reports the N most recent entries per schema.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(schemasCmd)
	rootCmd.AddCommand(datafileCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mcpCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil // version works without a config
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tally %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
