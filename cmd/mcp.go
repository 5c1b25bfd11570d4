package cmd

import (
	"github.com/spf13/cobra"

	mcpserver "tally/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpserver.New(cfg).ServeStdio()
	},
}
