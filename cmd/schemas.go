package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	schemaNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	fieldTypeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List the configured schemas and their fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range cfg.SchemaNames() {
			schema, err := cfg.Schema(name)
			if err != nil {
				return err
			}
			sc, err := cfg.SourceFor(name)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", schemaNameStyle.Render(schema.Name), fieldTypeStyle.Render("("+sc.Type+")"))
			for _, f := range schema.Fields {
				typ := string(f.Type)
				if f.Optional {
					typ += ", optional"
				}
				fmt.Printf("  %-12s %s\n", f.Name, fieldTypeStyle.Render(typ))
			}
		}
		return nil
	},
}

var datafileCmd = &cobra.Command{
	Use:   "datafile <schema>",
	Short: "Print the datafile path of a schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := cfg.Schema(args[0]); err != nil {
			return err
		}
		fmt.Println(cfg.DatafilePath(args[0]))
		return nil
	},
}
