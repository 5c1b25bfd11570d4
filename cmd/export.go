package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tally/internal/tally"
)

var flagFormat string

var exportCmd = &cobra.Command{
	Use:   "export <schema>",
	Short: "Export every entry of a schema as JSON or CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, src, err := cfg.OpenSource(args[0])
		if err != nil {
			return err
		}
		records, err := src.FetchAll(cmd.Context(), schema)
		if err != nil {
			return err
		}

		switch flagFormat {
		case "json":
			rows := make([]map[string]any, len(records))
			for i, rec := range records {
				rows[i] = rec.Data
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		case "csv":
			return writeCSV(os.Stdout, schema, records)
		default:
			return fmt.Errorf("unknown format %q (want json or csv)", flagFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagFormat, "format", "json", "output format: json or csv")
}

func writeCSV(out io.Writer, schema *tally.Schema, records []tally.Record) error {
	field, err := schema.TemporalField()
	if err != nil {
		return err
	}

	w := csv.NewWriter(out)
	names := schema.FieldNames()
	if err := w.Write(names); err != nil {
		return err
	}
	for _, rec := range records {
		row := make([]string, len(names))
		for i, name := range names {
			if name == field {
				row[i] = rec.Time(name).Local().Format(time.RFC3339)
				continue
			}
			row[i] = tally.FormatValue(rec.Get(name))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
