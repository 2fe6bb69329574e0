package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/purrlog/internal/model"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all log entries to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml, md")
}

func runExport(cmd *cobra.Command, args []string) error {
	entries, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("error encoding YAML: %w", err)
		}
		fmt.Print(string(data))
	case "md":
		printList(entries)
	default: // csv
		return writeCSV(os.Stdout, entries)
	}

	return nil
}

// writeCSV writes one row per entry; data products are listed as
// policy:filename pairs separated by semicolons.
func writeCSV(w io.Writer, entries []*model.LogEntry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "date,time,entry,title,comment,data_products")
	for _, e := range entries {
		var names []string
		for _, dp := range e.VisibleProducts() {
			names = append(names, dp.Policy.String()+":"+dp.Filename)
		}
		fmt.Fprintf(bw, "%s,%s,%s,%s,%s,%s\n",
			csvEscape(e.Timestamp.Local().Format("2006-01-02")),
			csvEscape(e.Timestamp.Local().Format("15:04:05")),
			csvEscape(filepath.Base(e.Pathname)),
			csvEscape(e.Title),
			csvEscape(e.Comment),
			csvEscape(strings.Join(names, ";")),
		)
	}
	return bw.Flush()
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
