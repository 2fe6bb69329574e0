package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/purrlog/internal/model"
	"github.com/Tiliavir/purrlog/internal/storage"
)

var (
	newTitle    string
	newComment  string
	newAt       string
	newProducts productFlags
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a log entry and migrate its data products",
	Args:  cobra.NoArgs,
	RunE:  runNew,
}

func init() {
	newCmd.Flags().StringVar(&newTitle, "title", "", "Entry title (required)")
	newCmd.Flags().StringVar(&newComment, "comment", "", "Entry comment; may span several lines")
	newCmd.Flags().StringVar(&newAt, "at", "", "Entry time as RFC 3339 (default: now)")
	_ = newCmd.MarkFlagRequired("title")
	newProducts.register(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ts := time.Now()
	if newAt != "" {
		t, err := time.Parse(time.RFC3339, newAt)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}
		ts = t
	}

	dps, err := newProducts.build()
	if err != nil {
		return err
	}

	entry := model.NewLogEntry(ts, newTitle, newComment, dps...)
	if _, err := os.Stat(store.Locate(entry.Timestamp)); err == nil {
		fmt.Fprintf(os.Stderr, "Warning: entry %s already exists and will be updated\n", store.Locate(entry.Timestamp))
	}

	report, err := store.Save(ctx, entry, store.Root())
	if err != nil {
		return err
	}
	printDropped(report)
	if err := refreshCatalog(ctx); err != nil {
		return err
	}

	fmt.Printf("Saved entry %s with %d data product(s)\n", report.Dir, report.Kept)
	return nil
}

func printDropped(report *storage.SaveReport) {
	for _, d := range report.Dropped {
		fmt.Fprintf(os.Stderr, "Warning: dropped %s: %v\n", d.Product.Filename, d.Err)
	}
}
