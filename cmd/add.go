package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/purrlog/internal/model"
)

var (
	addComment  string
	addTitle    string
	addProducts productFlags
)

var addCmd = &cobra.Command{
	Use:   "add <entry>",
	Short: "Add data products or comments to an existing entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addComment, "comment", "", "Append a comment line to the entry")
	addCmd.Flags().StringVar(&addTitle, "title", "", "Replace the entry title")
	addProducts.register(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	entry, err := store.Load(ctx, store.Resolve(args[0]))
	if err != nil {
		return err
	}

	dps, err := addProducts.build()
	if err != nil {
		return err
	}
	entry.DataProducts = append(entry.DataProducts, dps...)
	if addTitle != "" {
		entry.Title = addTitle
	}
	appendComment(entry, addComment)

	report, err := store.Save(ctx, entry, "")
	if err != nil {
		return err
	}
	printDropped(report)
	if err := refreshCatalog(ctx); err != nil {
		return err
	}

	fmt.Printf("Updated entry %s (%d data product(s))\n", report.Dir, report.Kept)
	return nil
}

// appendComment adds text as new lines below the existing comment.
func appendComment(e *model.LogEntry, text string) {
	if text == "" {
		return
	}
	if e.Comment != "" {
		e.Comment += "\n" + text
		return
	}
	e.Comment = text
}
