package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/purrlog/internal/index"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Rewrite the catalog index.html listing every entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := refreshCatalog(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", filepath.Join(store.Root(), index.FileName))
		return nil
	},
}
