package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <entry>",
	Short: "Delete an entry directory and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	entry, err := store.Load(ctx, store.Resolve(args[0]))
	if err != nil {
		return err
	}
	dir := entry.Pathname
	if err := store.RemoveDirectory(ctx, entry); err != nil {
		return err
	}
	if err := refreshCatalog(ctx); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", dir)
	return nil
}
