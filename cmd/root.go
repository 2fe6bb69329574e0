package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/purrlog/internal/config"
	"github.com/Tiliavir/purrlog/internal/logging"
	"github.com/Tiliavir/purrlog/internal/storage"
)

var (
	flagDir      string
	flagLogLevel string
	flagColor    string

	cfg    config.Config
	store  *storage.Store
	logger logging.Logger = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "purrlog",
	Short: "purrlog – a directory-backed observation log",
	Long: `purrlog keeps a chronological log of notes and the data products they
refer to. Each entry lives in its own entry-YYYYMMDD-HHMMSS directory with an
index.html describing it; a catalog index.html lists all entries.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Log directory (overrides log_dir in the config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "", "Colored output: auto, always, never")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(rmCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if flagDir != "" {
		c.LogDir = flagDir
	}
	if c.LogDir == "" {
		if c.LogDir, err = storage.BaseDir(); err != nil {
			return err
		}
	}
	if flagLogLevel != "" {
		c.LogLevel = flagLogLevel
	}
	if flagColor != "" {
		c.Color = flagColor
	}

	l, err := logging.New(os.Stderr, c.LogLevel)
	if err != nil {
		return err
	}
	cfg = c
	logger = l
	store = storage.New(c.LogDir, l)
	color.NoColor = !useColor(c.Color, os.Stdout)
	return nil
}

func useColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// refreshCatalog rewrites the aggregate index after an entry changed.
func refreshCatalog(ctx context.Context) error {
	entries, err := store.List(ctx)
	if err == nil {
		err = store.WriteCatalog(ctx, cfg.CatalogTitle, entries)
	}
	if err != nil {
		logger.Error(ctx, "catalog refresh failed", "dir", store.Root(), "err", err)
		return err
	}
	return nil
}
