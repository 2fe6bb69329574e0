package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/purrlog/internal/model"
	"github.com/Tiliavir/purrlog/internal/timecalc"
)

var (
	listToday bool
	listWeek  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List log entries",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's entries")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's entries")
}

func runList(cmd *cobra.Command, args []string) error {
	now := time.Now()
	ctx := cmd.Context()

	var (
		entries []*model.LogEntry
		err     error
	)
	switch {
	case listWeek:
		from, to := timecalc.WeekRange(now)
		entries, err = store.LoadRange(ctx, from, to)
	case listToday:
		entries, err = store.LoadRange(ctx, timecalc.StartOfDay(now), timecalc.EndOfDay(now))
	default:
		entries, err = store.List(ctx)
	}
	if err != nil {
		return err
	}

	printList(entries)
	return nil
}

// printList groups entries by date and prints them.
func printList(entries []*model.LogEntry) {
	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return
	}

	var currentDay string
	for _, e := range entries {
		day := e.Timestamp.Local().Format("2006-01-02")
		if day != currentDay {
			fmt.Println(color.New(color.Bold).Sprint(day))
			currentDay = day
		}

		products := ""
		if n := len(e.VisibleProducts()); n > 0 {
			products = color.CyanString(" [%d]", n)
		}
		fmt.Printf("%s  %s%s  %s\n",
			e.Timestamp.Local().Format("15:04:05"),
			e.Title,
			products,
			color.New(color.Faint).Sprint(filepath.Base(e.Pathname)))
	}
}
