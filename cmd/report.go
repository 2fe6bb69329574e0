package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/purrlog/internal/model"
	"github.com/Tiliavir/purrlog/internal/timecalc"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise this week's entries and data products",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// dayTotals counts one day's entries and products by policy.
type dayTotals struct {
	Day     string
	Entries int
	Copied  int
	Moved   int
	Ignored int
}

func summarize(entries []*model.LogEntry) []dayTotals {
	var out []dayTotals
	for _, e := range entries {
		day := e.Timestamp.Local().Format("2006-01-02")
		if len(out) == 0 || out[len(out)-1].Day != day {
			out = append(out, dayTotals{Day: day})
		}
		d := &out[len(out)-1]
		d.Entries++
		for _, dp := range e.DataProducts {
			switch dp.Policy {
			case model.PolicyCopy:
				d.Copied++
			case model.PolicyMove:
				d.Moved++
			case model.PolicyIgnore:
				d.Ignored++
			}
		}
	}
	return out
}

func runReport(cmd *cobra.Command, args []string) error {
	now := time.Now()
	from, to := timecalc.WeekRange(now)
	label := timecalc.ISOWeekLabel(now)

	entries, err := store.LoadRange(cmd.Context(), from, to)
	if err != nil {
		return err
	}
	days := summarize(entries)

	var total dayTotals
	for _, d := range days {
		total.Entries += d.Entries
		total.Copied += d.Copied
		total.Moved += d.Moved
		total.Ignored += d.Ignored
	}

	switch reportFormat {
	case "csv":
		fmt.Println("date,entries,copied,moved,ignored")
		for _, d := range days {
			fmt.Printf("%s,%d,%d,%d,%d\n", d.Day, d.Entries, d.Copied, d.Moved, d.Ignored)
		}
	case "json":
		fmt.Println("{")
		fmt.Printf("  \"week\": %q,\n", label)
		fmt.Println("  \"days\": [")
		for i, d := range days {
			comma := ","
			if i == len(days)-1 {
				comma = ""
			}
			fmt.Printf("    {\"date\": %q, \"entries\": %d, \"copied\": %d, \"moved\": %d, \"ignored\": %d}%s\n",
				d.Day, d.Entries, d.Copied, d.Moved, d.Ignored, comma)
		}
		fmt.Println("  ],")
		fmt.Printf("  \"total_entries\": %d\n", total.Entries)
		fmt.Println("}")
	default: // md
		fmt.Printf("Week %s\n", label)
		fmt.Println("----------------------------------------")
		fmt.Printf("%-12s%8s%8s%8s%8s\n", "Date", "Entries", "Copied", "Moved", "Ignored")
		for _, d := range days {
			fmt.Printf("%-12s%8d%8d%8d%8d\n", d.Day, d.Entries, d.Copied, d.Moved, d.Ignored)
		}
		fmt.Println("----------------------------------------")
		fmt.Printf("%-12s%8d%8d%8d%8d\n", "Total", total.Entries, total.Copied, total.Moved, total.Ignored)
	}

	return nil
}
