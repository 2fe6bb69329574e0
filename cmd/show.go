package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/purrlog/internal/model"
	"github.com/Tiliavir/purrlog/internal/timecalc"
)

var showFormat string

var showCmd = &cobra.Command{
	Use:   "show <entry>",
	Short: "Show one log entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "text", "Output format: text, json, yaml")
}

func runShow(cmd *cobra.Command, args []string) error {
	entry, err := store.Load(cmd.Context(), store.Resolve(args[0]))
	if err != nil {
		return err
	}

	switch showFormat {
	case "json":
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(entry)
		if err != nil {
			return fmt.Errorf("error encoding YAML: %w", err)
		}
		fmt.Print(string(data))
	default:
		printEntry(entry)
	}
	return nil
}

func printEntry(e *model.LogEntry) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Printf("%s  %s\n", bold(e.Title), faint(timecalc.LoggedOn(e.Timestamp)))
	fmt.Println(faint(filepath.Base(e.Pathname)))
	if e.Comment != "" {
		fmt.Println()
		for _, line := range strings.Split(e.Comment, "\n") {
			fmt.Printf("  %s\n", line)
		}
	}

	visible := e.VisibleProducts()
	if len(visible) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Data products:")
	for _, dp := range visible {
		comment := ""
		if dp.Comment != "" {
			comment = "  " + faint(dp.Comment)
		}
		fmt.Printf("  %-6s %s%s\n", policyLabel(dp.Policy), color.CyanString(dp.Filename), comment)
	}
}

func policyLabel(p model.Policy) string {
	if p == model.PolicyMove {
		return color.YellowString(p.String())
	}
	return color.GreenString(p.String())
}
