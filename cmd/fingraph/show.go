package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fingraph/internal/display"
	"fingraph/internal/view"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one normalized backtest result",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, closeLogs, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLogs()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	id := args[0]
	v, ok := view.Normalize(id, client.FetchRaw(cmd.Context(), id))
	if !ok {
		return fmt.Errorf("strategy %q not found", id)
	}
	return writeView(cmd.OutOrStdout(), v, showOutput)
}

func writeView(w io.Writer, v view.StrategyView, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
		return writeViewText(w, v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeViewText(w io.Writer, v view.StrategyView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s (%s)\n%s\n\n", v.Name, v.ID, v.Description)
	for _, row := range display.MetricRows(v.Metrics) {
		fmt.Fprintf(tw, "%s\t%s\n", row.Label, row.Value)
	}
	fmt.Fprintf(tw, "\nPrice points\t%d\nEquity points\t%d\n", v.PriceSeries.Len(), v.EquitySeries.Len())
	if len(v.Trades) > 0 {
		fmt.Fprintln(tw, "\nTYPE\tDATE\tPRICE\tQUANTITY")
		for _, t := range v.Trades {
			fmt.Fprintf(tw, "%s\t%s\t$%s\t%v shares\n",
				strings.ToUpper(string(t.Side)), t.Date, display.FormatNumber(t.Price), t.Quantity)
		}
	}
	return tw.Flush()
}
