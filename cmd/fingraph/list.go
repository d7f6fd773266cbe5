package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fingraph/internal/listing"
	"fingraph/internal/view"
)

var listBacktests bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List strategies known to the backtesting service",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listBacktests, "backtests", false, "list individual backtest runs instead of strategies")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, closeLogs, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLogs()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	var items []view.StrategyView
	if listBacktests {
		items = listing.NewAggregator(backtestSource{client}).ListStrategies(cmd.Context())
	} else {
		items = listing.NewAggregator(client).ListStrategies(cmd.Context())
	}
	return writeListing(cmd.OutOrStdout(), items)
}

// writeListing prints one row per entry, or the empty-state hint.
func writeListing(w io.Writer, items []view.StrategyView) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No strategies found.\nRun your first backtest to get started.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.ID, item.Name, item.Description)
	}
	return tw.Flush()
}
