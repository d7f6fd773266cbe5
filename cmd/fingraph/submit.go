package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fingraph/internal/gateway/backtestapi"
	"fingraph/internal/pkg/convert"
)

var (
	submitStrategy string
	submitParams   []string
	submitDataID   string
	submitCash     float64
	submitStart    string
	submitEnd      string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Queue a backtest on the remote service",
	Args:  cobra.NoArgs,
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitStrategy, "strategy", "", "strategy name (required)")
	submitCmd.Flags().StringArrayVarP(&submitParams, "param", "p", nil, "strategy parameter as key=value, repeatable")
	submitCmd.Flags().StringVar(&submitDataID, "data", "", "dataset id (default submit.data_id)")
	submitCmd.Flags().Float64Var(&submitCash, "cash", 0, "initial cash (default submit.initial_cash)")
	submitCmd.Flags().StringVar(&submitStart, "start", "", "start date YYYY-MM-DD")
	submitCmd.Flags().StringVar(&submitEnd, "end", "", "end date YYYY-MM-DD")
	_ = submitCmd.MarkFlagRequired("strategy")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, closeLogs, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLogs()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	params, err := parseParams(submitParams)
	if err != nil {
		return err
	}
	req := backtestapi.BacktestRequest{
		DataID:      cfg.Submit.DataID,
		Strategy:    strings.TrimSpace(submitStrategy),
		InitialCash: cfg.Submit.InitialCash,
		Parameters:  params,
		StartDate:   submitStart,
		EndDate:     submitEnd,
	}
	if submitDataID != "" {
		req.DataID = submitDataID
	}
	if submitCash != 0 {
		req.InitialCash = submitCash
	}

	id, err := client.SubmitBacktest(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

// parseParams turns key=value flags into typed parameters.
func parseParams(items []string) (map[string]any, error) {
	out := make(map[string]any, len(items))
	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, want key=value", item)
		}
		out[key] = convert.ParseScalar(strings.TrimSpace(value))
	}
	return out, nil
}
