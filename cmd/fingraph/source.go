package main

import (
	"context"

	"fingraph/internal/gateway/backtestapi"
)

// backtestSource feeds the backtest-run list through the same aggregator the
// strategy list uses.
type backtestSource struct {
	client *backtestapi.Client
}

func (s backtestSource) FetchStrategyList(ctx context.Context) []backtestapi.RawPayload {
	return s.client.FetchBacktestList(ctx)
}
