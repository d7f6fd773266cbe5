// Package listing builds the strategy overview cards.
package listing

import (
	"context"

	"fingraph/internal/gateway/backtestapi"
	"fingraph/internal/view"
)

// StrategySource is the part of the backtest client the aggregator needs.
type StrategySource interface {
	FetchStrategyList(ctx context.Context) []backtestapi.RawPayload
}

type Aggregator struct {
	source StrategySource
}

func NewAggregator(source StrategySource) *Aggregator {
	return &Aggregator{source: source}
}

// ListStrategies returns one summary view per listed strategy, in service
// order. Series, trades and metrics are left empty; detail is fetched per
// strategy on demand. The result is never nil.
func (a *Aggregator) ListStrategies(ctx context.Context) []view.StrategyView {
	out := []view.StrategyView{}
	if a == nil || a.source == nil {
		return out
	}
	for _, raw := range a.source.FetchStrategyList(ctx) {
		if v, ok := view.NormalizeSummary(raw); ok {
			out = append(out, v)
		}
	}
	return out
}
