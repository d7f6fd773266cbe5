// Package view holds the canonical model every renderer consumes and the
// single function that builds it from loosely shaped service records.
package view

// Side is the direction of a trade as reported by the service. Only SideBuy
// and SideSell are meaningful; other values are carried through untouched and
// filtered by consumers that need typed guarantees.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TimeSeries is a pair of equal-length sequences. Dates are ISO calendar
// dates in ascending order; duplicates are allowed.
type TimeSeries struct {
	Dates  []string  `json:"dates" yaml:"dates"`
	Values []float64 `json:"values" yaml:"values"`
}

// Len returns the number of points.
func (s TimeSeries) Len() int {
	return len(s.Dates)
}

// Empty reports whether the series has no points.
func (s TimeSeries) Empty() bool {
	return len(s.Dates) == 0
}

type TradeEvent struct {
	Date     string  `json:"date" yaml:"date"`
	Side     Side    `json:"side" yaml:"side"`
	Price    float64 `json:"price" yaml:"price"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
}

type MetricsSnapshot struct {
	TotalReturnPct float64 `json:"totalReturnPct" yaml:"total_return_pct"`
	SharpeRatio    float64 `json:"sharpeRatio" yaml:"sharpe_ratio"`
	MaxDrawdownPct float64 `json:"maxDrawdownPct" yaml:"max_drawdown_pct"`
	WinRatePct     float64 `json:"winRatePct" yaml:"win_rate_pct"`
	TotalTrades    int     `json:"totalTrades" yaml:"total_trades"`
}

// StrategyView is the fully defaulted view of one backtest. It is built fresh
// on every fetch and never modified afterwards.
type StrategyView struct {
	ID           string          `json:"id" yaml:"id"`
	Name         string          `json:"name" yaml:"name"`
	Description  string          `json:"description" yaml:"description"`
	PriceSeries  TimeSeries      `json:"priceSeries" yaml:"price_series"`
	EquitySeries TimeSeries      `json:"equitySeries" yaml:"equity_series"`
	Trades       []TradeEvent    `json:"trades" yaml:"trades"`
	Metrics      MetricsSnapshot `json:"metrics" yaml:"metrics"`
}
