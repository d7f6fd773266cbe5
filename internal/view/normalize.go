package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"fingraph/internal/gateway/backtestapi"
	"fingraph/internal/logger"
	"fingraph/internal/pkg/convert"
)

// DefaultDescription is used when the service omits a description.
const DefaultDescription = "Trading strategy backtest results"

// ErrMalformedSeries classifies a series whose halves are missing or of
// different lengths. It never leaves this package; such series become empty.
var ErrMalformedSeries = errors.New("malformed series")

type seriesFields struct {
	object string
	values string
}

var (
	priceSeriesFields  = seriesFields{object: "priceData", values: "prices"}
	equitySeriesFields = seriesFields{object: "equityData", values: "equity"}
)

// Metric field names, preferred spelling first.
var (
	totalReturnKeys = []string{"totalReturn", "totalReturnPct", "total_return"}
	sharpeKeys      = []string{"sharpeRatio", "sharpe", "sharpe_ratio"}
	maxDrawdownKeys = []string{"maxDrawdown", "maxDrawdownPct", "max_drawdown"}
	winRateKeys     = []string{"winRate", "winRatePct", "win_rate"}
	totalTradesKeys = []string{"totalTrades", "total_trades"}
)

// DefaultName is the placeholder name for a strategy the service did not name.
func DefaultName(id string) string {
	return fmt.Sprintf("Strategy %s", id)
}

// Normalize maps a detail payload onto a StrategyView. It returns false only
// when raw is NotFound; any other payload yields a complete view with
// documented defaults. Normalize has no side effects beyond debug logging.
func Normalize(id string, raw backtestapi.RawPayload) (StrategyView, bool) {
	if !raw.Found() {
		return StrategyView{}, false
	}
	v := StrategyView{
		ID:          id,
		Name:        resolveName(id, raw, "strategy", "name"),
		Description: resolveDescription(raw),
		Trades:      resolveTrades(raw.Get("trades")),
		Metrics:     resolveMetrics(raw.Get("metrics")),
	}
	v.PriceSeries = resolveSeries(id, raw, priceSeriesFields)
	v.EquitySeries = resolveSeries(id, raw, equitySeriesFields)
	return v, true
}

// NormalizeSummary builds the lightweight list-card view from a strategy list
// entry: identity and text only, with empty series and zero metrics. The id
// comes from the entry itself; entries without one yield false.
func NormalizeSummary(raw backtestapi.RawPayload) (StrategyView, bool) {
	if !raw.Found() {
		return StrategyView{}, false
	}
	id := strings.TrimSpace(raw.Get("id").String())
	if id == "" {
		return StrategyView{}, false
	}
	return StrategyView{
		ID:           id,
		Name:         resolveName(id, raw, "name", "strategy"),
		Description:  resolveDescription(raw),
		PriceSeries:  emptySeries(),
		EquitySeries: emptySeries(),
		Trades:       []TradeEvent{},
	}, true
}

func resolveName(id string, raw backtestapi.RawPayload, keys ...string) string {
	for _, key := range keys {
		if name := strings.TrimSpace(raw.Get(key).String()); name != "" {
			return name
		}
	}
	return DefaultName(id)
}

func resolveDescription(raw backtestapi.RawPayload) string {
	desc := raw.Get("description")
	if desc.Type == gjson.String {
		return desc.Str
	}
	return DefaultDescription
}

func emptySeries() TimeSeries {
	return TimeSeries{Dates: []string{}, Values: []float64{}}
}

func resolveSeries(id string, raw backtestapi.RawPayload, fields seriesFields) TimeSeries {
	obj := raw.Get(fields.object)
	series, err := readSeries(obj.Get("dates"), obj.Get(fields.values))
	if err != nil {
		if obj.Exists() {
			logger.Debugf("strategy %s: %s dropped: %v", id, fields.object, err)
		}
		return emptySeries()
	}
	return series
}

func readSeries(dates, values gjson.Result) (TimeSeries, error) {
	if !dates.IsArray() || !values.IsArray() {
		return TimeSeries{}, fmt.Errorf("%w: dates or values missing", ErrMalformedSeries)
	}
	ds := dates.Array()
	vs := values.Array()
	if len(ds) != len(vs) {
		return TimeSeries{}, fmt.Errorf("%w: %d dates vs %d values", ErrMalformedSeries, len(ds), len(vs))
	}
	out := TimeSeries{Dates: make([]string, len(ds)), Values: make([]float64, len(vs))}
	for i := range ds {
		out.Dates[i] = ds[i].String()
		out.Values[i] = vs[i].Float()
	}
	return out, nil
}

// resolveTrades keeps every element in source order. Side validation is left
// to consumers.
func resolveTrades(trades gjson.Result) []TradeEvent {
	if !trades.IsArray() {
		return []TradeEvent{}
	}
	items := trades.Array()
	out := make([]TradeEvent, 0, len(items))
	for _, item := range items {
		side := item.Get("type")
		if !side.Exists() {
			side = item.Get("side")
		}
		out = append(out, TradeEvent{
			Date:     item.Get("date").String(),
			Side:     Side(side.String()),
			Price:    item.Get("price").Float(),
			Quantity: item.Get("quantity").Float(),
		})
	}
	return out
}

func resolveMetrics(metrics gjson.Result) MetricsSnapshot {
	if !metrics.IsObject() {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		TotalReturnPct: firstNumber(metrics, totalReturnKeys),
		SharpeRatio:    firstNumber(metrics, sharpeKeys),
		MaxDrawdownPct: firstNumber(metrics, maxDrawdownKeys),
		WinRatePct:     firstNumber(metrics, winRateKeys),
		TotalTrades:    int(firstNumber(metrics, totalTradesKeys)),
	}
}

func firstNumber(obj gjson.Result, keys []string) float64 {
	for _, key := range keys {
		if v, ok := convert.Number(obj.Get(key)); ok {
			return v
		}
	}
	return 0
}
