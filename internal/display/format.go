// Package display turns metric values into display strings. Formatting never
// decides colours; callers pick a Tone from the raw value.
package display

import (
	"strconv"

	"github.com/shopspring/decimal"

	"fingraph/internal/view"
)

type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
)

// ToneOf classifies x by sign: zero counts as positive.
func ToneOf(x float64) Tone {
	if x < 0 {
		return ToneNegative
	}
	return TonePositive
}

// FormatNumber renders x with two decimals, rounding half away from zero on
// the shortest decimal representation of x (1.005 -> "1.01").
func FormatNumber(x float64) string {
	return fixed(x, 2)
}

// FormatPercent is FormatNumber followed by a percent sign.
func FormatPercent(x float64) string {
	return fixed(x, 2) + "%"
}

// FormatPercentShort uses a single decimal, as on list cards.
func FormatPercentShort(x float64) string {
	return fixed(x, 1) + "%"
}

func fixed(x float64, places int32) string {
	s := decimal.NewFromFloat(x).StringFixed(places)
	if s == "-0.00" || s == "-0.0" {
		return s[1:]
	}
	return s
}

// MetricRow is one labelled line of the performance panel.
type MetricRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Tone  Tone   `json:"tone"`
}

// MetricRows lays out a snapshot in display order. Only total return is
// toned by sign; drawdown is always shown as a loss and win rate as a gain.
func MetricRows(m view.MetricsSnapshot) []MetricRow {
	return []MetricRow{
		{Label: "Total Return", Value: FormatPercent(m.TotalReturnPct), Tone: ToneOf(m.TotalReturnPct)},
		{Label: "Sharpe Ratio", Value: FormatNumber(m.SharpeRatio), Tone: ToneNeutral},
		{Label: "Max Drawdown", Value: FormatPercent(m.MaxDrawdownPct), Tone: ToneNegative},
		{Label: "Win Rate", Value: FormatPercent(m.WinRatePct), Tone: TonePositive},
		{Label: "Total Trades", Value: strconv.Itoa(m.TotalTrades), Tone: ToneNeutral},
	}
}
