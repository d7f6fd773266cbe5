// Package chart builds the two coordinated backtest charts: price with trade
// markers and the equity curve. Plots are described by an engine-independent
// model first and converted to go-echarts at render time, so the series
// alignment rules can be tested without a browser.
package chart

import (
	"fingraph/internal/view"
)

type TraceMode string

const (
	ModeLines   TraceMode = "lines"
	ModeMarkers TraceMode = "markers"
)

type MarkerSymbol string

const (
	SymbolNone         MarkerSymbol = ""
	SymbolTriangleUp   MarkerSymbol = "triangle-up"
	SymbolTriangleDown MarkerSymbol = "triangle-down"
)

const (
	colorPrice      = "#2563eb"
	colorBuy        = "#16a34a"
	colorSell       = "#dc2626"
	colorEquity     = "#16a34a"
	colorEquityFill = "rgba(22, 163, 74, 0.1)"

	markerSize = 10

	axisDate   = "Date"
	axisPrice  = "Price ($)"
	axisEquity = "Equity ($)"
)

// Trace is one plotted series keyed by date on the horizontal axis.
type Trace struct {
	Name       string
	Mode       TraceMode
	X          []string
	Y          []float64
	Symbol     MarkerSymbol
	Color      string
	FillColor  string
	FillToZero bool
}

// Plot is a complete chart description.
type Plot struct {
	Title      string
	XAxisTitle string
	YAxisTitle string
	ShowLegend bool
	Traces     []Trace
}

// PartitionTrades splits trades into buys and sells by exact side match,
// preserving order. Trades with any other side appear in neither result.
func PartitionTrades(trades []view.TradeEvent) (buys, sells []view.TradeEvent) {
	buys = make([]view.TradeEvent, 0, len(trades))
	sells = make([]view.TradeEvent, 0, len(trades))
	for _, t := range trades {
		switch t.Side {
		case view.SideBuy:
			buys = append(buys, t)
		case view.SideSell:
			sells = append(sells, t)
		}
	}
	return buys, sells
}

// PricePlot draws the price line and overlays buy/sell markers at each
// trade's recorded (date, price), not at the line's value for that date.
func PricePlot(series view.TimeSeries, trades []view.TradeEvent) Plot {
	buys, sells := PartitionTrades(trades)
	return Plot{
		Title:      "Price Chart",
		XAxisTitle: axisDate,
		YAxisTitle: axisPrice,
		ShowLegend: true,
		Traces: []Trace{
			lineTrace("Price", series, colorPrice),
			markerTrace("Buy", buys, SymbolTriangleUp, colorBuy),
			markerTrace("Sell", sells, SymbolTriangleDown, colorSell),
		},
	}
}

// EquityPlot draws the equity curve with the area down to zero filled.
func EquityPlot(series view.TimeSeries) Plot {
	equity := lineTrace("Equity", series, colorEquity)
	equity.FillToZero = true
	equity.FillColor = colorEquityFill
	return Plot{
		Title:      "Equity Curve",
		XAxisTitle: axisDate,
		YAxisTitle: axisEquity,
		ShowLegend: false,
		Traces:     []Trace{equity},
	}
}

func lineTrace(name string, series view.TimeSeries, color string) Trace {
	n := series.Len()
	if len(series.Values) < n {
		n = len(series.Values)
	}
	x := make([]string, n)
	y := make([]float64, n)
	copy(x, series.Dates[:n])
	copy(y, series.Values[:n])
	return Trace{Name: name, Mode: ModeLines, X: x, Y: y, Color: color}
}

func markerTrace(name string, trades []view.TradeEvent, symbol MarkerSymbol, color string) Trace {
	x := make([]string, len(trades))
	y := make([]float64, len(trades))
	for i, t := range trades {
		x[i] = t.Date
		y[i] = t.Price
	}
	return Trace{Name: name, Mode: ModeMarkers, X: x, Y: y, Symbol: symbol, Color: color}
}
