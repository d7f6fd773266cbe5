package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"fingraph/internal/config"
	"fingraph/internal/view"
)

// RenderOptions carries presentation settings that are not part of a Plot.
type RenderOptions struct {
	Width      string
	Height     string
	Theme      string
	AssetsHost string
}

// OptionsFromConfig maps the chart section of the configuration.
func OptionsFromConfig(cfg config.ChartConfig) RenderOptions {
	return RenderOptions{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Theme:      cfg.Theme,
		AssetsHost: cfg.AssetsHost,
	}
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Width == "" {
		o.Width = "100%"
	}
	if o.Height == "" {
		o.Height = "400px"
	}
	if o.Theme == "" {
		o.Theme = "white"
	}
	return o
}

// Line converts the plot into a go-echarts line chart. The x axis is a time
// axis so marker traces land on their own dates even when the line has no
// point there. Marker traces are overlaid as scatter series.
func (p Plot) Line(o RenderOptions) *charts.Line {
	o = o.withDefaults()
	fillsToZero := false
	for _, tr := range p.Traces {
		if tr.FillToZero {
			fillsToZero = true
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  p.Title,
			Width:      o.Width,
			Height:     o.Height,
			Theme:      o.Theme,
			AssetsHost: o.AssetsHost,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(p.ShowLegend)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: p.XAxisTitle,
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  p.YAxisTitle,
			Scale: opts.Bool(!fillsToZero),
		}),
	)

	var markers *charts.Scatter
	for _, tr := range p.Traces {
		switch tr.Mode {
		case ModeMarkers:
			if markers == nil {
				markers = charts.NewScatter()
			}
			markers.AddSeries(tr.Name, scatterData(tr),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: tr.Color}),
			)
		default:
			seriesOpts := []charts.SeriesOpts{
				charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: tr.Color, Width: 2}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: tr.Color}),
			}
			if tr.FillToZero {
				seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Color: tr.FillColor}))
			}
			line.AddSeries(tr.Name, lineData(tr), seriesOpts...)
		}
	}
	if markers != nil {
		line.Overlap(markers)
	}
	return line
}

func lineData(tr Trace) []opts.LineData {
	out := make([]opts.LineData, len(tr.X))
	for i := range tr.X {
		out[i] = opts.LineData{Value: []interface{}{tr.X[i], tr.Y[i]}}
	}
	return out
}

func scatterData(tr Trace) []opts.ScatterData {
	symbol, rotate := echartsSymbol(tr.Symbol)
	out := make([]opts.ScatterData, len(tr.X))
	for i := range tr.X {
		out[i] = opts.ScatterData{
			Value:        []interface{}{tr.X[i], tr.Y[i]},
			Symbol:       symbol,
			SymbolSize:   markerSize,
			SymbolRotate: rotate,
		}
	}
	return out
}

// echartsSymbol maps marker symbols to ECharts names; ECharts only has an
// upward triangle, so the downward one is rotated.
func echartsSymbol(s MarkerSymbol) (string, int) {
	switch s {
	case SymbolTriangleUp:
		return "triangle", 0
	case SymbolTriangleDown:
		return "triangle", 180
	default:
		return "circle", 0
	}
}

// RenderPage writes both charts of a strategy into one standalone HTML page.
func RenderPage(w io.Writer, v view.StrategyView, o RenderOptions) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		PricePlot(v.PriceSeries, v.Trades).Line(o),
		EquityPlot(v.EquitySeries).Line(o),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render page for %s: %w", v.ID, err)
	}
	return nil
}
