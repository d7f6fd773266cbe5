package chart

import (
	"fmt"
	"html/template"
	"io"

	"fingraph/internal/telemetry"
	"fingraph/internal/view"
)

// Kind names one of the two strategy charts.
type Kind string

const (
	KindPrice  Kind = "price"
	KindEquity Kind = "equity"
)

// ParseKind validates a chart kind taken from user input.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindPrice:
		return KindPrice, true
	case KindEquity:
		return KindEquity, true
	default:
		return "", false
	}
}

// PlotFor builds the plot of the given kind for a strategy.
func PlotFor(kind Kind, v view.StrategyView) Plot {
	if kind == KindEquity {
		return EquityPlot(v.EquitySeries)
	}
	return PricePlot(v.PriceSeries, v.Trades)
}

type PanelState int

const (
	PanelPending PanelState = iota
	PanelReady
)

func (s PanelState) String() string {
	if s == PanelReady {
		return "ready"
	}
	return "pending"
}

// Panel defers the first real draw of a chart until its display surface
// exists. A pending panel renders a neutral placeholder; Mount moves it to
// ready exactly once. Panels belong to a single request and are not shared.
type Panel struct {
	kind    Kind
	plot    Plot
	opts    RenderOptions
	state   PanelState
	metrics *telemetry.Metrics
}

func NewPanel(kind Kind, plot Plot, o RenderOptions, m *telemetry.Metrics) *Panel {
	return &Panel{kind: kind, plot: plot, opts: o.withDefaults(), metrics: m}
}

func (p *Panel) State() PanelState { return p.state }

// Mount signals that the surface is ready. It reports whether this call made
// the transition.
func (p *Panel) Mount() bool {
	if p.state == PanelReady {
		return false
	}
	p.state = PanelReady
	return true
}

var placeholderTmpl = template.Must(template.New("placeholder").Parse(
	`<div class="chart-placeholder" data-chart="{{.Kind}}" style="width:{{.Width}};height:{{.Height}};background:#f3f4f6;border-radius:4px"></div>`,
))

// Render writes the placeholder while pending and the full chart once ready.
func (p *Panel) Render(w io.Writer) error {
	p.metrics.ObserveRender(string(p.kind), p.state.String())
	if p.state != PanelReady {
		return placeholderTmpl.Execute(w, struct {
			Kind   Kind
			Width  string
			Height string
		}{p.kind, p.opts.Width, p.opts.Height})
	}
	if err := p.plot.Line(p.opts).Render(w); err != nil {
		return fmt.Errorf("render %s chart: %w", p.kind, err)
	}
	return nil
}
