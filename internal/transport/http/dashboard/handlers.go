package dashboard

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"fingraph/internal/chart"
	"fingraph/internal/display"
	"fingraph/internal/gateway/backtestapi"
	"fingraph/internal/logger"
	"fingraph/internal/telemetry"
	"fingraph/internal/view"
)

// loadView is the only path from a request to a StrategyView: fetch, then
// normalize. A fresh view is built for every call.
func (s *Server) loadView(c *gin.Context, id string) (view.StrategyView, bool) {
	raw := s.results.FetchRaw(c.Request.Context(), id)
	if !raw.Found() {
		return view.StrategyView{}, false
	}
	return view.Normalize(id, raw)
}

func (s *Server) handleStrategiesPage(c *gin.Context) {
	strategies := s.lister.ListStrategies(c.Request.Context())
	c.HTML(http.StatusOK, "strategies.html", gin.H{
		"Strategies": strategies,
	})
}

type chartSlot struct {
	Kind        chart.Kind
	Title       string
	Src         string
	Placeholder template.HTML
	Chart       string
}

// renderSlot renders both states of one panel from the same view: the
// placeholder shown first and the mounted chart swapped in once the page
// surface has loaded.
func renderSlot(kind chart.Kind, v view.StrategyView, opts chart.RenderOptions, m *telemetry.Metrics) (template.HTML, string, error) {
	panel := chart.NewPanel(kind, chart.PlotFor(kind, v), opts, m)
	var pending, ready bytes.Buffer
	if err := panel.Render(&pending); err != nil {
		return "", "", err
	}
	panel.Mount()
	if err := panel.Render(&ready); err != nil {
		return "", "", err
	}
	return template.HTML(pending.String()), ready.String(), nil
}

// handleStrategyPage resolves the view once; metrics, trades and both charts
// all come from it.
func (s *Server) handleStrategyPage(c *gin.Context) {
	id := c.Param("id")
	v, ok := s.loadView(c, id)
	if !ok {
		c.HTML(http.StatusNotFound, "notfound.html", gin.H{"ID": id})
		return
	}
	opts, _ := s.settings()
	slots := make([]chartSlot, 0, 2)
	for _, slot := range []struct {
		kind  chart.Kind
		title string
	}{{chart.KindPrice, "Price Chart"}, {chart.KindEquity, "Equity Curve"}} {
		placeholder, mounted, err := renderSlot(slot.kind, v, opts, s.metrics)
		if err != nil {
			logger.Errorf("render %s chart for %s failed: %v", slot.kind, id, err)
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "chart unavailable"})
			return
		}
		slots = append(slots, chartSlot{
			Kind:        slot.kind,
			Title:       slot.title,
			Src:         "/strategy/" + escapeSegment(id) + "/charts/" + string(slot.kind),
			Placeholder: placeholder,
			Chart:       mounted,
		})
	}
	c.HTML(http.StatusOK, "detail.html", gin.H{
		"Strategy": v,
		"Metrics":  display.MetricRows(v.Metrics),
		"Charts":   slots,
	})
}

// handleStrategyChart serves one chart on its own, e.g. for a direct link
// from the detail page.
func (s *Server) handleStrategyChart(c *gin.Context) {
	kind, ok := chart.ParseKind(c.Param("kind"))
	if !ok {
		c.String(http.StatusNotFound, "unknown chart")
		return
	}
	id := c.Param("id")
	v, ok := s.loadView(c, id)
	if !ok {
		c.String(http.StatusNotFound, "strategy not found")
		return
	}
	opts, _ := s.settings()
	_, mounted, err := renderSlot(kind, v, opts, s.metrics)
	if err != nil {
		logger.Errorf("render %s chart for %s failed: %v", kind, id, err)
		c.String(http.StatusInternalServerError, "chart unavailable")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(mounted))
}

func (s *Server) handleStrategyList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategies": s.lister.ListStrategies(c.Request.Context())})
}

func (s *Server) handleStrategyDetail(c *gin.Context) {
	id := c.Param("id")
	v, ok := s.loadView(c, id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "strategy not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"strategy": v,
		"display":  display.MetricRows(v.Metrics),
	})
}

type submitRequest struct {
	Strategy    string         `json:"strategy" binding:"required"`
	Parameters  map[string]any `json:"parameters"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	DataID      string         `json:"dataId"`
	InitialCash float64        `json:"initialCash"`
}

func (s *Server) handleSubmit(c *gin.Context) {
	if s.submitter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "submission disabled"})
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out := backtestapi.BacktestRequest{
		DataID:      strings.TrimSpace(req.DataID),
		Strategy:    strings.TrimSpace(req.Strategy),
		InitialCash: req.InitialCash,
		Parameters:  req.Parameters,
		StartDate:   strings.TrimSpace(req.StartDate),
		EndDate:     strings.TrimSpace(req.EndDate),
	}
	_, defaults := s.settings()
	if out.DataID == "" {
		out.DataID = defaults.DataID
	}
	if out.InitialCash == 0 {
		out.InitialCash = defaults.InitialCash
	}
	id, err := s.submitter.SubmitBacktest(c.Request.Context(), out)
	switch {
	case errors.Is(err, backtestapi.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to run backtest", "detail": err.Error()})
	default:
		c.JSON(http.StatusAccepted, gin.H{"id": id, "url": "/strategy/" + escapeSegment(id)})
	}
}

func escapeSegment(s string) string {
	return url.PathEscape(s)
}
