// Package dashboard serves the strategy pages, their charts and a small JSON
// API over gin.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"fingraph/internal/chart"
	"fingraph/internal/config"
	"fingraph/internal/display"
	"fingraph/internal/gateway/backtestapi"
	"fingraph/internal/logger"
	"fingraph/internal/telemetry"
	"fingraph/internal/view"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ResultFetcher loads one backtest result.
type ResultFetcher interface {
	FetchRaw(ctx context.Context, id string) backtestapi.RawPayload
}

// Submitter queues a backtest.
type Submitter interface {
	SubmitBacktest(ctx context.Context, req backtestapi.BacktestRequest) (string, error)
}

// StrategyLister produces the overview cards.
type StrategyLister interface {
	ListStrategies(ctx context.Context) []view.StrategyView
}

// Server 提供回测结果页面与 JSON 接口。
type Server struct {
	addr      string
	router    *gin.Engine
	results   ResultFetcher
	submitter Submitter
	lister    StrategyLister
	metrics   *telemetry.Metrics

	mu        sync.RWMutex
	chartOpts chart.RenderOptions
	submit    config.SubmitConfig
}

// Config 描述 dashboard Server 的依赖。
type Config struct {
	Addr      string
	Results   ResultFetcher
	Submitter Submitter
	Lister    StrategyLister
	Chart     chart.RenderOptions
	Submit    config.SubmitConfig
	Metrics   *telemetry.Metrics
}

// NewServer wires routes and templates.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Results == nil {
		return nil, errors.New("dashboard requires a result fetcher")
	}
	if cfg.Lister == nil {
		return nil, errors.New("dashboard requires a strategy lister")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9991"
	}
	tmpl, err := template.New("dashboard").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("load dashboard templates failed: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestObserver(cfg.Metrics))
	router.SetHTMLTemplate(tmpl)

	s := &Server{
		addr:      cfg.Addr,
		router:    router,
		results:   cfg.Results,
		submitter: cfg.Submitter,
		lister:    cfg.Lister,
		chartOpts: cfg.Chart,
		submit:    cfg.Submit,
		metrics:   cfg.Metrics,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/strategies") })
	s.router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.router.GET("/strategies", s.handleStrategiesPage)
	s.router.GET("/strategy/:id", s.handleStrategyPage)
	s.router.GET("/strategy/:id/charts/:kind", s.handleStrategyChart)

	api := s.router.Group("/api")
	api.GET("/strategies", s.handleStrategyList)
	api.GET("/strategies/:id", s.handleStrategyDetail)
	api.POST("/backtests", s.handleSubmit)
}

// ApplyConfig swaps the chart and submission settings used by later
// requests. Address and upstream changes need a restart.
func (s *Server) ApplyConfig(cfg *config.Config) {
	if s == nil || cfg == nil {
		return
	}
	s.mu.Lock()
	s.chartOpts = chart.OptionsFromConfig(cfg.Chart)
	s.submit = cfg.Submit
	s.mu.Unlock()
}

func (s *Server) settings() (chart.RenderOptions, config.SubmitConfig) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chartOpts, s.submit
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr 返回监听地址。
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start 启动 HTTP 服务，直到 ctx 取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Infof("dashboard listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// requestObserver 记录请求耗时并计入 Prometheus。
func requestObserver(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), status, dur)
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", c.Request.Method, c.Request.URL.Path, status, c.ClientIP(), dur)
	}
}

var templateFuncs = template.FuncMap{
	"percentShort": display.FormatPercentShort,
	"tone":         display.ToneOf,
	"upper":        func(s view.Side) string { return strings.ToUpper(string(s)) },
	"number":       display.FormatNumber,
}
