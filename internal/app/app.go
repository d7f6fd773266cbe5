package app

import (
	"context"
	"fmt"

	fgcfg "fingraph/internal/config"
	"fingraph/internal/logger"
	"fingraph/internal/telemetry"
	"fingraph/internal/transport/http/dashboard"

	"golang.org/x/sync/errgroup"
)

// App 负责应用级编排：加载配置→初始化依赖→启动 dashboard 服务。
type App struct {
	cfg       *fgcfg.Config
	dashboard *dashboard.Server
	metrics   *telemetry.Metrics
	Summary   *StartupSummary
}

// NewApp 根据配置构建应用对象（不启动）
func NewApp(cfg *fgcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run 启动 HTTP 服务，直到 ctx 取消。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.dashboard == nil {
		return fmt.Errorf("dashboard not initialized")
	}
	if a.Summary != nil {
		a.Summary.Print()
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.dashboard.Start(ctx); err != nil {
			return fmt.Errorf("dashboard http server error: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// Watch syncs the dashboard with w's current config, then applies every
// later reload to it and to the log level.
func (a *App) Watch(w *fgcfg.Watcher) {
	if a == nil || w == nil {
		return
	}
	a.applyConfig(w.Current())
	w.Subscribe(a.applyConfig)
}

func (a *App) applyConfig(cfg *fgcfg.Config) {
	if cfg == nil {
		return
	}
	logger.SetLevel(cfg.App.LogLevel)
	a.dashboard.ApplyConfig(cfg)
	if cfg.App.HTTPAddr != a.cfg.App.HTTPAddr || cfg.API != a.cfg.API {
		logger.Warnf("config reload: app.http_addr/api 变更需要重启后生效")
	}
}
