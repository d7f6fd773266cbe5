package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fingraph/internal/app"
	fgcfg "fingraph/internal/config"
	"fingraph/internal/logger"
)

var serveWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "reload chart and submit settings when the config file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, closeLogs, err := loadConfig()
	if err != nil {
		return fmt.Errorf("读取配置失败: %w", err)
	}
	defer closeLogs()
	logger.Infof("✓ 配置加载成功（环境=%s，后端=%s）", cfg.App.Env, cfg.API.BaseURL)

	a, err := app.NewApp(cfg)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	if path := configPath(); serveWatch && path != "" {
		w, err := fgcfg.NewWatcher(path)
		if err != nil {
			logger.Warnf("config watch disabled: %v", err)
		} else {
			a.Watch(w)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := a.Run(ctx); err != nil {
		return fmt.Errorf("运行失败: %w", err)
	}
	logger.Infof("dashboard stopped")
	return nil
}
