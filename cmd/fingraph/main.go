package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	fgcfg "fingraph/internal/config"
	"fingraph/internal/gateway/backtestapi"
	"fingraph/internal/logger"
	"fingraph/internal/telemetry"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "fingraph",
	Short: "Browse, chart and submit strategy backtests",
	Long: `fingraph reads backtest results from a remote backtesting service and
presents them as a web dashboard, terminal listings or chart files.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (env FINGRAPH_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override app.log_level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configPath 返回 --config，其次是 FINGRAPH_CONFIG；都为空时只使用默认值。
func configPath() string {
	if p := strings.TrimSpace(cfgFile); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv("FINGRAPH_CONFIG"))
}

// loadConfig 读取配置并初始化日志输出。返回的 closer 需要在命令结束时调用。
func loadConfig() (*fgcfg.Config, func(), error) {
	cfg, err := fgcfg.Load(configPath())
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		return nil, nil, err
	}
	logger.SetLevel(cfg.App.LogLevel)
	closer := func() {
		if logFile != nil {
			_ = logFile.Close()
		}
	}
	return cfg, closer, nil
}

func newClient(cfg *fgcfg.Config) (*backtestapi.Client, error) {
	return backtestapi.NewClient(cfg.API, backtestapi.WithMetrics(telemetry.New()))
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stderr, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}
