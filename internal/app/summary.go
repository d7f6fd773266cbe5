package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	fgcfg "fingraph/internal/config"
)

type StartupSummary struct {
	Env      string
	HTTPAddr string
	API      APISummary
	Chart    ChartSummary
	Submit   SubmitSummary
}

type APISummary struct {
	BaseURL        string
	TimeoutSeconds int
	UserAgent      string
}

type ChartSummary struct {
	Width      string
	Height     string
	Theme      string
	AssetsHost string
}

type SubmitSummary struct {
	DataID      string
	InitialCash float64
}

func newStartupSummary(cfg *fgcfg.Config) *StartupSummary {
	if cfg == nil {
		return nil
	}
	return &StartupSummary{
		Env:      cfg.App.Env,
		HTTPAddr: cfg.App.HTTPAddr,
		API: APISummary{
			BaseURL:        cfg.API.BaseURL,
			TimeoutSeconds: cfg.API.TimeoutSeconds,
			UserAgent:      cfg.API.UserAgent,
		},
		Chart: ChartSummary{
			Width:      cfg.Chart.Width,
			Height:     cfg.Chart.Height,
			Theme:      cfg.Chart.Theme,
			AssetsHost: cfg.Chart.AssetsHost,
		},
		Submit: SubmitSummary{
			DataID:      cfg.Submit.DataID,
			InitialCash: cfg.Submit.InitialCash,
		},
	}
}

func (s *StartupSummary) Print() {
	s.Fprint(os.Stdout)
}

func (s *StartupSummary) Fprint(w io.Writer) {
	title := "启动配置摘要 (STARTUP SUMMARY)"
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "%*s\n", 40+len(title)/2, title)
	fmt.Fprintln(w, strings.Repeat("=", 80))

	fmt.Fprintln(w, "[服务 (SERVER)]")
	fmt.Fprintf(w, "  运行环境: %s\n", orDash(s.Env))
	fmt.Fprintf(w, "  监听地址: %s\n", orDash(s.HTTPAddr))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[回测服务 (BACKTEST API)]")
	fmt.Fprintf(w, "  地址: %s\n", orDash(s.API.BaseURL))
	fmt.Fprintf(w, "  超时: %ds\n", s.API.TimeoutSeconds)
	fmt.Fprintf(w, "  User-Agent: %s\n", orDash(s.API.UserAgent))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[图表 (CHARTS)]")
	fmt.Fprintf(w, "  尺寸: %s x %s\n", orDash(s.Chart.Width), orDash(s.Chart.Height))
	fmt.Fprintf(w, "  主题: %s\n", orDash(s.Chart.Theme))
	fmt.Fprintf(w, "  资源: %s\n", orDash(s.Chart.AssetsHost))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[提交默认值 (SUBMIT DEFAULTS)]")
	fmt.Fprintf(w, "  数据集: %s\n", orDash(s.Submit.DataID))
	fmt.Fprintf(w, "  初始资金: %.2f\n", s.Submit.InitialCash)
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
