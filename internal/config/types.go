package config

import "strings"

// Config 是 fingraph 的主配置载体。
type Config struct {
	App    AppConfig    `toml:"app"`
	API    APIConfig    `toml:"api"`
	Chart  ChartConfig  `toml:"chart"`
	Submit SubmitConfig `toml:"submit"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

// APIConfig 描述远端回测服务的访问方式。
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
	// 连续失败达到阈值后短路请求；0 表示关闭熔断。
	BreakerThreshold       int `toml:"breaker_threshold"`
	BreakerCooldownSeconds int `toml:"breaker_cooldown_seconds"`
}

// ChartConfig controls the size and assets of rendered charts.
type ChartConfig struct {
	Width                  string `toml:"width"`
	Height                 string `toml:"height"`
	Theme                  string `toml:"theme"`
	AssetsHost             string `toml:"assets_host"`
	SnapshotTimeoutSeconds int    `toml:"snapshot_timeout_seconds"`
}

// SubmitConfig holds the request fields the dashboard does not ask the user for.
type SubmitConfig struct {
	DataID      string  `toml:"data_id"`
	InitialCash float64 `toml:"initial_cash"`
}

type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault 描述单个字段的默认值设置规则。
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
