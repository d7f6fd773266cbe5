package config

import (
	"strings"
)

// 默认值常量
const (
	defaultAppEnv          = "dev"
	defaultAppLogLevel     = "info"
	defaultAppHTTPAddr     = ":9991"
	DefaultAPIBaseURL      = "http://localhost:8080"
	defaultAPITimeout      = 15
	defaultAPIUserAgent    = "fingraph/1.0"
	defaultBreakerCooldown = 30
	defaultChartWidth      = "100%"
	defaultChartHeight     = "400px"
	defaultChartTheme      = "white"
	defaultSnapshotTimeout = 20
	defaultSubmitDataID    = "default_data"
	defaultSubmitCash      = 10000
)

// Default returns a configuration populated only with defaults.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults(nil)
	return &cfg
}

// applyDefaults 为所有子配置应用默认值。
func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.API.applyDefaults(keys)
	c.Chart.applyDefaults(keys)
	c.Submit.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
}

func (a *APIConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("api.base_url", &a.BaseURL, DefaultAPIBaseURL),
		stringFieldDefault("api.user_agent", &a.UserAgent, defaultAPIUserAgent),
		// 显式写 0 表示不设客户端超时，只用 transport 自身的限制
		fieldDefault{
			key:   "api.timeout_seconds",
			need:  func() bool { return a.TimeoutSeconds <= 0 },
			apply: func() { a.TimeoutSeconds = defaultAPITimeout },
		},
		fieldDefault{
			key:   "api.breaker_cooldown_seconds",
			need:  func() bool { return a.BreakerCooldownSeconds <= 0 },
			apply: func() { a.BreakerCooldownSeconds = defaultBreakerCooldown },
		},
	)
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
}

func (c *ChartConfig) applyDefaults(keys keySet) {
	if c == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("chart.width", &c.Width, defaultChartWidth),
		stringFieldDefault("chart.height", &c.Height, defaultChartHeight),
		stringFieldDefault("chart.theme", &c.Theme, defaultChartTheme),
		fieldDefault{
			key:   "chart.snapshot_timeout_seconds",
			need:  func() bool { return c.SnapshotTimeoutSeconds <= 0 },
			apply: func() { c.SnapshotTimeoutSeconds = defaultSnapshotTimeout },
		},
	)
}

func (s *SubmitConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("submit.data_id", &s.DataID, defaultSubmitDataID),
		fieldDefault{
			key:   "submit.initial_cash",
			need:  func() bool { return s.InitialCash <= 0 },
			apply: func() { s.InitialCash = defaultSubmitCash },
		},
	)
}

// Helper functions

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
