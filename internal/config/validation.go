package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if err := c.API.validate(); err != nil {
		return err
	}
	if err := c.Chart.validate(); err != nil {
		return err
	}
	if err := c.Submit.validate(); err != nil {
		return err
	}
	return nil
}

func (a *APIConfig) validate() error {
	raw := strings.TrimSpace(a.BaseURL)
	if raw == "" {
		return fmt.Errorf("api.base_url cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api.base_url is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url missing host")
	}
	if a.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must be >= 0")
	}
	if a.BreakerThreshold < 0 {
		return fmt.Errorf("api.breaker_threshold must be >= 0")
	}
	if a.BreakerCooldownSeconds < 0 {
		return fmt.Errorf("api.breaker_cooldown_seconds must be >= 0")
	}
	return nil
}

func (c *ChartConfig) validate() error {
	if strings.TrimSpace(c.Height) == "" {
		return fmt.Errorf("chart.height cannot be empty")
	}
	if c.SnapshotTimeoutSeconds < 0 {
		return fmt.Errorf("chart.snapshot_timeout_seconds must be >= 0")
	}
	return nil
}

func (s *SubmitConfig) validate() error {
	if strings.TrimSpace(s.DataID) == "" {
		return fmt.Errorf("submit.data_id cannot be empty")
	}
	if s.InitialCash <= 0 {
		return fmt.Errorf("submit.initial_cash must be > 0")
	}
	return nil
}
