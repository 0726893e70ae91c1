package config

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// Defaults fills zero values with sensible defaults.
func (c *Config) Defaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Gateway.Bind == "" {
		c.Gateway.Bind = "0.0.0.0:8000"
	}
	if c.Gateway.ReadTimeout <= 0 {
		c.Gateway.ReadTimeout = 10 * time.Second
	}
	if c.Gateway.WriteTimeout <= 0 {
		// Webhook handling blocks on the AI call; the write timeout must
		// outlast the Gemini timeout.
		c.Gateway.WriteTimeout = 120 * time.Second
	}
	if c.Gateway.ShutdownTimeout <= 0 {
		c.Gateway.ShutdownTimeout = 5 * time.Second
	}
	if c.Memory.Backend == "" {
		c.Memory.Backend = "memory"
	}
	if c.Memory.Path == "" {
		c.Memory.Path = "zbot.db"
	}
	if c.Memory.TTL <= 0 {
		c.Memory.TTL = 24 * time.Hour
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = 15 * time.Minute
	}
	if c.Session.PruneSchedule == "" {
		c.Session.PruneSchedule = "*/5 * * * *"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "zbot"
	}
}

// Validate performs structural checks beyond what YAML parsing covers.
func (c *Config) Validate() error {
	var errs []error

	if _, err := net.ResolveTCPAddr("tcp", c.Gateway.Bind); err != nil {
		errs = append(errs, fmt.Errorf("config: invalid gateway bind address %q", c.Gateway.Bind))
	}
	if c.Zalo.BotToken == "" {
		errs = append(errs, errors.New("config: zalo.bot_token is required"))
	}
	switch c.Memory.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("config: unknown memory backend %q (want memory or sqlite)", c.Memory.Backend))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unknown log format %q (want text or json)", c.Log.Format))
	}

	return errors.Join(errs...)
}
