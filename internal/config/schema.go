// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for zbot.
package config

import "time"

// Config is the top-level configuration structure.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Zalo      ZaloConfig      `yaml:"zalo"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Memory    MemoryConfig    `yaml:"memory"`
	Session   SessionConfig   `yaml:"session"`
	Exam      ExamConfig      `yaml:"exam"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// GatewayConfig holds HTTP server settings.
type GatewayConfig struct {
	Bind            string        `yaml:"bind"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// StrictSecret rejects webhook deliveries that omit the secret header
	// while a secret is configured. Off by default for compatibility with
	// the platform's older delivery behavior, which sends no header on
	// some event types.
	StrictSecret bool `yaml:"strict_secret"`
}

// ZaloConfig holds messaging platform credentials and webhook registration.
type ZaloConfig struct {
	BotToken string `yaml:"bot_token"`
	BaseURL  string `yaml:"base_url"`

	// WebhookURL is the externally reachable URL registered with the
	// platform by /setup-webhook.
	WebhookURL string `yaml:"webhook_url"`

	// WebhookSecret is compared against X-Zalo-Bot-Secret-Token.
	// Auto-generated at startup when empty.
	WebhookSecret string `yaml:"webhook_secret"`
}

// GeminiConfig mirrors gemini.Config at the file level.
type GeminiConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// MemoryConfig selects and tunes the conversation store backing.
type MemoryConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend"`
	// Path is the SQLite database file (sqlite backend only).
	Path string `yaml:"path"`
	// TTL prunes idle conversations (memory backend only).
	TTL time.Duration `yaml:"ttl"`
}

// SessionConfig tunes the exam session table.
type SessionConfig struct {
	// TTL prunes abandoned interactive sessions.
	TTL time.Duration `yaml:"ttl"`
	// PruneSchedule is the cron expression for the prune job.
	PruneSchedule string `yaml:"prune_schedule"`
}

// ExamConfig tunes exam PDF rendering.
type ExamConfig struct {
	// FontPath points to a UTF-8 TTF font for full Vietnamese rendering.
	FontPath string `yaml:"font_path"`
	// TempDir stages rendered PDFs before delivery. Empty = OS default.
	TempDir string `yaml:"temp_dir"`
}

// TelemetryConfig enables OTLP trace export when an endpoint is set.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}
