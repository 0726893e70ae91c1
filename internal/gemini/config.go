package gemini

import "time"

// Config holds Gemini client configuration.
type Config struct {
	// APIKey authenticates against the Generative Language API.
	APIKey string `yaml:"api_key"`

	// Model is the model identifier (default gemini-2.5-flash).
	Model string `yaml:"model"`

	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single completion call, streaming included.
	// A timed-out call degrades to the apology reply like any other
	// failure.
	Timeout time.Duration `yaml:"timeout"`
}

// Defaults fills zero values with sensible defaults.
func (c *Config) Defaults() {
	if c.Model == "" {
		c.Model = "gemini-2.5-flash"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// IsConfigured reports whether an API key is present.
func (c Config) IsConfigured() bool {
	return c.APIKey != ""
}
