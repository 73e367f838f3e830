package conf

import (
	"os"
	"strconv"
	"time"
)

// Default configuration values. The token safety margin and per-call timeout
// keep their historical values; both can be overridden via environment.
const (
	DefaultBaseURL                  = "https://open.feishu.cn/open-apis"
	DefaultHTTPTimeoutSeconds       = 30
	DefaultTokenSafetyMarginSeconds = 300
	DefaultPort                     = 8000
)

// Config represents application configuration
type Config struct {
	// Lark configuration
	Lark LarkConfig

	// Server configuration (HTTP hosting shell only)
	Server ServerConfig

	// Debug mode
	Debug bool
}

// LarkConfig contains Lark API configuration
type LarkConfig struct {
	AppID             string
	AppSecret         string
	BaseURL           string
	HTTPTimeout       time.Duration
	TokenSafetyMargin time.Duration
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	baseURL := os.Getenv("LARK_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeoutSec := DefaultHTTPTimeoutSeconds
	if val := os.Getenv("LARK_HTTP_TIMEOUT_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	marginSec := DefaultTokenSafetyMarginSeconds
	if val := os.Getenv("LARK_TOKEN_SAFETY_MARGIN_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			marginSec = parsed
		}
	}

	port := DefaultPort
	if val := os.Getenv("PORT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			port = parsed
		}
	}

	return &Config{
		Lark: LarkConfig{
			AppID:             os.Getenv("LARK_APP_ID"),
			AppSecret:         os.Getenv("LARK_APP_SECRET"),
			BaseURL:           baseURL,
			HTTPTimeout:       time.Duration(timeoutSec) * time.Second,
			TokenSafetyMargin: time.Duration(marginSec) * time.Second,
		},
		Server: ServerConfig{
			Port: port,
		},
		Debug: os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Lark.AppID == "" || c.Lark.AppSecret == "" {
		return &ConfigError{Field: "LARK_APP_ID/LARK_APP_SECRET", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
