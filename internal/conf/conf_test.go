package conf

import (
	"errors"
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("LARK_APP_ID", "app")
	t.Setenv("LARK_APP_SECRET", "secret")
	t.Setenv("LARK_BASE_URL", "")
	t.Setenv("LARK_HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("LARK_TOKEN_SAFETY_MARGIN_SECONDS", "")
	t.Setenv("PORT", "")

	cfg := LoadFromEnv()

	if cfg.Lark.AppID != "app" || cfg.Lark.AppSecret != "secret" {
		t.Errorf("Credentials not loaded: %+v", cfg.Lark)
	}
	if cfg.Lark.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got %q", cfg.Lark.BaseURL)
	}
	if cfg.Lark.HTTPTimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.Lark.HTTPTimeout)
	}
	if cfg.Lark.TokenSafetyMargin != 300*time.Second {
		t.Errorf("Expected 300s margin, got %v", cfg.Lark.TokenSafetyMargin)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Expected port %d, got %d", DefaultPort, cfg.Server.Port)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("LARK_APP_ID", "app")
	t.Setenv("LARK_APP_SECRET", "secret")
	t.Setenv("LARK_BASE_URL", "http://localhost:9999/open-apis")
	t.Setenv("LARK_HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("LARK_TOKEN_SAFETY_MARGIN_SECONDS", "60")
	t.Setenv("PORT", "9090")

	cfg := LoadFromEnv()

	if cfg.Lark.BaseURL != "http://localhost:9999/open-apis" {
		t.Errorf("Base URL override ignored: %q", cfg.Lark.BaseURL)
	}
	if cfg.Lark.HTTPTimeout != 5*time.Second {
		t.Errorf("Timeout override ignored: %v", cfg.Lark.HTTPTimeout)
	}
	if cfg.Lark.TokenSafetyMargin != 60*time.Second {
		t.Errorf("Margin override ignored: %v", cfg.Lark.TokenSafetyMargin)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port override ignored: %d", cfg.Server.Port)
	}
}

func TestLoadFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("LARK_HTTP_TIMEOUT_SECONDS", "nope")
	t.Setenv("PORT", "-1")

	cfg := LoadFromEnv()

	if cfg.Lark.HTTPTimeout != 30*time.Second {
		t.Errorf("Invalid timeout should fall back to default, got %v", cfg.Lark.HTTPTimeout)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Invalid port should fall back to default, got %d", cfg.Server.Port)
	}
}

func TestValidateMissingCredentials(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		secret string
		valid  bool
	}{
		{"both set", "app", "secret", true},
		{"missing id", "", "secret", false},
		{"missing secret", "app", "", false},
		{"missing both", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Lark: LarkConfig{AppID: tt.id, AppSecret: tt.secret}}
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
			if !tt.valid {
				var confErr *ConfigError
				if !errors.As(err, &confErr) {
					t.Errorf("Expected *ConfigError, got %T", err)
				}
			}
		})
	}
}
