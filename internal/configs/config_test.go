package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RequiresAPIBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "API_BASE_URL")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/api:v1")
	for _, key := range []string{"PORT", "DEFAULT_PAGE_SIZE", "PROPERTY_FALLBACK_ENABLED", "CORS_ALLOWED_ORIGINS", "FLUENTBIT_ENABLED", "EVENTS_EXCHANGE", "SCROLL_TTL_MINUTES", "SESSION_IDLE_MINUTES", "SESSION_COOKIE_SECURE"} {
		unsetEnv(t, key)
	}

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 12, cfg.API.DefaultPageSize)
	assert.True(t, cfg.API.FallbackEnabled)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "listing_site_events", cfg.RabbitMQ.Exchange)
	assert.Equal(t, 30*time.Minute, cfg.Session.ScrollTTL)
	assert.Equal(t, time.Hour, cfg.Session.IdleEviction)
	assert.False(t, cfg.Session.CookieSecure)
	assert.False(t, cfg.FluentBit.Enabled)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "API_BASE_URL=https://x.example/api\nDEFAULT_PAGE_SIZE=24\nPROPERTY_FALLBACK_ENABLED=false\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example\nFLUENTBIT_ENABLED=true\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// godotenv не перезаписывает уже заданные переменные
	for _, key := range []string{"API_BASE_URL", "DEFAULT_PAGE_SIZE", "PROPERTY_FALLBACK_ENABLED", "CORS_ALLOWED_ORIGINS", "FLUENTBIT_ENABLED", "FLUENTBIT_HOST"} {
		unsetEnv(t, key)
	}

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, "https://x.example/api", cfg.API.BaseURL)
	assert.Equal(t, 24, cfg.API.DefaultPageSize)
	assert.False(t, cfg.API.FallbackEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.False(t, cfg.FluentBit.Enabled, "fluent bit without host is disabled")
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_SIZE", "twelve")
	assert.Equal(t, 12, getEnvAsInt("DEFAULT_PAGE_SIZE", 12))
}

// unsetEnv убирает переменную на время теста и возвращает прежнее значение после
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, had := os.LookupEnv(key)
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}
