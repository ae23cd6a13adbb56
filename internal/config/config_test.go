package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so host environments cannot
// leak into assertions. t.Setenv restores the originals on cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT",
		"IDLE_TIMEOUT", "MAX_HEADER_BYTES", "GIN_MODE",
		"LOG_LEVEL", "LOG_PRETTY",
		"DB_PATH", "JWT_SECRET", "TOKEN_TTL", "MAX_POST_BYTES",
		"CACHE_CAPACITY", "CACHE_TTL",
		"RATE_RPS", "RATE_BURST",
		"CORS_ALLOWED_ORIGINS", "ENABLE_HSTS", "HSTS_MAX_AGE",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SERVICE_NAME",
		"OTEL_TRACES_SAMPLER_ARG",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q; want 8080", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q; want release", cfg.GinMode)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want info", cfg.LogLevel)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v; want 30m", cfg.TokenTTL)
	}
	if cfg.MaxPostBytes != 1_000_000 {
		t.Errorf("MaxPostBytes = %d; want 1000000", cfg.MaxPostBytes)
	}
	if cfg.CacheCapacity != 100 {
		t.Errorf("CacheCapacity = %d; want 100", cfg.CacheCapacity)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v; want 5m", cfg.CacheTTL)
	}
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Errorf("rate limits = %v/%d; want 5/10", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.OTEL.Enabled {
		t.Error("OTEL should be disabled by default")
	}
}

func TestLoad_MissingJWTSecretFails(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET validation error, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("MAX_POST_BYTES", "2048")
	t.Setenv("CACHE_CAPACITY", "7")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("GIN_MODE", "TEST")
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.MaxPostBytes != 2048 {
		t.Errorf("MaxPostBytes = %d", cfg.MaxPostBytes)
	}
	if cfg.CacheCapacity != 7 || cfg.CacheTTL != 90*time.Second {
		t.Errorf("cache = %d/%v", cfg.CacheCapacity, cfg.CacheTTL)
	}
	if cfg.GinMode != "test" {
		t.Errorf("GinMode = %q; want test (lowercased)", cfg.GinMode)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want warn (normalized)", cfg.LogLevel)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORS.AllowedOrigins) != 2 ||
		cfg.CORS.AllowedOrigins[0] != want[0] ||
		cfg.CORS.AllowedOrigins[1] != want[1] {
		t.Errorf("AllowedOrigins = %#v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"bad log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"zero token ttl", "TOKEN_TTL", "0s", "TOKEN_TTL"},
		{"negative post bytes", "MAX_POST_BYTES", "-1", "MAX_POST_BYTES"},
		{"zero cache capacity", "CACHE_CAPACITY", "0", "CACHE_CAPACITY"},
		{"zero cache ttl", "CACHE_TTL", "0s", "CACHE_TTL"},
		{"negative rate", "RATE_RPS", "-1", "RATE_RPS"},
		{"zero burst", "RATE_BURST", "0", "RATE_BURST"},
		{"sampler out of range", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", "test-secret")
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad_InvalidGinModeFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GIN_MODE", "turbo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("GinMode = %q; want release fallback", cfg.GinMode)
	}
}
