package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("default env should report development")
	}
	if cfg.PayPalEnv != "sandbox" {
		t.Errorf("PayPalEnv = %q, want sandbox", cfg.PayPalEnv)
	}
	if cfg.GemPackGems != 100 {
		t.Errorf("GemPackGems = %d, want 100", cfg.GemPackGems)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Errorf("AccessTokenTTL = %v, want 1h", cfg.AccessTokenTTL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("GEM_PACK_PRICE_CENTS", "1299")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction should be true")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.GemPackPriceCents != 1299 {
		t.Errorf("GemPackPriceCents = %d, want 1299", cfg.GemPackPriceCents)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 30m", cfg.AccessTokenTTL)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	cfg := Load()

	if cfg.RateLimitPerMinute != 100 {
		t.Errorf("RateLimitPerMinute = %d, want default 100", cfg.RateLimitPerMinute)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Errorf("AccessTokenTTL = %v, want default 1h", cfg.AccessTokenTTL)
	}
}
