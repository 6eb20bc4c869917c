package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "API_TOKEN", "PORT", "INVENTORY_PAGE_SIZE", "GATEWAY_TIMEOUT", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	t.Setenv("API_BASE_URL", "https://finanphy.onrender.com/")

	cfg := Load()

	if cfg.APIBaseURL != "https://finanphy.onrender.com" {
		t.Errorf("trailing slash should be trimmed, got %q", cfg.APIBaseURL)
	}
	if cfg.InventoryPageSize != 8 {
		t.Errorf("InventoryPageSize = %d, want 8", cfg.InventoryPageSize)
	}
	if cfg.GatewayTimeout != 15*time.Second {
		t.Errorf("GatewayTimeout = %s, want 15s", cfg.GatewayTimeout)
	}
	if cfg.APIToken != "" {
		t.Errorf("APIToken = %q, want empty", cfg.APIToken)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v, want none for an empty value", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INVENTORY_PAGE_SIZE", "12")
	t.Setenv("GATEWAY_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("GATEWAY_RATE_PER_SECOND", "2.5")

	cfg := Load()

	if cfg.InventoryPageSize != 12 {
		t.Errorf("InventoryPageSize = %d, want 12", cfg.InventoryPageSize)
	}
	if cfg.GatewayTimeout != 3*time.Second {
		t.Errorf("GatewayTimeout = %s, want 3s", cfg.GatewayTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.GatewayRatePerSecond != 2.5 {
		t.Errorf("GatewayRatePerSecond = %g, want 2.5", cfg.GatewayRatePerSecond)
	}
}

func TestLoadRejectsNonPositivePageSize(t *testing.T) {
	t.Setenv("INVENTORY_PAGE_SIZE", "0")
	if got := Load().InventoryPageSize; got != 8 {
		t.Errorf("InventoryPageSize = %d, want fallback 8", got)
	}

	t.Setenv("INVENTORY_PAGE_SIZE", "abc")
	if got := Load().InventoryPageSize; got != 8 {
		t.Errorf("InventoryPageSize = %d, want fallback 8", got)
	}
}
