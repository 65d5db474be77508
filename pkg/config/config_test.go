package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 30s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Assets.Source != AssetsSourceDisk {
		t.Errorf("Assets.Source = %q, want %q", cfg.Assets.Source, AssetsSourceDisk)
	}
	if cfg.Assets.StaticDir != "web/static" || cfg.Assets.TemplatesDir != "web/templates" {
		t.Errorf("unexpected asset dirs: %+v", cfg.Assets)
	}
	if !cfg.Compression.Enabled {
		t.Error("Compression.Enabled = false, want true")
	}
	if cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled = true, want false")
	}
	if cfg.RateLimit.RPS != 100 || cfg.RateLimit.Burst != 200 ||
		cfg.RateLimit.GlobalRPS != 1000 || cfg.RateLimit.GlobalBurst != 2000 {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("SERVER_READ_TIMEOUT", "2s")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ASSETS_SOURCE", "embed")
	t.Setenv("TEMPLATES_RELOAD", "true")
	t.Setenv("COMPRESSION_ENABLED", "false")
	t.Setenv("RATE_LIMIT_ENABLED", "1")
	t.Setenv("RATE_LIMIT_RPS", "5.5")
	t.Setenv("RATE_LIMIT_GLOBAL_BURST", "50")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("METRICS_PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("Server.Port = %q, want 3000", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 2*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 2s", cfg.Server.ReadTimeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Assets.Source != AssetsSourceEmbed || !cfg.Assets.TemplatesReload {
		t.Errorf("unexpected assets config: %+v", cfg.Assets)
	}
	if cfg.Compression.Enabled {
		t.Error("Compression.Enabled = true, want false")
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RPS != 5.5 || cfg.RateLimit.GlobalBurst != 50 {
		t.Errorf("unexpected rate limit config: %+v", cfg.RateLimit)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != "9100" {
		t.Errorf("unexpected metrics config: %+v", cfg.Metrics)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad duration", env: map[string]string{"SERVER_WRITE_TIMEOUT": "soon"}},
		{name: "negative shutdown", env: map[string]string{"SERVER_SHUTDOWN_TIMEOUT": "-1s"}},
		{name: "bad rps", env: map[string]string{"RATE_LIMIT_RPS": "fast"}},
		{name: "bad global burst", env: map[string]string{"RATE_LIMIT_GLOBAL_BURST": "lots"}},
		{name: "zero burst", env: map[string]string{"RATE_LIMIT_ENABLED": "true", "RATE_LIMIT_BURST": "0"}},
		{name: "zero global rps", env: map[string]string{"RATE_LIMIT_ENABLED": "true", "RATE_LIMIT_GLOBAL_RPS": "0"}},
		{name: "unknown assets source", env: map[string]string{"ASSETS_SOURCE": "s3"}},
		{name: "bad rate limit switch", env: map[string]string{"RATE_LIMIT_ENABLED": "off"}},
		{name: "bad metrics switch", env: map[string]string{"METRICS_ENABLED": "on"}},
		{name: "bad compression switch", env: map[string]string{"COMPRESSION_ENABLED": "yes"}},
		{name: "bad reload switch", env: map[string]string{"TEMPLATES_RELOAD": "sometimes"}},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "verbose"}},
		{name: "unknown log format", env: map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %v succeeded, want error", tt.env)
			}
		})
	}
}

func TestLoadMetricsPortCollision(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("METRICS_PORT", "8080")

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded with METRICS_PORT == SERVER_PORT, want error")
	}
}

func TestZeroBurstAllowedWhenRateLimitDisabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_BURST", "0")

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}
