package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Asset sources understood by AssetsConfig.Source.
const (
	AssetsSourceDisk  = "disk"
	AssetsSourceEmbed = "embed"
)

type Config struct {
	Server      ServerConfig
	Log         LogConfig
	Assets      AssetsConfig
	Compression CompressionConfig
	RateLimit   RateLimitConfig
	Metrics     MetricsConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// AssetsConfig describes where static files and templates come from.
// With Source=embed the directories are ignored and the copies compiled
// into the binary are served instead.
type AssetsConfig struct {
	Source          string
	StaticDir       string
	TemplatesDir    string
	TemplatesReload bool
}

type CompressionConfig struct {
	Enabled bool
}

// RateLimitConfig is off by default. RPS/Burst size the bucket of each
// client; GlobalRPS/GlobalBurst size the bucket shared by all of them.
type RateLimitConfig struct {
	Enabled     bool
	RPS         float64
	Burst       int
	GlobalRPS   float64
	GlobalBurst int
}

// MetricsConfig controls the admin listener that exposes /metrics.
// It never shares the public port.
type MetricsConfig struct {
	Enabled bool
	Port    string
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	readTimeout, err := parseDuration("SERVER_READ_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	writeTimeout, err := parseDuration("SERVER_WRITE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	idleTimeout, err := parseDuration("SERVER_IDLE_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SERVER_SHUTDOWN_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	rps, err := parseFloat("RATE_LIMIT_RPS", "100")
	if err != nil {
		return nil, err
	}
	burst, err := parseInt("RATE_LIMIT_BURST", "200")
	if err != nil {
		return nil, err
	}
	globalRPS, err := parseFloat("RATE_LIMIT_GLOBAL_RPS", "1000")
	if err != nil {
		return nil, err
	}
	globalBurst, err := parseInt("RATE_LIMIT_GLOBAL_BURST", "2000")
	if err != nil {
		return nil, err
	}

	templatesReload, err := parseBool("TEMPLATES_RELOAD", false)
	if err != nil {
		return nil, err
	}
	compressionEnabled, err := parseBool("COMPRESSION_ENABLED", true)
	if err != nil {
		return nil, err
	}
	rateLimitEnabled, err := parseBool("RATE_LIMIT_ENABLED", false)
	if err != nil {
		return nil, err
	}
	metricsEnabled, err := parseBool("METRICS_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			IdleTimeout:     idleTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Assets: AssetsConfig{
			Source:          strings.ToLower(getEnv("ASSETS_SOURCE", AssetsSourceDisk)),
			StaticDir:       getEnv("STATIC_DIR", "web/static"),
			TemplatesDir:    getEnv("TEMPLATES_DIR", "web/templates"),
			TemplatesReload: templatesReload,
		},
		Compression: CompressionConfig{
			Enabled: compressionEnabled,
		},
		RateLimit: RateLimitConfig{
			Enabled:     rateLimitEnabled,
			RPS:         rps,
			Burst:       burst,
			GlobalRPS:   globalRPS,
			GlobalBurst: globalBurst,
		},
		Metrics: MetricsConfig{
			Enabled: metricsEnabled,
			Port:    getEnv("METRICS_PORT", "9090"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}

	switch c.Assets.Source {
	case AssetsSourceDisk, AssetsSourceEmbed:
	default:
		return fmt.Errorf("ASSETS_SOURCE must be %q or %q, got %q", AssetsSourceDisk, AssetsSourceEmbed, c.Assets.Source)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("RATE_LIMIT_RPS must be positive")
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("RATE_LIMIT_BURST must be positive")
		}
		if c.RateLimit.GlobalRPS <= 0 || c.RateLimit.GlobalBurst <= 0 {
			return fmt.Errorf("RATE_LIMIT_GLOBAL_RPS and RATE_LIMIT_GLOBAL_BURST must be positive")
		}
	}

	if c.Metrics.Enabled && c.Metrics.Port == c.Server.Port {
		return fmt.Errorf("METRICS_PORT must differ from SERVER_PORT")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func parseFloat(key, defaultValue string) (float64, error) {
	f, err := strconv.ParseFloat(getEnv(key, defaultValue), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func parseInt(key, defaultValue string) (int, error) {
	n, err := strconv.Atoi(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
