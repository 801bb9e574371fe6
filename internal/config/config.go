package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/change-maker/internal/bench"
	"github.com/eugenenazirov/change-maker/internal/logging"
	"github.com/eugenenazirov/change-maker/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultTarget         = 30
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > YAML config > Defaults
type Config struct {
	Coins                []int
	Target               int
	BenchTarget          int
	BenchReps            int
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
	HistoryPath          string
	LogFormat            string
}

// yamlConfig represents the YAML configuration file structure.
// Pointer fields distinguish an explicit zero from an absent key.
type yamlConfig struct {
	Coins                []int         `yaml:"coins"`
	Target               *int          `yaml:"target"`
	BenchTarget          int           `yaml:"bench_target"`
	BenchReps            int           `yaml:"bench_reps"`
	Port                 string        `yaml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
	HistoryPath          string        `yaml:"history_path"`
	LogFormat            string        `yaml:"log_format"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides. Nil fields are not applied.
type CLIOverrides struct {
	ConfigFile     string
	CoinsStr       *string
	Target         *int
	BenchTarget    *int
	BenchReps      *int
	Port           *string
	RateLimitRPS   *float64
	RateLimitBurst *int
	HistoryPath    *string
	LogFormat      *string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > YAML config > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Coins:                storage.DefaultDenominations(),
		Target:               defaultTarget,
		BenchTarget:          bench.DefaultTarget,
		BenchReps:            bench.DefaultReps,
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		LogFormat:            logging.FormatJSON,
	}
}

func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if len(yamlCfg.Coins) > 0 {
		cfg.Coins = yamlCfg.Coins
	}
	if yamlCfg.Target != nil {
		cfg.Target = *yamlCfg.Target
	}
	if yamlCfg.BenchTarget > 0 {
		cfg.BenchTarget = yamlCfg.BenchTarget
	}
	if yamlCfg.BenchReps > 0 {
		cfg.BenchReps = yamlCfg.BenchReps
	}
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	durations := []struct {
		raw string
		key string
		dst *time.Duration
	}{
		{yamlCfg.ShutdownGracePeriod, "shutdown_grace_period", &cfg.ShutdownGracePeriod},
		{yamlCfg.ReadHeaderTimeout, "read_header_timeout", &cfg.ReadHeaderTimeout},
		{yamlCfg.WriteTimeout, "write_timeout", &cfg.WriteTimeout},
		{yamlCfg.IdleTimeout, "idle_timeout", &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}
	if yamlCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}
	if yamlCfg.HistoryPath != "" {
		cfg.HistoryPath = yamlCfg.HistoryPath
	}
	if yamlCfg.LogFormat != "" {
		cfg.LogFormat = yamlCfg.LogFormat
	}

	return nil
}

// applyEnvConfig applies environment variable configuration. Malformed
// values are ignored so that a stray variable cannot block startup.
func applyEnvConfig(cfg *Config) {
	if raw := strings.TrimSpace(os.Getenv("COINS")); raw != "" {
		coins, err := ParseDenominations(raw)
		if err == nil {
			cfg.Coins = coins
		}
	}

	if raw := strings.TrimSpace(os.Getenv("TARGET")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.Target = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("BENCH_TARGET")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.BenchTarget = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("BENCH_REPS")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.BenchReps = value
		}
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if path := strings.TrimSpace(os.Getenv("HISTORY_PATH")); path != "" {
		cfg.HistoryPath = path
	}

	if format := strings.TrimSpace(os.Getenv("LOG_FORMAT")); format != "" {
		cfg.LogFormat = format
	}
}

func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.CoinsStr != nil && *overrides.CoinsStr != "" {
		coins, err := ParseDenominations(*overrides.CoinsStr)
		if err != nil {
			return fmt.Errorf("parse coins: %w", err)
		}
		cfg.Coins = coins
	}

	if overrides.Target != nil {
		cfg.Target = *overrides.Target
	}

	if overrides.BenchTarget != nil && *overrides.BenchTarget >= 0 {
		cfg.BenchTarget = *overrides.BenchTarget
	}

	if overrides.BenchReps != nil && *overrides.BenchReps > 0 {
		cfg.BenchReps = *overrides.BenchReps
	}

	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.HistoryPath != nil && *overrides.HistoryPath != "" {
		cfg.HistoryPath = *overrides.HistoryPath
	}

	if overrides.LogFormat != nil && *overrides.LogFormat != "" {
		cfg.LogFormat = *overrides.LogFormat
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if len(cfg.Coins) == 0 {
		return fmt.Errorf("coins cannot be empty")
	}
	if cfg.BenchTarget < 0 {
		return fmt.Errorf("bench target must be >= 0")
	}
	switch cfg.LogFormat {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("log format must be %q or %q, got %q", logging.FormatJSON, logging.FormatConsole, cfg.LogFormat)
	}
	return nil
}

// ParseDenominations parses a comma-separated list of integers. Blank
// entries are skipped. Signs are not checked here; the solver reports
// non-positive denominations as invalid input.
func ParseDenominations(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	coins := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", part)
		}
		coins = append(coins, value)
	}
	if len(coins) == 0 {
		return nil, fmt.Errorf("no denominations provided")
	}
	return coins, nil
}
