package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	HTTPAddr       string `mapstructure:"http_addr"`
	ProvidersFile  string `mapstructure:"providers_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	UseMockData       bool          `mapstructure:"use_mock_data"`
	MockDelayMs       int64         `mapstructure:"mock_delay_ms"`
	MockDelay         time.Duration `mapstructure:"-"`
	WeatherSampleSize int           `mapstructure:"weather_sample_size"`

	SummarizeRateLimit         int           `mapstructure:"summarize_rate_limit"`
	SummarizeRateWindowSeconds int64         `mapstructure:"summarize_rate_window_seconds"`
	SummarizeRateWindow        time.Duration `mapstructure:"-"`
	RateLimitSweepSeconds      int64         `mapstructure:"rate_limit_sweep_seconds"`
	RateLimitSweepInterval     time.Duration `mapstructure:"-"`

	GeminiAPIKey      string        `mapstructure:"gemini_api_key"`
	GeminiModel       string        `mapstructure:"gemini_model"`
	GeminiBaseURL     string        `mapstructure:"gemini_base_url"`
	GeminiReferer     string        `mapstructure:"gemini_referer"`
	LLMTimeoutSeconds int64         `mapstructure:"llm_timeout_seconds"`
	LLMTimeout        time.Duration `mapstructure:"-"`

	PaywallUnlockDelayMs int64         `mapstructure:"paywall_unlock_delay_ms"`
	PaywallUnlockDelay   time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	SummaryTTLSeconds      int64         `mapstructure:"summary_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	SummaryTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	RelayIntervalSeconds       int64         `mapstructure:"relay_interval_seconds"`
	RelayCrisisIntervalSeconds int64         `mapstructure:"relay_crisis_interval_seconds"`
	RelayInterval              time.Duration `mapstructure:"-"`
	RelayCrisisInterval        time.Duration `mapstructure:"-"`
	RelayRegions               []string      `mapstructure:"relay_regions"`
	RelayCrisisMode            bool          `mapstructure:"relay_crisis_mode"`

	BlockedPaths []string `mapstructure:"blocked_paths"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "geopulse")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("providers_file", "./configs/providers.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("use_mock_data", false)
	v.SetDefault("mock_delay_ms", 800)
	v.SetDefault("weather_sample_size", 4)
	v.SetDefault("summarize_rate_limit", 5)
	v.SetDefault("summarize_rate_window_seconds", 60)
	v.SetDefault("rate_limit_sweep_seconds", 300)
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.0-flash")
	v.SetDefault("gemini_base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini_referer", "http://localhost:3000")
	v.SetDefault("llm_timeout_seconds", 30)
	v.SetDefault("paywall_unlock_delay_ms", 2000)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/cache.db")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("summary_ttl_seconds", int64(time.Hour/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("relay_interval_seconds", 60)
	v.SetDefault("relay_crisis_interval_seconds", 15)
	v.SetDefault("relay_regions", []string{"Global"})
	v.SetDefault("relay_crisis_mode", false)
	v.SetDefault("blocked_paths", []string{
		"next.config",
		"tsconfig.json",
		"package.json",
		"README.md",
		"security_audit.md",
		"go.mod",
	})

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates numeric settings and derives the duration fields.
func (cfg *Config) finalize() error {
	if cfg.MockDelayMs < 0 {
		return fmt.Errorf("invalid mock_delay_ms (must not be negative)")
	}
	cfg.MockDelay = time.Duration(cfg.MockDelayMs) * time.Millisecond

	if cfg.WeatherSampleSize <= 0 {
		return fmt.Errorf("invalid weather_sample_size (must be positive)")
	}

	if cfg.SummarizeRateLimit <= 0 {
		return fmt.Errorf("invalid summarize_rate_limit (must be positive)")
	}
	if cfg.SummarizeRateWindowSeconds <= 0 {
		return fmt.Errorf("invalid summarize_rate_window_seconds (must be positive seconds)")
	}
	cfg.SummarizeRateWindow = time.Duration(cfg.SummarizeRateWindowSeconds) * time.Second
	if cfg.RateLimitSweepSeconds <= 0 {
		return fmt.Errorf("invalid rate_limit_sweep_seconds (must be positive seconds)")
	}
	cfg.RateLimitSweepInterval = time.Duration(cfg.RateLimitSweepSeconds) * time.Second

	if cfg.LLMTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid llm_timeout_seconds (must be positive seconds)")
	}
	cfg.LLMTimeout = time.Duration(cfg.LLMTimeoutSeconds) * time.Second

	if cfg.PaywallUnlockDelayMs < 0 {
		return fmt.Errorf("invalid paywall_unlock_delay_ms (must not be negative)")
	}
	cfg.PaywallUnlockDelay = time.Duration(cfg.PaywallUnlockDelayMs) * time.Millisecond

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.SummaryTTLSeconds <= 0 {
		return fmt.Errorf("invalid summary_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.SummaryTTL = time.Duration(cfg.SummaryTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	if cfg.RelayIntervalSeconds <= 0 || cfg.RelayCrisisIntervalSeconds <= 0 {
		return fmt.Errorf("invalid relay interval (must be positive seconds)")
	}
	cfg.RelayInterval = time.Duration(cfg.RelayIntervalSeconds) * time.Second
	cfg.RelayCrisisInterval = time.Duration(cfg.RelayCrisisIntervalSeconds) * time.Second

	// env-provided lists arrive as a single comma separated string
	cfg.RelayRegions = splitList(cfg.RelayRegions)
	cfg.BlockedPaths = splitList(cfg.BlockedPaths)

	return nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
