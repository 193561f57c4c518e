package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	GNewsAPIKey  string `mapstructure:"google_news_api_key"`
	GNewsBaseURL string `mapstructure:"gnews_base_url"`

	TickersFile    string `mapstructure:"tickers_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	MaxPages       int    `mapstructure:"max_pages"`
	PageSize       int    `mapstructure:"page_size"`
	DateRange      string `mapstructure:"date_range"`
	RangeDays      int    `mapstructure:"range_days"`
	RequestTimeout int64  `mapstructure:"request_timeout_seconds"`

	CacheType       string        `mapstructure:"cache_type"`
	BBoltPath       string        `mapstructure:"bbolt_path"`
	CacheTTLSeconds int64         `mapstructure:"cache_ttl_seconds"`
	CacheTTL        time.Duration `mapstructure:"-"`

	EnrichArticles bool  `mapstructure:"enrich_articles"`
	EnrichDelayMs  int   `mapstructure:"enrich_delay_ms"`
	WatchInterval  int64 `mapstructure:"watch_interval"`

	HTTPTimeout   time.Duration `mapstructure:"-"`
	WatchDuration time.Duration `mapstructure:"-"`
}

// rangePresets maps the named lookback windows to days.
var rangePresets = map[string]int{
	"1w": 7,
	"1m": 30,
	"3m": 90,
	"6m": 180,
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "news-analysis")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("google_news_api_key", "")
	v.SetDefault("gnews_base_url", "https://gnews.io/api/v4/search")
	v.SetDefault("tickers_file", "./configs/tickers.yaml")
	v.SetDefault("publishers_file", "")
	v.SetDefault("max_pages", 3)
	v.SetDefault("page_size", 50)
	v.SetDefault("date_range", "1w")
	v.SetDefault("range_days", 0) // overrides date_range when positive
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("cache_type", "memory")
	v.SetDefault("bbolt_path", "./data/cache.db")
	v.SetDefault("cache_ttl_seconds", int64((5*time.Minute)/time.Second))
	v.SetDefault("enrich_articles", false)
	v.SetDefault("enrich_delay_ms", 500)
	v.SetDefault("watch_interval", 900) // seconds

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.MaxPages <= 0 {
		return nil, fmt.Errorf("invalid max_pages (must be positive)")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("invalid page_size (must be positive)")
	}
	if cfg.RangeDays <= 0 {
		days, ok := rangePresets[cfg.DateRange]
		if !ok {
			return nil, fmt.Errorf("unknown date_range %q (known: 1w, 1m, 3m, 6m)", cfg.DateRange)
		}
		cfg.RangeDays = days
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	if cfg.CacheTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid cache_ttl_seconds (must be positive seconds)")
	}
	if cfg.WatchInterval <= 0 {
		return nil, fmt.Errorf("invalid watch_interval (must be positive seconds)")
	}

	cfg.HTTPTimeout = time.Duration(cfg.RequestTimeout) * time.Second
	cfg.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	cfg.WatchDuration = time.Duration(cfg.WatchInterval) * time.Second

	return &cfg, nil
}
