package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved service configuration. Values come from flags bound
// into viper, then environment variables, then the defaults below.
type Config struct {
	Environment string
	Debug       bool
	Port        string
	DBPath      string

	GatewayURL     string
	GatewayToken   string
	GatewayTimeout time.Duration

	RedisAddr string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string

	StoreBaseURL string
	StoreLocale  string
	SpaceViewID  int64

	PollInterval time.Duration
	MaxWait      time.Duration

	SentryDSN string

	// Per-store overrides, keyed by store id.
	Stores map[string]StoreSettings
}

type StoreSettings struct {
	BaseURL     string `mapstructure:"base_url"`
	Locale      string `mapstructure:"locale"`
	SpaceViewID int64  `mapstructure:"space_view_id"`
}

var envBindings = map[string]string{
	"environment":     "ENV",
	"debug":           "DEBUG",
	"port":            "PORT",
	"db_path":         "DB_PATH",
	"gateway_url":     "GATEWAY_URL",
	"gateway_token":   "GATEWAY_TOKEN",
	"gateway_timeout": "GATEWAY_TIMEOUT",
	"redis_addr":      "REDIS_ADDR",
	"kafka_brokers":   "KAFKA_BROKERS",
	"kafka_topic":     "KAFKA_TOPIC",
	"kafka_group":     "KAFKA_GROUP",
	"store_base_url":  "STORE_BASE_URL",
	"store_locale":    "STORE_LOCALE",
	"space_view_id":   "SPACE_VIEW_ID",
	"poll_interval":   "POLL_INTERVAL",
	"max_wait":        "MAX_WAIT",
	"sentry_dsn":      "SENTRY_DSN",
}

// SetDefaults registers defaults and env bindings on v.
func SetDefaults(v *viper.Viper) error {
	v.SetDefault("environment", "local")
	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "paysync.db")
	v.SetDefault("gateway_url", "https://app-wallee.com/api")
	v.SetDefault("gateway_timeout", 10*time.Second)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("kafka_topic", "transaction.state")
	v.SetDefault("kafka_group", "paysync-projection")
	v.SetDefault("store_base_url", "http://localhost:8080")
	v.SetDefault("store_locale", "en-US")
	v.SetDefault("poll_interval", 2*time.Second)
	v.SetDefault("max_wait", 10*time.Second)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	return nil
}

// Load reads the configuration out of v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment:    v.GetString("environment"),
		Debug:          v.GetBool("debug"),
		Port:           v.GetString("port"),
		DBPath:         v.GetString("db_path"),
		GatewayURL:     v.GetString("gateway_url"),
		GatewayToken:   v.GetString("gateway_token"),
		GatewayTimeout: v.GetDuration("gateway_timeout"),
		RedisAddr:      v.GetString("redis_addr"),
		KafkaTopic:     v.GetString("kafka_topic"),
		KafkaGroup:     v.GetString("kafka_group"),
		StoreBaseURL:   strings.TrimRight(v.GetString("store_base_url"), "/"),
		StoreLocale:    v.GetString("store_locale"),
		SpaceViewID:    v.GetInt64("space_view_id"),
		PollInterval:   v.GetDuration("poll_interval"),
		MaxWait:        v.GetDuration("max_wait"),
		SentryDSN:      v.GetString("sentry_dsn"),
	}

	// Env vars arrive as a single comma separated string.
	for _, b := range v.GetStringSlice("kafka_brokers") {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, part)
			}
		}
	}

	if err := v.UnmarshalKey("stores", &cfg.Stores); err != nil {
		return nil, fmt.Errorf("stores: %w", err)
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be > 0")
	}
	if cfg.MaxWait < 0 {
		return nil, fmt.Errorf("max_wait must be >= 0")
	}
	return cfg, nil
}

// BaseURL returns the storefront base URL for a store.
func (c *Config) BaseURL(storeID string) string {
	if s, ok := c.Stores[storeID]; ok && s.BaseURL != "" {
		return strings.TrimRight(s.BaseURL, "/")
	}
	return c.StoreBaseURL
}

// Locale returns the configured locale code for a store.
func (c *Config) Locale(storeID string) string {
	if s, ok := c.Stores[storeID]; ok && s.Locale != "" {
		return s.Locale
	}
	return c.StoreLocale
}

// SpaceViewIDFor returns the gateway space view a store's transactions are created in.
func (c *Config) SpaceViewIDFor(storeID string) int64 {
	if s, ok := c.Stores[storeID]; ok && s.SpaceViewID != 0 {
		return s.SpaceViewID
	}
	return c.SpaceViewID
}
