package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, v *viper.Viper) *Config {
	t.Helper()
	require.NoError(t, SetDefaults(v))
	cfg, err := Load(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := load(t, viper.New())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "paysync.db", cfg.DBPath)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.MaxWait)
	assert.Equal(t, "en-US", cfg.Locale("1"))
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("POLL_INTERVAL", "500ms")
	t.Setenv("STORE_BASE_URL", "https://shop.example.com/")

	cfg := load(t, viper.New())

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "https://shop.example.com", cfg.BaseURL("default"))
}

func TestLoad_StoreOverrides(t *testing.T) {
	v := viper.New()
	v.Set("space_view_id", 7)
	v.Set("stores", map[string]any{
		"de": map[string]any{"base_url": "https://shop.example.de/", "locale": "de-DE", "space_view_id": 42},
	})

	cfg := load(t, v)

	assert.Equal(t, "de-DE", cfg.Locale("de"))
	assert.Equal(t, "https://shop.example.de", cfg.BaseURL("de"))
	assert.Equal(t, int64(42), cfg.SpaceViewIDFor("de"))
	assert.Equal(t, int64(7), cfg.SpaceViewIDFor("fr"))
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	v := viper.New()
	v.Set("poll_interval", "0s")
	require.NoError(t, SetDefaults(v))

	_, err := Load(v)
	assert.EqualError(t, err, "poll_interval must be > 0")
}
