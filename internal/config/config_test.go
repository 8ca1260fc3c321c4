package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8008")
	t.Setenv("DB_USER", "parking")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "smart_parking")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "8008", cfg.Port)
	assert.Equal(t, 16, cfg.Capacity)
	assert.Equal(t, 0, cfg.DisabledSpots)
	assert.Equal(t, 2, cfg.EVSpots)
	assert.Equal(t, 1.5, cfg.Tariffs["regular"])
	assert.Equal(t, 2.0, cfg.Tariffs["disabled"])
	assert.Equal(t, 2.5, cfg.Tariffs["ev"])
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PARKING_CAPACITY", "32")
	t.Setenv("DISABLED_SPOTS", "4")
	t.Setenv("EV_SPOTS", "6")
	t.Setenv("TARIFF_REGULAR", "2.25")
	t.Setenv("TARIFF_EV", "4")

	cfg := Load()

	assert.Equal(t, 32, cfg.Capacity)
	assert.Equal(t, 4, cfg.DisabledSpots)
	assert.Equal(t, 6, cfg.EVSpots)
	assert.Equal(t, 2.25, cfg.Tariffs["regular"])
	assert.Equal(t, 4.0, cfg.Tariffs["ev"])
	assert.Equal(t, 2.0, cfg.Tariffs["disabled"], "untouched tariff keeps its default")
}

func TestLoadMalformedOptionalFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PARKING_CAPACITY", "lots")
	t.Setenv("TARIFF_EV", "cheap")

	cfg := Load()

	assert.Equal(t, 16, cfg.Capacity)
	assert.Equal(t, 2.5, cfg.Tariffs["ev"])
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "45s")

	cfg := LoadCacheConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "45s", cfg.TTL.String())
	assert.Equal(t, "cache", cfg.Prefix)
}

func TestLoadRateLimitConfigNormalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 1, cfg.Capacity, "capacity is clamped to at least one token")
	assert.Equal(t, 5*cfg.RefillInterval, cfg.TTL, "TTL raised to five refill intervals")
}
