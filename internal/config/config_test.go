package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("HOTEL_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, uint(1), cfg.HotelID)
	assert.Equal(t, 3, cfg.CombinationMaxSize)
	assert.Equal(t, 10, cfg.CombinationLimit)
	assert.Equal(t, int64(100), cfg.MinimumNightlyRate)
	assert.Equal(t, "UTC", cfg.Location().String())
	assert.Positive(t, cfg.CacheTTL())
	assert.Equal(t, 2*time.Second, cfg.SearchTimeout())
}

func TestLoadRejectsDefaultSecretsInProd(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HOTEL_TIMEZONE", "UTC")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HOTEL_TIMEZONE", "UTC")
	t.Setenv("COMBINATION_MAX_SIZE", "1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMBINATION_MAX_SIZE")
}

func TestLoadCombinationSearchSettings(t *testing.T) {
	t.Setenv("HOTEL_TIMEZONE", "UTC")
	t.Setenv("COMBINATION_SEARCH_TIMEOUT", "750ms")
	t.Setenv("COMBINATION_MAX_SIZE", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.SearchTimeout())
	assert.Equal(t, 4, cfg.CombinationMaxSize)

	cases := map[string][2]string{
		"size above cap":   {"COMBINATION_MAX_SIZE", "5"},
		"zero timeout":     {"COMBINATION_SEARCH_TIMEOUT", "0s"},
		"negative timeout": {"COMBINATION_SEARCH_TIMEOUT", "-1s"},
		"garbage timeout":  {"COMBINATION_SEARCH_TIMEOUT", "soon"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("COMBINATION_MAX_SIZE", "3")
			t.Setenv("COMBINATION_SEARCH_TIMEOUT", "2s")
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), kv[0])
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}
