package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradepack/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Quote.ValidityDays)
	assert.Equal(t, 60*time.Second, cfg.TextGen.Timeout)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "trade")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "packs")
	t.Setenv("QUOTE_VALIDITY_DAYS", "14")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.Quote.ValidityDays)
	assert.Equal(t, "postgres://trade:secret@db:6543/packs?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("QUOTE_VALIDITY_DAYS", "thirty")

	_, err := config.Load()
	assert.Error(t, err)
}
