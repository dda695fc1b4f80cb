package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/contracts")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "Santiago", cfg.Contracts.DefaultCity)
	assert.Equal(t, "es-CL", cfg.Contracts.Locale)
	assert.Equal(t, "CLP", cfg.Contracts.DefaultCurrency)
	assert.NotPanics(t, func() { cfg.Contracts.LocaleTag() })
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestLoadRejectsBadLocale(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/contracts")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CONTRACTS_LOCALE", "not a locale")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONTRACTS_LOCALE")
}
