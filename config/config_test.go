package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddedViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yml")
	require.NoError(t, v.ReadConfig(bytes.NewReader(embeddedConfig)))
	return v
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := load(embeddedViper(t))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.HTTPPort)
	assert.Equal(t, "/api/v1", cfg.Server.BasePath)
	assert.Equal(t, 60*time.Second, cfg.Server.Timeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "bcrypt", cfg.Security.PasswordHash.Algorithm)
	assert.Equal(t, 10, cfg.Security.PasswordHash.Cost)
	assert.Equal(t, "localhost", cfg.Repositories.Postgres.Host)
	assert.Equal(t, "9090", cfg.Handlers.Prometheus.Port)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("API_BASE_PATH", "/api/v2")
	t.Setenv("BCRYPT_SALT_ROUNDS", "12")
	t.Setenv("PASSWORD_HASH_ALGORITHM", "argon2id")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_DB", "ipos_test")

	cfg, err := load(embeddedViper(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, "/api/v2", cfg.Server.BasePath)
	assert.Equal(t, 12, cfg.Security.PasswordHash.Cost)
	assert.Equal(t, "argon2id", cfg.Security.PasswordHash.Algorithm)
	assert.Equal(t, "db", cfg.Repositories.Postgres.Host)
	assert.Equal(t, "ipos_test", cfg.Repositories.Postgres.DB)
}

func TestLoadFillsMissingServerDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.HTTPPort)
	assert.Equal(t, "/api/v1", cfg.Server.BasePath)
}

func TestLoadNonNumericHashCostFallsBack(t *testing.T) {
	for _, raw := range []string{"abc", "", "12.5"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("BCRYPT_SALT_ROUNDS", raw)

			cfg, err := load(embeddedViper(t))
			require.NoError(t, err)
			assert.Equal(t, defaultHashCost, cfg.Security.PasswordHash.Cost)
		})
	}
}
