package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_KEY", testKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "no-reply@cryptostarter.io", cfg.Email.From)
	assert.Equal(t, 300.0, cfg.Earned.EtherPrice)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_KEY", testKey)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SESSION_TTL", "3600")
	t.Setenv("TRUSTED_ORIGINS", " https://a.io , ,https://b.io")
	t.Setenv("EARNED_ETHER_PRICE", "1800.5")
	t.Setenv("REDIS_DB", "nope")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, []string{"https://a.io", "https://b.io"}, cfg.Server.TrustedOrigins)
	assert.Equal(t, 1800.5, cfg.Earned.EtherPrice)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoad_RejectsShortSessionKey(t *testing.T) {
	t.Setenv("SESSION_KEY", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_KEY")
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "cs", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=cs sslmode=disable", c.ConnectionString())

	c.ChannelBinding = "require"
	assert.Contains(t, c.ConnectionString(), " channel_binding=require")
}
