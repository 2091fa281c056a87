package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"admin@deepmetric.com"}, cfg.AdminEmails)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2, cfg.AI.MaxRetries)
	assert.Equal(t, 4, cfg.Notify.Workers)
	assert.Equal(t, 6*time.Second, cfg.Notify.TTL)
	assert.Equal(t, "Deepmetric Analytics Institute", cfg.CertIssuer)
	assert.Equal(t, "portal:", cfg.Redis.Prefix)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":            "production",
		"JWT_SECRET":     "s3cret",
		"ADMIN_EMAILS":   "a@x.com,b@x.com",
		"STORAGE_DRIVER": "redis",
		"NOTIFY_TTL":     "10s",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.AdminEmails)
	assert.Equal(t, DriverRedis, cfg.StorageDriver)
	assert.Equal(t, 10*time.Second, cfg.Notify.TTL)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":            {"STORAGE_DRIVER": "sqlite"},
		"production without secret": {"ENV": "production"},
		"zero workers":              {"NOTIFY_WORKERS": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
