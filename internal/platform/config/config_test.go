package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, devSigningKey, cfg.Auth.JWTSigningKey)
	assert.Equal(t, "any", cfg.Registration.RepresentativePolicy)
	assert.Equal(t, 5*time.Second, cfg.Registration.StoreTimeout)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ONBOARD_ENV", "prod")
	t.Setenv("ONBOARD_DATABASE_URL", "postgres://localhost/onboard")
	t.Setenv("ONBOARD_JWT_SIGNING_KEY", "s3cret")
	t.Setenv("ONBOARD_KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ONBOARD_REPRESENTATIVE_POLICY", "Caller")
	t.Setenv("ONBOARD_STORE_TIMEOUT", "750ms")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "s3cret", cfg.Auth.JWTSigningKey)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "caller", cfg.Registration.RepresentativePolicy)
	assert.Equal(t, 750*time.Millisecond, cfg.Registration.StoreTimeout)
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]map[string]string{
		"production without signing key": {"ONBOARD_ENV": "prod", "ONBOARD_DATABASE_URL": "postgres://x"},
		"production without database":    {"ONBOARD_ENV": "prod", "ONBOARD_JWT_SIGNING_KEY": "k"},
		"unknown policy":                 {"ONBOARD_REPRESENTATIVE_POLICY": "anyone"},
		"unknown environment":            {"ONBOARD_ENV": "staging"},
		"zero store timeout":             {"ONBOARD_STORE_TIMEOUT": "0s"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load(New())
			assert.Error(t, err)
		})
	}
}
