package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
driver = "memory"

[booking]
open_hour = 10
close_hour = 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Booking.OpenHour)
	assert.Equal(t, 20, cfg.Booking.CloseHour)
	assert.Equal(t, 120, cfg.Booking.CreateLeadMinutes)
	assert.Equal(t, 120, cfg.Booking.CancelLeadMinutes)
	assert.Equal(t, 240, cfg.Booking.RescheduleLeadMinutes)
	assert.Equal(t, 60, cfg.Booking.SlotStepMinutes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load(writeConfig(t, `[database]
driver = "postgres"
`))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"close before open", func(c *Config) { c.Booking.CloseHour = c.Booking.OpenHour }},
		{"zero step", func(c *Config) { c.Booking.SlotStepMinutes = 0 }},
		{"negative lead", func(c *Config) { c.Booking.CancelLeadMinutes = -1 }},
		{"bad timezone", func(c *Config) { c.Booking.Timezone = "Mars/Olympus" }},
		{"bad driver", func(c *Config) { c.Database.Driver = "sqlite" }},
		{"bad rate limit", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.RPS = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, Default().Validate())
}
