package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Mode: "release"},
			JWT:      JWTConfig{Secret: strings.Repeat("s", 32)},
			Database: DatabaseConfig{Driver: "mysql"},
			Mail:     MailConfig{Provider: "console"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"short secret in release": func(c *Config) { c.JWT.Secret = "short" },
		"unknown driver":          func(c *Config) { c.Database.Driver = "postgres" },
		"sendgrid without key":    func(c *Config) { c.Mail.Provider = "sendgrid" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	t.Run("short secret allowed in debug", func(t *testing.T) {
		c := valid()
		c.Server.Mode = "debug"
		c.JWT.Secret = "dev"
		assert.NoError(t, c.Validate())
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")
	content := "database:\n  driver: sqlite\njwt:\n  secret: dev\n  expire_hours: 2\nstorage:\n  local_path: " + uploads + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "console", cfg.Mail.Provider)
	assert.Equal(t, "sunday", cfg.Scheduler.WeeklyReport)
	assert.Equal(t, 6000, cfg.RateLimit.MaxRequests)
	assert.DirExists(t, uploads)
}
