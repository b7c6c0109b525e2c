package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `session_key: "secret"`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:10032", cfg.Listen)
	assert.Equal(t, "./data/meditalk.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, 10, cfg.Content.MaxIncludeDepth)
	assert.True(t, cfg.Content.Cache)
	assert.Equal(t, 10, cfg.Stream.PostLimit)
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.Equal(t, "meditalk", cfg.Setup.AdminUsername)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
session_key: "secret"
server_url: "https://forum.example.com/ "
session:
  idle_timeout: 5m
  sweep_interval: 10s
stream:
  post_limit: 25
content:
  dir: /srv/content
  max_include_depth: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://forum.example.com", cfg.ServerURL)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.Session.SweepInterval)
	assert.Equal(t, 25, cfg.Stream.PostLimit)
	assert.Equal(t, "/srv/content", cfg.Content.Dir)
	assert.Equal(t, 3, cfg.Content.MaxIncludeDepth)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `session_key: "secret"`)
	t.Setenv("MEDITALK_LISTEN", "127.0.0.1:9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
}

func TestLoad_MissingSessionKey(t *testing.T) {
	path := writeConfig(t, `listen: ":8080"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session key is required")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			SessionKey: "secret",
			Database:   &DatabaseConfig{Path: "db"},
			Session:    &SessionConfig{IdleTimeout: time.Minute, SweepInterval: time.Second},
			Content:    &ContentConfig{Dir: "content", MaxIncludeDepth: 10},
			Stream:     &StreamConfig{PostLimit: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid config gets memory cache",
			mutate: func(c *Config) {},
		},
		{
			name:    "redis without url",
			mutate:  func(c *Config) { c.Cache = &CacheConfig{Type: CacheTypeRedis} },
			wantErr: "Redis URL is required",
		},
		{
			name:    "unknown cache type",
			mutate:  func(c *Config) { c.Cache = &CacheConfig{Type: "memcached"} },
			wantErr: "unknown cache type",
		},
		{
			name:    "zero idle timeout",
			mutate:  func(c *Config) { c.Session.IdleTimeout = 0 },
			wantErr: "idle timeout",
		},
		{
			name:    "email without host",
			mutate:  func(c *Config) { c.Email = &EmailConfig{Enabled: true, FromEmail: "a@b.c"} },
			wantErr: "SMTP host is required",
		},
		{
			name:    "gravatar size out of range",
			mutate:  func(c *Config) { c.Gravatar = &GravatarConfig{Enabled: true, Size: 4096} },
			wantErr: "gravatar size",
		},
		{
			name:    "zero post limit",
			mutate:  func(c *Config) { c.Stream.PostLimit = 0 },
			wantErr: "post limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := validateConfig(c)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, CacheTypeMemory, c.Cache.Type)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
