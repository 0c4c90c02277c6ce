package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "missing.toml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "local", cfg.Storage.Profile)
	assert.Equal(t, 5, cfg.Auth.AccessTokenMinutes)
	assert.Equal(t, 72, cfg.Auth.ResetTokenHours)
	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
port = 9000
allowed_origins = "https://a.example, https://b.example"

[database]
driver = "postgres"
dsn = "postgres://localhost/art"

[storage]
profile = "s3-private"
bucket = "art"
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "9100")
	t.Setenv("S3_BUCKET_NAME", "art-prod")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "s3-private", cfg.Storage.Profile)
	assert.Equal(t, "art-prod", cfg.Storage.Bucket)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestValidate(t *testing.T) {
	strong := strings.Repeat("s", 40)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: "unsupported database driver"},
		{name: "unknown profile", mutate: func(c *Config) { c.Storage.Profile = "ftp" }, wantErr: "unsupported storage profile"},
		{name: "unknown mail backend", mutate: func(c *Config) { c.Mail.Backend = "pigeon" }, wantErr: "unsupported mail backend"},
		{name: "production default secret", mutate: func(c *Config) { c.App.Env = "production" }, wantErr: "JWT_SECRET"},
		{
			name: "production sqlite",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.Auth.JWTSecret = strong
				c.App.SecretKey = strong
			},
			wantErr: "sqlite",
		},
		{
			name: "production console mail",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.Auth.JWTSecret = strong
				c.App.SecretKey = strong
				c.Database.Driver = "postgres"
			},
			wantErr: "console mail",
		},
		{
			name: "production ok",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.Auth.JWTSecret = strong
				c.App.SecretKey = strong
				c.Database.Driver = "postgres"
				c.Mail.Backend = "smtp"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
