package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RENDER", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DATABASE_DRIVER", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 300*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, ProviderGemini, cfg.Provider.Name)
	assert.Empty(t, cfg.Provider.Model)
	assert.True(t, cfg.Analysis.Verify)
	assert.False(t, cfg.Analysis.HighLatency)
	assert.Equal(t, "AI", cfg.Credentials.KeyPrefix)
	assert.Equal(t, 20, cfg.Credentials.MinLength)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
  write_timeout: 10m
provider:
  name: openai
  model: gpt-4o-mini
  request_timeout: 45s
analysis:
  verify: false
database:
  driver: mysql
  host: db
  port: 3306
  user: legal
  name: cases
`), 0o600))

	t.Setenv("PORT", "9090")
	t.Setenv("RENDER", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_DRIVER", "Postgres")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, ProviderOpenAI, cfg.Provider.Name)
	assert.Equal(t, 45*time.Second, cfg.Provider.RequestTimeout)
	assert.False(t, cfg.Analysis.Verify)
	assert.True(t, cfg.Analysis.HighLatency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	// untouched defaults survive a partial file
	assert.Equal(t, 2*time.Second, cfg.Analysis.Backoff)

	assert.Equal(t, "db", cfg.Postgres().Host)
	assert.Equal(t, 3306, cfg.MySQL().Port)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	write := func(body string) string {
		p := filepath.Join(dir, "c.yaml")
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_DRIVER", "")

	_, err := Load(write("provider:\n  name: bard\n"))
	assert.Error(t, err)

	_, err = Load(write("database:\n  driver: sqlite\n"))
	assert.Error(t, err)

	_, err = Load(write("minio:\n  enabled: true\n"))
	assert.Error(t, err)

	_, err = Load(write("server: [\n"))
	assert.Error(t, err)

	t.Setenv("PORT", "eighty")
	_, err = Load(write(""))
	assert.Error(t, err)
}
