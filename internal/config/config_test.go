package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("DFW_DATA_DIR", dataDir)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "dfw.db"), cfg.Database)
	assert.Equal(t, filepath.Join(dataDir, "dfw.json"), cfg.FallbackPath)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfig(t, `
data_dir = "`+dataDir+`"
timezone = "America/New_York"
debug = true

[log]
max_backups = 7
`)
	t.Setenv("DFW_TIMEZONE", "Europe/London")
	t.Setenv("DFW_LOG_MAX_AGE_DAYS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.True(t, cfg.Debug, "file value should survive when env is unset")
	assert.Equal(t, "Europe/London", cfg.Timezone, "env should override the file")
	assert.Equal(t, 7, cfg.Log.MaxBackups)
	assert.Equal(t, 3, cfg.Log.MaxAgeDays)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestLoad_PostgresDatabaseIsNotExpanded(t *testing.T) {
	t.Setenv("DFW_DATA_DIR", t.TempDir())
	t.Setenv("DFW_DATABASE", "postgres://dfw@localhost:5432/dfw?sslmode=disable")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, "postgres://dfw@localhost:5432/dfw?sslmode=disable", cfg.Database)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "data_dir = [unterminated")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode config")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Asia/Tokyo"
	cfg.Log.MaxBackups = 9

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cfg))

	decoded := &Config{}
	require.NoError(t, Decode(strings.NewReader(buf.String()), decoded))
	assert.Equal(t, cfg, decoded)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/.config/dfw")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/dfw"), got)

	got, err = ExpandPath("/var/lib/dfw")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/dfw", got)
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://localhost/dfw"))
	assert.True(t, IsPostgresDSN("postgresql://localhost/dfw"))
	assert.False(t, IsPostgresDSN("/home/me/.config/dfw/dfw.db"))
	assert.False(t, IsPostgresDSN("keyring"))

	assert.True(t, IsPostgresDSN("host=127.0.0.1 port=5432 dbname=dfw sslmode=disable"))
	assert.True(t, IsPostgresDSN("dbname=dfw"))
	assert.False(t, IsPostgresDSN("/tmp/a=b/dfw.db"))
	assert.False(t, IsPostgresDSN("sslmode=disable"))
	assert.False(t, IsPostgresDSN(""))
}

func TestLoad_KeywordDSNIsNotExpanded(t *testing.T) {
	dsn := "host=localhost dbname=dfw user=me"
	t.Setenv("DFW_DATA_DIR", t.TempDir())
	t.Setenv("DFW_DATABASE", dsn)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, dsn, cfg.Database)
	assert.True(t, cfg.UsesPostgres())
}
