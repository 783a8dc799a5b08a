package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "~/.config/recalldoc", cfg.Storage.Path)
	assert.Equal(t, "recalldoc.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "wal", cfg.Storage.SQLiteJournalMode)
	assert.Equal(t, "127.0.0.1", cfg.Daemon.Host)
	assert.Equal(t, 8731, cfg.Daemon.Port)
	assert.Equal(t, int64(1048576), cfg.Daemon.MaxRequestSize)
	assert.Equal(t, DefaultAllowedOrigins(), cfg.Daemon.AllowedOrigins)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.AuditLog)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultAllowedOriginsArePopulated(t *testing.T) {
	origins := DefaultAllowedOrigins()
	assert.Contains(t, origins, "chrome-extension://*")
	assert.Contains(t, origins, "https://*.esa.io")
	assert.Contains(t, origins, "https://*.kibe.la")
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
storage:
  sqlite_file: "other.db"
daemon:
  port: 9999
logging:
  level: "debug"
search:
  default_limit: 5
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "other.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, 9999, cfg.Daemon.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Search.DefaultLimit)

	// Non-overridden values remain defaults
	assert.Equal(t, "127.0.0.1", cfg.Daemon.Host)
	assert.Equal(t, "~/.config/recalldoc", cfg.Storage.Path)
	assert.True(t, cfg.Logging.AuditLog)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	err := os.WriteFile(cfgPath, []byte(":::not valid yaml{{{"), 0644)
	require.NoError(t, err)

	_, err = Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"level":  "logging:\n  level: loud\n",
		"port":   "daemon:\n  port: 70000\n",
		"limit":  "search:\n  default_limit: 0\n",
		"size":   "daemon:\n  max_request_size: -1\n",
		"sqlite": "storage:\n  sqlite_file: \"\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

			_, err := Load(cfgPath)
			assert.Error(t, err)
		})
	}
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	_, err := Load("/tmp/nonexistent_path_12345/config.yaml")
	assert.Error(t, err)
}

func TestLoadOrCreateCreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "deep", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, 8731, cfg.Daemon.Port)
	assert.Equal(t, "127.0.0.1", cfg.Daemon.Host)

	// File should now exist on disk
	_, statErr := os.Stat(cfgPath)
	assert.NoError(t, statErr)

	// File should be valid YAML loadable again
	cfg2, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, cfg2)
}

func TestLoadOrCreateLoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
daemon:
  allowed_origins:
    - "http://localhost:3000"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Daemon.AllowedOrigins)
	// Other fields remain defaults
	assert.Equal(t, 8731, cfg.Daemon.Port)
}

func TestDBPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/var/lib/recalldoc"

	p, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/recalldoc/recalldoc.db", p)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	p, err = DefaultConfig().DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "recalldoc", "recalldoc.db"), p)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := ExpandPath("~/x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), p)

	p, err = ExpandPath("/abs")
	require.NoError(t, err)
	assert.Equal(t, "/abs", p)
}

func TestAddr(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1:8731", cfg.Addr())
}
