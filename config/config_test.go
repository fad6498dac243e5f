package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "zincstore.yml")
	content := "system:\n" +
		"  workdir: " + dir + "\n" +
		"  demo: true\n" +
		"web:\n" +
		"  port: 8080\n" +
		"database:\n" +
		"  type: SQLite\n" +
		"  name: shop.db\n"
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o600))

	t.Setenv("ZINCSTORE_WEB_HOST", "127.0.0.1")
	t.Setenv("ZINCSTORE_DB_MAX_CONN", "7")
	t.Setenv("ZINCSTORE_DEBUG", "true")
	t.Setenv("ZINCSTORE_WEB_PORT", "not-a-number")

	cfg := LoadConfig(cfile)
	assert.Equal(t, dir, cfg.System.Workdir)
	assert.True(t, cfg.System.Demo)
	assert.True(t, cfg.System.Debug)
	assert.Equal(t, "127.0.0.1", cfg.Web.Host)
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "shop.db", cfg.Database.Name)
	assert.Equal(t, 7, cfg.Database.MaxConn)

	// untouched sections keep their defaults
	assert.Equal(t, "development", cfg.Logger.Mode)

	for _, d := range []string{cfg.GetDataDir(), cfg.GetLogDir(), cfg.GetMetricsDir()} {
		st, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, st.IsDir())
	}
}

func TestLoadConfig_DoesNotMutateDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ZINCSTORE_WORKDIR", dir)
	t.Setenv("ZINCSTORE_DB_NAME", "other.db")

	cfg := LoadConfig(filepath.Join(dir, "missing.yml"))
	assert.Equal(t, "other.db", cfg.Database.Name)
	assert.Equal(t, "store_inventory.db", DefaultAppConfig.Database.Name)
	assert.Equal(t, "/var/zincstore", DefaultAppConfig.System.Workdir)
}
