package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing config file falls back to defaults", func(t *testing.T) {
		t.Setenv(DatabaseURLEnv, "")
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)

		assert.Empty(t, cfg.Database.URL)
		assert.True(t, cfg.Database.SqliteWAL)
		assert.Equal(t, "migrations", cfg.Migrations.Source)
		assert.Equal(t, 5, cfg.Retry.MaxAttempts)
		assert.Equal(t, 100*time.Millisecond, cfg.Retry.Backoff)
	})

	t.Run("reads taproot.yaml including duration fields", func(t *testing.T) {
		t.Setenv(DatabaseURLEnv, "")
		dir := t.TempDir()
		content := `database:
  url: postgres://app@localhost/app_dev
  sqlite_wal: false
migrations:
  source: db/migrations
retry:
  max_attempts: 8
  backoff: 250ms
  max_backoff: 5s
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "taproot.yaml"), []byte(content), 0644))

		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, "postgres://app@localhost/app_dev", cfg.Database.URL)
		assert.False(t, cfg.Database.SqliteWAL)
		assert.Equal(t, "db/migrations", cfg.Migrations.Source)
		assert.Equal(t, 8, cfg.Retry.MaxAttempts)
		assert.Equal(t, 250*time.Millisecond, cfg.Retry.Backoff)
		assert.Equal(t, 5*time.Second, cfg.Retry.MaxBackoff)
	})

	t.Run("DATABASE_URL env overrides the config file", func(t *testing.T) {
		dir := t.TempDir()
		content := "database:\n  url: postgres://from-config/app\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "taproot.yaml"), []byte(content), 0644))
		t.Setenv(DatabaseURLEnv, "postgres://from-env/app")

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "postgres://from-env/app", cfg.Database.URL)
	})

	t.Run("falls back to a .env file when nothing else names a URL", func(t *testing.T) {
		t.Setenv(DatabaseURLEnv, "")
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
			[]byte("# local overrides\nDATABASE_URL=mysql://root@localhost/app\n"), 0644))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "mysql://root@localhost/app", cfg.Database.URL)
	})

	t.Run("malformed yaml is a configuration error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "taproot.yaml"), []byte("database: [oops"), 0644))

		_, err := Load(dir)
		assert.ErrorContains(t, err, "reading config")
		assert.ErrorIs(t, err, ErrConfig)
	})
}

func TestWriteStarter(t *testing.T) {
	t.Run("writes a loadable starter config", func(t *testing.T) {
		t.Setenv(DatabaseURLEnv, "")
		dir := t.TempDir()

		cfg := Default()
		cfg.Database.URL = "postgres://app@localhost/app_dev"

		path, err := WriteStarter(dir, cfg)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "taproot.yaml"), path)

		loaded, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, cfg.Database.URL, loaded.Database.URL)
		assert.Equal(t, cfg.Retry.MaxAttempts, loaded.Retry.MaxAttempts)
		assert.Equal(t, cfg.Retry.Backoff, loaded.Retry.Backoff)
	})

	t.Run("refuses to overwrite an existing config", func(t *testing.T) {
		dir := t.TempDir()
		_, err := WriteStarter(dir, Default())
		require.NoError(t, err)

		_, err = WriteStarter(dir, Default())
		assert.ErrorContains(t, err, "already exists")
	})
}

func TestReadEnvFile(t *testing.T) {
	t.Run("parses keys, skipping comments and blanks", func(t *testing.T) {
		dir := t.TempDir()
		content := "\n# comment\nDATABASE_URL=postgres://x/y\nAPP_NAME = demo \nQUOTED=\"value\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644))

		env := ReadEnvFile(dir, ".env")
		assert.Equal(t, "postgres://x/y", env["DATABASE_URL"])
		assert.Equal(t, "demo", env["APP_NAME"])
		assert.Equal(t, "value", env["QUOTED"])
	})

	t.Run("missing file yields an empty map", func(t *testing.T) {
		env := ReadEnvFile(t.TempDir(), ".env")
		assert.Empty(t, env)
	})
}
