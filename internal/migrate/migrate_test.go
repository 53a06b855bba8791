package migrate

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRunOptions(t *testing.T) {
	opts := DefaultRunOptions()
	assert.False(t, opts.DryRun)
	assert.False(t, opts.IgnoreMissing)
	assert.False(t, opts.Fake)
	assert.Nil(t, opts.TargetVersion)
}

func TestSourceURL(t *testing.T) {
	t.Run("local directories become file URLs", func(t *testing.T) {
		got, err := sourceURL("migrations")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "file:///"), got)
		assert.True(t, strings.HasSuffix(got, "/migrations"), got)
	})

	t.Run("explicit schemes pass through untouched", func(t *testing.T) {
		got, err := sourceURL("file:///srv/migrations")
		require.NoError(t, err)
		assert.Equal(t, "file:///srv/migrations", got)
	})
}

func TestDatabaseURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"sqlite3 alias becomes sqlite", "sqlite3:///var/lib/app.db", "sqlite:///var/lib/app.db"},
		{"mariadb alias becomes mysql", "mariadb://root@localhost/app", "mysql://root@localhost/app"},
		{"registered schemes pass through", "postgres://localhost/app", "postgres://localhost/app"},
		{"sqlite passes through", "sqlite://app.db", "sqlite://app.db"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, databaseURL(tc.url))
		})
	}
}

// writeTestMigrations lays down a single up/down pair.
func writeTestMigrations(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	up := "CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT);"
	down := "DROP TABLE widgets;"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_create_widgets.up.sql"), []byte(up), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_create_widgets.down.sql"), []byte(down), 0644))

	return dir
}

func TestRunner(t *testing.T) {
	newRunner := func() *Runner {
		return NewRunner(log.New(io.Discard))
	}

	t.Run("applies pending migrations to a sqlite database", func(t *testing.T) {
		source := writeTestMigrations(t)
		dbURL := "sqlite://" + filepath.Join(t.TempDir(), "app.db")

		err := newRunner().Run(context.Background(), source, dbURL, DefaultRunOptions())
		require.NoError(t, err)
	})

	t.Run("accepts the sqlite3 alias scheme", func(t *testing.T) {
		source := writeTestMigrations(t)
		dbURL := "sqlite3://" + filepath.Join(t.TempDir(), "app.db")

		err := newRunner().Run(context.Background(), source, dbURL, DefaultRunOptions())
		require.NoError(t, err)
	})

	t.Run("a second run with no pending migrations succeeds", func(t *testing.T) {
		source := writeTestMigrations(t)
		dbURL := "sqlite://" + filepath.Join(t.TempDir(), "app.db")
		runner := newRunner()

		require.NoError(t, runner.Run(context.Background(), source, dbURL, DefaultRunOptions()))
		assert.NoError(t, runner.Run(context.Background(), source, dbURL, DefaultRunOptions()))
	})

	t.Run("dry run reports without applying", func(t *testing.T) {
		source := writeTestMigrations(t)
		path := filepath.Join(t.TempDir(), "app.db")
		dbURL := "sqlite://" + path

		err := newRunner().Run(context.Background(), source, dbURL, RunOptions{DryRun: true})
		require.NoError(t, err)

		err = newRunner().Run(context.Background(), source, dbURL, DefaultRunOptions())
		assert.NoError(t, err, "migrations must still be pending after a dry run")
	})

	t.Run("fake requires a target version", func(t *testing.T) {
		source := writeTestMigrations(t)
		dbURL := "sqlite://" + filepath.Join(t.TempDir(), "app.db")

		err := newRunner().Run(context.Background(), source, dbURL, RunOptions{Fake: true})
		assert.ErrorContains(t, err, "target version")
	})

	t.Run("missing source directory is an error", func(t *testing.T) {
		dbURL := "sqlite://" + filepath.Join(t.TempDir(), "app.db")

		err := newRunner().Run(context.Background(), filepath.Join(t.TempDir(), "nope"), dbURL, DefaultRunOptions())
		assert.ErrorContains(t, err, "opening migration source")
	})
}
