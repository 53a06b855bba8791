package driver

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLite manages file-backed SQLite databases. Existence is a file check;
// create and drop are file operations.
type SQLite struct {
	// WAL switches newly created databases to write-ahead logging. The
	// journal mode is persistent, so it only needs to be set once, at
	// creation time.
	WAL bool
}

func (SQLite) Exists(ctx context.Context, dbURL string) (bool, error) {
	path, err := sqlitePath(dbURL)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking database file: %w", err)
	}

	return true, nil
}

func (s SQLite) Create(ctx context.Context, dbURL string) error {
	path, err := sqlitePath(dbURL)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("creating database file: %w", err)
	}
	defer db.Close()

	if s.WAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
			return fmt.Errorf("enabling WAL on %s: %w", path, err)
		}
		return nil
	}

	// Opening alone does not touch the filesystem; force the file into
	// existence so a later Exists check sees it.
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("creating database file: %w", err)
	}

	return nil
}

func (SQLite) Drop(ctx context.Context, dbURL string) error {
	path, err := sqlitePath(dbURL)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing database file: %w", err)
	}

	return nil
}

// ForceDrop also clears the WAL sidecar files a live writer may have left
// behind.
func (s SQLite) ForceDrop(ctx context.Context, dbURL string) error {
	if err := s.Drop(ctx, dbURL); err != nil {
		return err
	}

	path, err := sqlitePath(dbURL)
	if err != nil {
		return err
	}

	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s sidecar: %w", suffix, err)
		}
	}

	return nil
}

// sqlitePath extracts the filesystem path from a sqlite URL. Accepts
// sqlite://path, sqlite3://path and the bare sqlite:path form.
func sqlitePath(dbURL string) (string, error) {
	trimmed := dbURL
	for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite3:", "sqlite:"} {
		if strings.HasPrefix(dbURL, prefix) {
			trimmed = strings.TrimPrefix(dbURL, prefix)
			break
		}
	}

	if trimmed == "" {
		return "", fmt.Errorf("database URL %q names no file", dbURL)
	}

	// Strip query parameters (e.g. ?mode=rwc).
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}

	return trimmed, nil
}
