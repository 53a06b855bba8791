package driver

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Driver performs engine-level lifecycle operations for the database
// addressed by a connection URL. Implementations connect per call and do
// not hold state between calls, so a single Driver value is safe to reuse
// across operations against the same target.
type Driver interface {
	// Exists reports whether the database named in the URL currently exists.
	Exists(ctx context.Context, dbURL string) (bool, error)

	// Create creates the database named in the URL.
	Create(ctx context.Context, dbURL string) error

	// Drop drops the database named in the URL. It may fail if the
	// database has active connections.
	Drop(ctx context.Context, dbURL string) error

	// ForceDrop drops the database even when it has active connections
	// or dependent sessions.
	ForceDrop(ctx context.Context, dbURL string) error
}

// Options carries engine-specific settings that must be fixed before a
// database is first created. They are passed explicitly at construction
// instead of through process-global state.
type Options struct {
	// SqliteWAL enables write-ahead logging on newly created SQLite
	// databases. Ignored by the server-based engines.
	SqliteWAL bool
}

// ForURL selects a driver based on the URL scheme.
func ForURL(dbURL string, opts Options) (Driver, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return &Postgres{}, nil
	case "mysql", "mariadb":
		return &MySQL{}, nil
	case "sqlite", "sqlite3":
		return &SQLite{WAL: opts.SqliteWAL}, nil
	case "":
		return nil, fmt.Errorf("database URL %q has no scheme", dbURL)
	default:
		return nil, fmt.Errorf("unsupported database scheme: %s", u.Scheme)
	}
}
