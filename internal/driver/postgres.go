package driver

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// maintenanceDB is the database used for server-level statements that
// cannot run against the target database itself.
const maintenanceDB = "postgres"

// Postgres manages PostgreSQL databases through a maintenance connection.
type Postgres struct{}

func (Postgres) Exists(ctx context.Context, dbURL string) (bool, error) {
	conn, name, err := connectMaintenance(ctx, dbURL)
	if err != nil {
		return false, err
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking database %q: %w", name, err)
	}

	return exists, nil
}

func (Postgres) Create(ctx context.Context, dbURL string) error {
	conn, name, err := connectMaintenance(ctx, dbURL)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return fmt.Errorf("creating database %q: %w", name, err)
	}

	return nil
}

func (Postgres) Drop(ctx context.Context, dbURL string) error {
	conn, name, err := connectMaintenance(ctx, dbURL)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "DROP DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return fmt.Errorf("dropping database %q: %w", name, err)
	}

	return nil
}

// ForceDrop terminates every backend connected to the target database and
// then drops it. Termination keeps this working on servers older than
// PostgreSQL 13, which lack DROP DATABASE ... WITH (FORCE).
func (Postgres) ForceDrop(ctx context.Context, dbURL string) error {
	conn, name, err := connectMaintenance(ctx, dbURL)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx,
		`SELECT pg_terminate_backend(pid) FROM pg_stat_activity
		 WHERE datname = $1 AND pid <> pg_backend_pid()`, name)
	if err != nil {
		return fmt.Errorf("terminating connections to %q: %w", name, err)
	}

	if _, err := conn.Exec(ctx, "DROP DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return fmt.Errorf("dropping database %q: %w", name, err)
	}

	return nil
}

// connectMaintenance connects to the maintenance database on the server
// named by dbURL and returns the target database name from the URL.
func connectMaintenance(ctx context.Context, dbURL string) (*pgx.Conn, string, error) {
	cfg, err := pgx.ParseConfig(dbURL)
	if err != nil {
		return nil, "", fmt.Errorf("parsing database URL: %w", err)
	}

	name := cfg.Database
	if name == "" {
		return nil, "", fmt.Errorf("database URL %q names no database", dbURL)
	}
	cfg.Database = maintenanceDB

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("connecting to %s: %w", cfg.Host, err)
	}

	return conn, name, nil
}
