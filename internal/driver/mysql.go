package driver

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MySQL manages MySQL and MariaDB databases through a server-level
// connection (no schema selected).
type MySQL struct{}

func (MySQL) Exists(ctx context.Context, dbURL string) (bool, error) {
	db, name, err := openMysqlServer(dbURL)
	if err != nil {
		return false, err
	}
	defer db.Close()

	var count int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.SCHEMATA WHERE SCHEMA_NAME = ?", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking database %q: %w", name, err)
	}

	return count > 0, nil
}

func (MySQL) Create(ctx context.Context, dbURL string) error {
	db, name, err := openMysqlServer(dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", quoteMysqlIdent(name))); err != nil {
		return fmt.Errorf("creating database %q: %w", name, err)
	}

	return nil
}

func (MySQL) Drop(ctx context.Context, dbURL string) error {
	db, name, err := openMysqlServer(dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP DATABASE %s", quoteMysqlIdent(name))); err != nil {
		return fmt.Errorf("dropping database %q: %w", name, err)
	}

	return nil
}

// ForceDrop is identical to Drop: MySQL drops a schema regardless of open
// connections to it.
func (m MySQL) ForceDrop(ctx context.Context, dbURL string) error {
	return m.Drop(ctx, dbURL)
}

// openMysqlServer opens a server-level connection from a mysql:// URL and
// returns the target database name from the URL path.
func openMysqlServer(dbURL string) (*sql.DB, string, error) {
	cfg, name, err := mysqlConfig(dbURL)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, "", fmt.Errorf("opening connection to %s: %w", cfg.Addr, err)
	}

	return db, name, nil
}

// mysqlConfig builds a server-level connection config from a mysql:// URL.
// Query parameters (tls, parseTime, ...) carry over as driver options.
func mysqlConfig(dbURL string) (*mysql.Config, string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return nil, "", fmt.Errorf("parsing database URL: %w", err)
	}

	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return nil, "", fmt.Errorf("database URL %q names no database", dbURL)
	}

	cfg := mysql.NewConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Host + ":3306"
	}

	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for key, values := range q {
			cfg.Params[key] = values[len(values)-1]
		}
	}

	return cfg, name, nil
}

func quoteMysqlIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
