package migrate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	gomigrate "github.com/golang-migrate/migrate/v4"

	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Runner is the default Migrator, backed by golang-migrate with a
// file-based source.
type Runner struct {
	log *log.Logger
}

func NewRunner(logger *log.Logger) *Runner {
	return &Runner{log: logger}
}

func (r *Runner) Run(ctx context.Context, source, dbURL string, opts RunOptions) error {
	sourceURL, err := sourceURL(source)
	if err != nil {
		return err
	}

	m, err := gomigrate.New(sourceURL, databaseURL(dbURL))
	if err != nil {
		return fmt.Errorf("opening migration source %s: %w", source, err)
	}
	defer m.Close()

	if opts.IgnoreMissing {
		// The engine has no direct equivalent; missing migrations
		// surface as ErrNoChange or a dirty version instead.
		r.log.Warn("ignore-missing is not supported by the migration engine; continuing")
	}

	if opts.Fake {
		if opts.TargetVersion == nil {
			return errors.New("fake migration requires a target version")
		}
		return m.Force(int(*opts.TargetVersion))
	}

	if opts.DryRun {
		return r.reportOnly(m)
	}

	if opts.TargetVersion != nil {
		err = m.Migrate(*opts.TargetVersion)
	} else {
		err = m.Up()
	}
	if errors.Is(err, gomigrate.ErrNoChange) {
		r.log.Info("no pending migrations")
		return nil
	}

	return err
}

func (r *Runner) reportOnly(m *gomigrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, gomigrate.ErrNilVersion) {
		r.log.Info("dry run: no migrations applied yet")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	r.log.Info("dry run", "version", version, "dirty", dirty)
	return nil
}

// databaseURL maps the scheme aliases the drivers accept onto the names
// the migration engine registers: sqlite3 is sqlite, mariadb speaks the
// mysql protocol.
func databaseURL(dbURL string) string {
	for _, alias := range [][2]string{
		{"sqlite3://", "sqlite://"},
		{"mariadb://", "mysql://"},
	} {
		if strings.HasPrefix(dbURL, alias[0]) {
			return alias[1] + strings.TrimPrefix(dbURL, alias[0])
		}
	}
	return dbURL
}

// sourceURL turns a local directory into a file:// source URL, passing
// through anything that already has a scheme.
func sourceURL(source string) (string, error) {
	if strings.Contains(source, "://") {
		return source, nil
	}

	abs, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("resolving migration source: %w", err)
	}

	return "file://" + abs, nil
}
