// Package database implements the lifecycle operations that bring a
// target database into a known state: create, drop, reset and setup.
// It orchestrates the engine driver, the migration runner and the
// destructive-action confirmation prompt.
package database

import (
	"context"
	"net/url"

	"github.com/charmbracelet/log"

	"github.com/artisanexperiences/taproot/internal/driver"
	"github.com/artisanexperiences/taproot/internal/migrate"
	"github.com/artisanexperiences/taproot/internal/ui"
)

// Confirmer asks the user whether a destructive action may proceed.
type Confirmer func(ctx context.Context, dbURL string) (ui.Decision, error)

// Lifecycle composes the driver, migrator and confirmation gate into the
// four public operations. One Lifecycle serves one invocation; it holds
// no state between calls.
type Lifecycle struct {
	driver   driver.Driver
	migrator migrate.Migrator
	confirm  Confirmer
	retry    RetryPolicy
	log      *log.Logger
}

func New(drv driver.Driver, migrator migrate.Migrator, confirm Confirmer, retry RetryPolicy, logger *log.Logger) *Lifecycle {
	return &Lifecycle{
		driver:   drv,
		migrator: migrator,
		confirm:  confirm,
		retry:    retry,
		log:      logger,
	}
}

// Create makes the database exist. Already existing is success, and the
// driver's create capability is not invoked again.
func (l *Lifecycle) Create(ctx context.Context, dbURL string) error {
	// Only the idempotent existence check is retried. If it succeeds,
	// the server is reachable and the mutation that follows gets one
	// attempt.
	exists, err := retryConnectErrors(ctx, l.retry, func(ctx context.Context) (bool, error) {
		return l.driver.Exists(ctx, dbURL)
	})
	if err != nil {
		return err
	}

	if exists {
		l.log.Debug("database already exists", "target", Redact(dbURL))
		return nil
	}

	return l.driver.Create(ctx, dbURL)
}

// Drop removes the database. When confirm is set the user is prompted
// first; a decline or an interrupted prompt skips the drop and returns
// success. A missing database is also success. The returned bool reports
// whether a drop actually happened, so callers can word their output.
func (l *Lifecycle) Drop(ctx context.Context, dbURL string, confirm, force bool) (bool, error) {
	if confirm {
		decision, err := l.confirm(ctx, dbURL)
		if err != nil {
			return false, err
		}
		if decision != ui.DecisionProceed {
			l.log.Info("drop skipped", "decision", decision)
			return false, nil
		}
	}

	exists, err := retryConnectErrors(ctx, l.retry, func(ctx context.Context) (bool, error) {
		return l.driver.Exists(ctx, dbURL)
	})
	if err != nil {
		return false, err
	}

	if !exists {
		l.log.Debug("database does not exist", "target", Redact(dbURL))
		return false, nil
	}

	if force {
		err = l.driver.ForceDrop(ctx, dbURL)
	} else {
		err = l.driver.Drop(ctx, dbURL)
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// Reset drops the database and sets it up again. Setup runs even when the
// user declined the drop, so a declined reset still ensures the database
// exists and is migrated.
func (l *Lifecycle) Reset(ctx context.Context, source, dbURL string, confirm, force bool) error {
	if _, err := l.Drop(ctx, dbURL, confirm, force); err != nil {
		return err
	}
	return l.Setup(ctx, source, dbURL)
}

// Setup creates the database if needed and applies all pending migrations
// from source.
func (l *Lifecycle) Setup(ctx context.Context, source, dbURL string) error {
	if err := l.Create(ctx, dbURL); err != nil {
		return err
	}
	return l.migrator.Run(ctx, source, dbURL, migrate.DefaultRunOptions())
}

// Redact strips the password from a connection URL for logging.
func Redact(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		return dbURL
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
