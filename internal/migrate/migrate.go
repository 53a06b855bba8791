// Package migrate defines the migration-engine contract the lifecycle
// commands drive, plus the default runner backed by golang-migrate.
package migrate

import "context"

// RunOptions controls a single migration run.
type RunOptions struct {
	// DryRun reports what would be applied without touching the database.
	DryRun bool

	// IgnoreMissing tolerates applied migrations that are no longer
	// present in the source.
	IgnoreMissing bool

	// Fake records migrations as applied without executing them.
	// Requires TargetVersion.
	Fake bool

	// TargetVersion pins the run to a specific version instead of
	// migrating all the way up.
	TargetVersion *uint
}

// DefaultRunOptions returns the options used by `db setup` and `db reset`:
// apply everything, for real.
func DefaultRunOptions() RunOptions {
	return RunOptions{}
}

// Migrator applies versioned migration scripts from a source location to
// an existing database.
type Migrator interface {
	Run(ctx context.Context, source, dbURL string, opts RunOptions) error
}
