package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/artisanexperiences/taproot/internal/config"
	"github.com/artisanexperiences/taproot/internal/database"
	"github.com/artisanexperiences/taproot/internal/driver"
	"github.com/artisanexperiences/taproot/internal/migrate"
	"github.com/artisanexperiences/taproot/internal/ui"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the lifecycle of the target database",
}

var dbCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the database if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, cfg, err := openLifecycle(cmd)
		if err != nil {
			return err
		}

		if err := lc.Create(cmd.Context(), cfg.Database.URL); err != nil {
			return err
		}

		ui.PrintDone(fmt.Sprintf("Database ready at %s", database.Redact(cfg.Database.URL)))
		return nil
	},
}

var dbDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the database if it exists",
	Long: `Drops the target database after interactive confirmation.
Declining the prompt (or interrupting it) skips the drop and exits
successfully. Pass --yes to skip the prompt, and --force to drop even
when the database has active connections.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, cfg, err := openLifecycle(cmd)
		if err != nil {
			return err
		}

		yes := mustGetBool(cmd, "yes")
		force := mustGetBool(cmd, "force")

		confirm, err := confirmFromFlags(yes)
		if err != nil {
			return err
		}

		dropped, err := lc.Drop(cmd.Context(), cfg.Database.URL, confirm, force)
		if err != nil {
			return err
		}

		if !dropped {
			ui.PrintWarning(fmt.Sprintf("Nothing dropped at %s", database.Redact(cfg.Database.URL)))
			return nil
		}

		ui.PrintDone(fmt.Sprintf("Database dropped at %s", database.Redact(cfg.Database.URL)))
		return nil
	},
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop the database, recreate it and apply all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, cfg, err := openLifecycle(cmd)
		if err != nil {
			return err
		}

		yes := mustGetBool(cmd, "yes")
		force := mustGetBool(cmd, "force")
		source := migrationSource(cmd, cfg)

		confirm, err := confirmFromFlags(yes)
		if err != nil {
			return err
		}

		if err := lc.Reset(cmd.Context(), source, cfg.Database.URL, confirm, force); err != nil {
			return err
		}

		ui.PrintDone(fmt.Sprintf("Database reset at %s", database.Redact(cfg.Database.URL)))
		return nil
	},
}

var dbSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the database and apply all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, cfg, err := openLifecycle(cmd)
		if err != nil {
			return err
		}

		source := migrationSource(cmd, cfg)
		run := func() error {
			return lc.Setup(cmd.Context(), source, cfg.Database.URL)
		}

		if ui.IsInteractive() {
			err = ui.RunWithSpinner("Setting up database", run)
		} else {
			err = run()
		}
		if err != nil {
			return err
		}

		ui.PrintDone(fmt.Sprintf("Database set up at %s", database.Redact(cfg.Database.URL)))
		return nil
	},
}

// openLifecycle loads configuration from the working directory, applies
// flag overrides and wires the driver, migrator and confirmation prompt.
func openLifecycle(cmd *cobra.Command) (*database.Lifecycle, *config.Config, error) {
	if mustGetBool(cmd, "verbose") {
		logger.SetLevel(log.DebugLevel)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, nil, err
	}

	if url := mustGetString(cmd, "database-url"); url != "" {
		cfg.Database.URL = url
	}
	if cfg.Database.URL == "" {
		return nil, nil, fmt.Errorf("%w: no database URL configured: set database.url in taproot.yaml, %s, or --database-url", config.ErrConfig, config.DatabaseURLEnv)
	}

	drv, err := driver.ForURL(cfg.Database.URL, driver.Options{
		SqliteWAL: cfg.Database.SqliteWAL,
	})
	if err != nil {
		return nil, nil, err
	}

	retry := database.RetryPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Backoff:     cfg.Retry.Backoff,
		MaxBackoff:  cfg.Retry.MaxBackoff,
	}

	lc := database.New(drv, migrate.NewRunner(logger), ui.ConfirmDrop, retry, logger)
	return lc, cfg, nil
}

// confirmFromFlags decides whether the destructive prompt should run.
// Without a terminal there is nobody to ask, so --yes is required.
func confirmFromFlags(yes bool) (bool, error) {
	if yes {
		return false, nil
	}
	if !ui.IsInteractive() {
		return false, fmt.Errorf("refusing to drop without confirmation: no terminal attached, pass --yes to proceed")
	}
	return true, nil
}

func migrationSource(cmd *cobra.Command, cfg *config.Config) string {
	if source := mustGetString(cmd, "source"); source != "" {
		return source
	}
	return cfg.Migrations.Source
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbCreateCmd)
	dbCmd.AddCommand(dbDropCmd)
	dbCmd.AddCommand(dbResetCmd)
	dbCmd.AddCommand(dbSetupCmd)

	dbDropCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	dbDropCmd.Flags().BoolP("force", "f", false, "Drop even with active connections")

	dbResetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	dbResetCmd.Flags().BoolP("force", "f", false, "Drop even with active connections")
	dbResetCmd.Flags().String("source", "", "Migration source directory (defaults to config)")

	dbSetupCmd.Flags().String("source", "", "Migration source directory (defaults to config)")
}
