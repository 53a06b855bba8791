package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/artisanexperiences/taproot/internal/config"
	"github.com/artisanexperiences/taproot/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "taproot",
	Short: "Database environment lifecycle manager",
	Long: `Taproot brings a target database into a known state before your
migrations run: create it, drop it, or reset it to a freshly
migrated state. It speaks PostgreSQL, MySQL and SQLite.`,
}

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

func Execute() error {
	// A terminal interrupt cancels the whole invocation; every blocking
	// operation below takes this context.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if err = ui.NormalizeAbort(err); errors.Is(err, ui.ErrAborted) {
			return nil
		}
		ui.PrintError(err.Error())
		return err
	}
	return nil
}

// ExitCode maps the error returned by Execute onto the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return config.ExitSuccess
	case errors.Is(err, config.ErrConfig):
		return config.ExitConfigurationError
	default:
		return config.ExitGeneralError
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("database-url", "", "Connection URL for the target database (overrides config and DATABASE_URL)")
}

func mustGetString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: flag %q not defined: %v", name, err))
	}
	return value
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: flag %q not defined: %v", name, err))
	}
	return value
}
