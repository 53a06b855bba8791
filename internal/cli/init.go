package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artisanexperiences/taproot/internal/config"
	"github.com/artisanexperiences/taproot/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter taproot.yaml to the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		cfg := config.Default()
		cfg.Database.URL = mustGetString(cmd, "url")

		path, err := config.WriteStarter(cwd, cfg)
		if err != nil {
			return err
		}

		ui.PrintDone(fmt.Sprintf("Wrote %s", path))
		if cfg.Database.URL == "" {
			ui.PrintInfo("Set database.url (or DATABASE_URL) before running db commands.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("url", "", "Connection URL to seed the config with")
}
