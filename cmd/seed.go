package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/spf13/cobra"
)

var seedCmdFlags struct {
	AdminPassword string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default sections, administrator and welcome post",
	Long: `Create the default sections, the administrator account and the welcome post.

Existing rows are left untouched, so the command can be run repeatedly.`,
	Example: `meditalk seed --admin-password s3cret
MEDITALK_SETUP_ADMIN_PASSWORD=s3cret meditalk seed`,
	RunE: seed,
}

func init() {
	seedCmd.Flags().StringVar(&seedCmdFlags.AdminPassword, "admin-password", "", "Password of the administrator (overrides setup.admin_password)")
	rootCmd.AddCommand(seedCmd)
}

func seed(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()

	password := seedCmdFlags.AdminPassword
	if password == "" && cfg.Setup != nil {
		password = cfg.Setup.AdminPassword
	}
	if password == "" {
		return fmt.Errorf("an administrator password is required, set setup.admin_password or --admin-password")
	}
	var username, email string
	if cfg.Setup != nil {
		username, email = cfg.Setup.AdminUsername, cfg.Setup.AdminEmail
	}
	if username == "" {
		username = "meditalk"
	}

	db := openDatabase(cfg)
	defer db.Close() //nolint: errcheck

	if err := db.Seed(cmd.Context(), database.DefaultSeedData(username, password, email)); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	log.Info("Database seeded", "admin", username)
	return nil
}
