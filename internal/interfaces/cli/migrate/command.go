// Package migrate prepares the local sqlite store ahead of first use.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/orris-inc/rollcall/internal/infrastructure/database"
	"github.com/orris-inc/rollcall/internal/infrastructure/migration"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/bootstrap"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Local store schema tools",
	}

	cmd.AddCommand(newUpCommand())
	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Create or update the local store schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.Load()
			if err != nil {
				return err
			}
			if cfg.Store.IsMemory() {
				return fmt.Errorf("store driver is memory, nothing to migrate")
			}

			db, err := database.Open(&cfg.Store, log)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			for _, model := range migration.AutoMigrateModels() {
				stmt := &gorm.Statement{DB: db}
				if err := stmt.Parse(model); err != nil {
					return fmt.Errorf("failed to parse model %T: %w", model, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s ready=%t\n", stmt.Schema.Table, db.Migrator().HasTable(model))
			}
			return nil
		},
	}
}
