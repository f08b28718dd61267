package cmd

import (
	"github.com/Zmley/warehouse-admin-sub001/database"
	"github.com/spf13/cobra"
)

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer env.close()

			if err := database.Migrate(env.db); err != nil {
				return err
			}
			env.logger.Info("migration completed")
			return nil
		},
	}
}

func seedCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default warehouse and admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer env.close()

			if err := database.Migrate(env.db); err != nil {
				return err
			}
			return database.RunSeeders(env.db, env.cfg.Seed, env.logger.Named("seed"))
		},
	}
}
