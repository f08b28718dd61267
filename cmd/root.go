package cmd

import (
	"fmt"
	"os"

	"github.com/Zmley/warehouse-admin-sub001/config"
	"github.com/Zmley/warehouse-admin-sub001/database"
	"github.com/Zmley/warehouse-admin-sub001/idgen"
	"github.com/Zmley/warehouse-admin-sub001/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Execute runs the CLI. It exits the process on failure.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "warehouse-admin",
		Short:         "Warehouse inventory admin backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(envFile)
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (default ./.env when present)")

	cmd.AddCommand(serveCmd(&envFile), migrateCmd(&envFile), seedCmd(&envFile))
	return cmd
}

// runtimeEnv is what every subcommand starts from.
type runtimeEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func (e *runtimeEnv) close() {
	if e.db != nil {
		if err := database.Close(e.db); err != nil {
			e.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// bootstrap loads the config, builds the logger and the id generator, and
// connects to the database, creating it first when it does not exist.
func bootstrap(envFile string) (*runtimeEnv, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Config{
		Development: cfg.IsDevelopment(),
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
	})
	if err != nil {
		return nil, err
	}
	if err := idgen.Init(cfg.App.NodeID); err != nil {
		return nil, fmt.Errorf("init id generator: %w", err)
	}

	if err := database.EnsureDatabaseExists(cfg.Database); err != nil {
		return nil, fmt.Errorf("ensure database: %w", err)
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Info("database connected",
		zap.String("driver", cfg.Database.Driver),
		zap.String("name", cfg.Database.Name))

	return &runtimeEnv{cfg: cfg, logger: log, db: db}, nil
}
