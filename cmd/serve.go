package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/database"
	"github.com/Zmley/warehouse-admin-sub001/metrics"
	"github.com/Zmley/warehouse-admin-sub001/notify"
	"github.com/Zmley/warehouse-admin-sub001/routes"
	"github.com/Zmley/warehouse-admin-sub001/scheduler"
	"github.com/Zmley/warehouse-admin-sub001/services"
	"github.com/Zmley/warehouse-admin-sub001/upload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*envFile)
		},
	}
}

func serve(envFile string) error {
	env, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer env.close()
	cfg, log := env.cfg, env.logger

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(env.db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		if err := database.RunSeeders(env.db, cfg.Seed, log.Named("seed")); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	aliases, err := upload.LoadAliases(cfg.Upload.ColumnAliasesFile)
	if err != nil {
		return err
	}

	logs := services.NewLogService(env.db, cfg.Scheduler.SessionIdleTimeout)
	sched := scheduler.NewScheduler(cfg.Scheduler.SessionSweepSpec, logs, log.Named("scheduler"))
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := routes.NewApp(routes.Deps{
		Config:   cfg,
		DB:       env.db,
		Logger:   log,
		Metrics:  metrics.New(),
		Issuer:   auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiration),
		Notifier: notify.New(cfg.Mail, log.Named("notify")),
		Aliases:  aliases,
		Logs:     logs,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.App.Port), zap.String("routes", cfg.App.MainRoutes))
		listenErr <- app.Listen(":" + cfg.App.Port)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}
