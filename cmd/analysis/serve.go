package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"incident-analysis/internal/config"
	"incident-analysis/internal/scheduler"
	"incident-analysis/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the snapshot scheduler",
	RunE:  runServe,
}

func init() {
	config.BindServerFlags(serveCmd.Flags(), &cfg)
}

func runServe(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := newEngine()
	if err != nil {
		return err
	}

	var sched *scheduler.Scheduler
	if cfg.Snapshots.Enabled {
		sched = scheduler.New(cfg.Snapshots, db, engine, logger)
		if err := sched.Start(); err != nil {
			return err
		}
	}

	server := web.New(db, engine, web.Options{
		Port:           cfg.Port,
		UploadsDir:     cfg.UploadsDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Infof("Web interface available at http://localhost:%d", cfg.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("Shutting down...")
	case err = <-errCh:
		if err != nil {
			logger.WithError(err).Error("Web server failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := server.Shutdown(ctx); shutdownErr != nil {
		logger.WithError(shutdownErr).Warn("Web server shutdown incomplete")
	}

	if sched != nil {
		sched.Stop()
		sched.Wait()
	}
	return err
}
