package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/orris-inc/rollcall/internal/infrastructure/scheduler"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/bootstrap"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the local agent HTTP API",
		Long:  `Start the local agent that broadcasts sessions, verifies scans and syncs queued proofs.`,
		RunE:  run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	container, cfg, log, err := bootstrap.Container(ctx)
	if err != nil {
		return err
	}
	defer container.Shutdown()

	gin.SetMode(cfg.Server.Mode)

	var manager *scheduler.SchedulerManager
	if interval := cfg.Sync.AutoInterval(); interval > 0 {
		manager, err = scheduler.NewSchedulerManager(log.Named("scheduler"))
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := manager.RegisterSyncJob(interval, cfg.Sync.Timeout(), scheduler.BatchJobFunc(container.SyncPending.Job)); err != nil {
			return fmt.Errorf("failed to register sync job: %w", err)
		}
		manager.Start()
		defer func() { _ = manager.Stop() }()
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Router().GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
			"auto_sync", cfg.Sync.AutoInterval().String())

		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		log.Errorw("failed to start server", "error", err)
		return err
	case sig := <-quit:
		log.Infow("shutting down server...", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}
