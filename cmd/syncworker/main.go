package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orris-inc/rollcall/internal/infrastructure/scheduler"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/bootstrap"
)

const defaultInterval = 5 * time.Minute

func main() {
	if len(os.Args) > 1 {
		bootstrap.Env = os.Args[1]
	}

	container, cfg, log, err := bootstrap.Container(context.Background())
	if err != nil {
		fmt.Printf("failed to start sync worker: %v\n", err)
		os.Exit(1)
	}
	defer container.Shutdown()

	interval := cfg.Sync.AutoInterval()
	if interval == 0 {
		interval = defaultInterval
	}

	manager, err := scheduler.NewSchedulerManager(log.Named("scheduler"))
	if err != nil {
		log.Errorw("failed to create scheduler", "error", err)
		return
	}
	if err := manager.RegisterSyncJob(interval, cfg.Sync.Timeout(), scheduler.BatchJobFunc(container.SyncPending.Job)); err != nil {
		log.Errorw("failed to register sync job", "error", err)
		return
	}

	manager.Start()
	log.Infow("offline sync worker started", "interval", interval.String())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig.String())

	if err := manager.Stop(); err != nil {
		log.Errorw("scheduler stopped with error", "error", err)
	}

	// Final sync so proofs captured since the last tick are not left behind.
	log.Infow("performing final sync")
	syncCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if n, err := container.SyncPending.Job(syncCtx); err != nil {
		log.Errorw("final sync failed", "error", err)
	} else {
		log.Infow("final sync completed", "removed", n)
	}
	cancel()

	log.Infow("offline sync worker stopped")
}
