// Package offlinesync submits the local queue to the authority once.
package offlinesync

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rollcall/internal/interfaces/cli/bootstrap"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Submit queued proofs to the authority",
		Long: `Submit every queued proof in one batch and remove the ones the authority
accepted. Safe to repeat; nothing is retried automatically.`,
		RunE: run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	container, cfg, _, err := bootstrap.Container(context.Background())
	if err != nil {
		return err
	}
	defer container.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Sync.Timeout()+5*time.Second)
	defer cancel()

	result, err := container.SyncPending.Execute(ctx)
	if result != nil {
		if printErr := bootstrap.PrintJSON(cmd.OutOrStdout(), result); printErr != nil {
			return printErr
		}
	}
	return err
}
