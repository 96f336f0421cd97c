// Package display follows payloads broadcast by another agent process.
package display

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rollcall/internal/infrastructure/pubsub"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/bootstrap"
)

func NewCommand() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "display",
		Short: "Print payloads relayed from a broadcasting agent",
		Long: `Subscribe to payloads relayed over redis and print one encoded payload per line.
Requires redis to be enabled on both the broadcasting agent and this one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			container, _, _, err := bootstrap.Container(ctx)
			if err != nil {
				return err
			}
			defer container.Shutdown()

			relay := container.Relay()
			if relay == nil {
				return fmt.Errorf("redis is disabled, enable it to follow a broadcast")
			}

			out := cmd.OutOrStdout()
			err = relay.Subscribe(ctx, func(event pubsub.PayloadEvent) {
				if sessionID != "" && event.SessionID != sessionID {
					return
				}
				fmt.Fprintln(out, event.Encoded)
			})
			if stderrors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Only print payloads of this session")
	return cmd
}
