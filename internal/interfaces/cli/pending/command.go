// Package pending inspects and edits the local queue of unsynced proofs.
package pending

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rollcall/internal/interfaces/cli/bootstrap"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Manage queued attendance proofs",
	}

	cmd.AddCommand(
		newListCommand(),
		newRemoveCommand(),
		newClearCommand(),
	)

	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List queued proofs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			container, _, _, err := bootstrap.Container(ctx)
			if err != nil {
				return err
			}
			defer container.Shutdown()

			result, err := container.ListPending.Execute(ctx)
			if err != nil {
				return err
			}
			return bootstrap.PrintJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove one queued proof",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			container, _, _, err := bootstrap.Container(ctx)
			if err != nil {
				return err
			}
			defer container.Shutdown()

			if err := container.RemovePending.Execute(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

func newClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard every queued proof",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to discard unsynced proofs without --yes")
			}

			ctx := context.Background()
			container, _, _, err := bootstrap.Container(ctx)
			if err != nil {
				return err
			}
			defer container.Shutdown()

			result, err := container.ClearPending.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d records\n", result.Cleared)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm discarding unsynced proofs")
	return cmd
}
