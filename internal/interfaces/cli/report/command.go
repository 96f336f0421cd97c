package report

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rollcall/internal/interfaces/cli/bootstrap"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report <session-id>",
		Short: "Print the attendance list and summary of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			container, _, _, err := bootstrap.Container(ctx)
			if err != nil {
				return err
			}
			defer container.Shutdown()

			report, err := container.SessionReport.Execute(ctx, args[0])
			if err != nil {
				return err
			}
			return bootstrap.PrintJSON(cmd.OutOrStdout(), report)
		},
	}
}
