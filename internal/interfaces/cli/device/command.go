package device

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rollcall/internal/interfaces/cli/bootstrap"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "device",
		Short: "Print this device's fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			container, _, _, err := bootstrap.Container(ctx)
			if err != nil {
				return err
			}
			defer container.Shutdown()

			fp, err := container.GetDevice.Execute(ctx)
			if err != nil {
				return err
			}
			return bootstrap.PrintJSON(cmd.OutOrStdout(), fp)
		},
	}
}
