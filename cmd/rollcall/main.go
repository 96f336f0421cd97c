package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rollcall/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/broadcast"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/device"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/display"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/migrate"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/offlinesync"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/pending"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/report"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/server"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/verify"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rollcall",
		Short: "Rollcall - proof-of-presence attendance agent",
		Long: `Rollcall broadcasts rotating session QR payloads, verifies student scans against
time, location and proximity signals, and syncs queued proofs to the attendance authority.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&bootstrap.Env, "env", "e", bootstrap.Env, "Environment (development, test, production)")

	rootCmd.AddCommand(
		server.NewCommand(),
		broadcast.NewCommand(),
		display.NewCommand(),
		verify.NewCommand(),
		pending.NewCommand(),
		offlinesync.NewCommand(),
		device.NewCommand(),
		report.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
