// Package broadcast runs a session broadcaster in the foreground, printing one
// encoded payload per line.
package broadcast

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rollcall/internal/application/broadcast/services"
	"github.com/orris-inc/rollcall/internal/application/broadcast/usecases"
	"github.com/orris-inc/rollcall/internal/infrastructure/authority"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/bootstrap"
)

type options struct {
	qrRefresh     int
	tokenWindow   int
	radius        int
	duration      int
	maxAccuracy   float64
	maxAgeSeconds float64
	lat           float64
	lng           float64
	closeOnExit   bool
}

func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Start a session and print rotating QR payloads",
		Long: `Open a session at the authority and print an encoded payload to stdout every
QR refresh interval until the session expires or the process is interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, cmd.Flags().Changed("max-accuracy"), cmd.Flags().Changed("max-age"))
		},
	}

	cmd.Flags().IntVar(&opts.qrRefresh, "qr-refresh", 10, "QR refresh interval in seconds (5-120)")
	cmd.Flags().IntVar(&opts.tokenWindow, "token-window", 20, "Token window in seconds (5-120)")
	cmd.Flags().IntVar(&opts.radius, "radius", 50, "Allowed radius in meters (5-500)")
	cmd.Flags().IntVar(&opts.duration, "duration", 10, "Session duration in minutes (1-240)")
	cmd.Flags().Float64Var(&opts.maxAccuracy, "max-accuracy", 0, "Maximum acceptable GPS accuracy in meters")
	cmd.Flags().Float64Var(&opts.maxAgeSeconds, "max-age", 0, "Maximum location age in seconds")
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "Classroom latitude")
	cmd.Flags().Float64Var(&opts.lng, "lng", 0, "Classroom longitude")
	cmd.Flags().BoolVar(&opts.closeOnExit, "close", false, "Close the session at the authority when interrupted")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")

	return cmd
}

func (o *options) request(withAccuracy, withMaxAge bool) authority.StartSessionRequest {
	lat, lng := o.lat, o.lng
	req := authority.StartSessionRequest{
		QRRefreshIntervalSeconds: o.qrRefresh,
		TokenWindowSeconds:       o.tokenWindow,
		AllowedRadiusMeters:      o.radius,
		DurationMinutes:          o.duration,
		TeacherLat:               &lat,
		TeacherLng:               &lng,
	}
	if withAccuracy {
		v := o.maxAccuracy
		req.MaxGPSAccuracyMeters = &v
	}
	if withMaxAge {
		v := o.maxAgeSeconds
		req.LocationMaxAgeSeconds = &v
	}
	return req
}

func run(cmd *cobra.Command, opts *options, withAccuracy, withMaxAge bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, _, log, err := bootstrap.Container(ctx)
	if err != nil {
		return err
	}
	defer container.Shutdown()

	startUC := container.StartSessionUseCase(services.NewWriterSink(cmd.OutOrStdout()))
	result, err := startUC.Execute(ctx, usecases.StartSessionCommand{Request: opts.request(withAccuracy, withMaxAge)})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "session %s broadcasting until %s\n",
		result.SessionID, result.EndTime.Format("15:04:05 MST"))

	select {
	case <-result.Broadcaster.Done():
		log.Infow("session expired", "session_id", result.SessionID, "payloads_issued", result.Broadcaster.Issued())
		return nil
	case <-ctx.Done():
	}

	if !opts.closeOnExit {
		result.Broadcaster.Stop()
		return nil
	}

	closed, err := container.CloseSession.Execute(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "session %s closed after %d payloads\n", closed.SessionID, closed.PayloadsIssued)
	return nil
}
