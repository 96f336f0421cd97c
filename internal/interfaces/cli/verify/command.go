// Package verify assesses a scanned payload and optionally queues the proof.
package verify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rollcall/internal/application/verify/dto"
	"github.com/orris-inc/rollcall/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/rollcall/internal/shared/biztime"
)

type options struct {
	studentID    string
	payload      string
	lat          float64
	lng          float64
	accuracy     float64
	capturedAt   string
	corroborated bool
	assessOnly   bool
}

func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a scanned payload and queue the attendance proof",
		Long: `Score a scanned QR payload against location and corroboration signals. Accepted
scans are queued locally for the next sync. Use --payload - to read the payload from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scan, err := opts.scanRequest(cmd.InOrStdin(), cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng"), cmd.Flags().Changed("accuracy"))
			if err != nil {
				return err
			}
			return run(cmd, opts, scan)
		},
	}

	cmd.Flags().StringVar(&opts.studentID, "student", "", "Student identifier")
	cmd.Flags().StringVar(&opts.payload, "payload", "", "Scanned payload text, or - for stdin")
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "Student latitude")
	cmd.Flags().Float64Var(&opts.lng, "lng", 0, "Student longitude")
	cmd.Flags().Float64Var(&opts.accuracy, "accuracy", 0, "Location accuracy in meters")
	cmd.Flags().StringVar(&opts.capturedAt, "captured-at", "", "Location capture time (RFC 3339 or local date-time); defaults to now")
	cmd.Flags().BoolVar(&opts.corroborated, "corroborated", false, "Corroboration signal was detected")
	cmd.Flags().BoolVar(&opts.assessOnly, "assess-only", false, "Only print the assessment, do not queue")
	_ = cmd.MarkFlagRequired("payload")

	return cmd
}

func (o *options) scanRequest(stdin io.Reader, withLocation, withAccuracy bool) (dto.ScanRequest, error) {
	payload := o.payload
	if payload == "-" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return dto.ScanRequest{}, fmt.Errorf("failed to read payload from stdin: %w", err)
		}
		payload = line
	}

	req := dto.ScanRequest{
		Payload:               strings.TrimSpace(payload),
		CorroborationDetected: o.corroborated,
	}
	if !withLocation {
		return req, nil
	}

	captured := biztime.NowUTC()
	if o.capturedAt != "" {
		t, err := biztime.Parse(o.capturedAt)
		if err != nil {
			return dto.ScanRequest{}, fmt.Errorf("invalid --captured-at: %w", err)
		}
		captured = t
	}

	lat, lng := o.lat, o.lng
	req.Location = &dto.LocationDTO{
		Lat:        &lat,
		Lng:        &lng,
		CapturedAt: biztime.Instant{Time: captured.Truncate(time.Millisecond)},
	}
	if withAccuracy {
		acc := o.accuracy
		req.Location.AccuracyMeters = &acc
	}
	return req, nil
}

func run(cmd *cobra.Command, opts *options, scan dto.ScanRequest) error {
	ctx := context.Background()
	container, _, _, err := bootstrap.Container(ctx)
	if err != nil {
		return err
	}
	defer container.Shutdown()

	if opts.assessOnly {
		assessment, err := container.AssessScan.Execute(ctx, scan)
		if err != nil {
			return err
		}
		return bootstrap.PrintJSON(cmd.OutOrStdout(), assessment)
	}

	result, err := container.RecordAttendance.Execute(ctx, dto.RecordAttendanceRequest{
		StudentID:   opts.studentID,
		ScanRequest: scan,
	})
	if err != nil {
		return err
	}
	if err := bootstrap.PrintJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.Accepted {
		return fmt.Errorf("verification failed: %s", strings.Join(result.Assessment.Issues, "; "))
	}
	return nil
}
