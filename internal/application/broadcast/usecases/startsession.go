package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/rollcall/internal/application/broadcast/services"
	"github.com/orris-inc/rollcall/internal/domain/session"
	"github.com/orris-inc/rollcall/internal/infrastructure/authority"
	"github.com/orris-inc/rollcall/internal/infrastructure/scheduler"
	"github.com/orris-inc/rollcall/internal/shared/biztime"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
	"github.com/orris-inc/rollcall/internal/shared/utils"
)

type StartSessionCommand struct {
	Request authority.StartSessionRequest
}

type StartSessionResult struct {
	SessionID                string    `json:"sessionId"`
	Status                   string    `json:"status"`
	EndTime                  time.Time `json:"endTime"`
	QRRefreshIntervalSeconds float64   `json:"qrRefreshIntervalSeconds"`
	TokenWindowSeconds       float64   `json:"tokenWindowSeconds"`

	Broadcaster *services.Broadcaster `json:"-"`
}

type StartSessionUseCase struct {
	authority SessionAuthority
	current   *services.Current
	sched     scheduler.Scheduler
	clock     biztime.Clock
	sink      services.PayloadSink
	opts      []services.Option
	logger    logger.Interface
}

func NewStartSessionUseCase(
	authority SessionAuthority,
	current *services.Current,
	sched scheduler.Scheduler,
	clock biztime.Clock,
	sink services.PayloadSink,
	logger logger.Interface,
	opts ...services.Option,
) *StartSessionUseCase {
	return &StartSessionUseCase{
		authority: authority,
		current:   current,
		sched:     sched,
		clock:     clock,
		sink:      sink,
		opts:      opts,
		logger:    logger,
	}
}

// Execute validates the policy, opens the session at the authority and starts
// broadcasting. A broadcaster already running is stopped and replaced.
func (uc *StartSessionUseCase) Execute(ctx context.Context, cmd StartSessionCommand) (*StartSessionResult, error) {
	if err := utils.ValidateStruct(&cmd.Request); err != nil {
		uc.logger.Warnw("invalid start session request", "error", err)
		return nil, err
	}

	uc.logger.Infow("starting session",
		"duration_minutes", cmd.Request.DurationMinutes,
		"qr_refresh_seconds", cmd.Request.QRRefreshIntervalSeconds,
		"token_window_seconds", cmd.Request.TokenWindowSeconds,
	)

	resp, err := uc.authority.StartSession(ctx, &cmd.Request)
	if err != nil {
		uc.logger.Errorw("failed to start session", "error", err)
		return nil, err
	}

	if resp.SessionSecret == "" {
		uc.logger.Infow("start response carried no secret, fetching teacher view", "session_id", resp.SessionID)
		view, err := uc.authority.GetTeacherView(ctx, resp.SessionID)
		if err != nil {
			uc.logger.Errorw("failed to fetch teacher view", "session_id", resp.SessionID, "error", err)
			return nil, err
		}
		resp.SessionSecret = view.SessionSecret
	}
	if resp.SessionSecret == "" {
		return nil, errors.NewInternalError("authority did not provide a session secret", resp.SessionID)
	}

	sess, err := resp.ToSession()
	if err != nil {
		return nil, errors.NewMalformedInputError("invalid session response", err.Error())
	}

	b, err := services.NewBroadcaster(sess, uc.sched, uc.clock, uc.sink, uc.logger, uc.opts...)
	if err != nil {
		return nil, errors.NewInternalError("failed to create broadcaster", err.Error())
	}
	if !sess.IsLive(uc.clock.Now()) {
		uc.logger.Warnw("session is not live", "session_id", sess.ID(), "status", sess.Status())
		return nil, errors.NewPolicyViolationError("session is not active", session.ErrNotActive.Error())
	}

	// The previous broadcaster stops before the new one emits so the shared sink
	// never interleaves two sessions.
	if prev := uc.current.Swap(b); prev != nil {
		prev.Stop()
	}
	if err := b.Start(ctx); err != nil {
		uc.current.Release(b)
		uc.logger.Warnw("session is not live", "session_id", sess.ID(), "status", sess.Status(), "error", err)
		return nil, errors.NewPolicyViolationError("session is not active", err.Error())
	}

	uc.logger.Infow("session started", "session_id", sess.ID())

	view := b.View()
	return &StartSessionResult{
		SessionID:                view.SessionID,
		Status:                   view.Status.String(),
		EndTime:                  view.EndTime,
		QRRefreshIntervalSeconds: view.Policy.QRRefreshIntervalSeconds,
		TokenWindowSeconds:       view.Policy.TokenWindowSeconds,
		Broadcaster:              b,
	}, nil
}
