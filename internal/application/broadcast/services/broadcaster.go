// Package services holds the broadcaster, the one context object that owns a
// session's secret for the session's lifetime.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/domain/session"
	"github.com/orris-inc/rollcall/internal/infrastructure/scheduler"
	"github.com/orris-inc/rollcall/internal/infrastructure/token"
	"github.com/orris-inc/rollcall/internal/shared/biztime"
	"github.com/orris-inc/rollcall/internal/shared/logger"
	"github.com/orris-inc/rollcall/internal/shared/utils/logutil"
)

// CountdownInterval is how often expiry is checked.
const CountdownInterval = time.Second

// PayloadSink receives every encoded payload. The delivery channel behind it
// (QR rendering, audio, a terminal) is not the broadcaster's concern.
type PayloadSink interface {
	Publish(ctx context.Context, encoded string, payload proof.Payload) error
}

// Beacon is the secondary corroboration emitter that runs alongside payloads.
// It is the integration point for an out-of-band channel such as an audio or
// BLE transmitter; the agent ships none and runs without one by default.
type Beacon interface {
	Start(ctx context.Context, sessionID string) error
	Stop()
}

// PayloadMetrics counts issued payloads.
type PayloadMetrics interface {
	PayloadIssued()
}

type Option func(*Broadcaster)

// WithBeacon attaches b so it starts and stops with the broadcast.
func WithBeacon(b Beacon) Option {
	return func(br *Broadcaster) {
		br.beacon = b
	}
}

func WithMetrics(m PayloadMetrics) Option {
	return func(br *Broadcaster) {
		br.metrics = m
	}
}

// Broadcaster runs the token engine and re-issues a payload every
// qrRefreshIntervalSeconds until the session closes or expires.
type Broadcaster struct {
	mu      sync.Mutex
	sess    *session.Session
	engine  *token.Engine
	sched   scheduler.Scheduler
	clock   biztime.Clock
	sink    PayloadSink
	beacon  Beacon
	metrics PayloadMetrics
	logger  logger.Interface

	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	started bool
	cancels []scheduler.CancelFunc
	done    chan struct{}
	issued  int64
}

// NewBroadcaster takes ownership of sess. The session must carry its secret.
func NewBroadcaster(
	sess *session.Session,
	sched scheduler.Scheduler,
	clock biztime.Clock,
	sink PayloadSink,
	log logger.Interface,
	opts ...Option,
) (*Broadcaster, error) {
	if sess == nil || !sess.HasSecret() {
		return nil, session.ErrSecretMissing
	}
	if clock == nil {
		clock = biztime.SystemClock{}
	}

	engine, err := token.NewEngine(sess.ID(), sess.Secret(), sess.Policy().TokenWindowSeconds, log)
	if err != nil {
		return nil, err
	}

	b := &Broadcaster{
		sess:   sess,
		engine: engine,
		sched:  sched,
		clock:  clock,
		sink:   sink,
		logger: log.With("session_id", sess.ID()),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Start begins token recomputation, payload issuance and the beacon.
// A broadcaster runs at most once.
func (b *Broadcaster) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return nil
	}
	if !b.sess.IsLive(b.clock.Now()) {
		b.mu.Unlock()
		return session.ErrNotActive
	}
	b.started = true
	b.running = true
	b.ctx, b.cancel = context.WithCancel(context.WithoutCancel(ctx))
	b.mu.Unlock()

	b.engine.Start(b.sched)

	if b.beacon != nil {
		if err := b.beacon.Start(b.ctx, b.sess.ID()); err != nil {
			b.logger.Warnw("corroboration beacon failed to start", "error", err)
		}
	}

	interval := refreshInterval(b.sess.Policy().QRRefreshIntervalSeconds)
	b.logger.Infow("broadcast started",
		"refresh_interval", interval.String(),
		"token_window_seconds", b.engine.WindowSeconds(),
		"end_time", biztime.FormatLocalDateTime(b.sess.EndTime()),
	)

	b.schedule("payload-refresh:"+b.sess.ID(), interval, b.emit)
	b.schedule("countdown:"+b.sess.ID(), CountdownInterval, b.checkExpiry)
	return nil
}

func (b *Broadcaster) schedule(name string, interval time.Duration, task scheduler.Task) {
	cancel := b.sched.Every(name, interval, task)

	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		cancel()
		return
	}
	b.cancels = append(b.cancels, cancel)
	b.mu.Unlock()
}

func (b *Broadcaster) emit(now time.Time) {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	if !b.sess.IsLive(now) {
		cleanup := b.stopLocked("session no longer live")
		b.mu.Unlock()
		cleanup()
		return
	}

	w, _ := b.engine.Refresh(now)
	p := b.buildPayload(now, w)
	encoded, err := proof.Encode(p)
	if err != nil {
		b.mu.Unlock()
		b.logger.Errorw("failed to encode payload", "error", err)
		return
	}
	if b.sink != nil {
		if err := b.sink.Publish(b.ctx, encoded, p); err != nil {
			b.logger.Warnw("payload sink rejected payload", "error", err)
		}
	}
	b.issued++
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.PayloadIssued()
	}
	b.logger.Debugw("payload issued",
		"window", w.Index,
		"qr_time", *p.QRTime,
		"token", logutil.Token(w.Token),
	)
}

func (b *Broadcaster) checkExpiry(now time.Time) {
	b.mu.Lock()
	if !b.running || b.sess.IsLive(now) {
		b.mu.Unlock()
		return
	}
	cleanup := b.stopLocked("session expired")
	b.mu.Unlock()
	cleanup()
}

func (b *Broadcaster) buildPayload(now time.Time, w token.Window) proof.Payload {
	policy := b.sess.Policy()
	qrInterval := proof.NormalizeWindowSeconds(policy.QRRefreshIntervalSeconds)
	qrTime := proof.WindowIndex(biztime.UnixSeconds(now), qrInterval)
	window := w.Index
	tokenWindow := b.engine.WindowSeconds()

	return proof.Payload{
		Version:                  proof.Version,
		SessionID:                b.sess.ID(),
		WindowTime:               &window,
		Token:                    w.Token,
		QRTime:                   &qrTime,
		QRRefreshIntervalSeconds: &qrInterval,
		TokenWindowSeconds:       &tokenWindow,
		AllowedRadiusMeters:      policy.AllowedRadiusMeters,
		TeacherLat:               policy.AnchorLat,
		TeacherLng:               policy.AnchorLng,
		MaxGPSAccuracyMeters:     policy.MaxGPSAccuracyMeters,
		LocationMaxAgeSeconds:    policy.LocationMaxAgeSeconds,
		IssuedAt:                 biztime.Instant{Time: now.UTC()},
	}
}

// Stop halts every periodic task and the beacon. Queued proofs are unaffected.
func (b *Broadcaster) Stop() {
	b.mu.Lock()
	cleanup := b.stopLocked("stopped")
	b.mu.Unlock()
	cleanup()
}

// Close marks the session CLOSED and stops broadcasting.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	b.sess.Close()
	cleanup := b.stopLocked("session closed")
	b.mu.Unlock()
	cleanup()
}

func (b *Broadcaster) stopLocked(reason string) func() {
	if !b.running {
		return func() {}
	}
	b.running = false
	cancels := b.cancels
	b.cancels = nil
	cancelCtx := b.cancel
	issued := b.issued

	return func() {
		for _, c := range cancels {
			c()
		}
		b.engine.Stop()
		if b.beacon != nil {
			b.beacon.Stop()
		}
		if cancelCtx != nil {
			cancelCtx()
		}
		close(b.done)
		b.logger.Infow("broadcast stopped", "reason", reason, "payloads_issued", issued)
	}
}

// Done is closed once broadcasting stops for any reason.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}

func (b *Broadcaster) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// Remaining is the countdown to the session end, zero once expired.
func (b *Broadcaster) Remaining() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sess.Remaining(b.clock.Now())
}

func (b *Broadcaster) SessionID() string {
	return b.sess.ID()
}

// View returns the secret-free session state.
func (b *Broadcaster) View() session.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sess.View()
}

// Issued returns how many payloads were published.
func (b *Broadcaster) Issued() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issued
}

func refreshInterval(seconds float64) time.Duration {
	return time.Duration(proof.NormalizeWindowSeconds(seconds) * float64(time.Second))
}
