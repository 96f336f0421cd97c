// Package token runs the broadcaster's rotating time-window token.
package token

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/domain/session"
	"github.com/orris-inc/rollcall/internal/infrastructure/scheduler"
	"github.com/orris-inc/rollcall/internal/shared/biztime"
	"github.com/orris-inc/rollcall/internal/shared/logger"
	"github.com/orris-inc/rollcall/internal/shared/utils/logutil"
)

// RecomputeInterval is how often the engine re-reads the clock.
const RecomputeInterval = time.Second

// Window is one published (index, token) pair.
type Window struct {
	Index int64
	Token string
}

// Engine derives the token for the current window. The pair is published as
// one value, so readers never observe an index with another window's token.
type Engine struct {
	sessionID     string
	secret        string
	windowSeconds float64

	current atomic.Pointer[Window]

	mu      sync.Mutex
	running bool
	cancel  scheduler.CancelFunc

	logger logger.Interface
}

// NewEngine takes the secret explicitly; it is the engine's only holder besides the session.
func NewEngine(sessionID, secret string, windowSeconds float64, log logger.Interface) (*Engine, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}
	if secret == "" {
		return nil, session.ErrSecretMissing
	}
	return &Engine{
		sessionID:     sessionID,
		secret:        secret,
		windowSeconds: proof.NormalizeWindowSeconds(windowSeconds),
		logger:        log,
	}, nil
}

// Refresh recomputes the window for now and publishes a new pair when the
// index changed. It reports whether a new pair was published.
func (e *Engine) Refresh(now time.Time) (Window, bool) {
	idx := proof.WindowIndex(biztime.UnixSeconds(now), e.windowSeconds)

	if cur := e.current.Load(); cur != nil && cur.Index == idx {
		return *cur, false
	}

	w := &Window{Index: idx, Token: proof.DeriveToken(e.sessionID, idx, e.secret)}
	e.current.Store(w)

	e.logger.Debugw("token window rotated",
		"session_id", e.sessionID,
		"window", idx,
		"token", logutil.Token(w.Token),
	)
	return *w, true
}

// Current returns the latest pair, or false before the first computation and after Stop.
func (e *Engine) Current() (Window, bool) {
	cur := e.current.Load()
	if cur == nil {
		return Window{}, false
	}
	return *cur, true
}

// WindowSeconds returns the effective window length.
func (e *Engine) WindowSeconds() float64 {
	return e.windowSeconds
}

// Start recomputes on s every RecomputeInterval. Starting twice is a no-op.
func (e *Engine) Start(s scheduler.Scheduler) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	cancel := s.Every("token-engine:"+e.sessionID, RecomputeInterval, e.tick)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		cancel()
		return
	}
	e.cancel = cancel
}

func (e *Engine) tick(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		e.Refresh(now)
	}
}

// Stop cancels recomputation and withdraws the published pair. No pair is
// published after Stop returns.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.running = false
	e.current.Store(nil)
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
