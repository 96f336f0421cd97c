// Package session models a live attendance window as held by the broadcaster.
package session

import (
	"time"
)

// Session is owned by exactly one broadcaster. It carries the secret used to
// derive tokens; verifiers only ever see a View.
type Session struct {
	id      string
	secret  string
	policy  Policy
	endTime time.Time
	status  Status
}

// Reconstruct rebuilds a session from authority data.
func Reconstruct(id, secret string, policy Policy, endTime time.Time, status Status) (*Session, error) {
	if id == "" {
		return nil, ErrSessionIDRequired
	}
	return &Session{
		id:      id,
		secret:  secret,
		policy:  policy,
		endTime: endTime.UTC(),
		status:  status,
	}, nil
}

func (s *Session) ID() string         { return s.id }
func (s *Session) Policy() Policy     { return s.policy }
func (s *Session) EndTime() time.Time { return s.endTime }
func (s *Session) Status() Status     { return s.status }

// Secret is only used by the token engine.
func (s *Session) Secret() string { return s.secret }

func (s *Session) HasSecret() bool { return s.secret != "" }

// WithSecret returns a copy of s carrying secret.
func (s *Session) WithSecret(secret string) *Session {
	c := *s
	c.secret = secret
	return &c
}

// IsExpired reports whether now is at or past the end time. A zero end time never expires.
func (s *Session) IsExpired(now time.Time) bool {
	if s.endTime.IsZero() {
		return false
	}
	return !now.Before(s.endTime)
}

// IsLive reports whether payloads may still be issued.
func (s *Session) IsLive(now time.Time) bool {
	return s.status == StatusActive && !s.IsExpired(now)
}

// Remaining returns the time left before expiry, clamped at zero.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.endTime.IsZero() {
		return 0
	}
	d := s.endTime.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Close marks the session CLOSED.
func (s *Session) Close() {
	s.status = StatusClosed
}

// View returns the secret-redacted projection handed to verifiers.
func (s *Session) View() View {
	return View{
		SessionID: s.id,
		Policy:    s.policy,
		EndTime:   s.endTime,
		Status:    s.status,
	}
}

// View is the read-only, secret-free session seen by verifiers.
type View struct {
	SessionID string
	Policy    Policy
	EndTime   time.Time
	Status    Status
}
