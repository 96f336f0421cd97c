// Package proof holds the attendance proof protocol: the payload carried over
// the delivery channel, the time-window token scheme, and the records a
// verifier queues for synchronization.
package proof

import (
	"github.com/orris-inc/rollcall/internal/shared/biztime"
)

// Version is the only payload version this codec accepts.
const Version = 1

// Payload is one issued proof-of-session. Policy fields are optional: nil
// means "not configured", which is distinct from an explicit zero.
type Payload struct {
	Version                  int             `json:"v"`
	SessionID                string          `json:"sessionId"`
	WindowTime               *int64          `json:"windowTime"`
	Token                    string          `json:"token"`
	QRTime                   *int64          `json:"qrTime"`
	QRRefreshIntervalSeconds *float64        `json:"qrRefreshIntervalSeconds"`
	TokenWindowSeconds       *float64        `json:"tokenWindowSeconds"`
	AllowedRadiusMeters      *float64        `json:"allowedRadiusMeters"`
	TeacherLat               *float64        `json:"teacherLat"`
	TeacherLng               *float64        `json:"teacherLng"`
	MaxGPSAccuracyMeters     *float64        `json:"maxGpsAccuracyMeters"`
	LocationMaxAgeSeconds    *float64        `json:"locationMaxAgeSeconds"`
	IssuedAt                 biztime.Instant `json:"issuedAt"`
}

// TokenWindow returns the token window length, defaulted when absent or invalid.
func (p *Payload) TokenWindow() float64 {
	return normalizeOptional(p.TokenWindowSeconds)
}

// QRRefreshInterval returns the refresh cadence, defaulted when absent or invalid.
func (p *Payload) QRRefreshInterval() float64 {
	return normalizeOptional(p.QRRefreshIntervalSeconds)
}

// HasAnchor reports whether both anchor coordinates are present.
func (p *Payload) HasAnchor() bool {
	return p.TeacherLat != nil && p.TeacherLng != nil
}

// Complete reports whether the payload carries what a record needs.
func (p *Payload) Complete() bool {
	return p.SessionID != "" && p.Token != "" && p.WindowTime != nil
}

func normalizeOptional(v *float64) float64 {
	if v == nil {
		return DefaultWindowSeconds
	}
	return NormalizeWindowSeconds(*v)
}
