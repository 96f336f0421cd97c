package verification

import (
	"time"

	"github.com/orris-inc/rollcall/internal/domain/proof"
)

const (
	IssueScanQR              = "Scan QR"
	IssueWindowMismatch      = "Token time-window mismatch (refresh QR)"
	IssueQRStale             = "QR is old (refresh QR)"
	IssueTokenMissing        = "Token missing"
	IssueCorroborationAbsent = "Corroboration signal not detected"

	// DefaultWindowTolerance is how many windows of skew freshness allows.
	DefaultWindowTolerance = 1

	maxScore = 100
)

// Signals are the verifier-side observations that accompany a scan.
// Any of them may be absent.
type Signals struct {
	Location              *proof.Location
	CorroborationDetected bool
}

// Assessment is the scorer's decision. Issues aggregate every reason for display.
type Assessment struct {
	OK              bool     `json:"ok"`
	Score           int      `json:"score"`
	Issues          []string `json:"issues"`
	DistanceMeters  *float64 `json:"distanceMeters"`
	FreshnessOK     bool     `json:"freshnessOk"`
	LocationMissing bool     `json:"locationMissing"`
}

// Scorer fuses token freshness, geofence and corroboration into a bounded score.
// Freshness is a hard gate: a stale payload is rejected regardless of score.
type Scorer struct {
	geofence  *GeofenceEvaluator
	weights   Weights
	tolerance int64
}

func NewScorer(geofence *GeofenceEvaluator, weights Weights, tolerance int64) *Scorer {
	if tolerance < 0 {
		tolerance = DefaultWindowTolerance
	}
	return &Scorer{
		geofence:  geofence,
		weights:   weights.OrDefault(),
		tolerance: tolerance,
	}
}

// Assess never fails. A nil payload yields a zero score with a single "Scan QR" issue.
func (s *Scorer) Assess(p *proof.Payload, sig Signals, now time.Time) Assessment {
	if p == nil {
		return Assessment{Issues: []string{IssueScanQR}}
	}

	var issues []string
	nowSec := float64(now.Unix())

	fresh := true
	if p.WindowTime == nil || !proof.WithinTolerance(*p.WindowTime, proof.WindowIndex(nowSec, p.TokenWindow()), s.tolerance) {
		fresh = false
		issues = append(issues, IssueWindowMismatch)
	}
	if p.QRTime == nil || !proof.WithinTolerance(*p.QRTime, proof.WindowIndex(nowSec, p.QRRefreshInterval()), s.tolerance) {
		fresh = false
		issues = append(issues, IssueQRStale)
	}

	geo := s.geofence.Evaluate(GeofencePolicyFromPayload(p), sig.Location, now)
	issues = append(issues, geo.Issues...)

	score := 0
	if p.Token != "" {
		score += s.weights.Token
	} else {
		issues = append(issues, IssueTokenMissing)
	}
	if sig.CorroborationDetected {
		score += s.weights.Corroboration
	} else {
		issues = append(issues, IssueCorroborationAbsent)
	}
	if geo.OK {
		score += s.weights.Geofence
	}
	score = clamp(score, 0, maxScore)

	if issues == nil {
		issues = []string{}
	}

	return Assessment{
		OK:              fresh && score >= s.weights.Threshold,
		Score:           score,
		Issues:          issues,
		DistanceMeters:  geo.DistanceMeters,
		FreshnessOK:     fresh,
		LocationMissing: geo.LocationMissing,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
