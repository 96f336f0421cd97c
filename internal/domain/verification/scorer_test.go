package verification

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/rollcall/internal/domain/proof"
)

// 1_760_000_000 is a multiple of 20, so window and refresh index are both 88_000_000.
var scoreNow = time.Unix(1_760_000_000, 0).UTC()

func freshPayload() *proof.Payload {
	return &proof.Payload{
		Version:                  proof.Version,
		SessionID:                "S1",
		WindowTime:               ptr(int64(88_000_000)),
		QRTime:                   ptr(int64(88_000_000)),
		Token:                    proof.DeriveToken("S1", 88_000_000, "k"),
		TokenWindowSeconds:       ptr(20.0),
		QRRefreshIntervalSeconds: ptr(20.0),
		AllowedRadiusMeters:      ptr(50.0),
		TeacherLat:               ptr(12.97),
		TeacherLng:               ptr(77.59),
	}
}

func newTestScorer() *Scorer {
	return NewScorer(NewGeofenceEvaluator(50), DefaultWeights(), DefaultWindowTolerance)
}

func TestScorerPerfectScan(t *testing.T) {
	a := newTestScorer().Assess(freshPayload(), Signals{
		Location:              &proof.Location{Lat: 12.97, Lng: 77.59},
		CorroborationDetected: true,
	}, scoreNow)

	assert.True(t, a.OK)
	assert.Equal(t, 100, a.Score)
	assert.Empty(t, a.Issues)
	assert.True(t, a.FreshnessOK)
	if assert.NotNil(t, a.DistanceMeters) {
		assert.Equal(t, 0.0, *a.DistanceMeters)
	}
}

func TestScorerFreshnessIsHardGate(t *testing.T) {
	sig := Signals{Location: &proof.Location{Lat: 12.97, Lng: 77.59}, CorroborationDetected: true}

	stale := freshPayload()
	stale.WindowTime = ptr(int64(88_000_000 - 2))
	a := newTestScorer().Assess(stale, sig, scoreNow)
	assert.False(t, a.OK)
	assert.Equal(t, 100, a.Score)
	assert.Equal(t, []string{IssueWindowMismatch}, a.Issues)

	oldQR := freshPayload()
	oldQR.QRTime = nil
	a = newTestScorer().Assess(oldQR, sig, scoreNow)
	assert.False(t, a.OK)
	assert.False(t, a.FreshnessOK)
	assert.Equal(t, []string{IssueQRStale}, a.Issues)
}

func TestScorerRejectsExtremeWindowValues(t *testing.T) {
	sig := Signals{CorroborationDetected: true}
	for _, w := range []int64{math.MinInt64 + 88_000_000, math.MaxInt64, math.MinInt64} {
		p := freshPayload()
		p.WindowTime = ptr(w)
		a := newTestScorer().Assess(p, sig, scoreNow)
		assert.False(t, a.FreshnessOK, "windowTime %d", w)
		assert.False(t, a.OK, "windowTime %d", w)
		assert.Contains(t, a.Issues, IssueWindowMismatch)
	}

	p := freshPayload()
	p.QRTime = ptr(int64(math.MinInt64 + 88_000_000))
	a := newTestScorer().Assess(p, sig, scoreNow)
	assert.False(t, a.FreshnessOK)
	assert.False(t, a.OK)
}

func TestScorerToleratesOneWindowSkew(t *testing.T) {
	p := freshPayload()
	p.WindowTime = ptr(int64(88_000_001))
	p.QRTime = ptr(int64(87_999_999))

	a := newTestScorer().Assess(p, Signals{CorroborationDetected: true}, scoreNow)

	assert.True(t, a.FreshnessOK)
	assert.True(t, a.OK)
	assert.Equal(t, 70, a.Score)
	assert.Equal(t, []string{IssueCaptureLocation}, a.Issues)
	assert.True(t, a.LocationMissing)
}

func TestScorerPartialSignals(t *testing.T) {
	tests := []struct {
		name      string
		payload   func() *proof.Payload
		sig       Signals
		wantScore int
		wantOK    bool
	}{
		{
			name:      "token and geofence without corroboration",
			payload:   freshPayload,
			sig:       Signals{Location: &proof.Location{Lat: 12.97, Lng: 77.59}},
			wantScore: 60,
			wantOK:    true,
		},
		{
			name:      "token only",
			payload:   freshPayload,
			wantScore: 30,
		},
		{
			name: "no token",
			payload: func() *proof.Payload {
				p := freshPayload()
				p.Token = ""
				return p
			},
			sig:       Signals{Location: &proof.Location{Lat: 12.97, Lng: 77.59}, CorroborationDetected: true},
			wantScore: 70,
			wantOK:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestScorer().Assess(tt.payload(), tt.sig, scoreNow)
			assert.Equal(t, tt.wantScore, a.Score)
			assert.Equal(t, tt.wantOK, a.OK)
		})
	}
}

func TestScorerNilPayload(t *testing.T) {
	a := newTestScorer().Assess(nil, Signals{CorroborationDetected: true}, scoreNow)
	assert.False(t, a.OK)
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, []string{IssueScanQR}, a.Issues)
}

func TestScorerClampsOversizedWeights(t *testing.T) {
	s := NewScorer(NewGeofenceEvaluator(50), Weights{Token: 90, Corroboration: 90, Geofence: 90, Threshold: 60}, 1)
	a := s.Assess(freshPayload(), Signals{Location: &proof.Location{Lat: 12.97, Lng: 77.59}, CorroborationDetected: true}, scoreNow)
	assert.Equal(t, 100, a.Score)
}
