package verification

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/orris-inc/rollcall/internal/domain/proof"
)

const (
	IssueCaptureLocation    = "Capture location"
	IssueAnchorMissing      = "Session anchor missing"
	IssueInvalidLocation    = "Invalid location sample"
	IssueAccuracyUnknown    = "GPS accuracy unknown"
	IssueCaptureTimeUnknown = "Location capture time unknown"
)

// GeofencePolicy is the subset of a session's policy that constrains location.
type GeofencePolicy struct {
	AnchorLat         *float64
	AnchorLng         *float64
	RadiusMeters      *float64
	MaxAccuracyMeters *float64
	MaxAgeSeconds     *float64
}

// GeofencePolicyFromPayload reads the echoed policy fields of a payload.
func GeofencePolicyFromPayload(p *proof.Payload) GeofencePolicy {
	return GeofencePolicy{
		AnchorLat:         p.TeacherLat,
		AnchorLng:         p.TeacherLng,
		RadiusMeters:      p.AllowedRadiusMeters,
		MaxAccuracyMeters: p.MaxGPSAccuracyMeters,
		MaxAgeSeconds:     p.LocationMaxAgeSeconds,
	}
}

// GeofenceResult lists every failing condition, never only the first.
type GeofenceResult struct {
	OK              bool
	DistanceMeters  *float64
	Issues          []string
	LocationMissing bool
}

// GeofenceEvaluator applies radius, accuracy and age limits to one location sample.
type GeofenceEvaluator struct {
	defaultRadius float64
}

// NewGeofenceEvaluator uses defaultRadius when a policy leaves the radius unset.
// A non-positive default falls back to 50 meters.
func NewGeofenceEvaluator(defaultRadius float64) *GeofenceEvaluator {
	if !(defaultRadius > 0) || math.IsInf(defaultRadius, 0) {
		defaultRadius = 50
	}
	return &GeofenceEvaluator{defaultRadius: defaultRadius}
}

// Evaluate never fails; a missing sample is reported as LocationMissing.
func (e *GeofenceEvaluator) Evaluate(policy GeofencePolicy, loc *proof.Location, now time.Time) GeofenceResult {
	if loc == nil {
		return GeofenceResult{Issues: []string{IssueCaptureLocation}, LocationMissing: true}
	}
	if !loc.Valid() {
		return GeofenceResult{Issues: []string{IssueInvalidLocation}}
	}

	var res GeofenceResult
	ok := true

	radius := e.defaultRadius
	if policy.RadiusMeters != nil {
		radius = *policy.RadiusMeters
	}

	switch {
	case policy.AnchorLat == nil || policy.AnchorLng == nil:
		ok = false
		res.Issues = append(res.Issues, IssueAnchorMissing)
	case math.IsNaN(radius) || radius < 0:
		ok = false
		res.Issues = append(res.Issues, fmt.Sprintf("Invalid radius policy (%sm)", formatNumber(radius)))
	default:
		d := DistanceMeters(*policy.AnchorLat, *policy.AnchorLng, loc.Lat, loc.Lng)
		res.DistanceMeters = &d
		if d > radius {
			ok = false
			res.Issues = append(res.Issues, fmt.Sprintf("Outside radius (%sm)", formatNumber(radius)))
		}
	}

	if limit := policy.MaxAccuracyMeters; limit != nil {
		switch {
		case loc.AccuracyMeters == nil:
			ok = false
			res.Issues = append(res.Issues, IssueAccuracyUnknown)
		case *loc.AccuracyMeters > *limit:
			ok = false
			res.Issues = append(res.Issues, fmt.Sprintf("GPS accuracy too low (>%sm)", formatNumber(*limit)))
		}
	}

	if limit := policy.MaxAgeSeconds; limit != nil {
		if loc.CapturedAt.IsZero() {
			ok = false
			res.Issues = append(res.Issues, IssueCaptureTimeUnknown)
		} else if age := math.Abs(now.Sub(loc.CapturedAt).Seconds()); age > *limit {
			ok = false
			res.Issues = append(res.Issues, fmt.Sprintf("Location too old (>%ss)", formatNumber(*limit)))
		}
	}

	res.OK = ok
	return res
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
