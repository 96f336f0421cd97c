package proof

import (
	"math"
	"strconv"
)

// DefaultWindowSeconds applies whenever a configured window is unusable.
const DefaultWindowSeconds = 20

// NormalizeWindowSeconds returns s, or DefaultWindowSeconds when s is not a
// positive finite number.
func NormalizeWindowSeconds(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return DefaultWindowSeconds
	}
	return s
}

// WindowIndex is floor(nowSeconds / windowSeconds).
func WindowIndex(nowSeconds, windowSeconds float64) int64 {
	return int64(math.Floor(nowSeconds / NormalizeWindowSeconds(windowSeconds)))
}

// WithinTolerance reports whether got is at most tolerance windows away from want.
// Differences are taken on the larger side first so extreme values cannot wrap.
func WithinTolerance(got, want, tolerance int64) bool {
	if tolerance < 0 {
		return false
	}
	if got >= want {
		d := got - want
		return d >= 0 && d <= tolerance
	}
	d := want - got
	return d >= 0 && d <= tolerance
}

// DeriveToken binds a session to one time window using the broadcaster's secret.
// It is pure: identical inputs always yield the identical token.
func DeriveToken(sessionID string, window int64, secret string) string {
	return digest(sessionID, strconv.FormatInt(window, 10), secret)
}

// VerifyToken checks token against the derivation for window. Only a holder of
// the secret can call it meaningfully.
func VerifyToken(sessionID string, window int64, secret, token string) bool {
	return equalDigest(DeriveToken(sessionID, window, secret), token)
}

// DeriveCommitment binds a token to the student and device submitting it.
func DeriveCommitment(studentID, sessionID, token, deviceID string) string {
	return digest(studentID, sessionID, token, deviceID)
}
