// Package device describes the verifier device that signs attendance proofs.
package device

import (
	"context"
	"errors"
)

// ErrIdentityUnavailable is returned when neither a stored nor a fresh device id can be produced.
var ErrIdentityUnavailable = errors.New("device identity unavailable")

// Fingerprint is the device metadata attached to every submitted proof.
type Fingerprint struct {
	DeviceID         string `json:"deviceId"`
	UserAgent        string `json:"userAgent"`
	ScreenResolution string `json:"screenResolution"`
}

// IdentityStore persists the opaque device identifier.
type IdentityStore interface {
	// GetOrCreateDeviceID returns the stored device id, generating and persisting
	// a new one on first use. Subsequent calls return the same value.
	GetOrCreateDeviceID(ctx context.Context) (string, error)
}
