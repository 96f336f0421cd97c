package session

// DefaultRadiusMeters applies when a session does not configure a radius.
const DefaultRadiusMeters = 50

// Policy is the verification policy a session publishes with every payload.
// Nil means not configured.
type Policy struct {
	QRRefreshIntervalSeconds float64
	TokenWindowSeconds       float64
	AllowedRadiusMeters      *float64
	MaxGPSAccuracyMeters     *float64
	LocationMaxAgeSeconds    *float64
	AnchorLat                *float64
	AnchorLng                *float64
}
