package verification

// Weights are the score contributions of each corroboration signal and
// the score required for acceptance.
type Weights struct {
	Token         int
	Corroboration int
	Geofence      int
	Threshold     int
}

func DefaultWeights() Weights {
	return Weights{Token: 30, Corroboration: 40, Geofence: 30, Threshold: 60}
}

// OrDefault replaces an all-zero value with DefaultWeights.
func (w Weights) OrDefault() Weights {
	if w == (Weights{}) {
		return DefaultWeights()
	}
	return w
}
