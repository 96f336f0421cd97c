package proof

import "strings"

// StatusAccepted is the per-record verdict that allows local removal.
const StatusAccepted = "ACCEPTED"

// RecordResult is the authority's verdict for one submitted pair.
type RecordResult struct {
	StudentID string `json:"studentId"`
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
}

// Accepted compares Status to ACCEPTED ignoring case.
func (r RecordResult) Accepted() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), StatusAccepted)
}

func (r RecordResult) Key() Key {
	return Key{StudentID: r.StudentID, SessionID: r.SessionID}
}

// SyncOutcome is the authority's answer to one batch. It is never persisted.
type SyncOutcome struct {
	Accepted int            `json:"accepted"`
	Rejected int            `json:"rejected"`
	Results  []RecordResult `json:"results"`
	Message  string         `json:"message,omitempty"`
}

// HasPerRecordResults reports whether the authority named individual verdicts.
// An empty results array counts as no detail.
func (o *SyncOutcome) HasPerRecordResults() bool {
	return len(o.Results) > 0
}

// AcceptedKeys returns the pairs marked ACCEPTED.
func (o *SyncOutcome) AcceptedKeys() map[Key]struct{} {
	keys := make(map[Key]struct{}, len(o.Results))
	for _, r := range o.Results {
		if r.Accepted() {
			keys[r.Key()] = struct{}{}
		}
	}
	return keys
}
