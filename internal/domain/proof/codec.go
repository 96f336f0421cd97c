package proof

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Encode renders p as the JSON text carried over the delivery channel.
// The version is always set to Version.
func Encode(p Payload) (string, error) {
	p.Version = Version
	if p.SessionID == "" {
		return "", ErrSessionIDRequired
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	return string(data), nil
}

// Decode parses scanned text. Any malformed input, a non-object value, or an
// unsupported version yields (nil, false); callers treat that as "not yet
// verified", never as a failure.
func Decode(raw string) (*Payload, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw[0] != '{' {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	if p.Version != Version {
		return nil, false
	}
	return &p, true
}
