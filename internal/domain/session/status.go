package session

import "strings"

// Status is the lifecycle state of an attendance session.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusActive  Status = "ACTIVE"
	StatusClosed  Status = "CLOSED"
)

// ParseStatus normalizes the authority's status text. Unknown values map to PENDING.
func ParseStatus(s string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive
	case StatusClosed:
		return StatusClosed
	default:
		return StatusPending
	}
}

func (s Status) String() string {
	return string(s)
}
