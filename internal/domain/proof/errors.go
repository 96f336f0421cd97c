package proof

import "errors"

var (
	// ErrDuplicateAttempt indicates a proof for the same student and session is already queued
	ErrDuplicateAttempt = errors.New("duplicate attempt: proof already saved offline")

	// ErrSessionIDRequired indicates a payload or record without a session id
	ErrSessionIDRequired = errors.New("session id is required")

	// ErrStudentIDRequired indicates a record without a student id
	ErrStudentIDRequired = errors.New("student id is required")

	// ErrPayloadIncomplete indicates the scanned payload lacks its session, token or window
	ErrPayloadIncomplete = errors.New("scan the session payload first")
)
