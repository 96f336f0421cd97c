package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	end := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s, err := Reconstruct("S1", "k", Policy{TokenWindowSeconds: 20}, end, StatusActive)
	require.NoError(t, err)

	before := end.Add(-90 * time.Second)
	assert.True(t, s.IsLive(before))
	assert.Equal(t, 90*time.Second, s.Remaining(before))

	assert.True(t, s.IsExpired(end))
	assert.False(t, s.IsLive(end))
	assert.Equal(t, time.Duration(0), s.Remaining(end.Add(time.Minute)))

	s.Close()
	assert.Equal(t, StatusClosed, s.Status())
	assert.False(t, s.IsLive(before))
}

func TestSessionWithoutEndTimeNeverExpires(t *testing.T) {
	s, err := Reconstruct("S1", "", Policy{}, time.Time{}, StatusActive)
	require.NoError(t, err)
	assert.False(t, s.IsExpired(time.Now()))
	assert.False(t, s.HasSecret())
	assert.True(t, s.WithSecret("k").HasSecret())
	assert.False(t, s.HasSecret())
}

func TestReconstructRequiresID(t *testing.T) {
	_, err := Reconstruct("", "k", Policy{}, time.Time{}, StatusActive)
	assert.ErrorIs(t, err, ErrSessionIDRequired)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusActive, ParseStatus("active"))
	assert.Equal(t, StatusClosed, ParseStatus(" CLOSED "))
	assert.Equal(t, StatusPending, ParseStatus("whatever"))
}
