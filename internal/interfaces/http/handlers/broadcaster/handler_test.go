package broadcaster

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/rollcall/internal/application/broadcast/services"
	"github.com/orris-inc/rollcall/internal/application/broadcast/usecases"
	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/domain/session"
	"github.com/orris-inc/rollcall/internal/infrastructure/scheduler"
	"github.com/orris-inc/rollcall/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

var t0 = time.Unix(1_760_000_000, 0).UTC()

func newTestHandler(start usecases.StartSessionExecutor, closeUC usecases.CloseSessionExecutor) (*Handler, *services.Current, *services.LatestSink) {
	current := services.NewCurrent()
	latest := services.NewLatestSink()
	if start == nil {
		start = &mockStartSessionUseCase{}
	}
	if closeUC == nil {
		closeUC = &mockCloseSessionUseCase{}
	}
	return NewHandler(start, closeUC, current, latest, logger.NewNop()), current, latest
}

func startBroadcaster(t *testing.T, current *services.Current, sink services.PayloadSink) *services.Broadcaster {
	t.Helper()
	sched := scheduler.NewManualScheduler(t0)
	radius := 40.0
	sess, err := session.Reconstruct("S1", "sec", session.Policy{
		QRRefreshIntervalSeconds: 10,
		TokenWindowSeconds:       20,
		AllowedRadiusMeters:      &radius,
	}, t0.Add(2*time.Minute), session.StatusActive)
	require.NoError(t, err)

	b, err := services.NewBroadcaster(sess, sched, sched, sink, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, b.Start(context.Background()))
	current.Swap(b)
	t.Cleanup(b.Stop)
	return b
}

func TestStartSession(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		var got usecases.StartSessionCommand
		h, _, _ := newTestHandler(&mockStartSessionUseCase{
			ExecuteFunc: func(_ context.Context, cmd usecases.StartSessionCommand) (*usecases.StartSessionResult, error) {
				got = cmd
				return &usecases.StartSessionResult{SessionID: "S1", Status: "ACTIVE"}, nil
			},
		}, nil)

		c, w := testutil.NewTestContext(http.MethodPost, "/api/broadcaster/sessions", map[string]any{
			"qrRefreshIntervalSeconds": 10,
			"tokenWindowSeconds":       20,
			"allowedRadiusMeters":      40,
			"durationMinutes":          10,
			"teacherLat":               12.97,
			"teacherLng":               77.59,
		})
		h.StartSession(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 40, got.Request.AllowedRadiusMeters)

		var data usecases.StartSessionResult
		resp, err := testutil.DecodeData(w, &data)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "S1", data.SessionID)
	})

	t.Run("malformed body", func(t *testing.T) {
		called := false
		h, _, _ := newTestHandler(&mockStartSessionUseCase{
			ExecuteFunc: func(context.Context, usecases.StartSessionCommand) (*usecases.StartSessionResult, error) {
				called = true
				return nil, nil
			},
		}, nil)

		c, w := testutil.NewRawTestContext(http.MethodPost, "/api/broadcaster/sessions", "{not json")
		h.StartSession(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, called)
		resp, err := testutil.DecodeData(w, nil)
		require.NoError(t, err)
		assert.Equal(t, "malformed_input", resp.Error.Type)
	})

	t.Run("use case error", func(t *testing.T) {
		h, _, _ := newTestHandler(&mockStartSessionUseCase{
			ExecuteFunc: func(context.Context, usecases.StartSessionCommand) (*usecases.StartSessionResult, error) {
				return nil, errors.NewTransportError("authority unreachable")
			},
		}, nil)

		c, w := testutil.NewTestContext(http.MethodPost, "/api/broadcaster/sessions", map[string]any{"durationMinutes": 10})
		h.StartSession(c)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestGetPayload(t *testing.T) {
	t.Run("nothing running", func(t *testing.T) {
		h, _, _ := newTestHandler(nil, nil)
		c, w := testutil.NewTestContext(http.MethodGet, "/api/broadcaster/payload", nil)
		h.GetPayload(c)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("latest payload", func(t *testing.T) {
		h, current, latest := newTestHandler(nil, nil)
		startBroadcaster(t, current, latest)

		c, w := testutil.NewTestContext(http.MethodGet, "/api/broadcaster/payload", nil)
		h.GetPayload(c)

		require.Equal(t, http.StatusOK, w.Code)
		var data PayloadResponse
		_, err := testutil.DecodeData(w, &data)
		require.NoError(t, err)
		assert.Equal(t, "S1", data.Payload.SessionID)

		decoded, ok := proof.Decode(data.Encoded)
		require.True(t, ok)
		assert.Equal(t, data.Payload.Token, decoded.Token)
	})

	t.Run("stale payload from another session", func(t *testing.T) {
		h, current, latest := newTestHandler(nil, nil)
		startBroadcaster(t, current, services.MultiSink{})
		require.NoError(t, latest.Publish(context.Background(), "x", proof.Payload{SessionID: "OLD"}))

		c, w := testutil.NewTestContext(http.MethodGet, "/api/broadcaster/payload", nil)
		h.GetPayload(c)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetStatus(t *testing.T) {
	h, current, latest := newTestHandler(nil, nil)
	startBroadcaster(t, current, latest)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/broadcaster/status", nil)
	h.GetStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	var data StatusResponse
	_, err := testutil.DecodeData(w, &data)
	require.NoError(t, err)
	assert.Equal(t, "S1", data.SessionID)
	assert.Equal(t, "ACTIVE", data.Status)
	assert.True(t, data.Running)
	assert.Equal(t, int64(1), data.PayloadsIssued)
	assert.Equal(t, int64(120), data.RemainingSeconds)
	assert.Equal(t, 10.0, data.QRRefreshIntervalSeconds)
}

func TestCloseSession(t *testing.T) {
	t.Run("closed", func(t *testing.T) {
		h, _, latest := newTestHandler(nil, &mockCloseSessionUseCase{
			ExecuteFunc: func(context.Context) (*usecases.CloseSessionResult, error) {
				return &usecases.CloseSessionResult{SessionID: "S1", Status: "CLOSED", PayloadsIssued: 3}, nil
			},
		})
		require.NoError(t, latest.Publish(context.Background(), "x", proof.Payload{SessionID: "S1"}))

		c, w := testutil.NewTestContext(http.MethodPost, "/api/broadcaster/close", nil)
		h.CloseSession(c)

		assert.Equal(t, http.StatusOK, w.Code)
		_, _, ok := latest.Latest()
		assert.False(t, ok)
	})

	t.Run("nothing running", func(t *testing.T) {
		h, _, _ := newTestHandler(nil, &mockCloseSessionUseCase{
			ExecuteFunc: func(context.Context) (*usecases.CloseSessionResult, error) {
				return nil, errors.NewNotFoundError("no session is being broadcast")
			},
		})

		c, w := testutil.NewTestContext(http.MethodPost, "/api/broadcaster/close", nil)
		h.CloseSession(c)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
