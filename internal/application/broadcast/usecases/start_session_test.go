package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/rollcall/internal/application/broadcast/services"
	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/infrastructure/authority"
	"github.com/orris-inc/rollcall/internal/infrastructure/scheduler"
	"github.com/orris-inc/rollcall/internal/shared/biztime"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

var testNow = time.Unix(1_760_000_000, 0).UTC()

func validRequest() authority.StartSessionRequest {
	lat, lng := 12.97, 77.59
	return authority.StartSessionRequest{
		QRRefreshIntervalSeconds: 10,
		TokenWindowSeconds:       20,
		AllowedRadiusMeters:      50,
		DurationMinutes:          30,
		TeacherLat:               &lat,
		TeacherLng:               &lng,
	}
}

func activeResponse(secret string) *authority.SessionResponse {
	lat, lng, radius := 12.97, 77.59, 50.0
	return &authority.SessionResponse{
		SessionID:                "S1",
		SessionSecret:            secret,
		QRRefreshIntervalSeconds: 10,
		TokenWindowSeconds:       20,
		AllowedRadiusMeters:      &radius,
		TeacherLat:               &lat,
		TeacherLng:               &lng,
		EndTime:                  biztime.Instant{Time: testNow.Add(30 * time.Minute)},
		Status:                   "ACTIVE",
	}
}

func TestStartSessionUseCase_Execute(t *testing.T) {
	sched := scheduler.NewManualScheduler(testNow)
	sink := &mockSink{}
	current := services.NewCurrent()
	auth := &mockSessionAuthority{
		StartSessionFunc: func(ctx context.Context, req *authority.StartSessionRequest) (*authority.SessionResponse, error) {
			assert.Equal(t, 30, req.DurationMinutes)
			return activeResponse("sec"), nil
		},
	}

	uc := NewStartSessionUseCase(auth, current, sched, sched, sink, logger.NewNop())
	result, err := uc.Execute(context.Background(), StartSessionCommand{Request: validRequest()})
	require.NoError(t, err)

	assert.Equal(t, "S1", result.SessionID)
	assert.Equal(t, "ACTIVE", result.Status)
	assert.Equal(t, 0, auth.teacherViewCalls)
	assert.Equal(t, 1, sink.published)
	assert.Same(t, result.Broadcaster, current.Get())
	assert.Equal(t, 30*time.Minute, result.Broadcaster.Remaining())
}

func TestStartSessionUseCase_FetchesSecretFromTeacherView(t *testing.T) {
	sched := scheduler.NewManualScheduler(testNow)
	auth := &mockSessionAuthority{
		StartSessionFunc: func(context.Context, *authority.StartSessionRequest) (*authority.SessionResponse, error) {
			return activeResponse(""), nil
		},
		GetTeacherViewFunc: func(_ context.Context, id string) (*authority.SessionResponse, error) {
			assert.Equal(t, "S1", id)
			return activeResponse("from-view"), nil
		},
	}

	uc := NewStartSessionUseCase(auth, services.NewCurrent(), sched, sched, &mockSink{}, logger.NewNop())
	result, err := uc.Execute(context.Background(), StartSessionCommand{Request: validRequest()})
	require.NoError(t, err)
	assert.Equal(t, 1, auth.teacherViewCalls)
	assert.True(t, result.Broadcaster.Running())
}

func TestStartSessionUseCase_NoSecretAnywhere(t *testing.T) {
	sched := scheduler.NewManualScheduler(testNow)
	auth := &mockSessionAuthority{
		StartSessionFunc: func(context.Context, *authority.StartSessionRequest) (*authority.SessionResponse, error) {
			return activeResponse(""), nil
		},
	}

	uc := NewStartSessionUseCase(auth, services.NewCurrent(), sched, sched, &mockSink{}, logger.NewNop())
	_, err := uc.Execute(context.Background(), StartSessionCommand{Request: validRequest()})
	require.Error(t, err)
	assert.Equal(t, 0, sched.Active())
}

func TestStartSessionUseCase_ValidationBeforeNetwork(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *authority.StartSessionRequest)
	}{
		{"refresh too short", func(r *authority.StartSessionRequest) { r.QRRefreshIntervalSeconds = 4 }},
		{"window too long", func(r *authority.StartSessionRequest) { r.TokenWindowSeconds = 121 }},
		{"radius too large", func(r *authority.StartSessionRequest) { r.AllowedRadiusMeters = 501 }},
		{"duration too long", func(r *authority.StartSessionRequest) { r.DurationMinutes = 241 }},
		{"missing latitude", func(r *authority.StartSessionRequest) { r.TeacherLat = nil }},
		{"latitude out of range", func(r *authority.StartSessionRequest) { bad := 91.0; r.TeacherLat = &bad }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			auth := &mockSessionAuthority{
				StartSessionFunc: func(context.Context, *authority.StartSessionRequest) (*authority.SessionResponse, error) {
					called = true
					return activeResponse("sec"), nil
				},
			}
			req := validRequest()
			tt.mutate(&req)

			sched := scheduler.NewManualScheduler(testNow)
			uc := NewStartSessionUseCase(auth, services.NewCurrent(), sched, sched, &mockSink{}, logger.NewNop())
			_, err := uc.Execute(context.Background(), StartSessionCommand{Request: req})

			assert.True(t, errors.IsValidationError(err), "got %v", err)
			assert.False(t, called)
		})
	}
}

func TestStartSessionUseCase_ReplacesRunningBroadcaster(t *testing.T) {
	sched := scheduler.NewManualScheduler(testNow)
	current := services.NewCurrent()
	auth := &mockSessionAuthority{
		StartSessionFunc: func(context.Context, *authority.StartSessionRequest) (*authority.SessionResponse, error) {
			return activeResponse("sec"), nil
		},
	}
	uc := NewStartSessionUseCase(auth, current, sched, sched, &mockSink{}, logger.NewNop())

	first, err := uc.Execute(context.Background(), StartSessionCommand{Request: validRequest()})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), StartSessionCommand{Request: validRequest()})
	require.NoError(t, err)

	assert.False(t, first.Broadcaster.Running())
	assert.True(t, second.Broadcaster.Running())
	assert.Same(t, second.Broadcaster, current.Get())
}

func TestStartSessionUseCase_ClosedSessionIsNotBroadcast(t *testing.T) {
	sched := scheduler.NewManualScheduler(testNow)
	auth := &mockSessionAuthority{
		StartSessionFunc: func(context.Context, *authority.StartSessionRequest) (*authority.SessionResponse, error) {
			resp := activeResponse("sec")
			resp.Status = "CLOSED"
			return resp, nil
		},
	}
	uc := NewStartSessionUseCase(auth, services.NewCurrent(), sched, sched, &mockSink{}, logger.NewNop())

	_, err := uc.Execute(context.Background(), StartSessionCommand{Request: validRequest()})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypePolicyViolation, appErr.Type)
}

func TestStartSessionUseCase_PreviousStopsBeforeNewEmits(t *testing.T) {
	sched := scheduler.NewManualScheduler(testNow)
	current := services.NewCurrent()
	ids := []string{"S1", "S2"}
	auth := &mockSessionAuthority{
		StartSessionFunc: func(context.Context, *authority.StartSessionRequest) (*authority.SessionResponse, error) {
			resp := activeResponse("sec")
			resp.SessionID = ids[0]
			ids = ids[1:]
			return resp, nil
		},
	}

	var first *services.Broadcaster
	var bySession []string
	sink := &mockSink{
		OnPublish: func(p proof.Payload) {
			bySession = append(bySession, p.SessionID)
			if p.SessionID == "S2" {
				assert.False(t, first.Running(), "S1 still running while S2 emits")
			}
		},
	}
	uc := NewStartSessionUseCase(auth, current, sched, sched, sink, logger.NewNop())

	res, err := uc.Execute(context.Background(), StartSessionCommand{Request: validRequest()})
	require.NoError(t, err)
	first = res.Broadcaster

	_, err = uc.Execute(context.Background(), StartSessionCommand{Request: validRequest()})
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, bySession)

	sched.Advance(10 * time.Second)
	assert.Equal(t, "S2", bySession[len(bySession)-1])
	assert.NotContains(t, bySession[2:], "S1")
}

func TestStartSessionUseCase_NotLiveKeepsRunningBroadcaster(t *testing.T) {
	sched := scheduler.NewManualScheduler(testNow)
	current := services.NewCurrent()
	closed := false
	auth := &mockSessionAuthority{
		StartSessionFunc: func(context.Context, *authority.StartSessionRequest) (*authority.SessionResponse, error) {
			resp := activeResponse("sec")
			if closed {
				resp.SessionID = "S2"
				resp.Status = "CLOSED"
			}
			return resp, nil
		},
	}
	uc := NewStartSessionUseCase(auth, current, sched, sched, &mockSink{}, logger.NewNop())

	first, err := uc.Execute(context.Background(), StartSessionCommand{Request: validRequest()})
	require.NoError(t, err)

	closed = true
	_, err = uc.Execute(context.Background(), StartSessionCommand{Request: validRequest()})
	require.Error(t, err)

	assert.True(t, first.Broadcaster.Running())
	assert.Same(t, first.Broadcaster, current.Get())
}
