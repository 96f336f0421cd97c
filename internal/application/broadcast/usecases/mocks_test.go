package usecases

import (
	"context"

	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/infrastructure/authority"
)

type mockSessionAuthority struct {
	StartSessionFunc   func(ctx context.Context, req *authority.StartSessionRequest) (*authority.SessionResponse, error)
	GetTeacherViewFunc func(ctx context.Context, sessionID string) (*authority.SessionResponse, error)
	CloseSessionFunc   func(ctx context.Context, sessionID string) (*authority.SessionResponse, error)

	teacherViewCalls int
}

func (m *mockSessionAuthority) StartSession(ctx context.Context, req *authority.StartSessionRequest) (*authority.SessionResponse, error) {
	if m.StartSessionFunc != nil {
		return m.StartSessionFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockSessionAuthority) GetTeacherView(ctx context.Context, sessionID string) (*authority.SessionResponse, error) {
	m.teacherViewCalls++
	if m.GetTeacherViewFunc != nil {
		return m.GetTeacherViewFunc(ctx, sessionID)
	}
	return &authority.SessionResponse{SessionID: sessionID}, nil
}

func (m *mockSessionAuthority) CloseSession(ctx context.Context, sessionID string) (*authority.SessionResponse, error) {
	if m.CloseSessionFunc != nil {
		return m.CloseSessionFunc(ctx, sessionID)
	}
	return &authority.SessionResponse{SessionID: sessionID, Status: "CLOSED"}, nil
}

type mockSink struct {
	OnPublish func(payload proof.Payload)

	published int
}

func (m *mockSink) Publish(_ context.Context, _ string, payload proof.Payload) error {
	m.published++
	if m.OnPublish != nil {
		m.OnPublish(payload)
	}
	return nil
}
