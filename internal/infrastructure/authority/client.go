// Package authority is the HTTP client of the remote attendance authority.
package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/utils/logutil"
)

// DefaultTimeout bounds every call unless overridden.
const DefaultTimeout = 20 * time.Second

// Client talks plain JSON to the authority; responses carry no envelope.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		if d > 0 {
			client.httpClient.Timeout = d
		}
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(client *Client) {
		client.token = token
	}
}

// NewClient creates a client for baseURL (e.g. "http://localhost:8080").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartSession opens a session. The response normally includes the one-time secret.
func (c *Client) StartSession(ctx context.Context, req *StartSessionRequest) (*SessionResponse, error) {
	var resp SessionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/session/start", req, &resp); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &resp, nil
}

// CloseSession ends a session.
func (c *Client) CloseSession(ctx context.Context, sessionID string) (*SessionResponse, error) {
	var resp SessionResponse
	path := "/api/session/" + url.PathEscape(sessionID) + "/close"
	if err := c.doRequest(ctx, http.MethodPut, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}
	return &resp, nil
}

// GetSession returns the public, secret-free view.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*SessionResponse, error) {
	var resp SessionResponse
	path := "/api/session/" + url.PathEscape(sessionID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &resp, nil
}

// GetTeacherView returns the secret-bearing view.
func (c *Client) GetTeacherView(ctx context.Context, sessionID string) (*SessionResponse, error) {
	var resp SessionResponse
	path := "/api/session/" + url.PathEscape(sessionID) + "/teacher-view?includeSecret=true"
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get teacher view: %w", err)
	}
	return &resp, nil
}

// ListAttendance lists attendance recorded for a session.
func (c *Client) ListAttendance(ctx context.Context, sessionID string) ([]AttendanceEntry, error) {
	var entries []AttendanceEntry
	path := "/api/attendance/session/" + url.PathEscape(sessionID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return entries, nil
}

// GetSummary returns the attendance summary of a session.
func (c *Client) GetSummary(ctx context.Context, sessionID string) (*SessionSummary, error) {
	var summary SessionSummary
	path := "/api/reports/session/" + url.PathEscape(sessionID) + "/summary"
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return &summary, nil
}

// SubmitOfflineBatch posts the submissions as a raw JSON array.
func (c *Client) SubmitOfflineBatch(ctx context.Context, batch []proof.Submission) (*proof.SyncOutcome, error) {
	var outcome proof.SyncOutcome
	if err := c.doRequest(ctx, http.MethodPost, "/api/offline-sync", batch, &outcome); err != nil {
		return nil, fmt.Errorf("offline sync: %w", err)
	}
	return &outcome, nil
}

// doRequest performs an HTTP request and decodes the response.
// Transport failures and non-2xx statuses become AppErrors.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewTransportError("authority unreachable", err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewTransportError("failed to read authority response", err.Error())
	}

	if err := statusError(resp.StatusCode, respBody); err != nil {
		return err
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return errors.NewTransportError("malformed authority response", err.Error())
	}
	return nil
}

func statusError(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	detail := fmt.Sprintf("status=%d body=%s", code, logutil.TruncateForLog(string(body), 200))
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewUnauthorizedError("authority rejected credentials", detail)
	case http.StatusNotFound:
		return errors.NewNotFoundError("not found at authority", detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.NewValidationError("authority rejected request", detail)
	default:
		return errors.NewTransportError("authority error", detail)
	}
}
