// Package broadcaster exposes the teacher-side session controls over HTTP.
package broadcaster

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/rollcall/internal/application/broadcast/services"
	"github.com/orris-inc/rollcall/internal/application/broadcast/usecases"
	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/infrastructure/authority"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
	"github.com/orris-inc/rollcall/internal/shared/utils"
)

// Handler serves the broadcaster endpoints.
type Handler struct {
	startUC usecases.StartSessionExecutor
	closeUC usecases.CloseSessionExecutor
	current *services.Current
	latest  *services.LatestSink
	logger  logger.Interface
}

// NewHandler creates a broadcaster handler. latest must be the sink the start
// use case publishes into.
func NewHandler(
	startUC usecases.StartSessionExecutor,
	closeUC usecases.CloseSessionExecutor,
	current *services.Current,
	latest *services.LatestSink,
	logger logger.Interface,
) *Handler {
	return &Handler{
		startUC: startUC,
		closeUC: closeUC,
		current: current,
		latest:  latest,
		logger:  logger,
	}
}

// PayloadResponse is the latest encoded QR payload.
type PayloadResponse struct {
	Encoded string        `json:"encoded"`
	Payload proof.Payload `json:"payload"`
}

// StatusResponse describes the running broadcaster.
type StatusResponse struct {
	SessionID                string    `json:"sessionId"`
	Status                   string    `json:"status"`
	EndTime                  time.Time `json:"endTime"`
	RemainingSeconds         int64     `json:"remainingSeconds"`
	Running                  bool      `json:"running"`
	PayloadsIssued           int64     `json:"payloadsIssued"`
	QRRefreshIntervalSeconds float64   `json:"qrRefreshIntervalSeconds"`
	TokenWindowSeconds       float64   `json:"tokenWindowSeconds"`
	AllowedRadiusMeters      *float64  `json:"allowedRadiusMeters"`
}

// StartSession handles POST /api/broadcaster/sessions
func (h *Handler) StartSession(c *gin.Context) {
	var req authority.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for start session", "error", err)
		utils.ErrorResponseWithError(c, errors.NewMalformedInputError("invalid request body", err.Error()))
		return
	}

	result, err := h.startUC.Execute(c.Request.Context(), usecases.StartSessionCommand{Request: req})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "session started")
}

// GetPayload handles GET /api/broadcaster/payload
func (h *Handler) GetPayload(c *gin.Context) {
	b := h.current.Get()
	if b == nil {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("no session is being broadcast"))
		return
	}

	encoded, payload, ok := h.latest.Latest()
	if !ok || payload.SessionID != b.SessionID() {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("no payload issued yet"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", &PayloadResponse{Encoded: encoded, Payload: payload})
}

// GetStatus handles GET /api/broadcaster/status
func (h *Handler) GetStatus(c *gin.Context) {
	b := h.current.Get()
	if b == nil {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("no session is being broadcast"))
		return
	}

	view := b.View()
	utils.SuccessResponse(c, http.StatusOK, "", &StatusResponse{
		SessionID:                view.SessionID,
		Status:                   view.Status.String(),
		EndTime:                  view.EndTime,
		RemainingSeconds:         int64(b.Remaining().Seconds()),
		Running:                  b.Running(),
		PayloadsIssued:           b.Issued(),
		QRRefreshIntervalSeconds: view.Policy.QRRefreshIntervalSeconds,
		TokenWindowSeconds:       view.Policy.TokenWindowSeconds,
		AllowedRadiusMeters:      view.Policy.AllowedRadiusMeters,
	})
}

// CloseSession handles POST /api/broadcaster/close
func (h *Handler) CloseSession(c *gin.Context) {
	result, err := h.closeUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.latest.Reset()
	utils.SuccessResponse(c, http.StatusOK, "session closed", result)
}
