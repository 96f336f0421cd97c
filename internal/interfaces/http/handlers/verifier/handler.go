// Package verifier exposes the student-side scan, queue and sync endpoints.
package verifier

import (
	"net/http"

	"github.com/gin-gonic/gin"

	syncUsecases "github.com/orris-inc/rollcall/internal/application/offlinesync/usecases"
	"github.com/orris-inc/rollcall/internal/application/verify/dto"
	verifyUsecases "github.com/orris-inc/rollcall/internal/application/verify/usecases"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
	"github.com/orris-inc/rollcall/internal/shared/utils"
)

type Handler struct {
	assessUC verifyUsecases.AssessScanExecutor
	recordUC verifyUsecases.RecordAttendanceExecutor
	listUC   syncUsecases.ListPendingExecutor
	removeUC syncUsecases.RemovePendingExecutor
	clearUC  syncUsecases.ClearPendingExecutor
	syncUC   syncUsecases.SyncPendingExecutor
	logger   logger.Interface
}

func NewHandler(
	assessUC verifyUsecases.AssessScanExecutor,
	recordUC verifyUsecases.RecordAttendanceExecutor,
	listUC syncUsecases.ListPendingExecutor,
	removeUC syncUsecases.RemovePendingExecutor,
	clearUC syncUsecases.ClearPendingExecutor,
	syncUC syncUsecases.SyncPendingExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		assessUC: assessUC,
		recordUC: recordUC,
		listUC:   listUC,
		removeUC: removeUC,
		clearUC:  clearUC,
		syncUC:   syncUC,
		logger:   logger,
	}
}

// Assess handles POST /api/verifier/assess
// A failed assessment is still a 200; the verdict is in the body.
func (h *Handler) Assess(c *gin.Context) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for assess", "error", err)
		utils.ErrorResponseWithError(c, errors.NewMalformedInputError("invalid request body", err.Error()))
		return
	}

	result, err := h.assessUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// RecordAttendance handles POST /api/verifier/attendance
func (h *Handler) RecordAttendance(c *gin.Context) {
	var req dto.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for record attendance", "error", err)
		utils.ErrorResponseWithError(c, errors.NewMalformedInputError("invalid request body", err.Error()))
		return
	}

	result, err := h.recordUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if !result.Accepted {
		utils.ErrorResponseWithData(c, errors.NewPolicyViolationError("scan did not pass verification"), result)
		return
	}

	utils.CreatedResponse(c, result, "attendance recorded")
}

// ListPending handles GET /api/verifier/pending
func (h *Handler) ListPending(c *gin.Context) {
	result, err := h.listUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// RemovePending handles DELETE /api/verifier/pending/:id
func (h *Handler) RemovePending(c *gin.Context) {
	if err := h.removeUC.Execute(c.Request.Context(), c.Param("id")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ClearPending handles DELETE /api/verifier/pending
func (h *Handler) ClearPending(c *gin.Context) {
	result, err := h.clearUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "pending records cleared", result)
}

// Sync handles POST /api/verifier/sync
func (h *Handler) Sync(c *gin.Context) {
	result, err := h.syncUC.Execute(c.Request.Context())
	if err != nil {
		if result != nil {
			utils.ErrorResponseWithData(c, err, result)
			return
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result.Message, result)
}
