package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/rollcall/internal/application/verify/usecases"
	"github.com/orris-inc/rollcall/internal/shared/logger"
	"github.com/orris-inc/rollcall/internal/shared/utils"
)

// SystemHandler serves liveness and device identity.
type SystemHandler struct {
	deviceUC usecases.GetDeviceExecutor
	logger   logger.Interface
}

func NewSystemHandler(deviceUC usecases.GetDeviceExecutor, logger logger.Interface) *SystemHandler {
	return &SystemHandler{deviceUC: deviceUC, logger: logger}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetDevice handles GET /api/device
func (h *SystemHandler) GetDevice(c *gin.Context) {
	fp, err := h.deviceUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to resolve device identity", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", fp)
}
