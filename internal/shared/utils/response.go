package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/rollcall/internal/shared/errors"
)

// APIResponse is the envelope every local agent endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func CreatedResponse(c *gin.Context, data interface{}, message ...string) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Message: "Created",
	}
	if len(message) > 0 {
		response.Message = message[0]
	}
	c.JSON(http.StatusCreated, response)
}

// ErrorResponseWithError renders err by its AppError type. Other errors are
// reported as internal without exposing their text.
func ErrorResponseWithError(c *gin.Context, err error) {
	statusCode, info := errorInfo(err)
	c.JSON(statusCode, APIResponse{Success: false, Error: &info})
}

// ErrorResponseWithData is ErrorResponseWithError for failures that still
// carry a structured result.
func ErrorResponseWithData(c *gin.Context, err error, data interface{}) {
	statusCode, info := errorInfo(err)
	c.JSON(statusCode, APIResponse{Success: false, Data: data, Error: &info})
}

func errorInfo(err error) (int, ErrorInfo) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		return http.StatusInternalServerError, ErrorInfo{
			Type:    string(errors.ErrorTypeInternal),
			Message: "Internal server error occurred",
		}
	}
	return appErr.Code, ErrorInfo{
		Type:    string(appErr.Type),
		Message: appErr.Message,
		Details: appErr.Details,
	}
}

func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
