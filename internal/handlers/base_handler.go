package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kkadvisory/member-portal-service/internal/utils"
)

// ErrorResponse is the standard error envelope returned by all handlers.
type ErrorResponse struct {
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is the standard envelope for operations without a body.
type SuccessResponse struct {
	Message string `json:"message"`
}

// BaseHandler provides request-scoped logging shared by all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

// LogError logs a handler-level failure with the request-scoped logger.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c, h.logger).Error(msg, args...)
}
