package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kkadvisory/member-portal-service/internal/services"
	"github.com/kkadvisory/member-portal-service/internal/utils"
	"github.com/kkadvisory/member-portal-service/internal/validator"
)

type FeedbackHandler struct {
	BaseHandler
	service services.FeedbackService
}

func NewFeedbackHandler(service services.FeedbackService, logger utils.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== FEEDBACK ENDPOINTS =====

// SubmitFeedback submits feedback from a member
// @Summary Submit feedback
// @Description Submit a feedback entry attributed to the authenticated member
// @Tags feedback
// @Accept json
// @Produce json
// @Param feedback body services.FeedbackCreateRequest true "Feedback data"
// @Success 201 {object} models.Feedback
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req services.FeedbackCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	caller := GetCallerFromContext(c)
	h.LogRequest(c, "Submitting feedback", "subject", req.Subject)

	feedback, err := h.service.Submit(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// ListFeedback lists feedback entries
// @Summary List feedback
// @Description Get a paginated list of feedback entries (administrators only)
// @Tags feedback
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.FeedbackListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /feedback [get]
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	h.LogRequest(c, "Listing feedback")

	page, size := parsePagination(c)

	response, err := h.service.List(c.Request.Context(), page, size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ===== ERROR HANDLING =====

func (h *FeedbackHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrors):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "Validation failed",
			"validation_errors": validationErrors,
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication required",
		})
	case errors.Is(err, services.ErrFeedbackNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Feedback not found",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
