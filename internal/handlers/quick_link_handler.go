package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kkadvisory/member-portal-service/internal/services"
	"github.com/kkadvisory/member-portal-service/internal/utils"
	"github.com/kkadvisory/member-portal-service/internal/validator"
)

type QuickLinkHandler struct {
	BaseHandler
	service services.QuickLinkService
}

func NewQuickLinkHandler(service services.QuickLinkService, logger utils.Logger) *QuickLinkHandler {
	return &QuickLinkHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== QUICK LINK ENDPOINTS =====

// ListQuickLinks lists all quick links
// @Summary List quick links
// @Description Get all quick links ordered by sort order
// @Tags quick-links
// @Accept json
// @Produce json
// @Success 200 {array} models.QuickLink
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /quick-links [get]
func (h *QuickLinkHandler) ListQuickLinks(c *gin.Context) {
	h.LogRequest(c, "Listing quick links")

	links, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, links)
}

// CreateQuickLink creates a quick link
// @Summary Create a quick link
// @Description Create a new quick link (administrators only)
// @Tags quick-links
// @Accept json
// @Produce json
// @Param link body services.QuickLinkCreateRequest true "Quick link data"
// @Success 201 {object} models.QuickLink
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /quick-links [post]
func (h *QuickLinkHandler) CreateQuickLink(c *gin.Context) {
	var req services.QuickLinkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	caller := GetCallerFromContext(c)
	h.LogRequest(c, "Creating quick link", "title", req.Title)

	link, err := h.service.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// UpdateQuickLink updates a quick link
// @Summary Update a quick link
// @Description Update an existing quick link (administrators only)
// @Tags quick-links
// @Accept json
// @Produce json
// @Param id path int true "Quick link ID"
// @Param link body services.QuickLinkUpdateRequest true "Quick link fields to update"
// @Success 200 {object} models.QuickLink
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /quick-links/{id} [put]
func (h *QuickLinkHandler) UpdateQuickLink(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req services.QuickLinkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating quick link", "quick_link_id", id)

	link, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// DeleteQuickLink deletes a quick link
// @Summary Delete a quick link
// @Description Delete a quick link (administrators only)
// @Tags quick-links
// @Accept json
// @Produce json
// @Param id path int true "Quick link ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /quick-links/{id} [delete]
func (h *QuickLinkHandler) DeleteQuickLink(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting quick link", "quick_link_id", id)

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quick link deleted",
	})
}

// ===== ERROR HANDLING =====

func (h *QuickLinkHandler) handleServiceError(c *gin.Context, err error) {
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
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
		})
	case errors.Is(err, services.ErrQuickLinkNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Quick link not found",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// ===== HELPER METHODS =====

func (h *QuickLinkHandler) parseIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid quick link ID",
			Details: idStr,
		})
		return 0, false
	}
	return uint(id), true
}
