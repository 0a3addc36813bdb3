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

type ProfileHandler struct {
	BaseHandler
	service services.ProfileService
}

func NewProfileHandler(service services.ProfileService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== PROFILE ENDPOINTS =====

// ListProfiles lists the member directory
// @Summary List member profiles
// @Description Get a paginated list of member profiles with optional search
// @Tags profiles
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param q query string false "Search query (name or email)"
// @Success 200 {object} services.ProfileListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	h.LogRequest(c, "Listing profiles")

	page, size := parsePagination(c)

	response, err := h.service.List(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetProfile retrieves a profile by ID
// @Summary Get profile by ID
// @Description Get a member profile by its identity id
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.Profile
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profileID := c.Param("id")
	if profileID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Profile ID is required",
		})
		return
	}

	h.LogRequest(c, "Getting profile", "profile_id", profileID)

	profile, err := h.service.Get(c.Request.Context(), profileID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates a profile
// @Summary Update a profile
// @Description Update a member profile. Members may edit their own profile; administrators may edit anyone's.
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param profile body services.ProfileUpdateRequest true "Profile fields to update"
// @Success 200 {object} models.Profile
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/{id} [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	profileID := c.Param("id")
	if profileID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Profile ID is required",
		})
		return
	}

	var req services.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	caller := GetCallerFromContext(c)
	h.LogRequest(c, "Updating profile", "profile_id", profileID)

	profile, err := h.service.Update(c.Request.Context(), profileID, &req, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ===== ERROR HANDLING =====

func (h *ProfileHandler) handleServiceError(c *gin.Context, err error) {
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
	case errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Profile not found",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// ===== HELPER METHODS =====

// parsePagination reads page/size query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page := 1
	size := 20

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	return page, size
}
