package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kkadvisory/member-portal-service/internal/services"
	"github.com/kkadvisory/member-portal-service/internal/utils"
	"github.com/kkadvisory/member-portal-service/internal/validator"
)

type ProvisioningHandler struct {
	BaseHandler
	service services.ProvisioningService
}

func NewProvisioningHandler(service services.ProvisioningService, logger utils.Logger) *ProvisioningHandler {
	return &ProvisioningHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== PROVISIONING ENDPOINTS =====

// CreateInvitation invites a new member
// @Summary Invite a new member
// @Description Validate the candidate, issue credentials at the identity provider and eagerly write a provisional profile
// @Tags invitations
// @Accept json
// @Produce json
// @Param invitation body services.InviteRequest true "Invitation data"
// @Success 201 {object} services.InviteResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Member already exists"
// @Failure 502 {object} ErrorResponse "Identity provider failure"
// @Router /invitations [post]
func (h *ProvisioningHandler) CreateInvitation(c *gin.Context) {
	var req services.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	caller := GetCallerFromContext(c)
	h.LogRequest(c, "Creating invitation", "email", req.Email, "caller", callerLogID(caller))

	response, err := h.service.Invite(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// MaterializeProfile creates the caller's profile on first sign-in
// @Summary Materialize the caller's profile
// @Description Create the directory profile for the authenticated member, reconciling invitation metadata with sign-in metadata. Idempotent.
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body services.MaterializeRequest true "Sign-in identity data"
// @Success 201 {object} services.MaterializeResponse
// @Success 200 {object} services.MaterializeResponse "Profile already existed"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Claimed user id does not match the token"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/materialize [post]
func (h *ProvisioningHandler) MaterializeProfile(c *gin.Context) {
	caller := GetCallerFromContext(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	var req services.MaterializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Materializing profile", "user_id", caller.ID)

	profile, err := h.service.Materialize(c.Request.Context(), &req, caller.ID)
	if err != nil {
		// Already materialized is a success from the client's point of view.
		if errors.Is(err, services.ErrProfileExists) {
			c.JSON(http.StatusOK, services.MaterializeResponse{
				Success: true,
				Profile: nil,
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, services.MaterializeResponse{
		Success: true,
		Profile: profile,
	})
}

// ===== ERROR HANDLING =====

func (h *ProvisioningHandler) handleServiceError(c *gin.Context, err error) {
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
	case errors.Is(err, services.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "A member with this email already exists",
		})
	case errors.Is(err, services.ErrIdentityProvider):
		h.LogError(c, err, "Identity provider failure")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Identity provider request failed",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

func callerLogID(caller *services.Caller) string {
	if caller == nil {
		return "anonymous"
	}
	return caller.ID
}
