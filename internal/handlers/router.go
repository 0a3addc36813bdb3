package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kkadvisory/member-portal-service/internal/config"
	"github.com/kkadvisory/member-portal-service/internal/services"
	"github.com/kkadvisory/member-portal-service/internal/utils"
)

type HandlerManager struct {
	provisioningHandler *ProvisioningHandler
	profileHandler      *ProfileHandler
	quickLinkHandler    *QuickLinkHandler
	feedbackHandler     *FeedbackHandler
	adminHandler        *AdminHandler
	authMiddleware      *CasdoorAuthMiddleware
	serviceManager      services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig)

	return &HandlerManager{
		provisioningHandler: NewProvisioningHandler(serviceManager.Provisioning(), logger),
		profileHandler:      NewProfileHandler(serviceManager.Profile(), logger),
		quickLinkHandler:    NewQuickLinkHandler(serviceManager.QuickLink(), logger),
		feedbackHandler:     NewFeedbackHandler(serviceManager.Feedback(), logger),
		adminHandler:        NewAdminHandler(serviceManager.Export(), logger),
		authMiddleware:      authMiddleware,
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	requireAdmin := hm.authMiddleware.RequireAdminMiddleware(hm.serviceManager.Provisioning())

	v1 := router.Group("/api/v1")
	{
		// Invitation issuance carries optional auth: the service itself
		// decides via the bootstrap exception whether an anonymous caller
		// may invite.
		invitations := v1.Group("/invitations")
		invitations.Use(hm.authMiddleware.OptionalAuthMiddleware())
		{
			invitations.POST("", hm.provisioningHandler.CreateInvitation)
		}

		// Profile routes
		profiles := v1.Group("/profiles")
		profiles.Use(hm.authMiddleware.AuthMiddleware())
		{
			profiles.POST("/materialize", hm.provisioningHandler.MaterializeProfile)
			profiles.GET("", hm.profileHandler.ListProfiles)
			profiles.GET("/:id", hm.profileHandler.GetProfile)
			profiles.PUT("/:id", hm.profileHandler.UpdateProfile)
		}

		// Quick link routes - reads for all members, mutations for admins
		quickLinks := v1.Group("/quick-links")
		quickLinks.Use(hm.authMiddleware.AuthMiddleware())
		{
			quickLinks.GET("", hm.quickLinkHandler.ListQuickLinks)
			quickLinks.POST("", requireAdmin, hm.quickLinkHandler.CreateQuickLink)
			quickLinks.PUT("/:id", requireAdmin, hm.quickLinkHandler.UpdateQuickLink)
			quickLinks.DELETE("/:id", requireAdmin, hm.quickLinkHandler.DeleteQuickLink)
		}

		// Feedback routes - submission for all members, listing for admins
		feedback := v1.Group("/feedback")
		feedback.Use(hm.authMiddleware.AuthMiddleware())
		{
			feedback.POST("", hm.feedbackHandler.SubmitFeedback)
			feedback.GET("", requireAdmin, hm.feedbackHandler.ListFeedback)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.AuthMiddleware(), requireAdmin)
		{
			admin.GET("/roster/export", hm.adminHandler.ExportRoster)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "member-portal-service",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "member-portal-service",
		})
	})
}
