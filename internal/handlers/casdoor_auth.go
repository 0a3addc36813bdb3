package handlers

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/kkadvisory/member-portal-service/internal/config"
	"github.com/kkadvisory/member-portal-service/internal/services"
)

// CasdoorAuthMiddleware provides authentication using Casdoor SDK
type CasdoorAuthMiddleware struct {
	client *casdoorsdk.Client
	config config.CasdoorConfig
}

// NewCasdoorAuthMiddleware creates a new Casdoor authentication middleware
func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)

	return &CasdoorAuthMiddleware{
		client: client,
		config: cfg,
	}
}

// AuthMiddleware returns a Gin middleware function for Casdoor authentication
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authorization header missing or malformed",
			})
			c.Abort()
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid token",
			})
			c.Abort()
			return
		}

		if claims.User.Id == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "token carries no user id",
			})
			c.Abort()
			return
		}

		// Set user information in context
		c.Set("user_id", claims.User.Id)
		c.Set("user_email", claims.User.Email)

		c.Next()
	}
}

// OptionalAuthMiddleware provides optional authentication (user info if token present)
func (cam *CasdoorAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			// No usable token, continue anonymously
			c.Next()
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil || claims.User.Id == "" {
			// Invalid token, continue anonymously
			c.Next()
			return
		}

		c.Set("user_id", claims.User.Id)
		c.Set("user_email", claims.User.Email)

		c.Next()
	}
}

// RequireAdminMiddleware checks the caller against the allow-list and the
// stored admin flag. Must run after AuthMiddleware.
func (cam *CasdoorAuthMiddleware) RequireAdminMiddleware(provisioning services.ProvisioningService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := GetCallerFromContext(c)
		if caller == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authentication required",
			})
			c.Abort()
			return
		}

		if !provisioning.IsAdmin(c.Request.Context(), caller) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "administrator access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return "", false
	}

	return tokenParts[1], true
}

// GetCallerFromContext extracts the authenticated caller from the Gin
// context. Returns nil for anonymous requests.
func GetCallerFromContext(c *gin.Context) *services.Caller {
	userID, exists := c.Get("user_id")
	if !exists {
		return nil
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return nil
	}

	email, _ := c.Get("user_email")
	emailStr, _ := email.(string)

	return &services.Caller{ID: id, Email: emailStr}
}
