package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/meridian-studio/contact-backend/src/services"
)

// Context keys set by AdminAuth
const (
	ContextAdminID  = "admin_id"
	ContextUsername = "username"
	ContextRole     = "role"
	ContextAdmin    = "admin"
)

// AdminProvider is the slice of the credential store the middleware needs to
// re-check the subject of a token
type AdminProvider interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	// Cookie fallback for the browser admin panel
	if cookie, err := c.Cookie("admin_token"); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}

// AdminAuth verifies the session token and re-checks the subject against the
// credential store on every request. Tokens have no revocation list, so the
// per-request active-flag check is what cuts off a deactivated admin before
// the token expires.
func AdminAuth(tokens *services.TokenService, admins AdminProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "Missing authentication token")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			if errors.Is(err, services.ErrExpiredToken) {
				abortUnauthorized(c, "Token expired")
			} else {
				abortUnauthorized(c, "Invalid token")
			}
			return
		}

		adminID, err := uuid.Parse(claims.AdminID)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		admin, err := admins.GetByID(c.Request.Context(), adminID)
		if err != nil || !admin.IsActive {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(ContextAdminID, admin.ID)
		c.Set(ContextUsername, admin.Username)
		c.Set(ContextRole, admin.Role)
		c.Set(ContextAdmin, admin)
		c.Next()
	}
}

// RequireRole gates a route on the authenticated admin's role. Must run
// after AdminAuth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, exists := c.Get(ContextRole)
		if !exists || current.(models.Role) != role {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Insufficient permissions",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentAdmin returns the authenticated admin stored by AdminAuth
func CurrentAdmin(c *gin.Context) (*models.Admin, bool) {
	v, exists := c.Get(ContextAdmin)
	if !exists {
		return nil, false
	}
	admin, ok := v.(*models.Admin)
	return admin, ok
}
