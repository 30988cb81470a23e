package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meridian-studio/contact-backend/src/middleware"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/meridian-studio/contact-backend/src/services"
)

// AuthHandler handles admin authentication operations
type AuthHandler struct {
	admins *services.AdminService
	tokens *services.TokenService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(admins *services.AdminService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{admins: admins, tokens: tokens}
}

// adminSummary is the admin profile shape returned to clients (no hash)
type adminSummary struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FullName  string      `json:"fullName,omitempty"`
	Role      models.Role `json:"role"`
	LastLogin *time.Time  `json:"lastLogin"`
}

func summarize(admin *models.Admin) adminSummary {
	return adminSummary{
		ID:        admin.ID.String(),
		Username:  admin.Username,
		Email:     admin.Email,
		FullName:  admin.FullName,
		Role:      admin.Role,
		LastLogin: admin.LastLogin,
	}
}

// LoginRequest represents the login body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleLogin authenticates an admin and returns a session token
func (ah *AuthHandler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	admin, err := ah.admins.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	token, expiresAt, err := ah.tokens.Issue(admin.ID, admin.Username, admin.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Cookie for the browser admin panel; API clients use the bearer token
	c.SetCookie(
		"admin_token",
		token,
		int(time.Until(expiresAt).Seconds()),
		"/",
		"",
		true, // Secure
		true, // HttpOnly
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"admin":   summarize(admin),
	})
}

// RegisterRequest represents the admin registration body
type RegisterRequest struct {
	Username string      `json:"username" binding:"required"`
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	FullName string      `json:"fullName"`
	Role     models.Role `json:"role"`
}

// HandleRegister creates a new admin account (super_admin only, enforced by
// route middleware)
func (ah *AuthHandler) HandleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	admin, err := ah.admins.CreateAdmin(c.Request.Context(), services.CreateAdminInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"admin":   summarize(admin),
	})
}

// HandleMe returns the authenticated admin's profile
func (ah *AuthHandler) HandleMe(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Missing authentication token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"admin":   summarize(admin),
	})
}

// ChangePasswordRequest represents the change-password body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// HandleChangePassword re-verifies the current password, then stores the new
// one
func (ah *AuthHandler) HandleChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Missing authentication token")
		return
	}

	if err := ah.admins.ChangePassword(c.Request.Context(), admin.ID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated",
	})
}

// HandleLogout clears the cookie. Sessions are stateless; the token itself
// stays valid until expiry.
func (ah *AuthHandler) HandleLogout(c *gin.Context) {
	c.SetCookie(
		"admin_token",
		"",
		-1,
		"/",
		"",
		true, // Secure
		true, // HttpOnly
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}
