package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meridian-studio/contact-backend/src/services"
	"github.com/rs/zerolog/log"
)

// verboseErrors controls whether unexpected errors include detail in the
// response body. Enabled only outside production.
var verboseErrors bool

// SetVerboseErrors toggles error detail in 500 responses
func SetVerboseErrors(enabled bool) {
	verboseErrors = enabled
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// handleServiceError maps service-layer errors onto the HTTP error taxonomy.
// Anything unclassified is logged in full and surfaced as a generic 500.
func handleServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrInvalidToken):
		fail(c, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, services.ErrExpiredToken):
		fail(c, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, "Insufficient permissions")
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrConflict):
		fail(c, http.StatusConflict, "Username or email already exists")
	case errors.Is(err, services.ErrDuplicateSubmission):
		fail(c, http.StatusTooManyRequests, "Duplicate submission. Please wait before resubmitting.")
	case errors.Is(err, services.ErrRateLimited):
		fail(c, http.StatusTooManyRequests, "Too many submissions. Please try again later.")
	default:
		log.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Msg("unexpected error")
		message := "Internal server error"
		if verboseErrors {
			message = err.Error()
		}
		fail(c, http.StatusInternalServerError, message)
	}
}
