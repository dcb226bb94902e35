package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

// respondError maps domain errors to status codes. Unknown errors are
// recorded on the context for the request logger and answered with a
// generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, domain.ErrStoreForbidden),
		errors.Is(err, domain.ErrUserInactive),
		errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
	case errors.Is(err, domain.ErrPartialMigration):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "the line was moved but the source list could not be updated; check both lists"})
	case errors.Is(err, domain.ErrTransportUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable, changes were not saved"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondOutcome writes a refused result as 409 and anything else with
// the given status.
func respondOutcome(c *gin.Context, outcome domain.Outcome, status int, body any) {
	if outcome.Refused {
		c.JSON(http.StatusConflict, body)
		return
	}
	c.JSON(status, body)
}
