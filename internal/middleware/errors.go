package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"crmbackend/internal/apperr"
)

// ErrorHandler is the single boundary mapping typed failures to HTTP
// responses. Handlers and middleware attach errors with c.Error and write no
// body of their own on failure.
func ErrorHandler(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		// Validation failures win even when wrapped by something else.
		var validationErr *apperr.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validationErr.Errors})
			return
		}

		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			c.JSON(appErr.Status, gin.H{"message": appErr.Message})
			return
		}

		log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "ERROR"})
	}
}
