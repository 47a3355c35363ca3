package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"crmbackend/internal/apperr"
	"crmbackend/internal/models"
	"crmbackend/internal/token"
)

const userContextKey = "authUser"

// Auth resolves the bearer token to a live customer and attaches the
// identity to the request context. The login route is mounted outside this
// middleware; everything else fails closed with 401, never with a partially
// attached identity.
func Auth(gdb *gorm.DB, verifier token.Verifier, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			abort(c, apperr.Unauthorized("Authentication required"))
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, apperr.Unauthorized("Invalid token"))
			return
		}

		claims, err := verifier.Verify(parts[1])
		if err != nil {
			log.Debug().Err(err).Msg("token verification failed")
			abort(c, apperr.Unauthorized("Invalid token"))
			return
		}

		// The token only proves who the caller was at issue time; the row is
		// re-read so soft-deleted accounts lose access immediately.
		var user models.AuthUser
		err = gdb.WithContext(c.Request.Context()).
			Table("customers").
			Select("id, email, position_id").
			Where("id = ?", claims.UserID).
			Where("deleted_at IS NULL").
			Take(&user).Error
		if err != nil {
			abort(c, apperr.Unauthorized("Invalid or expired token"))
			return
		}

		c.Set(userContextKey, &user)
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// UserFrom returns the identity attached by Auth, if any.
func UserFrom(c *gin.Context) *models.AuthUser {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.AuthUser)
	if !ok {
		return nil
	}
	return user
}
