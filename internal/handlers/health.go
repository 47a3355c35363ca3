package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"crmbackend/internal/apperr"
)

// Health pings the database so load balancers can tell a live process with
// a dead storage connection apart from a healthy one.
func Health(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := gdb.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			_ = c.Error(apperr.ServiceUnavailable("Database unavailable"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
