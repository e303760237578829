package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

// ActivityLogger records every mutating request of an authenticated user.
func ActivityLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return
		}

		rt := kernel.FromContext(c)
		if rt.User == nil {
			return
		}

		entry := models.ActivityLog{
			UserID: rt.User.ID,
			Action: c.FullPath(),
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Status: c.Writer.Status(),
			IP:     c.ClientIP(),
		}
		if err := rt.AppRuntime.DatabaseClient.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
			rt.Log.Error().Err(err).Msg("could not record activity")
		}
	}
}
