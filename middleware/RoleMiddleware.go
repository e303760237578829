package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"git.sr.ht/~aondrejcak/pos-api/assert"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
)

// RequireRole rejects users whose role is not one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rt := kernel.FromContext(c)
		assert.NotNil(rt.User, "role middleware used without authentication")

		if !rt.User.HasRole(roles...) {
			rt.Ef(http.StatusForbidden, "forbidden: requires one of the roles %v", roles)
			return
		}
		c.Next()
	}
}
