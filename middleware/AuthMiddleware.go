package middleware

import (
	"net/http"

	"github.com/appleboy/gin-jwt/v2"
	"github.com/gin-gonic/gin"

	"git.sr.ht/~aondrejcak/pos-api/assert"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

// Authenticated is the chain every protected group uses: JWT verification,
// then loading the user behind the token.
func Authenticated(art *kernel.AppRuntime) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		art.JWT.MiddlewareFunc(),
		CurrentUser(art),
	}
}

func CurrentUser(art *kernel.AppRuntime) gin.HandlerFunc {
	return func(c *gin.Context) {
		rt := kernel.FromContext(c)
		rt.NewChildTracer("middleware.current_user").Advance()

		revoked, err := art.Revoked.Revoked(rt.SpanContext, jwt.GetToken(c))
		if err != nil {
			rt.Ef(http.StatusInternalServerError, "could not check token: %v", err)
			return
		}
		if revoked {
			rt.Ef(http.StatusUnauthorized, "unauthorized: token has been revoked")
			return
		}

		identity, _ := c.Get(art.IdentityKey)
		id, ok := identity.(*kernel.Identity)
		if !ok || id.UserID == 0 {
			rt.Ef(http.StatusUnauthorized, "unauthorized: invalid token")
			return
		}

		var user models.User
		found, err := rt.Find(&user, id.UserID)
		if !found {
			if err != nil {
				rt.Ef(http.StatusInternalServerError, "could not load user: %v", err)
				return
			}
			rt.Ef(http.StatusUnauthorized, "unauthorized: unknown user")
			return
		}
		if !user.Active() {
			rt.Ef(http.StatusForbidden, "forbidden: account is suspended")
			return
		}

		assert.IsNil(rt.User, "user %d loaded twice for one request", user.ID)
		rt.User = &user
		rt.Log = rt.Log.With().Uint("userId", user.ID).Logger()

		rt.EndBlock()
		c.Next()
	}
}
