package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/kernel/kerneltest"
	"git.sr.ht/~aondrejcak/pos-api/middleware"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

func engine(art *kernel.AppRuntime) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger(), middleware.TracerMiddleware(art))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	g := r.Group("/")
	g.Use(middleware.Authenticated(art)...)
	g.Use(middleware.ActivityLogger())
	g.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": kernel.FromContext(c).User.ID})
	})
	g.POST("/touch", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	g.GET("/admin", middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestTracerMiddlewareRequestID(t *testing.T) {
	art := kerneltest.Runtime(t)
	r := engine(art)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	w = kerneltest.Do(r, http.MethodGet, "/ping", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"pong":true}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	art := kerneltest.Runtime(t)

	w := kerneltest.Do(engine(art), http.MethodGet, "/panic", "", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "a panic occurred")
}

func TestAuthenticated(t *testing.T) {
	art := kerneltest.Runtime(t)
	r := engine(art)

	active := kerneltest.User(t, art, models.RoleStaff)
	suspended := kerneltest.User(t, art, models.RoleStaff)
	require.NoError(t, art.DatabaseClient.Model(suspended).Update("status", models.StatusSuspended).Error)

	cases := []struct {
		name  string
		token string
		code  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"active user", kerneltest.Token(t, art, active), http.StatusOK},
		{"suspended user", kerneltest.Token(t, art, suspended), http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := kerneltest.Do(r, http.MethodGet, "/whoami", tc.token, nil)
			assert.Equal(t, tc.code, w.Code, w.Body.String())
		})
	}
}

func TestAuthenticatedRejectsRevokedToken(t *testing.T) {
	art := kerneltest.Runtime(t)
	r := engine(art)

	user := kerneltest.User(t, art, models.RoleStaff)
	token := kerneltest.Token(t, art, user)
	require.Equal(t, http.StatusOK, kerneltest.Do(r, http.MethodGet, "/whoami", token, nil).Code)

	require.NoError(t, art.Revoked.Revoke(art.Context, token, time.Now().Add(time.Hour)))

	w := kerneltest.Do(r, http.MethodGet, "/whoami", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestRequireRole(t *testing.T) {
	art := kerneltest.Runtime(t)
	r := engine(art)

	staff := kerneltest.User(t, art, models.RoleStaff)
	admin := kerneltest.User(t, art, models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, kerneltest.Do(r, http.MethodGet, "/admin", kerneltest.Token(t, art, staff), nil).Code)
	assert.Equal(t, http.StatusOK, kerneltest.Do(r, http.MethodGet, "/admin", kerneltest.Token(t, art, admin), nil).Code)
}

func TestActivityLogger(t *testing.T) {
	art := kerneltest.Runtime(t)
	r := engine(art)

	user := kerneltest.User(t, art, models.RoleStaff)
	token := kerneltest.Token(t, art, user)

	kerneltest.Do(r, http.MethodGet, "/whoami", token, nil)
	kerneltest.Do(r, http.MethodPost, "/touch", token, nil)

	var entries []models.ActivityLog
	require.NoError(t, art.DatabaseClient.Where("user_id = ?", user.ID).Find(&entries).Error)
	require.Len(t, entries, 1, "reads are not recorded")
	assert.Equal(t, http.MethodPost, entries[0].Method)
	assert.Equal(t, "/touch", entries[0].Path)
	assert.Equal(t, http.StatusNoContent, entries[0].Status)
}
