// Package kerneltest builds runtimes backed by an in-memory SQLite database
// and issues tokens for request tests.
package kerneltest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

const Password = "password123"

// Runtime returns a prepared runtime with its own in-memory database and
// storage directory.
func Runtime(t *testing.T) *kernel.AppRuntime {
	t.Helper()

	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.Disabled)

	art, err := kernel.NewRuntime(map[string]string{
		"DATABASE_DRIVER":    "sqlite",
		"DATABASE_DSN":       "file:" + dbName(t) + "?mode=memory&cache=shared",
		"STORAGE_PATH":       t.TempDir(),
		"SEC_JWT_SECRET_KEY": "test-secret",
		"SEC_JWT_TIMEOUT":    "1h",
		"LOG_LEVEL":          "disabled",
	})
	require.NoError(t, err)
	require.NoError(t, art.Prepare())

	sqlDB, err := art.DatabaseClient.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return art
}

func dbName(t *testing.T) string {
	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name())
	return name + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// User stores an active user with the given role and Password.
func User(t *testing.T, art *kernel.AppRuntime, role string) *models.User {
	t.Helper()

	hash, err := kernel.HashPassword(Password)
	require.NoError(t, err)

	user := &models.User{
		Name:         strings.ToUpper(role[:1]) + role[1:],
		Email:        role + "-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: hash,
		Role:         role,
		Status:       models.StatusActive,
	}
	require.NoError(t, art.DatabaseClient.Create(user).Error)
	return user
}

// Token signs a bearer token for user.
func Token(t *testing.T, art *kernel.AppRuntime, user *models.User) string {
	t.Helper()

	token, _, err := art.JWT.TokenGenerator(user)
	require.NoError(t, err)
	return token
}

// Do sends body as JSON. A nil body sends no body.
func Do(h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// Upload sends a multipart form with fields and one file under fileField.
func Upload(h http.Handler, method, path, token string, fields map[string]string, fileField, fileName string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			panic(err)
		}
		_, _ = fw.Write(content)
	}
	_ = mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// JSON decodes the response body into a map.
func JSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
