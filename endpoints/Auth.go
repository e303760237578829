package endpoints

import (
	"net/http"
	"time"

	"github.com/appleboy/gin-jwt/v2"
	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"git.sr.ht/~aondrejcak/pos-api/assert"
	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/endpoints/users"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

type RegisterDto struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (dto *RegisterDto) Validate(rt *kernel.RequestRuntime) error {
	return val.ValidateStruct(dto,
		val.Field(&dto.Name, val.Required, val.Length(1, 255)),
		val.Field(&dto.Email, val.Required, is.Email, val.Length(1, 255),
			crud.Unique(rt.DB, &models.User{}, "email", 0)),
		val.Field(&dto.Password, val.Required, val.Length(8, 0), users.Confirmed(dto.PasswordConfirmation)),
	)
}

// Register creates an active account with the plain user role and logs it in.
func Register(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("auth.register").Advance()

	var dto RegisterDto
	rt.BindJSON(&dto)
	if rt.Error != nil {
		rt.E(http.StatusBadRequest, rt.Error)
		return
	}
	if err := dto.Validate(rt); err != nil {
		rt.Invalid("Validation error registering user", err)
		return
	}

	hash, err := kernel.HashPassword(dto.Password)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "could not hash password: %v", err)
		return
	}

	user := models.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}
	if err := rt.DB.Create(&user).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not register user: %v", err)
		return
	}

	token, expire, err := rt.AppRuntime.JWT.TokenGenerator(&user)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "could not issue token: %v", err)
		return
	}

	rt.Log.Info().Uint("user_id", user.ID).Msg("user registered")
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    &user,
		"token":   token,
		"expire":  expire.Format(time.RFC3339),
	})
	rt.EndBlock()
}

// Logout revokes the bearer token until it expires.
func Logout(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("auth.logout").Advance()

	token := jwt.GetToken(c)
	assert.True(token != "", "logout without a token")

	until := time.Now().Add(rt.AppRuntime.TokenTimeout)
	if exp, ok := jwt.ExtractClaims(c)["exp"].(float64); ok {
		until = time.Unix(int64(exp), 0)
	}

	if err := rt.AppRuntime.Revoked.Revoke(rt.SpanContext, token, until); err != nil {
		rt.Ef(http.StatusInternalServerError, "could not revoke token: %v", err)
		return
	}

	rt.Log.Info().Uint("user_id", rt.User.ID).Msg("user logged out")
	rt.OK(http.StatusOK, "Successfully logged out", nil)
}

// Me returns the authenticated user.
func Me(c *gin.Context) {
	rt := kernel.FromContext(c)
	assert.NotNil(rt.User, "me without an authenticated user")

	c.JSON(http.StatusOK, users.WithPhotoURL(rt, rt.User))
}

// AddDefaultUser runs the default admin seed on demand.
func AddDefaultUser(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("auth.add_default_user").Advance()

	admin, err := rt.AppRuntime.Seed(rt.DB)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "could not create default user: %v", err)
		return
	}
	if admin == nil {
		rt.OK(http.StatusOK, "Default admin already exists", nil)
		return
	}

	rt.OK(http.StatusCreated, "Default admin created successfully", admin)
}
