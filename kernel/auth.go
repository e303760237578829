package kernel

import (
	"errors"
	"time"

	"github.com/appleboy/gin-jwt/v2"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/pos-api/models"
)

const loginUserKey = "login_user"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account suspended")
)

type LoginDto struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (dto LoginDto) Validate() error {
	return validation.ValidateStruct(&dto,
		validation.Field(&dto.Email, validation.Required, is.Email),
		validation.Field(&dto.Password, validation.Required),
	)
}

// Identity is what the JWT middleware stores under the identity key.
type Identity struct {
	UserID uint
	Role   string
}

func NewJWT(art *AppRuntime) (*jwt.GinJWTMiddleware, error) {
	return jwt.New(&jwt.GinJWTMiddleware{
		Realm:         art.Realm,
		Key:           art.SecretKey,
		IdentityKey:   art.IdentityKey,
		Timeout:       art.TokenTimeout,
		MaxRefresh:    art.TokenTimeout,
		TokenLookup:   "header: Authorization, query: token",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,

		Authenticator: func(c *gin.Context) (interface{}, error) {
			return authenticate(art, c)
		},
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if u, ok := data.(*models.User); ok {
				return jwt.MapClaims{
					art.IdentityKey: u.ID,
					"role":          u.Role,
					"email":         u.Email,
				}
			}
			return jwt.MapClaims{}
		},
		IdentityHandler: func(c *gin.Context) interface{} {
			claims := jwt.ExtractClaims(c)
			id, _ := claims[art.IdentityKey].(float64)
			role, _ := claims["role"].(string)
			return &Identity{UserID: uint(id), Role: role}
		},
		HTTPStatusMessageFunc: func(e error, _ *gin.Context) string {
			return e.Error()
		},
		Unauthorized: func(c *gin.Context, code int, message string) {
			c.AbortWithStatusJSON(code, gin.H{
				"message": "Unauthenticated",
				"error":   message,
			})
		},
		LoginResponse: func(c *gin.Context, code int, token string, expire time.Time) {
			user, _ := c.Get(loginUserKey)
			c.JSON(code, gin.H{
				"message": "Login successful",
				"token":   token,
				"expire":  expire.Format(time.RFC3339),
				"user":    user,
			})
		},
	})
}

func authenticate(art *AppRuntime, c *gin.Context) (interface{}, error) {
	var dto LoginDto
	if err := c.ShouldBind(&dto); err != nil {
		return nil, jwt.ErrMissingLoginValues
	}
	if err := dto.Validate(); err != nil {
		return nil, jwt.ErrMissingLoginValues
	}

	var user models.User
	err := art.DatabaseClient.WithContext(c.Request.Context()).
		Where("email = ?", dto.Email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("login lookup failed")
		return nil, err
	}

	if !VerifyPassword(dto.Password, user.PasswordHash) {
		log.Warn().Str("email", dto.Email).Msg("login with wrong password")
		return nil, ErrInvalidCredentials
	}
	if !user.Active() {
		return nil, ErrAccountSuspended
	}

	c.Set(loginUserKey, &user)
	log.Info().Uint("user_id", user.ID).Msg("user logged in")
	return &user, nil
}
