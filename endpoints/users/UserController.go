package users

import (
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/middleware"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

const photoDir = "user_photos"

func RegisterController(rg *gin.RouterGroup) {
	admins := middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin)

	g := rg.Group("/users")
	g.POST("", admins, Create)
	g.GET("", Index)
	g.POST("/change-password", ChangePassword)
	g.PUT("/update-profile", UpdateProfile)
	g.PUT("/:id/role", admins, UpdateRole)
	g.PUT("/:id/status", UpdateStatus)
	g.DELETE("/:id", admins, Destroy)
	g.GET("/:id/activity-log", ActivityLog)
	g.POST("/:id/enable-2fa", Enable2FA)
}

// WithPhotoURL fills the public photo url of u.
func WithPhotoURL(rt *kernel.RequestRuntime, u *models.User) *models.User {
	if u.Photo != nil && rt.AppRuntime.Storage != nil {
		u.PhotoURL = rt.AppRuntime.Storage.URL(*u.Photo)
	}
	return u
}

func Create(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("users.create").Advance()

	rt.Log.Info().Msg("create user request received")

	var dto CreateUserDto
	if err := c.ShouldBind(&dto); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}
	photo, _ := c.FormFile("photo")
	if err := withPhoto(dto.Validate(rt.DB), photo); err != nil {
		rt.Invalid("Validation error creating user", err)
		return
	}

	hash, err := kernel.HashPassword(dto.Password)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "User creation failed: %v", err)
		return
	}

	user := models.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         dto.Role,
		Status:       dto.Status,
	}

	if photo != nil {
		path, err := storePhoto(rt, photo)
		if err != nil {
			rt.Ef(http.StatusInternalServerError, "User creation failed: %v", err)
			return
		}
		user.Photo = &path
	}

	if err := rt.DB.Create(&user).Error; err != nil {
		if user.Photo != nil {
			rt.S(rt.AppRuntime.Storage.Delete(rt.SpanContext, *user.Photo))
		}
		rt.Ef(http.StatusInternalServerError, "User creation failed: %v", err)
		return
	}

	rt.Log.Info().Uint("user_id", user.ID).Msg("user created successfully")
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": WithPhotoURL(rt, &user)})
	rt.EndBlock()
}

// Index lists users 10 per page, filtered by ?role= and ?status=.
func Index(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("users.index").Advance()

	q := rt.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "Failed to retrieve users: %v", err)
		return
	}

	page, size := kernel.Paginate(c, kernel.DefaultPerPage)
	var users []models.User
	if err := q.Order("id asc").Offset((page - 1) * size).Limit(size).Find(&users).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "Failed to retrieve users: %v", err)
		return
	}
	for i := range users {
		WithPhotoURL(rt, &users[i])
	}

	c.JSON(http.StatusOK, gin.H{"users": kernel.NewPage(users, page, size, total)})
	rt.EndBlock()
}

func UpdateRole(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("users.update_role").Advance()

	user, ok := load(rt)
	if !ok {
		return
	}

	var dto RoleDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.Invalid("Validation error updating user role", err)
		return
	}

	user.Role = dto.Role
	if err := rt.DB.Model(user).Update("role", user.Role).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "Failed to update user role: %v", err)
		return
	}

	rt.Log.Info().Uint("user_id", user.ID).Str("role", dto.Role).Msg("user role updated")
	c.JSON(http.StatusOK, gin.H{"message": "User role updated successfully", "user": WithPhotoURL(rt, user)})
	rt.EndBlock()
}

func UpdateStatus(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("users.update_status").Advance()

	user, ok := load(rt)
	if !ok {
		return
	}

	var dto StatusDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.Invalid("Validation error updating user status", err)
		return
	}

	user.Status = dto.Status
	if err := rt.DB.Model(user).Update("status", user.Status).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "Failed to update user status: %v", err)
		return
	}

	rt.Log.Info().Uint("user_id", user.ID).Str("status", dto.Status).Msg("user status updated")
	c.JSON(http.StatusOK, gin.H{"message": "User status updated successfully", "user": WithPhotoURL(rt, user)})
	rt.EndBlock()
}

func Destroy(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("users.destroy").Advance()

	user, ok := load(rt)
	if !ok {
		return
	}

	if user.Photo != nil {
		if err := rt.AppRuntime.Storage.Delete(rt.SpanContext, *user.Photo); err != nil {
			rt.Ef(http.StatusInternalServerError, "Failed to delete user: %v", err)
			return
		}
	}
	if err := rt.DB.Delete(user).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "Failed to delete user: %v", err)
		return
	}

	rt.Log.Info().Uint("user_id", user.ID).Msg("user deleted")
	rt.OK(http.StatusOK, "User deleted successfully", nil)
}

func ChangePassword(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("users.change_password").Advance()

	var dto ChangePasswordDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.Invalid("Validation error updating password", err)
		return
	}

	user := rt.User
	if !kernel.VerifyPassword(dto.CurrentPassword, user.PasswordHash) {
		rt.Invalid("Validation error updating password", kernel.FieldError("current_password", "Current password is incorrect"))
		return
	}

	hash, err := kernel.HashPassword(dto.NewPassword)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "Failed to update password: %v", err)
		return
	}
	user.PasswordHash = hash
	if err := rt.DB.Model(user).Update("password_hash", hash).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "Failed to update password: %v", err)
		return
	}

	rt.Log.Info().Uint("user_id", user.ID).Msg("password changed")
	rt.OK(http.StatusOK, "Password updated successfully", nil)
}

func UpdateProfile(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("users.update_profile").Advance()

	var dto ProfileDto
	if err := c.ShouldBind(&dto); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}
	user := rt.User
	photo, _ := c.FormFile("photo")
	if err := withPhoto(dto.Validate(rt.DB, user.ID), photo); err != nil {
		rt.Invalid("Validation error updating profile", err)
		return
	}

	if dto.Name != nil && *dto.Name != "" {
		user.Name = *dto.Name
	}
	if dto.Email != nil && *dto.Email != "" {
		user.Email = *dto.Email
	}

	old := user.Photo
	if photo != nil {
		path, err := storePhoto(rt, photo)
		if err != nil {
			rt.Ef(http.StatusInternalServerError, "Failed to update profile: %v", err)
			return
		}
		user.Photo = &path
	}

	if err := rt.DB.Save(user).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "Failed to update profile: %v", err)
		return
	}
	if photo != nil && old != nil {
		rt.S(rt.AppRuntime.Storage.Delete(rt.SpanContext, *old))
	}

	rt.Log.Info().Uint("user_id", user.ID).Msg("profile updated")
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": WithPhotoURL(rt, user)})
	rt.EndBlock()
}

// ActivityLog pages through the recorded mutations of a user. Users may
// read their own log, admins any.
func ActivityLog(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("users.activity_log").Advance()

	user, ok := load(rt)
	if !ok {
		return
	}
	if user.ID != rt.User.ID && !rt.User.HasRole(models.RoleAdmin, models.RoleSuperadmin) {
		rt.Ef(http.StatusForbidden, "forbidden: cannot read another user's activity")
		return
	}

	q := rt.DB.Model(&models.ActivityLog{}).Where("user_id = ?", user.ID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not count activity: %v", err)
		return
	}

	page, size := kernel.Paginate(c, kernel.DefaultPerPage)
	var entries []models.ActivityLog
	if err := q.Order("id desc").Offset((page - 1) * size).Limit(size).Find(&entries).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not fetch activity: %v", err)
		return
	}

	rt.OK(http.StatusOK, "Activity log fetched successfully", kernel.NewPage(entries, page, size, total))
}

func Enable2FA(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("users.enable_2fa").Advance()

	if _, ok := load(rt); !ok {
		return
	}

	rt.OK(http.StatusOK, "2FA feature coming soon", nil)
}

func storePhoto(rt *kernel.RequestRuntime, photo *multipart.FileHeader) (string, error) {
	f, err := photo.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return rt.AppRuntime.Storage.Put(rt.SpanContext, photoDir, filepath.Base(photo.Filename), f)
}

func load(rt *kernel.RequestRuntime) (*models.User, bool) {
	id, err := crud.ParseID(rt.RequestContext)
	if err != nil {
		rt.Ef(http.StatusNotFound, "user not found")
		return nil, false
	}

	var user models.User
	found, err := rt.Find(&user, id)
	if !found {
		if err != nil {
			rt.Ef(http.StatusInternalServerError, "could not fetch user: %v", err)
			return nil, false
		}
		rt.Ef(http.StatusNotFound, "user with ID '%d' does not exist", id)
		return nil, false
	}
	return &user, true
}
