package kernel

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/pos-api/models"
)

// Seed creates the default admin unless an admin or superadmin already exists.
func (art *AppRuntime) Seed(db *gorm.DB) (*models.User, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("role IN ?", []string{models.RoleAdmin, models.RoleSuperadmin}).
		Count(&count).Error
	if err != nil || count > 0 {
		return nil, err
	}

	password, err := HashPassword(art.DefaultAdminPassword)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		Name:         "Admin",
		Email:        art.DefaultAdminEmail,
		PasswordHash: password,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}

	log.Info().Str("email", admin.Email).Msg("created default admin")
	return admin, nil
}
