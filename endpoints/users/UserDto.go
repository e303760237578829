package users

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	val "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

const maxPhotoSize = 2 << 20

var photoExtensions = []string{".jpeg", ".png", ".jpg", ".gif"}

type CreateUserDto struct {
	Name                 string `json:"name" form:"name"`
	Email                string `json:"email" form:"email"`
	Password             string `json:"password" form:"password"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation"`
	Role                 string `json:"role" form:"role"`
	Status               string `json:"status" form:"status"`
}

func (dto *CreateUserDto) Validate(db *gorm.DB) error {
	return val.ValidateStruct(dto,
		val.Field(&dto.Name, val.Required, val.Length(1, 255)),
		val.Field(&dto.Email, val.Required, is.Email, val.Length(1, 255),
			crud.Unique(db, &models.User{}, "email", 0)),
		val.Field(&dto.Password, val.Required, val.Length(8, 0), Confirmed(dto.PasswordConfirmation)),
		val.Field(&dto.Role, val.Required, val.In(models.Roles...)),
		val.Field(&dto.Status, val.Required, val.In(models.Statuses...)),
	)
}

type RoleDto struct {
	Role string `json:"role"`
}

func (dto RoleDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.Role, val.Required, val.In(models.Roles...)),
	)
}

type StatusDto struct {
	Status string `json:"status"`
}

func (dto StatusDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.Status, val.Required, val.In(models.Statuses...)),
	)
}

type ChangePasswordDto struct {
	CurrentPassword         string `json:"current_password"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

func (dto ChangePasswordDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.CurrentPassword, val.Required, val.Length(8, 0)),
		val.Field(&dto.NewPassword, val.Required, val.Length(8, 0), Confirmed(dto.NewPasswordConfirmation)),
	)
}

type ProfileDto struct {
	Name  *string `json:"name" form:"name"`
	Email *string `json:"email" form:"email"`
}

func (dto *ProfileDto) Validate(db *gorm.DB, id uint) error {
	return val.ValidateStruct(dto,
		val.Field(&dto.Name, val.Length(0, 255)),
		val.Field(&dto.Email, is.Email, val.Length(0, 255), crud.Unique(db, &models.User{}, "email", id)),
	)
}

// Confirmed requires the value to equal its confirmation field.
func Confirmed(confirmation string) val.Rule {
	return val.By(func(value interface{}) error {
		s, _ := value.(string)
		if s != "" && s != confirmation {
			return errors.New("confirmation does not match")
		}
		return nil
	})
}

// checkPhoto validates an optional photo upload.
func checkPhoto(photo *multipart.FileHeader) error {
	if photo == nil {
		return nil
	}
	if !slices.Contains(photoExtensions, strings.ToLower(filepath.Ext(photo.Filename))) {
		return errors.New("must be a file of type: jpeg, png, jpg, gif")
	}
	if photo.Size > maxPhotoSize {
		return errors.New("may not be greater than 2048 kilobytes")
	}
	return nil
}

// withPhoto adds the photo error, if any, to the result of a Validate call.
func withPhoto(err error, photo *multipart.FileHeader) error {
	photoErr := checkPhoto(photo)
	if photoErr == nil {
		return err
	}

	var fields val.Errors
	switch {
	case err == nil:
		fields = val.Errors{}
	case errors.As(err, &fields):
	default:
		return err
	}
	fields["photo"] = photoErr
	return fields
}
