package models

const (
	RoleUser        = "user"
	RoleAdmin       = "admin"
	RoleStaff       = "staff"
	RoleSuperadmin  = "superadmin"
	RoleStorekeeper = "storekeeper"

	StatusActive    = "active"
	StatusSuspended = "suspended"
)

var Roles = []interface{}{RoleUser, RoleAdmin, RoleStaff, RoleSuperadmin, RoleStorekeeper}

var Statuses = []interface{}{StatusActive, StatusSuspended}

type User struct {
	Model

	Name         string  `gorm:"size:255" json:"name"`
	Email        string  `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string  `json:"-"`
	Role         string  `gorm:"size:32;index" json:"role"`
	Status       string  `gorm:"size:32;index" json:"status"`
	Photo        *string `gorm:"size:512" json:"photo"`

	PhotoURL string `gorm:"-" json:"photo_url,omitempty"`
}

func (u *User) Active() bool {
	return u.Status == StatusActive
}

func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
