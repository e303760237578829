package models

import "time"

// Model replaces gorm.Model for rows that are rendered straight to JSON.
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
