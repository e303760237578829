package models

type Customer struct {
	Model
	CustomerName string  `gorm:"size:255;index" json:"customer_name"`
	Email        *string `gorm:"size:255" json:"email"`
	Phone        *string `gorm:"size:64" json:"phone"`
	Address      *string `gorm:"size:255" json:"address"`
	NicNumber    *string `gorm:"size:64" json:"nic_number"`
}
