package models

type Category struct {
	Model
	Name        string  `gorm:"size:255;uniqueIndex" json:"name"`
	Description *string `json:"description"`
}

type StoreLocation struct {
	Model
	StoreName string  `gorm:"size:255" json:"store_name"`
	Address   *string `gorm:"size:255" json:"address"`
	Phone     *string `gorm:"size:64" json:"phone"`
	Email     *string `gorm:"size:255" json:"email"`
}

type Supplier struct {
	Model
	SupplierName string `gorm:"size:255" json:"supplier_name"`
	Contact      string `gorm:"size:255" json:"contact"`
	Address      string `gorm:"size:255" json:"address"`
}

type Unit struct {
	Model
	UnitName string `gorm:"size:255;uniqueIndex" json:"unit_name"`
}
