package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is a sellable item. OpeningStockQuantity doubles as the stock on
// hand: sales decrement it and deleting a sale gives the quantity back.
type Product struct {
	Model
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ProductName string          `gorm:"size:255;index" json:"product_name"`
	ItemCode    *string         `gorm:"size:255;uniqueIndex" json:"item_code"`
	BatchNumber *string         `gorm:"size:255" json:"batch_number"`
	ExpiryDate  *datatypes.Date `json:"expiry_date"`

	BuyingCost     float64  `gorm:"type:decimal(15,2);default:0" json:"buying_cost"`
	SalesPrice     float64  `gorm:"type:decimal(15,2);default:0" json:"sales_price"`
	MinimumPrice   *float64 `gorm:"type:decimal(15,2)" json:"minimum_price"`
	WholesalePrice *float64 `gorm:"type:decimal(15,2)" json:"wholesale_price"`
	Barcode        *string  `gorm:"size:255;uniqueIndex" json:"barcode"`
	Mrp            float64  `gorm:"type:decimal(15,2);default:0" json:"mrp"`

	MinimumStockQuantity int      `gorm:"default:0" json:"minimum_stock_quantity"`
	OpeningStockQuantity int      `gorm:"default:0" json:"opening_stock_quantity"`
	OpeningStockValue    *float64 `gorm:"type:decimal(15,2)" json:"opening_stock_value"`

	Category      *string `gorm:"size:255;index" json:"category"`
	Supplier      *string `gorm:"size:255;index" json:"supplier"`
	UnitType      *string `gorm:"size:255" json:"unit_type"`
	StoreLocation *string `gorm:"size:255;index" json:"store_location"`
	Cabinet       *string `gorm:"size:255" json:"cabinet"`
	Row           *string `gorm:"size:255" json:"row"`

	ExtraFields datatypes.JSON `json:"extra_fields"`
}

func (p *Product) LowStock() bool {
	return p.OpeningStockQuantity <= p.MinimumStockQuantity
}
