package models

import "time"

const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentCredit = "credit"
	PaymentCheque = "cheque"
)

var PaymentTypes = []interface{}{PaymentCash, PaymentCard, PaymentCredit, PaymentCheque}

type Sale struct {
	Model

	BillNumber   string    `gorm:"size:32;uniqueIndex" json:"bill_number"`
	CustomerID   *uint     `gorm:"index" json:"customer_id"`
	CustomerName string    `gorm:"size:255" json:"customer_name"`
	UserID       uint      `gorm:"index" json:"user_id"`
	PaymentType  string    `gorm:"size:16" json:"payment_type"`
	SaleDate     time.Time `gorm:"index" json:"sale_date"`

	Subtotal       float64 `gorm:"type:decimal(15,2);default:0" json:"subtotal"`
	Discount       float64 `gorm:"type:decimal(15,2);default:0" json:"discount"`
	Tax            float64 `gorm:"type:decimal(15,2);default:0" json:"tax"`
	Total          float64 `gorm:"type:decimal(15,2);default:0" json:"total"`
	ReceivedAmount float64 `gorm:"type:decimal(15,2);default:0" json:"received_amount"`
	Balance        float64 `gorm:"type:decimal(15,2);default:0" json:"balance"`
	TotalCost      float64 `gorm:"type:decimal(15,2);default:0" json:"total_cost"`
	Profit         float64 `gorm:"type:decimal(15,2);default:0" json:"profit"`

	Items []SaleItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

type SaleItem struct {
	Model

	SaleID      uint    `gorm:"index" json:"sale_id"`
	ProductID   uint    `gorm:"index" json:"product_id"`
	ProductName string  `gorm:"size:255" json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(15,2)" json:"unit_price"`
	BuyingCost  float64 `gorm:"type:decimal(15,2)" json:"buying_cost"`
	Discount    float64 `gorm:"type:decimal(15,2);default:0" json:"discount"`
	Total       float64 `gorm:"type:decimal(15,2)" json:"total"`
}
