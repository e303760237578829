package sales

import (
	"errors"
	"strings"
	"time"

	val "github.com/go-ozzo/ozzo-validation"
	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

var saleDateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

type SaleItemDto struct {
	ProductID uint     `json:"product_id"`
	Quantity  int      `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
	Discount  float64  `json:"discount"`
}

func (dto SaleItemDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.ProductID, val.Required),
		val.Field(&dto.Quantity, val.Required, val.Min(1)),
		val.Field(&dto.UnitPrice, val.Min(0.0)),
		val.Field(&dto.Discount, val.Min(0.0)),
	)
}

type SaleDto struct {
	BillNumber     *string       `json:"bill_number"`
	CustomerID     *uint         `json:"customer_id"`
	CustomerName   *string       `json:"customer_name"`
	PaymentType    string        `json:"payment_type"`
	SaleDate       *string       `json:"sale_date"`
	Items          []SaleItemDto `json:"items"`
	Discount       float64       `json:"discount"`
	Tax            float64       `json:"tax"`
	ReceivedAmount *float64      `json:"received_amount"`
}

func (dto *SaleDto) Validate(db *gorm.DB, id uint) error {
	return val.ValidateStruct(dto,
		val.Field(&dto.BillNumber, val.Length(0, 32), crud.Unique(db, &models.Sale{}, "bill_number", id)),
		val.Field(&dto.CustomerID, crud.Exists(db, &models.Customer{})),
		val.Field(&dto.CustomerName, val.Length(0, 255)),
		val.Field(&dto.PaymentType, val.In(models.PaymentTypes...)),
		val.Field(&dto.SaleDate, val.By(func(interface{}) error {
			_, err := dto.date(time.Time{})
			return err
		})),
		val.Field(&dto.Items, val.Required),
		val.Field(&dto.Discount, val.Min(0.0)),
		val.Field(&dto.Tax, val.Min(0.0)),
		val.Field(&dto.ReceivedAmount, val.Min(0.0)),
	)
}

// date returns the sale date in UTC, fallback when none was given.
func (dto *SaleDto) date(fallback time.Time) (time.Time, error) {
	if dto.SaleDate == nil || strings.TrimSpace(*dto.SaleDate) == "" {
		return fallback.UTC(), nil
	}
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(*dto.SaleDate)); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("must be a valid date")
}

func (dto *SaleDto) paymentType() string {
	if dto.PaymentType == "" {
		return models.PaymentCash
	}
	return dto.PaymentType
}
