package products

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	val "github.com/go-ozzo/ozzo-validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
	"git.sr.ht/~aondrejcak/pos-api/utils"
)

// ProductDto is the body of create and update, and what every imported
// spreadsheet row is mapped to before validation.
type ProductDto struct {
	ProductName string  `json:"product_name"`
	ItemCode    *string `json:"item_code"`
	BatchNumber *string `json:"batch_number"`
	ExpiryDate  *string `json:"expiry_date"`

	BuyingCost     *float64 `json:"buying_cost"`
	SalesPrice     *float64 `json:"sales_price"`
	MinimumPrice   *float64 `json:"minimum_price"`
	WholesalePrice *float64 `json:"wholesale_price"`
	Barcode        *string  `json:"barcode"`
	Mrp            *float64 `json:"mrp"`

	MinimumStockQuantity *int     `json:"minimum_stock_quantity"`
	OpeningStockQuantity *int     `json:"opening_stock_quantity"`
	OpeningStockValue    *float64 `json:"opening_stock_value"`

	Category      *string `json:"category"`
	Supplier      *string `json:"supplier"`
	UnitType      *string `json:"unit_type"`
	StoreLocation *string `json:"store_location"`
	Cabinet       *string `json:"cabinet"`
	Row           *string `json:"row"`

	ExtraFields json.RawMessage `json:"extra_fields"`
}

// Validate checks the product rules. Uniqueness of item_code and barcode is
// checked through db, ignoring the product with the given id.
func (dto *ProductDto) Validate(db *gorm.DB, id uint) error {
	return val.ValidateStruct(dto,
		val.Field(&dto.ProductName, val.Required, val.Length(1, 255)),
		val.Field(&dto.ItemCode, val.Length(0, 255), crud.Unique(db, &models.Product{}, "item_code", id)),
		val.Field(&dto.BatchNumber, val.Length(0, 255)),
		val.Field(&dto.ExpiryDate, val.Date(utils.DateLayout)),
		val.Field(&dto.BuyingCost, val.NotNil, val.Min(0.0)),
		val.Field(&dto.SalesPrice, val.NotNil, val.Min(0.0)),
		val.Field(&dto.MinimumPrice, val.Min(0.0)),
		val.Field(&dto.WholesalePrice, val.Min(0.0)),
		val.Field(&dto.Barcode, val.Length(0, 255), crud.Unique(db, &models.Product{}, "barcode", id)),
		val.Field(&dto.Mrp, val.NotNil, val.Min(0.0)),
		val.Field(&dto.MinimumStockQuantity, val.Min(0)),
		val.Field(&dto.OpeningStockQuantity, val.Min(0)),
		val.Field(&dto.OpeningStockValue, val.Min(0.0)),
		val.Field(&dto.Category, val.Length(0, 255)),
		val.Field(&dto.Supplier, val.Length(0, 255)),
		val.Field(&dto.UnitType, val.Length(0, 255)),
		val.Field(&dto.StoreLocation, val.Length(0, 255)),
		val.Field(&dto.Cabinet, val.Length(0, 255)),
		val.Field(&dto.Row, val.Length(0, 255)),
		val.Field(&dto.ExtraFields, val.By(validJSON)),
	)
}

func (dto *ProductDto) Fill(p *models.Product) {
	p.ProductName = strings.TrimSpace(dto.ProductName)
	p.ItemCode = crud.Trim(dto.ItemCode)
	p.BatchNumber = crud.Trim(dto.BatchNumber)
	p.ExpiryDate = nil
	if d := crud.Trim(dto.ExpiryDate); d != nil {
		if t, err := time.Parse(utils.DateLayout, *d); err == nil {
			date := datatypes.Date(t)
			p.ExpiryDate = &date
		}
	}

	p.BuyingCost = money(dto.BuyingCost)
	p.SalesPrice = money(dto.SalesPrice)
	p.MinimumPrice = optionalMoney(dto.MinimumPrice)
	p.WholesalePrice = optionalMoney(dto.WholesalePrice)
	p.Barcode = crud.Trim(dto.Barcode)
	p.Mrp = money(dto.Mrp)

	p.MinimumStockQuantity = quantity(dto.MinimumStockQuantity)
	p.OpeningStockQuantity = quantity(dto.OpeningStockQuantity)
	p.OpeningStockValue = optionalMoney(dto.OpeningStockValue)

	p.Category = crud.Trim(dto.Category)
	p.Supplier = crud.Trim(dto.Supplier)
	p.UnitType = crud.Trim(dto.UnitType)
	p.StoreLocation = crud.Trim(dto.StoreLocation)
	p.Cabinet = crud.Trim(dto.Cabinet)
	p.Row = crud.Trim(dto.Row)

	p.ExtraFields = extraFields(dto.ExtraFields)
}

// validJSON accepts a JSON value or a string holding JSON.
func validJSON(value interface{}) error {
	raw, _ := value.(json.RawMessage)
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return nil
	}
	if extraFields(raw) == nil {
		return errors.New("must be a valid JSON string")
	}
	return nil
}

func extraFields(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" || !json.Valid(raw) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" || !json.Valid([]byte(s)) {
			return nil
		}
		return datatypes.JSON(s)
	}
	return datatypes.JSON(raw)
}

func money(v *float64) float64 {
	if v == nil {
		return 0
	}
	return kernel.Round2(*v)
}

func optionalMoney(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := kernel.Round2(*v)
	return &r
}

func quantity(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
