package sales

import (
	"errors"
	"fmt"
	"strconv"

	val "github.com/go-ozzo/ozzo-validation"
	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

func itemError(index int, field string, err error) val.Errors {
	return val.Errors{
		"items": val.Errors{
			strconv.Itoa(index): val.Errors{field: err},
		},
	}
}

// applyItems takes the stock for every item off its product and fills in
// the sale lines and totals. Shortages come back as validation errors.
func applyItems(tx *gorm.DB, sale *models.Sale, dto *SaleDto) error {
	sale.Items = make([]models.SaleItem, 0, len(dto.Items))
	sale.Subtotal, sale.TotalCost = 0, 0

	for i, in := range dto.Items {
		var product models.Product
		if err := tx.First(&product, in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return itemError(i, "product_id", errors.New("does not exist"))
			}
			return err
		}

		price := product.SalesPrice
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		gross := kernel.Round2(price * float64(in.Quantity))
		if in.Discount > gross {
			return itemError(i, "discount", errors.New("must not exceed the line total"))
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND opening_stock_quantity >= ?", product.ID, in.Quantity).
			UpdateColumn("opening_stock_quantity", gorm.Expr("opening_stock_quantity - ?", in.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var left models.Product
			if err := tx.Select("opening_stock_quantity").First(&left, product.ID).Error; err != nil {
				return err
			}
			return itemError(i, "quantity",
				fmt.Errorf("insufficient stock for %s: %d available", product.ProductName, left.OpeningStockQuantity))
		}

		item := models.SaleItem{
			ProductID:   product.ID,
			ProductName: product.ProductName,
			Quantity:    in.Quantity,
			UnitPrice:   kernel.Round2(price),
			BuyingCost:  product.BuyingCost,
			Discount:    kernel.Round2(in.Discount),
			Total:       kernel.Round2(gross - in.Discount),
		}
		sale.Items = append(sale.Items, item)
		sale.Subtotal += item.Total
		sale.TotalCost += item.BuyingCost * float64(item.Quantity)
	}

	sale.Subtotal = kernel.Round2(sale.Subtotal)
	sale.TotalCost = kernel.Round2(sale.TotalCost)
	sale.Discount = kernel.Round2(dto.Discount)
	sale.Tax = kernel.Round2(dto.Tax)
	if sale.Discount > sale.Subtotal {
		return val.Errors{"discount": errors.New("must not exceed the subtotal")}
	}

	sale.Total = kernel.Round2(sale.Subtotal - sale.Discount + sale.Tax)
	sale.Profit = kernel.Round2(sale.Subtotal - sale.Discount - sale.TotalCost)

	sale.ReceivedAmount = sale.Total
	if dto.ReceivedAmount != nil {
		sale.ReceivedAmount = kernel.Round2(*dto.ReceivedAmount)
	}
	sale.Balance = kernel.Round2(sale.ReceivedAmount - sale.Total)

	return nil
}

// restoreStock gives the quantities of items back to their products. Products
// in the deleted bin get their stock back too.
func restoreStock(tx *gorm.DB, items []models.SaleItem) error {
	for _, item := range items {
		err := tx.Unscoped().Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("opening_stock_quantity", gorm.Expr("opening_stock_quantity + ?", item.Quantity)).Error
		if err != nil {
			return err
		}
	}
	return nil
}
