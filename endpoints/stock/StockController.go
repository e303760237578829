package stock

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

func RegisterController(rg *gin.RouterGroup) {
	rg.GET("/stock-reports", Index)
	rg.GET("/detailed-stock-reports", Detailed)
}

type StockRow struct {
	ID                   uint    `json:"id"`
	ProductName          string  `json:"product_name"`
	ItemCode             *string `json:"item_code"`
	StockQuantity        int     `json:"stock_quantity"`
	MinimumStockQuantity int     `json:"minimum_stock_quantity"`
	BuyingCost           float64 `json:"buying_cost"`
	SalesPrice           float64 `json:"sales_price"`
	StockValue           float64 `json:"stock_value"`
	LowStock             bool    `json:"low_stock"`
}

type DetailedStockRow struct {
	StockRow
	Category      *string `json:"category"`
	Supplier      *string `json:"supplier"`
	UnitType      *string `json:"unit_type"`
	StoreLocation *string `json:"store_location"`
	ExpiryDate    *string `json:"expiry_date"`
	SoldQuantity  int     `json:"sold_quantity"`
	RetailValue   float64 `json:"retail_value"`
}

type Summary struct {
	TotalProducts    int     `json:"total_products"`
	TotalQuantity    int     `json:"total_quantity"`
	TotalStockValue  float64 `json:"total_stock_value"`
	LowStockCount    int     `json:"low_stock_count"`
	TotalRetailValue float64 `json:"total_retail_value,omitempty"`
	TotalSold        int     `json:"total_sold,omitempty"`
}

func (s *Summary) add(row *StockRow) {
	s.TotalProducts++
	s.TotalQuantity += row.StockQuantity
	s.TotalStockValue = kernel.Round2(s.TotalStockValue + row.StockValue)
	if row.LowStock {
		s.LowStockCount++
	}
}

func newRow(p *models.Product) StockRow {
	return StockRow{
		ID:                   p.ID,
		ProductName:          p.ProductName,
		ItemCode:             p.ItemCode,
		StockQuantity:        p.OpeningStockQuantity,
		MinimumStockQuantity: p.MinimumStockQuantity,
		BuyingCost:           p.BuyingCost,
		SalesPrice:           p.SalesPrice,
		StockValue:           kernel.Round2(float64(p.OpeningStockQuantity) * p.BuyingCost),
		LowStock:             p.LowStock(),
	}
}

func Index(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("stock.index").Advance()

	products := make([]models.Product, 0)
	if err := rt.DB.Order("product_name asc").Find(&products).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not fetch products: %v", err)
		return
	}

	rows := make([]StockRow, 0, len(products))
	var summary Summary
	for i := range products {
		row := newRow(&products[i])
		summary.add(&row)
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock report fetched successfully",
		"data":    rows,
		"summary": summary,
	})
	rt.EndBlock()
}

type soldQuantity struct {
	ProductID uint
	Sold      int
}

// Detailed is the stock report with catalogue columns and sold quantities.
// It filters on ?category=, ?supplier=, ?store_location= and ?low_stock=.
func Detailed(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("stock.detailed").Advance()

	q := rt.DB.Order("product_name asc")
	for _, column := range []string{"category", "supplier", "store_location"} {
		if v := c.Query(column); v != "" {
			q = q.Where(column+" = ?", v)
		}
	}
	lowOnly, _ := strconv.ParseBool(c.Query("low_stock"))

	products := make([]models.Product, 0)
	if err := q.Find(&products).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not fetch products: %v", err)
		return
	}

	var sold []soldQuantity
	err := rt.DB.Model(&models.SaleItem{}).
		Select("product_id, SUM(quantity) AS sold").
		Group("product_id").
		Scan(&sold).Error
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "could not sum sold quantities: %v", err)
		return
	}
	soldBy := make(map[uint]int, len(sold))
	for _, s := range sold {
		soldBy[s.ProductID] = s.Sold
	}

	rows := make([]DetailedStockRow, 0, len(products))
	var summary Summary
	for i := range products {
		p := &products[i]
		if lowOnly && !p.LowStock() {
			continue
		}

		row := DetailedStockRow{
			StockRow:      newRow(p),
			Category:      p.Category,
			Supplier:      p.Supplier,
			UnitType:      p.UnitType,
			StoreLocation: p.StoreLocation,
			SoldQuantity:  soldBy[p.ID],
			RetailValue:   kernel.Round2(float64(p.OpeningStockQuantity) * p.SalesPrice),
		}
		if p.ExpiryDate != nil {
			d := time.Time(*p.ExpiryDate).Format("2006-01-02")
			row.ExpiryDate = &d
		}

		summary.add(&row.StockRow)
		summary.TotalRetailValue = kernel.Round2(summary.TotalRetailValue + row.RetailValue)
		summary.TotalSold += row.SoldQuantity
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Detailed stock report fetched successfully",
		"data":    rows,
		"summary": summary,
	})
	rt.EndBlock()
}
