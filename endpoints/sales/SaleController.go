package sales

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"
	"go.nhat.io/otelsql/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

func RegisterController(rg *gin.RouterGroup) {
	g := rg.Group("/sales")
	g.GET("", Index)
	g.POST("", Store)
	g.GET("/daily-profit-report", DailyProfitReport)
	g.GET("/bill-wise-profit-report", BillWiseProfitReport)
	g.PUT("/:id", Update)
	g.DELETE("/:id", Destroy)

	rg.GET("/next-bill-number", NextBill)
}

func Index(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("sales.index").Advance()

	q := rt.DB.Preload("Items").Order("sale_date desc, id desc")

	if from := c.Query("from"); from != "" {
		t, err := parseDay(from)
		if err != nil {
			rt.Invalid("Invalid filter", kernel.FieldError("from", err.Error()))
			return
		}
		q = q.Where("sale_date >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := parseDay(to)
		if err != nil {
			rt.Invalid("Invalid filter", kernel.FieldError("to", err.Error()))
			return
		}
		q = q.Where("sale_date < ?", t.AddDate(0, 0, 1))
	}
	if customer := c.Query("customer_id"); customer != "" {
		q = q.Where("customer_id = ?", customer)
	}
	if bill := strings.TrimSpace(c.Query("bill_number")); bill != "" {
		q = q.Where("bill_number = ?", bill)
	}

	sales := make([]models.Sale, 0)
	if err := q.Find(&sales).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not fetch sales: %v", err)
		return
	}

	rt.OK(http.StatusOK, "Sales fetched successfully", sales)
}

func Store(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("sales.store").Advance()

	var dto SaleDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}
	if err := dto.Validate(rt.DB, 0); err != nil {
		rt.Invalid("Validation error creating sale", err)
		return
	}

	sale := models.Sale{UserID: rt.User.ID}
	err := rt.DB.Transaction(func(tx *gorm.DB) error {
		if err := fill(tx, &sale, &dto); err != nil {
			return err
		}
		if sale.BillNumber == "" {
			bill, err := NextBillNumber(tx)
			if err != nil {
				return err
			}
			sale.BillNumber = bill
		}
		return tx.Create(&sale).Error
	})
	if fail(rt, "creating sale", err) {
		return
	}

	rt.Log.Info().Str("bill_number", sale.BillNumber).Float64("total", sale.Total).Msg("sale recorded")
	rt.AppRuntime.Diagnostic.SalesCounter.Add(rt.SpanContext, 1,
		metric.WithAttributes(attribute.KeyValue("pos.payment_type", sale.PaymentType)))
	rt.AppRuntime.Diagnostic.SalesAmount.Add(rt.SpanContext, sale.Total,
		metric.WithAttributes(attribute.KeyValue("pos.payment_type", sale.PaymentType)))

	rt.OK(http.StatusCreated, "Sale created successfully", sale)
}

func Update(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("sales.update").Advance()

	sale, ok := load(rt)
	if !ok {
		return
	}

	var dto SaleDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}
	if err := dto.Validate(rt.DB, sale.ID); err != nil {
		rt.Invalid("Validation error updating sale", err)
		return
	}

	err := rt.DB.Transaction(func(tx *gorm.DB) error {
		if err := restoreStock(tx, sale.Items); err != nil {
			return err
		}
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		if err := fill(tx, sale, &dto); err != nil {
			return err
		}
		return tx.Save(sale).Error
	})
	if fail(rt, "updating sale", err) {
		return
	}

	rt.Log.Info().Uint("sale_id", sale.ID).Msg("sale updated")
	rt.OK(http.StatusOK, "Sale updated successfully", sale)
}

func Destroy(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("sales.destroy").Advance()

	sale, ok := load(rt)
	if !ok {
		return
	}

	err := rt.DB.Transaction(func(tx *gorm.DB) error {
		if err := restoreStock(tx, sale.Items); err != nil {
			return err
		}
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sale{}, sale.ID).Error
	})
	if fail(rt, "deleting sale", err) {
		return
	}

	rt.Log.Info().Uint("sale_id", sale.ID).Str("bill_number", sale.BillNumber).Msg("sale deleted")
	rt.OK(http.StatusOK, "Sale deleted successfully", nil)
}

func NextBill(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("sales.next_bill_number").Advance()

	bill, err := NextBillNumber(rt.DB)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "could not compute next bill number: %v", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"next_bill_number": bill})
	rt.EndBlock()
}

// fill copies the request onto sale and applies the items against stock.
// A sale being updated keeps its date unless the request gives a new one.
func fill(tx *gorm.DB, sale *models.Sale, dto *SaleDto) error {
	fallback := sale.SaleDate
	if fallback.IsZero() {
		fallback = time.Now()
	}
	date, err := dto.date(fallback)
	if err != nil {
		return val.Errors{"sale_date": err}
	}
	sale.SaleDate = date
	sale.PaymentType = dto.paymentType()
	sale.CustomerID = dto.CustomerID
	if dto.BillNumber != nil && strings.TrimSpace(*dto.BillNumber) != "" {
		sale.BillNumber = strings.TrimSpace(*dto.BillNumber)
	}

	sale.CustomerName = "Walk-in Customer"
	if dto.CustomerName != nil && strings.TrimSpace(*dto.CustomerName) != "" {
		sale.CustomerName = strings.TrimSpace(*dto.CustomerName)
	} else if dto.CustomerID != nil {
		var customer models.Customer
		if err := tx.First(&customer, *dto.CustomerID).Error; err != nil {
			return err
		}
		sale.CustomerName = customer.CustomerName
	}

	return applyItems(tx, sale, dto)
}

// fail answers a failed transaction. It reports whether a response was written.
func fail(rt *kernel.RequestRuntime, action string, err error) bool {
	if err == nil {
		return false
	}

	var fields val.Errors
	if errors.As(err, &fields) {
		rt.Invalid("Validation error "+action, fields)
		return true
	}

	rt.Ef(http.StatusInternalServerError, "error %s: %v", action, err)
	return true
}

func load(rt *kernel.RequestRuntime) (*models.Sale, bool) {
	id, err := crud.ParseID(rt.RequestContext)
	if err != nil {
		rt.Ef(http.StatusNotFound, "sale not found")
		return nil, false
	}

	var sale models.Sale
	if err := rt.DB.Preload("Items").First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rt.Ef(http.StatusNotFound, "sale with ID '%d' does not exist", id)
			return nil, false
		}
		rt.Ef(http.StatusInternalServerError, "could not fetch sale: %v", err)
		return nil, false
	}
	return &sale, true
}
