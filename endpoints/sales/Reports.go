package sales

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

const dayLayout = "2006-01-02"

// reportDays is the range used when a report is asked for without dates.
const reportDays = 30

type DailyProfit struct {
	Date        string  `json:"date"`
	SalesCount  int     `json:"sales_count"`
	TotalSales  float64 `json:"total_sales"`
	TotalCost   float64 `json:"total_cost"`
	TotalProfit float64 `json:"total_profit"`
}

type BillProfit struct {
	ID           uint      `json:"id"`
	BillNumber   string    `json:"bill_number"`
	SaleDate     time.Time `json:"sale_date"`
	CustomerName string    `json:"customer_name"`
	PaymentType  string    `json:"payment_type"`
	Total        float64   `json:"total"`
	TotalCost    float64   `json:"total_cost"`
	Profit       float64   `json:"profit"`
}

type ProfitSummary struct {
	SalesCount  int     `json:"sales_count"`
	TotalSales  float64 `json:"total_sales"`
	TotalCost   float64 `json:"total_cost"`
	TotalProfit float64 `json:"total_profit"`
}

func (s *ProfitSummary) add(sale *models.Sale) {
	s.SalesCount++
	s.TotalSales = kernel.Round2(s.TotalSales + sale.Total)
	s.TotalCost = kernel.Round2(s.TotalCost + sale.TotalCost)
	s.TotalProfit = kernel.Round2(s.TotalProfit + sale.Profit)
}

func parseDay(s string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, s, time.UTC)
}

// reportRange reads ?from= and ?to= as inclusive UTC days. Missing bounds
// default to the last 30 days ending today.
func reportRange(c *gin.Context, now time.Time) (from, to time.Time, err error) {
	now = now.UTC()
	to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if s := c.Query("to"); s != "" {
		if to, err = parseDay(s); err != nil {
			return
		}
	}
	from = to.AddDate(0, 0, -(reportDays - 1))
	if s := c.Query("from"); s != "" {
		if from, err = parseDay(s); err != nil {
			return
		}
	}
	return from, to, nil
}

func salesBetween(rt *kernel.RequestRuntime, from, to time.Time) ([]models.Sale, error) {
	sales := make([]models.Sale, 0)
	err := rt.DB.
		Where("sale_date >= ? AND sale_date < ?", from, to.AddDate(0, 0, 1)).
		Order("sale_date asc, id asc").
		Find(&sales).Error
	return sales, err
}

func DailyProfitReport(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("sales.report.daily").Advance()

	from, to, err := reportRange(c, time.Now())
	if err != nil {
		rt.Invalid("Invalid report range", kernel.FieldError("date", "must be in the format 2006-01-02"))
		return
	}

	sales, err := salesBetween(rt, from, to)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "could not fetch sales: %v", err)
		return
	}

	days := map[string]*DailyProfit{}
	var summary ProfitSummary
	for i := range sales {
		sale := &sales[i]
		key := sale.SaleDate.UTC().Format(dayLayout)

		day, ok := days[key]
		if !ok {
			day = &DailyProfit{Date: key}
			days[key] = day
		}
		day.SalesCount++
		day.TotalSales = kernel.Round2(day.TotalSales + sale.Total)
		day.TotalCost = kernel.Round2(day.TotalCost + sale.TotalCost)
		day.TotalProfit = kernel.Round2(day.TotalProfit + sale.Profit)

		summary.add(sale)
	}

	report := make([]DailyProfit, 0, len(days))
	for _, d := range days {
		report = append(report, *d)
	}
	sort.Slice(report, func(i, j int) bool { return report[i].Date < report[j].Date })

	c.JSON(http.StatusOK, gin.H{
		"message": "Daily profit report fetched successfully",
		"from":    from.Format(dayLayout),
		"to":      to.Format(dayLayout),
		"data":    report,
		"summary": summary,
	})
	rt.EndBlock()
}

func BillWiseProfitReport(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("sales.report.bill_wise").Advance()

	from, to, err := reportRange(c, time.Now())
	if err != nil {
		rt.Invalid("Invalid report range", kernel.FieldError("date", "must be in the format 2006-01-02"))
		return
	}

	sales, err := salesBetween(rt, from, to)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "could not fetch sales: %v", err)
		return
	}

	report := make([]BillProfit, 0, len(sales))
	var summary ProfitSummary
	for i := range sales {
		sale := &sales[i]
		report = append(report, BillProfit{
			ID:           sale.ID,
			BillNumber:   sale.BillNumber,
			SaleDate:     sale.SaleDate,
			CustomerName: sale.CustomerName,
			PaymentType:  sale.PaymentType,
			Total:        sale.Total,
			TotalCost:    sale.TotalCost,
			Profit:       sale.Profit,
		})
		summary.add(sale)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bill-wise profit report fetched successfully",
		"from":    from.Format(dayLayout),
		"to":      to.Format(dayLayout),
		"data":    report,
		"summary": summary,
	})
	rt.EndBlock()
}
