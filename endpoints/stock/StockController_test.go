package stock_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"git.sr.ht/~aondrejcak/pos-api/kernel/kerneltest"
	"git.sr.ht/~aondrejcak/pos-api/models"
	"git.sr.ht/~aondrejcak/pos-api/router"
)

func ptr[T any](v T) *T { return &v }

func TestStockReports(t *testing.T) {
	art := kerneltest.Runtime(t)
	r := router.New(art)
	token := kerneltest.Token(t, art, kerneltest.User(t, art, models.RoleStorekeeper))

	expiry := datatypes.Date(time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC))
	rows := []*models.Product{
		{ProductName: "Bread", BuyingCost: 90, SalesPrice: 120, OpeningStockQuantity: 3, MinimumStockQuantity: 5,
			Category: ptr("Bakery"), Supplier: ptr("Prima"), ExpiryDate: &expiry},
		{ProductName: "Apples", BuyingCost: 25.5, SalesPrice: 40, OpeningStockQuantity: 20, MinimumStockQuantity: 5,
			Category: ptr("Fruit"), StoreLocation: ptr("Cold room")},
		{ProductName: "Binned", BuyingCost: 1, SalesPrice: 2, OpeningStockQuantity: 100},
	}
	for _, p := range rows {
		require.NoError(t, art.DatabaseClient.Create(p).Error)
	}
	require.NoError(t, art.DatabaseClient.Delete(rows[2]).Error)

	sale := &models.Sale{BillNumber: "000001", SaleDate: time.Now().UTC(), Items: []models.SaleItem{
		{ProductID: rows[0].ID, ProductName: "Bread", Quantity: 2},
		{ProductID: rows[0].ID, ProductName: "Bread", Quantity: 4},
		{ProductID: rows[1].ID, ProductName: "Apples", Quantity: 1},
	}}
	require.NoError(t, art.DatabaseClient.Create(sale).Error)

	w := kerneltest.Do(r, http.MethodGet, "/stock-reports", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := kerneltest.JSON(t, w)

	data := body["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "Apples", data[0].(map[string]any)["product_name"])
	assert.Equal(t, 510.0, data[0].(map[string]any)["stock_value"])
	assert.Equal(t, true, data[1].(map[string]any)["low_stock"])

	summary := body["summary"].(map[string]any)
	assert.Equal(t, 2.0, summary["total_products"])
	assert.Equal(t, 23.0, summary["total_quantity"])
	assert.Equal(t, 780.0, summary["total_stock_value"])
	assert.Equal(t, 1.0, summary["low_stock_count"])

	w = kerneltest.Do(r, http.MethodGet, "/detailed-stock-reports", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = kerneltest.JSON(t, w)
	data = body["data"].([]any)
	require.Len(t, data, 2)
	bread := data[1].(map[string]any)
	assert.Equal(t, 6.0, bread["sold_quantity"])
	assert.Equal(t, 360.0, bread["retail_value"])
	assert.Equal(t, "2027-01-31", bread["expiry_date"])
	assert.Equal(t, "Bakery", bread["category"])
	assert.Equal(t, 7.0, body["summary"].(map[string]any)["total_sold"])
	assert.Equal(t, 1160.0, body["summary"].(map[string]any)["total_retail_value"])

	cases := map[string]int{
		"/detailed-stock-reports?category=Fruit":              1,
		"/detailed-stock-reports?supplier=Prima":              1,
		"/detailed-stock-reports?store_location=Cold%20room": 1,
		"/detailed-stock-reports?low_stock=true":              1,
		"/detailed-stock-reports?category=Dairy":              0,
	}
	for path, want := range cases {
		w := kerneltest.Do(r, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, kerneltest.JSON(t, w)["data"], want, path)
	}
}
