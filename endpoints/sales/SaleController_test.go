package sales_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/kernel/kerneltest"
	"git.sr.ht/~aondrejcak/pos-api/models"
	"git.sr.ht/~aondrejcak/pos-api/router"
)

type fixture struct {
	art   *kernel.AppRuntime
	h     http.Handler
	token string
	soap  *models.Product
	rice  *models.Product
}

func setup(t *testing.T) *fixture {
	art := kerneltest.Runtime(t)
	f := &fixture{
		art:   art,
		h:     router.New(art),
		token: kerneltest.Token(t, art, kerneltest.User(t, art, models.RoleStaff)),
		soap:  &models.Product{ProductName: "Soap", BuyingCost: 40, SalesPrice: 50, OpeningStockQuantity: 10},
		rice:  &models.Product{ProductName: "Rice", BuyingCost: 180, SalesPrice: 220, OpeningStockQuantity: 5},
	}
	require.NoError(t, art.DatabaseClient.Create(f.soap).Error)
	require.NoError(t, art.DatabaseClient.Create(f.rice).Error)
	return f
}

func (f *fixture) stock(t *testing.T, p *models.Product) int {
	var fresh models.Product
	require.NoError(t, f.art.DatabaseClient.Unscoped().First(&fresh, p.ID).Error)
	return fresh.OpeningStockQuantity
}

func (f *fixture) sell(t *testing.T, body map[string]any) map[string]any {
	w := kerneltest.Do(f.h, http.MethodPost, "/sales", f.token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return kerneltest.JSON(t, w)["data"].(map[string]any)
}

func TestStoreSale(t *testing.T) {
	f := setup(t)

	sale := f.sell(t, map[string]any{
		"sale_date": "2026-10-01",
		"discount":  10,
		"tax":       5,
		"items": []map[string]any{
			{"product_id": f.soap.ID, "quantity": 3},
			{"product_id": f.rice.ID, "quantity": 2, "unit_price": 210, "discount": 20},
		},
	})

	// 150 + (420 - 20)
	assert.Equal(t, 550.0, sale["subtotal"])
	assert.Equal(t, 545.0, sale["total"])
	assert.Equal(t, 480.0, sale["total_cost"])
	assert.Equal(t, 60.0, sale["profit"])
	assert.Equal(t, 545.0, sale["received_amount"])
	assert.Equal(t, 0.0, sale["balance"])
	assert.Equal(t, "000001", sale["bill_number"])
	assert.Equal(t, models.PaymentCash, sale["payment_type"])
	assert.Equal(t, "Walk-in Customer", sale["customer_name"])
	assert.Len(t, sale["items"], 2)

	assert.Equal(t, 7, f.stock(t, f.soap))
	assert.Equal(t, 3, f.stock(t, f.rice))

	w := kerneltest.Do(f.h, http.MethodGet, "/next-bill-number", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "000002", kerneltest.JSON(t, w)["next_bill_number"])
}

func TestStoreSaleWithCustomer(t *testing.T) {
	f := setup(t)
	customer := &models.Customer{CustomerName: "Kamal"}
	require.NoError(t, f.art.DatabaseClient.Create(customer).Error)

	sale := f.sell(t, map[string]any{
		"bill_number":     "INV-77",
		"customer_id":     customer.ID,
		"payment_type":    models.PaymentCard,
		"received_amount": 60,
		"items":           []map[string]any{{"product_id": f.soap.ID, "quantity": 1}},
	})

	assert.Equal(t, "Kamal", sale["customer_name"])
	assert.Equal(t, "INV-77", sale["bill_number"])
	assert.Equal(t, 10.0, sale["balance"])

	w := kerneltest.Do(f.h, http.MethodGet, fmt.Sprintf("/sales?customer_id=%d", customer.ID), f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, kerneltest.JSON(t, w)["data"], 1)

	w = kerneltest.Do(f.h, http.MethodGet, "/sales?bill_number=nope", f.token, nil)
	assert.Len(t, kerneltest.JSON(t, w)["data"], 0)
}

func TestStoreSaleRejects(t *testing.T) {
	f := setup(t)
	f.sell(t, map[string]any{
		"bill_number": "000100",
		"items":       []map[string]any{{"product_id": f.soap.ID, "quantity": 1}},
	})

	cases := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"no items", map[string]any{"items": []any{}}, "items"},
		{"zero quantity", map[string]any{"items": []map[string]any{{"product_id": f.soap.ID, "quantity": 0}}}, "items"},
		{"unknown payment", map[string]any{"payment_type": "barter", "items": []map[string]any{{"product_id": f.soap.ID, "quantity": 1}}}, "payment_type"},
		{"unknown customer", map[string]any{"customer_id": 99, "items": []map[string]any{{"product_id": f.soap.ID, "quantity": 1}}}, "customer_id"},
		{"taken bill", map[string]any{"bill_number": "000100", "items": []map[string]any{{"product_id": f.soap.ID, "quantity": 1}}}, "bill_number"},
		{"bad date", map[string]any{"sale_date": "yesterday", "items": []map[string]any{{"product_id": f.soap.ID, "quantity": 1}}}, "sale_date"},
		{"insufficient stock", map[string]any{"items": []map[string]any{{"product_id": f.rice.ID, "quantity": 6}}}, "items"},
		{"unknown product", map[string]any{"items": []map[string]any{{"product_id": 999, "quantity": 1}}}, "items"},
		{"discount over subtotal", map[string]any{"discount": 1000, "items": []map[string]any{{"product_id": f.soap.ID, "quantity": 1}}}, "discount"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := kerneltest.Do(f.h, http.MethodPost, "/sales", f.token, tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.Contains(t, kerneltest.JSON(t, w)["errors"], tc.field)
		})
	}

	// nothing above touched stock
	assert.Equal(t, 9, f.stock(t, f.soap))
	assert.Equal(t, 5, f.stock(t, f.rice))
}

func TestShortageRollsBackEarlierItems(t *testing.T) {
	f := setup(t)

	w := kerneltest.Do(f.h, http.MethodPost, "/sales", f.token, map[string]any{
		"items": []map[string]any{
			{"product_id": f.soap.ID, "quantity": 4},
			{"product_id": f.rice.ID, "quantity": 50},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock for Rice: 5 available")

	assert.Equal(t, 10, f.stock(t, f.soap))
}

func TestUpdateAndDestroyRestoreStock(t *testing.T) {
	f := setup(t)
	sale := f.sell(t, map[string]any{
		"items": []map[string]any{{"product_id": f.soap.ID, "quantity": 6}},
	})
	path := fmt.Sprintf("/sales/%d", int(sale["id"].(float64)))
	require.Equal(t, 4, f.stock(t, f.soap))

	w := kerneltest.Do(f.h, http.MethodPut, path, f.token, map[string]any{
		"bill_number": sale["bill_number"],
		"items": []map[string]any{
			{"product_id": f.soap.ID, "quantity": 10},
			{"product_id": f.rice.ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := kerneltest.JSON(t, w)["data"].(map[string]any)
	assert.Equal(t, 720.0, updated["total"])
	assert.Equal(t, 0, f.stock(t, f.soap))
	assert.Equal(t, 4, f.stock(t, f.rice))

	var items int64
	require.NoError(t, f.art.DatabaseClient.Model(&models.SaleItem{}).Count(&items).Error)
	assert.Equal(t, int64(2), items)

	// binned products still get their stock back
	require.NoError(t, f.art.DatabaseClient.Delete(f.rice).Error)

	require.Equal(t, http.StatusOK, kerneltest.Do(f.h, http.MethodDelete, path, f.token, nil).Code)
	assert.Equal(t, 10, f.stock(t, f.soap))
	assert.Equal(t, 5, f.stock(t, f.rice))

	require.NoError(t, f.art.DatabaseClient.Model(&models.SaleItem{}).Count(&items).Error)
	assert.Zero(t, items)
	assert.Equal(t, http.StatusNotFound, kerneltest.Do(f.h, http.MethodDelete, path, f.token, nil).Code)
}

func TestFailedUpdateKeepsSale(t *testing.T) {
	f := setup(t)
	sale := f.sell(t, map[string]any{
		"items": []map[string]any{{"product_id": f.rice.ID, "quantity": 2}},
	})
	path := fmt.Sprintf("/sales/%d", int(sale["id"].(float64)))

	w := kerneltest.Do(f.h, http.MethodPut, path, f.token, map[string]any{
		"items": []map[string]any{{"product_id": f.rice.ID, "quantity": 8}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	assert.Equal(t, 3, f.stock(t, f.rice))
	var items int64
	require.NoError(t, f.art.DatabaseClient.Model(&models.SaleItem{}).Count(&items).Error)
	assert.Equal(t, int64(1), items)
}

func TestUpdateKeepsSaleDate(t *testing.T) {
	f := setup(t)
	sale := f.sell(t, map[string]any{
		"sale_date": "2026-10-01",
		"items":     []map[string]any{{"product_id": f.soap.ID, "quantity": 1}},
	})
	path := fmt.Sprintf("/sales/%d", int(sale["id"].(float64)))

	w := kerneltest.Do(f.h, http.MethodPut, path, f.token, map[string]any{
		"items": []map[string]any{{"product_id": f.soap.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2026-10-01T00:00:00Z", kerneltest.JSON(t, w)["data"].(map[string]any)["sale_date"])

	w = kerneltest.Do(f.h, http.MethodGet, "/sales/daily-profit-report?from=2026-10-01&to=2026-10-01", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, kerneltest.JSON(t, w)["summary"].(map[string]any)["sales_count"])

	w = kerneltest.Do(f.h, http.MethodPut, path, f.token, map[string]any{
		"sale_date": "2026-10-05",
		"items":     []map[string]any{{"product_id": f.soap.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2026-10-05T00:00:00Z", kerneltest.JSON(t, w)["data"].(map[string]any)["sale_date"])
}

func TestPaddedBillNumberIsTaken(t *testing.T) {
	f := setup(t)
	f.sell(t, map[string]any{
		"bill_number": "INV-1",
		"items":       []map[string]any{{"product_id": f.soap.ID, "quantity": 1}},
	})

	w := kerneltest.Do(f.h, http.MethodPost, "/sales", f.token, map[string]any{
		"bill_number": "  INV-1 ",
		"items":       []map[string]any{{"product_id": f.soap.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, "has already been taken", kerneltest.JSON(t, w)["errors"].(map[string]any)["bill_number"])
	assert.Equal(t, 9, f.stock(t, f.soap))
}
