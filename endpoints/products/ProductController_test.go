package products_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/kernel/kerneltest"
	"git.sr.ht/~aondrejcak/pos-api/models"
	"git.sr.ht/~aondrejcak/pos-api/router"
)

func product(name, code string) map[string]any {
	return map[string]any{
		"product_name":           name,
		"item_code":              code,
		"expiry_date":            "2027-03-31",
		"buying_cost":            80.004,
		"sales_price":            100,
		"mrp":                    110,
		"opening_stock_quantity": 25,
		"minimum_stock_quantity": 5,
		"category":               "Grocery",
		"extra_fields":           `{"colour":"red"}`,
	}
}

func setup(t *testing.T, role string) (*kernel.AppRuntime, http.Handler, string) {
	art := kerneltest.Runtime(t)
	return art, router.New(art), kerneltest.Token(t, art, kerneltest.User(t, art, role))
}

func TestProductCrud(t *testing.T) {
	_, r, token := setup(t, models.RoleStaff)

	w := kerneltest.Do(r, http.MethodPost, "/products", token, product("Rice 1kg", "RICE-1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := kerneltest.JSON(t, w)["data"].(map[string]any)
	assert.Equal(t, 80.0, created["buying_cost"])
	assert.Equal(t, 25.0, created["opening_stock_quantity"])
	assert.Equal(t, "red", created["extra_fields"].(map[string]any)["colour"])
	id := int(created["id"].(float64))

	w = kerneltest.Do(r, http.MethodGet, "/products", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, kerneltest.JSON(t, w)["data"], 1)

	body := product("Rice 1kg", "RICE-1")
	body["sales_price"] = 105.5
	w = kerneltest.Do(r, http.MethodPut, fmt.Sprintf("/products/%d", id), token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 105.5, kerneltest.JSON(t, w)["data"].(map[string]any)["sales_price"])

	w = kerneltest.Do(r, http.MethodGet, fmt.Sprintf("/products/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rice 1kg", kerneltest.JSON(t, w)["data"].(map[string]any)["product_name"])

	assert.Equal(t, http.StatusNotFound, kerneltest.Do(r, http.MethodGet, "/products/999", token, nil).Code)
}

func TestProductValidation(t *testing.T) {
	_, r, token := setup(t, models.RoleStaff)

	require.Equal(t, http.StatusCreated,
		kerneltest.Do(r, http.MethodPost, "/products", token, product("Sugar", "SUG-1")).Code)

	cases := []struct {
		name   string
		change func(map[string]any)
		field  string
	}{
		{"missing name", func(b map[string]any) { b["product_name"] = "" }, "product_name"},
		{"duplicate item code", func(b map[string]any) {}, "item_code"},
		{"negative price", func(b map[string]any) { b["sales_price"] = -1 }, "sales_price"},
		{"missing buying cost", func(b map[string]any) { delete(b, "buying_cost") }, "buying_cost"},
		{"bad expiry", func(b map[string]any) { b["expiry_date"] = "31/31/2027" }, "expiry_date"},
		{"bad extra fields", func(b map[string]any) { b["extra_fields"] = "{oops" }, "extra_fields"},
		{"negative stock", func(b map[string]any) { b["opening_stock_quantity"] = -3 }, "opening_stock_quantity"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := product("Sugar", "SUG-1")
			if tc.name != "duplicate item code" {
				body["item_code"] = "SUG-2"
			}
			tc.change(body)

			w := kerneltest.Do(r, http.MethodPost, "/products", token, body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.Contains(t, kerneltest.JSON(t, w)["errors"], tc.field)
		})
	}
}

func TestDeletedBin(t *testing.T) {
	art, r, token := setup(t, models.RoleStaff)
	admin := kerneltest.Token(t, art, kerneltest.User(t, art, models.RoleAdmin))

	require.Equal(t, http.StatusCreated,
		kerneltest.Do(r, http.MethodPost, "/products", token, product("Tea leaves", "TEA-1")).Code)
	name := url.PathEscape("Tea leaves")

	w := kerneltest.Do(r, http.MethodPost, "/products/delete/"+name, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = kerneltest.Do(r, http.MethodGet, "/products", token, nil)
	assert.Len(t, kerneltest.JSON(t, w)["data"], 0)

	assert.Equal(t, http.StatusForbidden, kerneltest.Do(r, http.MethodGet, "/deleted-items", token, nil).Code)
	w = kerneltest.Do(r, http.MethodGet, "/deleted-items", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, kerneltest.JSON(t, w)["data"], 1)

	// a binned product still holds its item code
	w = kerneltest.Do(r, http.MethodPost, "/products", token, product("Other tea", "TEA-1"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = kerneltest.Do(r, http.MethodPost, "/products/restore/"+name, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = kerneltest.Do(r, http.MethodGet, "/products", token, nil)
	assert.Len(t, kerneltest.JSON(t, w)["data"], 1)

	assert.Equal(t, http.StatusNotFound, kerneltest.Do(r, http.MethodPost, "/products/restore/"+name, token, nil).Code)
	// only binned rows can be purged
	assert.Equal(t, http.StatusNotFound, kerneltest.Do(r, http.MethodDelete, "/products/permanent-delete/"+name, admin, nil).Code)

	require.Equal(t, http.StatusOK, kerneltest.Do(r, http.MethodPost, "/products/delete/"+name, token, nil).Code)
	assert.Equal(t, http.StatusForbidden, kerneltest.Do(r, http.MethodDelete, "/products/permanent-delete/"+name, token, nil).Code)
	require.Equal(t, http.StatusOK, kerneltest.Do(r, http.MethodDelete, "/products/permanent-delete/"+name, admin, nil).Code)

	var count int64
	require.NoError(t, art.DatabaseClient.Unscoped().Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.Equal(t, http.StatusNotFound, kerneltest.Do(r, http.MethodPost, "/products/delete/nothing", token, nil).Code)
}

func TestDestroySoftDeletes(t *testing.T) {
	art, r, token := setup(t, models.RoleStaff)

	w := kerneltest.Do(r, http.MethodPost, "/products", token, product("Salt", "SALT-1"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := int(kerneltest.JSON(t, w)["data"].(map[string]any)["id"].(float64))

	require.Equal(t, http.StatusOK, kerneltest.Do(r, http.MethodDelete, fmt.Sprintf("/products/%d", id), token, nil).Code)
	assert.Equal(t, http.StatusNotFound, kerneltest.Do(r, http.MethodGet, fmt.Sprintf("/products/%d", id), token, nil).Code)

	var binned models.Product
	require.NoError(t, art.DatabaseClient.Unscoped().First(&binned, id).Error)
	assert.True(t, binned.DeletedAt.Valid)
}

func TestBarcodePage(t *testing.T) {
	_, r, token := setup(t, models.RoleStaff)

	body := product("Milk <1L>", "MILK-1")
	body["barcode"] = "4791234567890"
	w := kerneltest.Do(r, http.MethodPost, "/products", token, body)
	require.Equal(t, http.StatusCreated, w.Code)
	id := int(kerneltest.JSON(t, w)["data"].(map[string]any)["id"].(float64))

	w = kerneltest.Do(r, http.MethodGet, fmt.Sprintf("/product/%d?token=%s", id, token), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	page := w.Body.String()
	assert.Contains(t, page, "Milk &lt;1L&gt;")
	assert.Contains(t, page, "4791234567890")
	assert.Contains(t, page, "EXP 2027-03-31")
	assert.Contains(t, page, "MRP 110.00")
}

func TestPaddedCodesAreTaken(t *testing.T) {
	_, r, token := setup(t, models.RoleStaff)

	body := product("Flour", "A1")
	body["barcode"] = "4790000000001"
	require.Equal(t, http.StatusCreated, kerneltest.Do(r, http.MethodPost, "/products", token, body).Code)

	body = product("Flour 2", " A1 ")
	body["barcode"] = "4790000000001\t"
	w := kerneltest.Do(r, http.MethodPost, "/products", token, body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	errs := kerneltest.JSON(t, w)["errors"].(map[string]any)
	assert.Equal(t, "has already been taken", errs["item_code"])
	assert.Equal(t, "has already been taken", errs["barcode"])
}
