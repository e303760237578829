package products

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/middleware"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

func RegisterController(rg *gin.RouterGroup) {
	admins := middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin)

	g := rg.Group("/products")
	g.GET("", Index)
	g.POST("", Store)
	g.POST("/import", Import)
	g.GET("/:id", Show)
	g.PUT("/:id", Update)
	g.DELETE("/:id", Destroy)

	g.POST("/delete/:product_name", MoveToBin)
	g.POST("/restore/:product_name", Restore)
	g.DELETE("/permanent-delete/:product_name", admins, PermanentDelete)

	rg.GET("/deleted-items", admins, DeletedItems)
	rg.GET("/product/:id", Barcode)
}

func Index(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("products.index").Advance()

	products := make([]models.Product, 0)
	if err := rt.DB.Order("id desc").Find(&products).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not fetch products: %v", err)
		return
	}

	rt.OK(http.StatusOK, "Products fetched successfully", products)
}

func Store(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("products.store").Advance()

	var dto ProductDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}
	if err := dto.Validate(rt.DB, 0); err != nil {
		rt.Invalid("Validation error creating product", err)
		return
	}

	var product models.Product
	dto.Fill(&product)

	rt.Log.Info().Str("product_name", product.ProductName).Msg("creating product")
	if err := rt.DB.Create(&product).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not create product: %v", err)
		return
	}

	rt.OK(http.StatusCreated, "Product created successfully", product)
}

func Show(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("products.show").Advance()

	product, ok := load(rt)
	if !ok {
		return
	}

	rt.OK(http.StatusOK, "Product fetched successfully", product)
}

func Update(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("products.update").Advance()

	product, ok := load(rt)
	if !ok {
		return
	}

	var dto ProductDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}
	if err := dto.Validate(rt.DB, product.ID); err != nil {
		rt.Invalid("Validation error updating product", err)
		return
	}
	dto.Fill(product)

	rt.Log.Info().Uint("product_id", product.ID).Msg("updating product")
	if err := rt.DB.Save(product).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not update product: %v", err)
		return
	}

	rt.OK(http.StatusOK, "Product updated successfully", product)
}

// Destroy moves the product to the deleted bin.
func Destroy(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("products.destroy").Advance()

	product, ok := load(rt)
	if !ok {
		return
	}

	rt.Log.Info().Uint("product_id", product.ID).Msg("deleting product")
	if err := rt.DB.Delete(product).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not delete product: %v", err)
		return
	}

	rt.OK(http.StatusOK, "Product deleted successfully", nil)
}

func load(rt *kernel.RequestRuntime) (*models.Product, bool) {
	id, err := crud.ParseID(rt.RequestContext)
	if err != nil {
		rt.Ef(http.StatusNotFound, "product not found")
		return nil, false
	}

	var product models.Product
	found, err := rt.Find(&product, id)
	if !found {
		if err != nil {
			rt.Ef(http.StatusInternalServerError, "could not fetch product: %v", err)
			return nil, false
		}
		rt.Ef(http.StatusNotFound, "product with ID '%d' does not exist", id)
		return nil, false
	}
	return &product, true
}
