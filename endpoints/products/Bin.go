package products

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

// MoveToBin soft deletes every product with the given name.
func MoveToBin(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("products.bin.move").Advance()

	name := c.Param("product_name")
	res := rt.DB.Where("product_name = ?", name).Delete(&models.Product{})
	if res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "could not delete product: %v", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		rt.Ef(http.StatusNotFound, "product '%s' not found", name)
		return
	}

	rt.Log.Info().Str("product_name", name).Int64("count", res.RowsAffected).Msg("moved product to deleted bin")
	rt.OK(http.StatusOK, "Product moved to deleted items", gin.H{"count": res.RowsAffected})
}

func Restore(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("products.bin.restore").Advance()

	name := c.Param("product_name")
	res := rt.DB.Unscoped().Model(&models.Product{}).
		Where("product_name = ? AND deleted_at IS NOT NULL", name).
		Update("deleted_at", nil)
	if res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "could not restore product: %v", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		rt.Ef(http.StatusNotFound, "product '%s' is not in the deleted items", name)
		return
	}

	rt.Log.Info().Str("product_name", name).Int64("count", res.RowsAffected).Msg("restored product")
	rt.OK(http.StatusOK, "Product restored successfully", gin.H{"count": res.RowsAffected})
}

// PermanentDelete removes binned products with the given name for good.
func PermanentDelete(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("products.bin.purge").Advance()

	name := c.Param("product_name")
	res := rt.DB.Unscoped().
		Where("product_name = ? AND deleted_at IS NOT NULL", name).
		Delete(&models.Product{})
	if res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "could not delete product: %v", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		rt.Ef(http.StatusNotFound, "product '%s' is not in the deleted items", name)
		return
	}

	rt.Log.Warn().Str("product_name", name).Int64("count", res.RowsAffected).Msg("permanently deleted product")
	rt.OK(http.StatusOK, "Product permanently deleted", gin.H{"count": res.RowsAffected})
}

func DeletedItems(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("products.bin.index").Advance()

	products := make([]models.Product, 0)
	err := rt.DB.Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at desc").
		Find(&products).Error
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "could not fetch deleted items: %v", err)
		return
	}

	rt.OK(http.StatusOK, "Deleted items fetched successfully", products)
}
