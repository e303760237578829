package categories

import (
	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"

	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

type CategoryDto struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (dto *CategoryDto) Validate(rt *kernel.RequestRuntime, id uint) error {
	return val.ValidateStruct(dto,
		val.Field(&dto.Name, val.Required, val.Length(1, 255),
			crud.Unique(rt.DB, &models.Category{}, "name", id)),
	)
}

func (dto *CategoryDto) Fill(c *models.Category) {
	c.Name = dto.Name
	c.Description = crud.Trim(dto.Description)
}

func RegisterController(rg *gin.RouterGroup) {
	crud.Resource[models.Category]{
		Name:    "category",
		Plural:  "categories",
		NewForm: func() crud.Form[models.Category] { return &CategoryDto{} },
	}.Register(rg.Group("/categories"))
}
