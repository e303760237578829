package units

import (
	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"

	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

type UnitDto struct {
	UnitName string `json:"unit_name"`
}

func (dto *UnitDto) Validate(rt *kernel.RequestRuntime, id uint) error {
	return val.ValidateStruct(dto,
		val.Field(&dto.UnitName, val.Required, val.Length(1, 255),
			crud.Unique(rt.DB, &models.Unit{}, "unit_name", id)),
	)
}

func (dto *UnitDto) Fill(u *models.Unit) {
	u.UnitName = dto.UnitName
}

func RegisterController(rg *gin.RouterGroup) {
	crud.Resource[models.Unit]{
		Name:    "unit",
		Plural:  "units",
		NewForm: func() crud.Form[models.Unit] { return &UnitDto{} },
	}.Register(rg.Group("/units"))
}
