package locations

import (
	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

type StoreLocationDto struct {
	StoreName string  `json:"store_name"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

func (dto *StoreLocationDto) Validate(_ *kernel.RequestRuntime, _ uint) error {
	return val.ValidateStruct(dto,
		val.Field(&dto.StoreName, val.Required, val.Length(1, 255)),
		val.Field(&dto.Address, val.Length(0, 255)),
		val.Field(&dto.Phone, val.Length(0, 64)),
		val.Field(&dto.Email, is.Email, val.Length(0, 255)),
	)
}

func (dto *StoreLocationDto) Fill(l *models.StoreLocation) {
	l.StoreName = dto.StoreName
	l.Address = crud.Trim(dto.Address)
	l.Phone = crud.Trim(dto.Phone)
	l.Email = crud.Trim(dto.Email)
}

func RegisterController(rg *gin.RouterGroup) {
	crud.Resource[models.StoreLocation]{
		Name:    "store location",
		Plural:  "store locations",
		NewForm: func() crud.Form[models.StoreLocation] { return &StoreLocationDto{} },
	}.Register(rg.Group("/store-locations"))
}
