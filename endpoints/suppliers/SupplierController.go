package suppliers

import (
	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"

	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

type SupplierDto struct {
	SupplierName string `json:"supplier_name"`
	Contact      string `json:"contact"`
	Address      string `json:"address"`
}

func (dto *SupplierDto) Validate(_ *kernel.RequestRuntime, _ uint) error {
	return val.ValidateStruct(dto,
		val.Field(&dto.SupplierName, val.Required, val.Length(1, 255)),
		val.Field(&dto.Contact, val.Required, val.Length(1, 255)),
		val.Field(&dto.Address, val.Required, val.Length(1, 255)),
	)
}

func (dto *SupplierDto) Fill(s *models.Supplier) {
	s.SupplierName = dto.SupplierName
	s.Contact = dto.Contact
	s.Address = dto.Address
}

func RegisterController(rg *gin.RouterGroup) {
	crud.Resource[models.Supplier]{
		Name:    "supplier",
		Plural:  "suppliers",
		NewForm: func() crud.Form[models.Supplier] { return &SupplierDto{} },
	}.Register(rg.Group("/suppliers"))
}
