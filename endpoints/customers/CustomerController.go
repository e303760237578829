package customers

import (
	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"git.sr.ht/~aondrejcak/pos-api/endpoints/crud"
	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
)

type CustomerDto struct {
	CustomerName string  `json:"customer_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	NicNumber    *string `json:"nic_number"`
}

func (dto *CustomerDto) Validate(_ *kernel.RequestRuntime, _ uint) error {
	return val.ValidateStruct(dto,
		val.Field(&dto.CustomerName, val.Required, val.Length(1, 255)),
		val.Field(&dto.Email, is.Email, val.Length(0, 255)),
		val.Field(&dto.Phone, val.Length(0, 64)),
		val.Field(&dto.Address, val.Length(0, 255)),
		val.Field(&dto.NicNumber, val.Length(0, 64)),
	)
}

func (dto *CustomerDto) Fill(c *models.Customer) {
	c.CustomerName = dto.CustomerName
	c.Email = crud.Trim(dto.Email)
	c.Phone = crud.Trim(dto.Phone)
	c.Address = crud.Trim(dto.Address)
	c.NicNumber = crud.Trim(dto.NicNumber)
}

func RegisterController(rg *gin.RouterGroup) {
	crud.Resource[models.Customer]{
		Name:    "customer",
		Plural:  "customers",
		NewForm: func() crud.Form[models.Customer] { return &CustomerDto{} },
	}.Register(rg.Group("/customers"))
}
