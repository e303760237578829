package kernel

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const DefaultPerPage = 10

func UuidV7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (rt *RequestRuntime) BindJSON(obj any) {
	if err := rt.RequestContext.ShouldBindJSON(obj); err != nil {
		rt.S(rt.MakeErrorf("failed to bind json: %v", err))
	}
}

// Suppress function error output
func (rt *RequestRuntime) S(err error) {
	if err != nil {
		rt.Log.Debug().Err(err).Msg("suppressed error")
	}
}

// OK writes the {"message", "data"} envelope and closes the current block.
func (rt *RequestRuntime) OK(code int, message string, data any) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	rt.RequestContext.JSON(code, body)
	rt.EndBlock()
}

type Page[T any] struct {
	CurrentPage int   `json:"current_page"`
	Data        []T   `json:"data"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// Paginate reads ?page= and ?per_page= (capped at 100).
func Paginate(c *gin.Context, perPage int) (page int, size int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err = strconv.Atoi(c.Query("per_page"))
	if err != nil || size < 1 {
		size = perPage
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func NewPage[T any](data []T, page, size int, total int64) Page[T] {
	last := int(math.Ceil(float64(total) / float64(size)))
	if last < 1 {
		last = 1
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{CurrentPage: page, Data: data, LastPage: last, PerPage: size, Total: total}
}

// Round2 rounds money to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
