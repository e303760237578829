package crud

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
)

// Form is a request body for a resource of type T. Validate gets the id of
// the row being updated, zero on create.
type Form[T any] interface {
	Validate(rt *kernel.RequestRuntime, id uint) error
	Fill(row *T)
}

// Resource serves index, store, show, update and destroy for one table.
type Resource[T any] struct {
	Name    string
	Plural  string
	NewForm func() Form[T]
}

func (res Resource[T]) Register(g *gin.RouterGroup) {
	g.GET("", res.Index)
	g.POST("", res.Store)
	g.GET("/:id", res.Show)
	g.PUT("/:id", res.Update)
	g.DELETE("/:id", res.Destroy)
}

func (res Resource[T]) Index(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer(res.span("index")).Advance()

	rows := make([]T, 0)
	if err := rt.DB.Order("id desc").Find(&rows).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not fetch %s: %v", res.Plural, err)
		return
	}

	rt.OK(http.StatusOK, fmt.Sprintf("%s fetched successfully", capitalize(res.Plural)), rows)
}

func (res Resource[T]) Store(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer(res.span("store")).Advance()

	form := res.NewForm()
	if err := c.ShouldBindJSON(form); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}
	if err := form.Validate(rt, 0); err != nil {
		rt.Invalid("Validation error creating "+res.Name, err)
		return
	}

	var row T
	form.Fill(&row)

	rt.Log.Info().Str("resource", res.Name).Msg("creating " + res.Name)
	if err := rt.DB.Create(&row).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not create %s: %v", res.Name, err)
		return
	}

	rt.OK(http.StatusCreated, fmt.Sprintf("%s created successfully", capitalize(res.Name)), row)
}

func (res Resource[T]) Show(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer(res.span("show")).Advance()

	var row T
	if _, ok := res.load(rt, &row); !ok {
		return
	}

	rt.OK(http.StatusOK, fmt.Sprintf("%s fetched successfully", capitalize(res.Name)), row)
}

func (res Resource[T]) Update(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer(res.span("update")).Advance()

	var row T
	id, ok := res.load(rt, &row)
	if !ok {
		return
	}

	form := res.NewForm()
	if err := c.ShouldBindJSON(form); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}
	if err := form.Validate(rt, id); err != nil {
		rt.Invalid("Validation error updating "+res.Name, err)
		return
	}
	form.Fill(&row)

	rt.Log.Info().Str("resource", res.Name).Uint("id", id).Msg("updating " + res.Name)
	if err := rt.DB.Save(&row).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not update %s: %v", res.Name, err)
		return
	}

	rt.OK(http.StatusOK, fmt.Sprintf("%s updated successfully", capitalize(res.Name)), row)
}

func (res Resource[T]) Destroy(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer(res.span("destroy")).Advance()

	var row T
	id, ok := res.load(rt, &row)
	if !ok {
		return
	}

	rt.Log.Info().Str("resource", res.Name).Uint("id", id).Msg("deleting " + res.Name)
	if err := rt.DB.Delete(&row).Error; err != nil {
		rt.Ef(http.StatusInternalServerError, "could not delete %s: %v", res.Name, err)
		return
	}

	rt.OK(http.StatusOK, fmt.Sprintf("%s deleted successfully", capitalize(res.Name)), nil)
}

// load reads the :id parameter and the row behind it. On failure the
// response has already been written.
func (res Resource[T]) load(rt *kernel.RequestRuntime, row *T) (uint, bool) {
	id, err := ParseID(rt.RequestContext)
	if err != nil {
		rt.Ef(http.StatusNotFound, "%s not found", res.Name)
		return 0, false
	}

	found, err := rt.Find(row, id)
	if !found {
		if err != nil {
			rt.Ef(http.StatusInternalServerError, "could not fetch %s: %v", res.Name, err)
			return 0, false
		}
		rt.Ef(http.StatusNotFound, "%s with ID '%d' does not exist", res.Name, id)
		return 0, false
	}
	return id, true
}

// span names an operation of the resource, e.g. "store_locations.index".
func (res Resource[T]) span(op string) string {
	return strings.ReplaceAll(res.Plural, " ", "_") + "." + op
}

// ParseID reads the :id path parameter.
func ParseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
