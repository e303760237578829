package kernel

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name  string
		query string
		page  int
		size  int
	}{
		{"defaults", "", 1, DefaultPerPage},
		{"explicit", "?page=3&per_page=25", 3, 25},
		{"garbage", "?page=x&per_page=-4", 1, DefaultPerPage},
		{"capped", "?per_page=1000", 1, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/users"+tc.query, nil)

			page, size := Paginate(c, DefaultPerPage)
			assert.Equal(t, tc.page, page)
			assert.Equal(t, tc.size, size)
		})
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 2, 10, 21)
	assert.Equal(t, 3, p.LastPage)
	assert.Equal(t, int64(21), p.Total)

	empty := NewPage[int](nil, 1, 10, 0)
	assert.Equal(t, 1, empty.LastPage)
	assert.NotNil(t, empty.Data)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.13, Round2(10.125))
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	assert.Equal(t, -1.5, Round2(-1.499999))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("P@ssw0rd123")
	assert.NoError(t, err)
	assert.NotEqual(t, "P@ssw0rd123", hash)
	assert.True(t, VerifyPassword("P@ssw0rd123", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.False(t, VerifyPassword("P@ssw0rd123", "not-a-hash"))
}
