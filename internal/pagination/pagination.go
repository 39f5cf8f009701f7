package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxLimit caps every list endpoint's page size.
const MaxLimit = 100

// Page reads ?page=, clamped to >= 1.
func Page(c *gin.Context) int {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	return page
}

// Limit reads ?limit=, defaulting to def and clamped to [1, MaxLimit].
func Limit(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil || limit < 1 {
		limit = def
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit
}
