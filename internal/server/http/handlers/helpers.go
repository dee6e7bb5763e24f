package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PathID parses a positive integer path parameter. On failure it writes a
// 400 response and reports false.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// QueryInt parses an optional integer query parameter, falling back to def
// when absent or malformed.
func QueryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
