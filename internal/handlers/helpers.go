package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// businessIDFrom resolves the tenant for a request: the authenticated
// claims when present, the businessId query param for public reads.
func businessIDFrom(c echo.Context) uint {
	if id, ok := c.Get("businessID").(uint); ok && id != 0 {
		return id
	}
	if v, err := strconv.Atoi(c.QueryParam("businessId")); err == nil && v > 0 {
		return uint(v)
	}
	return 0
}
