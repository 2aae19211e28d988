package middleware

import (
	"net/http"
	"strconv"

	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

const hotelIDKey = "hotelID"

// HotelScope requires an explicit X-Hotel-ID header on every request and
// stashes it in the context. Tenant identity is never inferred from anything
// else.
func HotelScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Hotel-ID")
		if raw == "" {
			utils.JSONErrorCode(c, http.StatusBadRequest, "error.missingHotelId", "X-Hotel-ID header is required")
			c.Abort()
			return
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			utils.JSONErrorCode(c, http.StatusBadRequest, "error.invalidHotelId", "X-Hotel-ID must be a positive integer")
			c.Abort()
			return
		}
		c.Set(hotelIDKey, uint(id))
		c.Next()
	}
}

// HotelID reads the tenant set by HotelScope.
func HotelID(c *gin.Context) uint {
	if v, ok := c.Get(hotelIDKey); ok {
		if id, ok2 := v.(uint); ok2 {
			return id
		}
	}
	return 0
}
