package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore marks responses as uncacheable. The dashboard is a live
// view; a cached snapshot of bookings or occupancy is worse than a
// slow one.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
