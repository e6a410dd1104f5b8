package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one "METHOD URL" line per request.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Printf("%s %s", c.Request.Method, c.Request.URL.String())
		c.Next()
	}
}

// BodyLimit caps request bodies at limit bytes. Reads past the limit fail,
// which the handlers report as invalid input.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
