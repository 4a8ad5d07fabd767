package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SharerHeader carries the caller identity. It is trusted as-is.
const SharerHeader = "X-Sharer-User-Id"

// SharerRequired is a Gin middleware that requires a well-formed X-Sharer-User-Id header.
func SharerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(SharerHeader))
		if header == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request",
				"message": "missing " + SharerHeader + " header",
			})
			return
		}

		id, err := uuid.Parse(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request",
				"message": "invalid " + SharerHeader + " header",
			})
			return
		}

		SetUserID(c, id.String())
		c.Next()
	}
}

// SharerOptional records the caller identity when the header is present and valid.
// Routes that serve anonymous callers use it so views can still be owner-aware.
func SharerOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := uuid.Parse(strings.TrimSpace(c.GetHeader(SharerHeader))); err == nil {
			SetUserID(c, id.String())
		}
		c.Next()
	}
}
