package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ruralbankph/loan_inquiry_relay/models"
)

// HostWhitelistMiddleware rejects requests whose Host header is not one of
// the configured deployment hosts.
func HostWhitelistMiddleware(allowedHosts []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Host
		allowed := false
		for _, h := range allowedHosts {
			if strings.EqualFold(h, host) {
				allowed = true
				break
			}
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Message: "Permission denied",
			})
			return
		}

		c.Next()
	}
}
