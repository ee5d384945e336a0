package middleware

import (
	"net/http"
	"time"

	"github.com/didip/tollbooth"
	"github.com/didip/tollbooth/limiter"
	"github.com/gin-gonic/gin"

	"github.com/ruralbankph/loan_inquiry_relay/models"
)

// RateLimitMiddleware throttles submissions per client IP. maxPerMinute is
// converted to tollbooth's per-second budget.
func RateLimitMiddleware(maxPerMinute float64) gin.HandlerFunc {
	perSecond := maxPerMinute / 60.0
	lmt := tollbooth.NewLimiter(perSecond, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Minute})

	lmt.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})

	return func(c *gin.Context) {
		httpError := tollbooth.LimitByRequest(lmt, c.Writer, c.Request)
		if httpError != nil {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Message: "Too many submissions. Try again later.",
			})
			return
		}
		c.Next()
	}
}
