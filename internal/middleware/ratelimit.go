package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"parishlink/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	messageRateWindow = 60 * time.Second
	messageRateMax    = 30
	rateLimitPrefix   = "ratelimit:msg:"
)

// MessageRateLimitMiddleware caps message sends per user using a redis
// fixed window. Fails open when redis is unavailable: rate limiting is
// protection, not a dependency.
func MessageRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if database.RedisClient == nil {
			c.Next()
			return
		}

		userID := GetUserID(c)
		if userID == "" {
			c.Next()
			return
		}

		ctx := context.Background()
		key := rateLimitPrefix + userID

		count, err := database.RedisClient.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			database.RedisClient.Expire(ctx, key, messageRateWindow)
		}

		if count > messageRateMax {
			ttl, _ := database.RedisClient.TTL(ctx, key).Result()
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many messages, slow down",
			})
			return
		}

		c.Next()
	}
}
