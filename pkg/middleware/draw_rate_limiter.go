package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DrawRateLimiter keeps one child from hammering the pack-draw endpoints.
// Counters live in Redis so the limit holds across server instances.
type DrawRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewDrawRateLimiter(client *redis.Client) *DrawRateLimiter {
	limit, err := strconv.Atoi(getEnvVar("DRAW_RATE_LIMIT_PER_MINUTE", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	return &DrawRateLimiter{
		client: client,
		limit:  limit,
		window: time.Minute,
	}
}

// DrawRateLimit - per-child sliding-window limit on draw requests.
func (drl *DrawRateLimiter) DrawRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		// Without Redis the limiter degrades to a no-op rather than blocking
		// draws.
		if drl.client == nil {
			c.Next()
			return
		}

		ctx := context.Background()
		key := fmt.Sprintf("draw_rate:%s", userID.(uuid.UUID))

		count, err := drl.client.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			drl.client.Expire(ctx, key, drl.window)
		}

		if count > int64(drl.limit) {
			ttl, _ := drl.client.TTL(ctx, key).Result()

			c.Header("X-RateLimit-Limit", strconv.Itoa(drl.limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many draws, slow down",
				"retry_after": ttl.Seconds(),
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(drl.limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(drl.limit)-count, 10))
		c.Next()
	}
}
