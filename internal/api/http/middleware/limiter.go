package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
)

// NewLimiterWithRedis builds a sliding-window limiter shared across instances
// through Redis. requestsPerMinute <= 0 falls back to 60.
func NewLimiterWithRedis(rdb *redis.Client, requestsPerMinute int) fiber.Handler {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	storage := fiberredis.NewFromConnection(rdb)
	return limiter.New(limiter.Config{
		Storage: storage,

		Max:               requestsPerMinute,
		Expiration:        time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
