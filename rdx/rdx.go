package rdx

import (
	"os"

	"github.com/redis/go-redis/v9"
)

// Conn is the shared Redis client, used for event pub/sub.
var Conn = redis.NewClient(&redis.Options{
	Addr: redisAddr(),
})

func redisAddr() string {
	if addr := os.Getenv("REDIS_URL"); addr != "" {
		return addr
	}
	return "localhost:6379"
}
