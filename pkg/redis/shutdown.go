package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Shutdown returns a function that closes the Redis client.
// The returned closure matches the shape expected by graceful
// shutdown hooks.
func Shutdown(client redis.UniversalClient) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
