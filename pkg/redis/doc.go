// Package redis provides Redis connection management with URL parsing,
// retry logic, and configurable pooling.
//
// Open parses redis:// or rediss:// URLs, applies pool and timeout
// settings, and verifies connectivity with a ping before returning.
// Failed pings are retried with linear backoff.
//
//	client, err := redis.Open(ctx, "redis://localhost:6379/0")
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// MustOpen is a convenience wrapper that exits the process on failure,
// suitable for application startup paths.
package redis
