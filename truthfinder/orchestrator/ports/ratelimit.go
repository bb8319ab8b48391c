package ports

import "context"

// RateLimiter coordinates throughput toward upstream services.
type RateLimiter interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
