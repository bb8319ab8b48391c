package lookup

import (
	"context"
	"encoding/json"
	"fmt"

	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
	"github.com/rs/zerolog"
)

// CachedSearcher memoizes lookup results per topic for a short TTL.
// Empty results are not cached so a transient outage does not pin an
// empty answer for the whole TTL.
type CachedSearcher struct {
	inner      ports.PostSearcher
	cache      ports.Cache
	ttlSeconds int
	logger     zerolog.Logger
}

// NewCachedSearcher wraps a searcher with a cache.
func NewCachedSearcher(inner ports.PostSearcher, cache ports.Cache, ttlSeconds int, logger zerolog.Logger) *CachedSearcher {
	return &CachedSearcher{
		inner:      inner,
		cache:      cache,
		ttlSeconds: ttlSeconds,
		logger:     logger.With().Str("component", "lookup_cache").Logger(),
	}
}

// Search serves from the cache when possible, delegating otherwise.
func (s *CachedSearcher) Search(ctx context.Context, topic string, maxResults int) []ports.ExternalPost {
	key := fmt.Sprintf("lookup:%d:%s", maxResults, topic)

	if raw, ok := s.cache.Get(ctx, key); ok {
		var posts []ports.ExternalPost
		if err := json.Unmarshal(raw, &posts); err == nil {
			return posts
		}
		// Corrupt entry, drop it and fall through.
		_ = s.cache.Delete(ctx, key)
	}

	posts := s.inner.Search(ctx, topic, maxResults)
	if len(posts) == 0 {
		return posts
	}

	if raw, err := json.Marshal(posts); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttlSeconds); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache lookup result")
		}
	}
	return posts
}

var _ ports.PostSearcher = (*CachedSearcher)(nil)
