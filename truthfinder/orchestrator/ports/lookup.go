package ports

import "context"

// ExternalPost is a short-form social-media post returned by the lookup
// service. Posts are ephemeral and never persisted; they only enrich a
// single prompt.
type ExternalPost struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// PostSearcher queries an external short-form search service for recent
// posts about a topic. On any failure (network, auth, rate limit, empty
// result) it returns an empty slice, never an error. Ordering is
// provider-native recency.
type PostSearcher interface {
	Search(ctx context.Context, topic string, maxResults int) []ExternalPost
}
