// Package lookup wraps the external short-form social-post search
// service. On any failure the client returns an empty slice, never an
// error, so callers can treat "no posts" and "service down" identically.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
	"github.com/rs/zerolog"
)

// TwitterClient queries the recent-search endpoint. Result ordering is
// provider-native recency; no dedup or ranking is applied.
type TwitterClient struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewTwitterClient creates a lookup client.
func NewTwitterClient(baseURL, bearerToken string, timeout time.Duration, logger zerolog.Logger) *TwitterClient {
	return &TwitterClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger.With().Str("component", "lookup").Logger(),
	}
}

type searchResponse struct {
	Data []struct {
		Text     string `json:"text"`
		AuthorID string `json:"author_id"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

// Search returns recent posts about the topic, capped at maxResults.
// Retweets are excluded and results are restricted to English, matching
// how topics were shaped in the hosted deployment.
func (c *TwitterClient) Search(ctx context.Context, topic string, maxResults int) []ports.ExternalPost {
	if strings.TrimSpace(topic) == "" {
		return nil
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s -is:retweet lang:en", topic))
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username")

	endpoint := c.baseURL + "/2/tweets/search/recent?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to build lookup request")
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("topic", topic).Msg("lookup call failed")
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed reading lookup response")
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().Int("status", resp.StatusCode).Str("topic", topic).Msg("lookup non-success status")
		return nil
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn().Err(err).Msg("failed to parse lookup response")
		return nil
	}

	usernames := make(map[string]string, len(parsed.Includes.Users))
	for _, u := range parsed.Includes.Users {
		usernames[u.ID] = u.Username
	}

	posts := make([]ports.ExternalPost, 0, len(parsed.Data))
	for _, tw := range parsed.Data {
		author := usernames[tw.AuthorID]
		if author == "" {
			author = "unknown"
		}
		posts = append(posts, ports.ExternalPost{Author: author, Text: tw.Text})
	}
	return posts
}

var _ ports.PostSearcher = (*TwitterClient)(nil)
