// Package generation wraps the external text-generation service. The
// gateway never returns an error to its caller: every failure mode
// collapses to a user-safe fallback string so the conversation continues.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
	"github.com/rs/zerolog"
)

// Fallback replies returned instead of upstream failures. FallbackBusy
// is the timeout-specific variant; everything else degrades to
// FallbackGeneric.
const (
	FallbackGeneric = "I couldn't process that request. Could you try rephrasing?"
	FallbackBusy    = "That's taking too long right now. Please try again later."
)

// GeminiGateway calls the generative-language REST endpoint with a
// bounded timeout. At-most-once semantics: no retries, a failed call
// yields a degraded reply.
type GeminiGateway struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	limiter    ports.RateLimiter
	logger     zerolog.Logger
}

// NewGeminiGateway creates a gateway. The limiter may be a no-op.
func NewGeminiGateway(baseURL, apiKey, model string, timeout time.Duration, limiter ports.RateLimiter, logger zerolog.Logger) *GeminiGateway {
	return &GeminiGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		timeout:    timeout,
		httpClient: &http.Client{},
		limiter:    limiter,
		logger:     logger.With().Str("component", "generation").Logger(),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt and returns the generated text, or a
// fallback string on any failure. It never returns an error.
func (g *GeminiGateway) Generate(ctx context.Context, prompt string) string {
	release, err := g.limiter.Acquire(ctx, "generate")
	if err != nil {
		g.logger.Warn().Err(err).Msg("generation throttled")
		return FallbackGeneric
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		g.logger.Error().Err(err).Msg("failed to marshal generation request")
		return FallbackGeneric
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		g.logger.Error().Err(err).Msg("failed to build generation request")
		return FallbackGeneric
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			g.logger.Warn().Dur("timeout", g.timeout).Msg("generation call timed out")
			return FallbackBusy
		}
		g.logger.Warn().Err(err).Msg("generation call failed")
		return FallbackGeneric
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		g.logger.Warn().Err(err).Msg("failed reading generation response")
		return FallbackGeneric
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Warn().Int("status", resp.StatusCode).Str("body", truncate(string(body), 400)).
			Msg("generation non-success status")
		return FallbackGeneric
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		g.logger.Warn().Err(err).Msg("failed to parse generation response")
		return FallbackGeneric
	}

	text := extractText(parsed)
	if text == "" {
		g.logger.Warn().Msg("generation response had no text")
		return FallbackGeneric
	}
	return text
}

func extractText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

var _ ports.Generator = (*GeminiGateway)(nil)
