package orchestrator

import (
	"context"
	"strings"

	"github.com/sourcegraph/conc"

	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
)

// IdentityResponse is returned for identity questions without touching
// any external service.
const IdentityResponse = "I am TruthFinder — your friendly AI assistant! " +
	"I specialize in news analysis, fact-checking, and misinformation detection, " +
	"but I'm also here for general conversations and to help with personal information. " +
	"I can remember details you share with me and help you with news, current events, " +
	"or just chat about anything you'd like."

// GreetingResponse is returned for greetings without touching any
// external service.
const GreetingResponse = "Hello! I'm TruthFinder. Ask me about the news, " +
	"paste an article to fact-check or summarize, or just chat."

// Agents implements the capability set. Every agent is a stateless
// transformation from (message, optional context) to plain text; any
// needed context is passed in explicitly.
type Agents struct {
	generator        ports.Generator
	searcher         ports.PostSearcher
	prompts          *PromptBuilder
	lookupMaxResults int
}

// NewAgents wires the capability agents to their collaborators.
func NewAgents(generator ports.Generator, searcher ports.PostSearcher, prompts *PromptBuilder, lookupMaxResults int) *Agents {
	return &Agents{
		generator:        generator,
		searcher:         searcher,
		prompts:          prompts,
		lookupMaxResults: lookupMaxResults,
	}
}

// FactCheck judges the truthfulness of the message. The raw generated
// text is returned as-is; verdict parsing is a downstream concern.
func (a *Agents) FactCheck(ctx context.Context, message string) string {
	return a.generator.Generate(ctx, a.prompts.FactCheck(message, DetectLanguage(message)))
}

// Summarize produces a short summary of the supplied text.
func (a *Agents) Summarize(ctx context.Context, text string) string {
	return a.generator.Generate(ctx, a.prompts.Summarize(text))
}

// LiveEvent enriches the question with recent posts before generating.
// If generation degrades while posts exist, the raw posts are returned
// instead so the user always receives some grounded content.
func (a *Agents) LiveEvent(ctx context.Context, message string) string {
	posts := a.searcher.Search(ctx, message, a.lookupMaxResults)
	reply := a.generator.Generate(ctx, a.prompts.LiveEvent(message, posts))

	if isDegradedReply(reply) && len(posts) > 0 {
		return "Here's what people are posting about it right now:\n\n" + FormatPosts(posts)
	}
	return reply
}

// Sentiment analyzes tone and bias of the message.
func (a *Agents) Sentiment(ctx context.Context, message string) string {
	return a.generator.Generate(ctx, a.prompts.Sentiment(message))
}

// Keywords extracts the main topics of the message.
func (a *Agents) Keywords(ctx context.Context, message string) string {
	return a.generator.Generate(ctx, a.prompts.Keywords(message))
}

// Statistic checks numeric claims in the message.
func (a *Agents) Statistic(ctx context.Context, message string) string {
	return a.generator.Generate(ctx, a.prompts.Statistic(message))
}

// SocialLookup gives an overview of public discussion on the topic.
func (a *Agents) SocialLookup(ctx context.Context, message string) string {
	return a.generator.Generate(ctx, a.prompts.SocialLookup(message))
}

// Report runs the summarizer, fact-checker, and keyword agents to
// completion, then composes their outputs through one final generation
// call. The three source agents are independent, so they fan out.
func (a *Agents) Report(ctx context.Context, message string) string {
	var summary, factCheck, keywords string

	var wg conc.WaitGroup
	wg.Go(func() { summary = a.Summarize(ctx, message) })
	wg.Go(func() { factCheck = a.FactCheck(ctx, message) })
	wg.Go(func() { keywords = a.Keywords(ctx, message) })
	wg.Wait()

	return a.generator.Generate(ctx, a.prompts.Report(message, summary, factCheck, keywords))
}

// Conversational handles general and personal-data messages with the
// user's folded history.
func (a *Agents) Conversational(ctx context.Context, message, foldedHistory string) string {
	return a.generator.Generate(ctx, a.prompts.Conversational(message, foldedHistory, DetectLanguage(message)))
}

// isDegradedReply reports whether a generation result is empty,
// whitespace-only, or one of the gateway's degraded replies.
func isDegradedReply(reply string) bool {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)
	return strings.Contains(lower, "couldn't process") ||
		strings.Contains(lower, "taking too long") ||
		strings.Contains(lower, "unavailable")
}
