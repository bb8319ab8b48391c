package orchestrator

import (
	"github.com/rs/zerolog"

	"github.com/hamzaahmed987/truthfinder/truthfinder/config"
	"github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/adapters"
	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
)

// Factory creates and wires orchestrator components from configuration.
// The generator, searcher, and store are transport-specific and injected
// by the composition root.
type Factory struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// NewFactory creates an orchestrator factory.
func NewFactory(cfg *config.Config, logger zerolog.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// CreateOrchestrator wires the agents and orchestrator around the given
// collaborators.
func (f *Factory) CreateOrchestrator(generator ports.Generator, searcher ports.PostSearcher, store ports.ConversationStore) *Orchestrator {
	agents := NewAgents(generator, searcher, NewPromptBuilder(), f.cfg.Orchestrator.LookupMaxResults)
	return New(agents, store, f.CreateTracer(), f.CreatePolicy(), f.logger)
}

// CreateTracer returns a zerolog tracer, or a no-op when tracing is
// disabled.
func (f *Factory) CreateTracer() ports.Tracer {
	if !f.cfg.Orchestrator.EnableTracing {
		return adapters.NoopTracer{}
	}
	return adapters.NewZerologTracer(f.logger)
}

// CreateLookupCache returns the topic cache for the lookup client, or a
// no-op when caching is disabled.
func (f *Factory) CreateLookupCache() ports.Cache {
	if !f.cfg.Lookup.CacheEnabled {
		return adapters.NoopCache{}
	}
	return adapters.NewLRUCache(f.cfg.Lookup.CacheCapacity)
}

// CreateGenerationLimiter returns the token bucket capping generation
// calls, or a no-op when rate limiting is disabled.
func (f *Factory) CreateGenerationLimiter() ports.RateLimiter {
	if !f.cfg.Generation.RateLimitEnabled {
		return adapters.NoopRateLimiter{}
	}
	return adapters.NewTokenBucket(f.cfg.Generation.RateLimitCapacity, f.cfg.Generation.RateLimitRefillRate)
}

// CreatePolicy builds the per-request limits from config, clamping
// nonsense values.
func (f *Factory) CreatePolicy() Policy {
	policy := Policy{
		HistoryFetchLimit: f.cfg.Orchestrator.HistoryFetchLimit,
		HistoryFoldLimit:  f.cfg.Orchestrator.HistoryFoldLimit,
		HistoryCharBudget: f.cfg.Orchestrator.HistoryCharBudget,
	}

	defaults := DefaultPolicy()
	if policy.HistoryFetchLimit <= 0 {
		policy.HistoryFetchLimit = defaults.HistoryFetchLimit
		f.logger.Warn().Int("history_fetch_limit", f.cfg.Orchestrator.HistoryFetchLimit).Msg("history fetch limit reset to default")
	}
	if policy.HistoryFoldLimit <= 0 || policy.HistoryFoldLimit > policy.HistoryFetchLimit {
		policy.HistoryFoldLimit = min(defaults.HistoryFoldLimit, policy.HistoryFetchLimit)
	}
	if policy.HistoryCharBudget <= 0 {
		policy.HistoryCharBudget = defaults.HistoryCharBudget
	}
	return policy
}
