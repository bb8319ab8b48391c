// Package orchestrator is the top-level entry point of the assistant:
// it classifies each incoming message, assembles conversational context
// from the persisted history, dispatches to the right capability agent,
// and drives persistence of the resulting turn.
package orchestrator

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
)

// ErrEmptyMessage rejects a request whose message is empty after
// sanitization. It is the only error surfaced to the caller; every
// other failure mode degrades into reply text.
var ErrEmptyMessage = errors.New("message cannot be empty")

// ErrInternal replaces anything unexpected that escapes the layers
// below; the cause is logged server-side, never shown to the caller.
var ErrInternal = errors.New("internal error, please try again")

// Policy bounds context assembly and lookups per request.
type Policy struct {
	HistoryFetchLimit int
	HistoryFoldLimit  int
	HistoryCharBudget int
}

// DefaultPolicy returns the limits used when none are configured.
func DefaultPolicy() Policy {
	return Policy{
		HistoryFetchLimit: 50,
		HistoryFoldLimit:  20,
		HistoryCharBudget: 8000,
	}
}

// Reply is the outcome of one orchestrated message.
type Reply struct {
	Response string
	History  []ports.Turn
}

// Orchestrator coordinates one request through classification, context
// assembly, dispatch, and persistence. It holds no per-request state;
// concurrent requests are independent and the store is the only shared
// state between them.
type Orchestrator struct {
	agents    *Agents
	store     ports.ConversationStore
	assembler *HistoryAssembler
	tracer    ports.Tracer
	policy    Policy
	logger    zerolog.Logger
}

// New creates an orchestrator from its collaborators.
func New(agents *Agents, store ports.ConversationStore, tracer ports.Tracer, policy Policy, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		agents: agents,
		store:  store,
		assembler: NewHistoryAssembler(Budget{
			MaxTurns: policy.HistoryFoldLimit,
			MaxChars: policy.HistoryCharBudget,
		}),
		tracer: tracer,
		policy: policy,
		logger: logger.With().Str("component", "orchestrator").Logger(),
	}
}

// HandleMessage runs one message through the pipeline and returns the
// reply plus the user's updated history. The message must already be
// sanitized; an empty message is rejected before any collaborator is
// contacted. Exactly one agent turn is persisted per successful call.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID, message string) (reply *Reply, err error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().Interface("panic", r).Str("user_id", userID).Msg("orchestrator panic recovered")
			reply = nil
			err = ErrInternal
		}
	}()

	ctx, finish := o.tracer.StartSpan(ctx, "handle_message", map[string]any{"user_id": userID})
	defer func() { finish(err) }()

	// The user's turn is durably appended (best effort) before reply
	// generation starts. Another request for the same user racing with
	// this one may or may not observe it; ordering is by store
	// timestamp, not request arrival.
	if appendErr := o.store.Append(ctx, userID, ports.RoleUser, message); appendErr != nil {
		o.logger.Warn().Err(appendErr).Str("user_id", userID).Msg("failed to persist user turn")
	}

	intent := Classify(message)
	o.tracer.Event(ctx, "classified", map[string]any{"intent": string(intent)})

	// On store failure History returns nil and the request proceeds
	// with empty context.
	history := o.store.History(ctx, userID, o.policy.HistoryFetchLimit)

	response := o.dispatch(ctx, intent, message, history)
	o.tracer.Event(ctx, "dispatched", map[string]any{"intent": string(intent)})

	if appendErr := o.store.Append(ctx, userID, ports.RoleAgent, response); appendErr != nil {
		o.tracer.Event(ctx, "persist_failed", map[string]any{"error": appendErr.Error()})
		o.logger.Warn().Err(appendErr).Str("user_id", userID).Msg("failed to persist agent turn")
	}

	return &Reply{
		Response: response,
		History:  o.store.History(ctx, userID, o.policy.HistoryFetchLimit),
	}, nil
}

// dispatch routes the classified message to its capability agent.
// Greeting and identity short-circuit without any external call;
// general and personal-data rely on the folded history instead of a
// specialized agent, because personal data is free-form and not
// enumerable by keyword.
func (o *Orchestrator) dispatch(ctx context.Context, intent Intent, message string, history []ports.Turn) string {
	switch intent {
	case IntentGreeting:
		return GreetingResponse
	case IntentIdentity:
		return IdentityResponse
	case IntentLiveEvent:
		return o.agents.LiveEvent(ctx, message)
	case IntentSummarize:
		return o.agents.Summarize(ctx, message)
	case IntentFactCheck:
		return o.agents.FactCheck(ctx, message)
	case IntentSentiment:
		return o.agents.Sentiment(ctx, message)
	case IntentKeywords:
		return o.agents.Keywords(ctx, message)
	case IntentStatistic:
		return o.agents.Statistic(ctx, message)
	case IntentReport:
		return o.agents.Report(ctx, message)
	case IntentSocialLookup:
		return o.agents.SocialLookup(ctx, message)
	default: // IntentPersonalData, IntentGeneral
		folded := o.assembler.Fold(history, nil)
		return o.agents.Conversational(ctx, message, folded)
	}
}
