package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzaahmed987/truthfinder/truthfinder/generation"
	"github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/adapters"
	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
)

// stubGenerator records every prompt and returns a canned reply.
type stubGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	panics  bool
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) string {
	if g.panics {
		panic("generator blew up")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply
}

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func (g *stubGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

// stubSearcher returns canned posts and counts invocations.
type stubSearcher struct {
	mu    sync.Mutex
	calls int
	posts []ports.ExternalPost
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) []ports.ExternalPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.posts
}

// stubStore is an in-memory conversation store. appendErr, when set,
// makes every Append fail.
type stubStore struct {
	mu        sync.Mutex
	turns     map[string][]ports.Turn
	appendErr error
	appends   int
}

func newStubStore() *stubStore {
	return &stubStore{turns: make(map[string][]ports.Turn)}
}

func (s *stubStore) Append(_ context.Context, userID, role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appends++
	if s.appendErr != nil {
		return s.appendErr
	}
	s.turns[userID] = append(s.turns[userID], ports.Turn{
		UserID:    userID,
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (s *stubStore) History(_ context.Context, userID string, limit int) []ports.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.turns[userID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]ports.Turn, len(turns))
	copy(out, turns)
	return out
}

func (s *stubStore) roleTurns(userID, role string) []ports.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ports.Turn
	for _, t := range s.turns[userID] {
		if t.Role == role {
			out = append(out, t)
		}
	}
	return out
}

func newTestOrchestrator(gen ports.Generator, searcher ports.PostSearcher, store ports.ConversationStore) *Orchestrator {
	agents := NewAgents(gen, searcher, NewPromptBuilder(), 10)
	return New(agents, store, adapters.NoopTracer{}, DefaultPolicy(), zerolog.Nop())
}

func TestHandleMessageEmptyRejectedBeforeAnyCollaborator(t *testing.T) {
	gen := &stubGenerator{reply: "unused"}
	searcher := &stubSearcher{}
	store := newStubStore()
	o := newTestOrchestrator(gen, searcher, store)

	reply, err := o.HandleMessage(context.Background(), "u1", "")

	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.Nil(t, reply)
	assert.Zero(t, gen.calls())
	assert.Zero(t, searcher.calls)
	assert.Zero(t, store.appends)
}

func TestHandleMessageGreetingShortCircuits(t *testing.T) {
	gen := &stubGenerator{reply: "unused"}
	searcher := &stubSearcher{}
	store := newStubStore()
	o := newTestOrchestrator(gen, searcher, store)

	reply, err := o.HandleMessage(context.Background(), "u1", "hello")

	require.NoError(t, err)
	assert.Equal(t, GreetingResponse, reply.Response)
	assert.Zero(t, gen.calls(), "greeting must not reach generation")
	assert.Zero(t, searcher.calls, "greeting must not reach lookup")

	agentTurns := store.roleTurns("u1", ports.RoleAgent)
	require.Len(t, agentTurns, 1)
	assert.Equal(t, GreetingResponse, agentTurns[0].Text)
}

func TestHandleMessageSummarizeSingleGenerationCall(t *testing.T) {
	gen := &stubGenerator{reply: "A short summary."}
	store := newStubStore()
	o := newTestOrchestrator(gen, &stubSearcher{}, store)

	article := "The council voted 7-2 to approve the new reservoir."
	reply, err := o.HandleMessage(context.Background(), "u1", "summarize: "+article)

	require.NoError(t, err)
	assert.Equal(t, "A short summary.", reply.Response)
	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.lastPrompt(), article)

	agentTurns := store.roleTurns("u1", ports.RoleAgent)
	require.Len(t, agentTurns, 1)
	assert.Equal(t, "A short summary.", agentTurns[0].Text)
}

func TestHandleMessageFoldsHistoryIntoConversationalPrompt(t *testing.T) {
	gen := &stubGenerator{reply: "Noted, your favorite city is Lahore."}
	store := newStubStore()
	o := newTestOrchestrator(gen, &stubSearcher{}, store)

	ctx := context.Background()
	_, err := o.HandleMessage(ctx, "u1", "my favorite city is Lahore")
	require.NoError(t, err)

	_, err = o.HandleMessage(ctx, "u1", "what did i tell you earlier?")
	require.NoError(t, err)

	prompt := gen.lastPrompt()
	assert.Contains(t, prompt, "my favorite city is Lahore")
	assert.Contains(t, prompt, "Noted, your favorite city is Lahore.")
	assert.Contains(t, prompt, "Conversation history:")
}

func TestHandleMessageLiveEventFallsBackToRawPosts(t *testing.T) {
	gen := &stubGenerator{reply: generation.FallbackGeneric}
	searcher := &stubSearcher{posts: []ports.ExternalPost{
		{Author: "reporter_a", Text: "Power is out across the east side."},
		{Author: "reporter_b", Text: "Crews are on site at the substation."},
	}}
	store := newStubStore()
	o := newTestOrchestrator(gen, searcher, store)

	reply, err := o.HandleMessage(context.Background(), "u1", "what is happening downtown")

	require.NoError(t, err)
	assert.Contains(t, reply.Response, "Power is out across the east side.")
	assert.Contains(t, reply.Response, "Crews are on site at the substation.")
	assert.NotContains(t, reply.Response, generation.FallbackGeneric)
}

func TestHandleMessageLiveEventDegradedWithoutPosts(t *testing.T) {
	gen := &stubGenerator{reply: generation.FallbackGeneric}
	o := newTestOrchestrator(gen, &stubSearcher{}, newStubStore())

	reply, err := o.HandleMessage(context.Background(), "u1", "what is happening downtown")

	require.NoError(t, err)
	assert.Equal(t, generation.FallbackGeneric, reply.Response)
}

func TestHandleMessagePersistenceFailureDoesNotChangeReply(t *testing.T) {
	gen := &stubGenerator{reply: "still works"}
	store := newStubStore()
	store.appendErr = errors.New("disk full")
	o := newTestOrchestrator(gen, &stubSearcher{}, store)

	reply, err := o.HandleMessage(context.Background(), "u1", "tell me something interesting")

	require.NoError(t, err)
	assert.Equal(t, "still works", reply.Response)
	assert.Empty(t, reply.History)
}

func TestHandleMessagePanicBecomesInternalError(t *testing.T) {
	gen := &stubGenerator{panics: true}
	o := newTestOrchestrator(gen, &stubSearcher{}, newStubStore())

	reply, err := o.HandleMessage(context.Background(), "u1", "tell me something interesting")

	require.ErrorIs(t, err, ErrInternal)
	assert.Nil(t, reply)
}

func TestHandleMessagePersistsExactlyOneAgentTurn(t *testing.T) {
	gen := &stubGenerator{reply: "combined report"}
	store := newStubStore()
	o := newTestOrchestrator(gen, &stubSearcher{}, store)

	_, err := o.HandleMessage(context.Background(), "u1", "give me a full analysis")
	require.NoError(t, err)

	// Report fans out to three agents plus a composing call, but only
	// the final reply is persisted.
	assert.Equal(t, 4, gen.calls())
	assert.Len(t, store.roleTurns("u1", ports.RoleAgent), 1)
	assert.Len(t, store.roleTurns("u1", ports.RoleUser), 1)
}

func TestHandleMessageReturnsUpdatedHistory(t *testing.T) {
	gen := &stubGenerator{reply: "sure thing"}
	store := newStubStore()
	o := newTestOrchestrator(gen, &stubSearcher{}, store)

	reply, err := o.HandleMessage(context.Background(), "u1", "tell me something interesting")

	require.NoError(t, err)
	require.Len(t, reply.History, 2)
	assert.Equal(t, ports.RoleUser, reply.History[0].Role)
	assert.Equal(t, "tell me something interesting", reply.History[0].Text)
	assert.Equal(t, ports.RoleAgent, reply.History[1].Role)
	assert.Equal(t, "sure thing", reply.History[1].Text)
}

var (
	_ ports.Generator         = (*stubGenerator)(nil)
	_ ports.PostSearcher      = (*stubSearcher)(nil)
	_ ports.ConversationStore = (*stubStore)(nil)
)
