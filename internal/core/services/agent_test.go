package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

// --- Mock implementations ---

// mockIndex implements driven.RetrievalIndex for testing.
type mockIndex struct {
	chunks    []domain.RetrievedChunk
	searchErr error
	gotQuery  string
	gotOwner  string
	gotK      int
}

func (m *mockIndex) Add(_ context.Context, _ []domain.Chunk, _, _, _ string) error {
	return nil
}

func (m *mockIndex) Search(_ context.Context, query, ownerID string, k int) ([]domain.RetrievedChunk, error) {
	m.gotQuery = query
	m.gotOwner = ownerID
	m.gotK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.chunks, nil
}

func (m *mockIndex) Delete(_ context.Context, _, _ string) error {
	return nil
}

func (m *mockIndex) Close() error { return nil }

// mockConvStore implements driven.ConversationStore for testing.
type mockConvStore struct {
	histories map[string][]domain.ConversationTurn
	appendErr error
}

func newMockConvStore() *mockConvStore {
	return &mockConvStore{histories: make(map[string][]domain.ConversationTurn)}
}

func (m *mockConvStore) Append(_ context.Context, id string, turn domain.ConversationTurn) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.histories[id] = append(m.histories[id], turn)
	return nil
}

func (m *mockConvStore) History(_ context.Context, id string) ([]domain.ConversationTurn, error) {
	return m.histories[id], nil
}

// mockGenerator implements driven.AnswerGenerator for testing.
type mockGenerator struct {
	name    string
	answer  string
	err     error
	gotReq  driven.AnswerRequest
	calls   int
}

func (m *mockGenerator) Answer(_ context.Context, req driven.AnswerRequest) (string, error) {
	m.gotReq = req
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockGenerator) Name() string { return m.name }

func retrievedChunks(filenames ...string) []domain.RetrievedChunk {
	chunks := make([]domain.RetrievedChunk, len(filenames))
	for i, f := range filenames {
		chunks[i] = domain.RetrievedChunk{
			Chunk:      domain.Chunk{Content: fmt.Sprintf("content of chunk %d", i), Type: domain.ChunkTypeText},
			Filename:   f,
			DocumentID: "doc1",
			ChunkIndex: i,
		}
	}
	return chunks
}

// --- Tests ---

func TestAnswer_EmptyQuestion(t *testing.T) {
	agent := NewAgentService(&mockIndex{}, newMockConvStore(), &mockGenerator{name: "fallback"})

	_, err := agent.Answer(context.Background(), "   ", "local", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAnswer_NoResults_ShortCircuits(t *testing.T) {
	gen := &mockGenerator{name: "fallback", answer: "should not be called"}
	store := newMockConvStore()
	agent := NewAgentService(&mockIndex{}, store, gen)

	envelope, err := agent.Answer(context.Background(), "anything?", "local", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.MsgNoRelevantDocuments, envelope.Answer)
	assert.Empty(t, envelope.Sources)
	assert.NotEmpty(t, envelope.ConversationID)
	assert.Zero(t, gen.calls)
	assert.Empty(t, store.histories, "unanswerable turns are not recorded")
}

func TestAnswer_UsesSessionConversationID(t *testing.T) {
	agent := NewAgentService(&mockIndex{}, newMockConvStore(), &mockGenerator{name: "fallback", answer: "a"})

	envelope, err := agent.Answer(context.Background(), "q", "local", &driving.SessionContext{ConversationID: "conv-42"})
	require.NoError(t, err)
	assert.Equal(t, "conv-42", envelope.ConversationID)
}

func TestAnswer_MintsConversationIDWhenAbsent(t *testing.T) {
	agent := NewAgentService(&mockIndex{}, newMockConvStore(), &mockGenerator{name: "fallback", answer: "a"})

	first, err := agent.Answer(context.Background(), "q", "local", nil)
	require.NoError(t, err)
	second, err := agent.Answer(context.Background(), "q", "local", &driving.SessionContext{})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ConversationID)
	assert.NotEmpty(t, second.ConversationID)
	assert.NotEqual(t, first.ConversationID, second.ConversationID)
}

func TestAnswer_ContextAssembledInRankOrder(t *testing.T) {
	gen := &mockGenerator{name: "fallback", answer: "informative answer"}
	idx := &mockIndex{chunks: retrievedChunks("a.txt", "b.txt")}
	agent := NewAgentService(idx, newMockConvStore(), gen)

	_, err := agent.Answer(context.Background(), "q", "local", nil)
	require.NoError(t, err)

	assert.Equal(t, "From a.txt:\ncontent of chunk 0\n\nFrom b.txt:\ncontent of chunk 1", gen.gotReq.Context)
	assert.Equal(t, "q", gen.gotReq.Question)
	assert.Len(t, gen.gotReq.Chunks, 2)
}

func TestAnswer_InformativeAnswerCarriesDedupedSources(t *testing.T) {
	gen := &mockGenerator{name: "fallback", answer: "the documents say X"}
	idx := &mockIndex{chunks: retrievedChunks("a.txt", "a.txt", "b.txt")}
	agent := NewAgentService(idx, newMockConvStore(), gen)

	envelope, err := agent.Answer(context.Background(), "q", "local", nil)
	require.NoError(t, err)

	require.Len(t, envelope.Sources, 2)
	assert.Equal(t, "a.txt", envelope.Sources[0].Filename)
	assert.Equal(t, "b.txt", envelope.Sources[1].Filename)
}

func TestAnswer_NoInfoAnswerHasEmptySources(t *testing.T) {
	gen := &mockGenerator{name: "fallback", answer: domain.MsgNotInDocuments}
	idx := &mockIndex{chunks: retrievedChunks("a.txt")}
	agent := NewAgentService(idx, newMockConvStore(), gen)

	envelope, err := agent.Answer(context.Background(), "q", "local", nil)
	require.NoError(t, err)
	assert.Empty(t, envelope.Sources)
}

func TestAnswer_HistoryRecordedPerConversation(t *testing.T) {
	gen := &mockGenerator{name: "fallback", answer: "answer one"}
	idx := &mockIndex{chunks: retrievedChunks("a.txt")}
	store := newMockConvStore()
	agent := NewAgentService(idx, store, gen)

	session := &driving.SessionContext{ConversationID: "conv-1"}
	_, err := agent.Answer(context.Background(), "first question", "local", session)
	require.NoError(t, err)

	gen.answer = "answer two"
	_, err = agent.Answer(context.Background(), "second question", "local", session)
	require.NoError(t, err)

	// The second call must see the first turn.
	require.Len(t, gen.gotReq.History, 1)
	assert.Equal(t, "first question", gen.gotReq.History[0].Question)
	assert.Equal(t, "answer one", gen.gotReq.History[0].Answer)

	turns := store.histories["conv-1"]
	require.Len(t, turns, 2)
	assert.Equal(t, "second question", turns[1].Question)
}

func TestAnswer_PrimaryFailureCascadesToFallback(t *testing.T) {
	primary := &mockGenerator{name: "gemini", err: fmt.Errorf("%w: boom", domain.ErrGenerationFailed)}
	fallback := &mockGenerator{name: "fallback", answer: "fallback answer"}
	idx := &mockIndex{chunks: retrievedChunks("a.txt")}
	agent := NewAgentService(idx, newMockConvStore(), fallback, WithGenerator(primary))

	envelope, err := agent.Answer(context.Background(), "q", "local", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
	assert.Equal(t, "fallback answer", envelope.Answer)
}

func TestAnswer_PrimarySuccessSkipsFallback(t *testing.T) {
	primary := &mockGenerator{name: "gemini", answer: "model answer"}
	fallback := &mockGenerator{name: "fallback", answer: "unused"}
	idx := &mockIndex{chunks: retrievedChunks("a.txt")}
	agent := NewAgentService(idx, newMockConvStore(), fallback, WithGenerator(primary))

	envelope, err := agent.Answer(context.Background(), "q", "local", nil)
	require.NoError(t, err)

	assert.Equal(t, "model answer", envelope.Answer)
	assert.Zero(t, fallback.calls)
}

func TestAnswer_CredentialRevokedSurfacedVerbatim(t *testing.T) {
	primary := &mockGenerator{name: "gemini", err: fmt.Errorf("%w: key leaked", domain.ErrCredentialRevoked)}
	fallback := &mockGenerator{name: "fallback", answer: "unused"}
	idx := &mockIndex{chunks: retrievedChunks("a.txt")}
	agent := NewAgentService(idx, newMockConvStore(), fallback, WithGenerator(primary))

	envelope, err := agent.Answer(context.Background(), "q", "local", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.MsgCredentialRevoked, envelope.Answer)
	assert.Zero(t, fallback.calls)
	// The remediation message carries no document information, but it is
	// still informative for source purposes.
	require.NotEmpty(t, envelope.Sources)
}

func TestAnswer_RetrievalErrorDegradesToNoResults(t *testing.T) {
	idx := &mockIndex{searchErr: errors.New("connection refused")}
	gen := &mockGenerator{name: "fallback", answer: "unused"}
	agent := NewAgentService(idx, newMockConvStore(), gen)

	envelope, err := agent.Answer(context.Background(), "q", "local", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.MsgNoRelevantDocuments, envelope.Answer)
	assert.Zero(t, gen.calls)
}

func TestAnswer_CancelledContextDoesNotCommitHistory(t *testing.T) {
	idx := &mockIndex{chunks: retrievedChunks("a.txt")}
	store := newMockConvStore()
	gen := &mockGenerator{name: "fallback", answer: "a"}
	agent := NewAgentService(idx, store, gen)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agent.Answer(ctx, "q", "local", &driving.SessionContext{ConversationID: "conv-1"})
	require.Error(t, err)
	assert.Empty(t, store.histories["conv-1"])
}

func TestAnswer_SearchScopedToOwnerWithTopK(t *testing.T) {
	idx := &mockIndex{}
	agent := NewAgentService(idx, newMockConvStore(), &mockGenerator{name: "fallback"}, WithTopK(7))

	_, err := agent.Answer(context.Background(), "the question", "alice", nil)
	require.NoError(t, err)

	assert.Equal(t, "the question", idx.gotQuery)
	assert.Equal(t, "alice", idx.gotOwner)
	assert.Equal(t, 7, idx.gotK)
}
