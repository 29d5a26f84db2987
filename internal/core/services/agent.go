package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure AgentService implements the interface.
var _ driving.QueryService = (*AgentService)(nil)

// DefaultTopK is how many chunks are retrieved per question.
const DefaultTopK = 5

// AgentService orchestrates one question: retrieve, assemble context,
// generate, update history, attribute sources.
//
// Generation cascades: the primary generator is tried first and any failure
// falls through to the fallback with the same context and chunks. The
// fallback never fails, so answers degrade instead of erroring.
type AgentService struct {
	index     driven.RetrievalIndex
	store     driven.ConversationStore
	generator driven.AnswerGenerator
	fallback  driven.AnswerGenerator
	topK      int
}

// AgentOption configures the agent service.
type AgentOption func(*AgentService)

// WithTopK overrides the retrieval depth.
func WithTopK(k int) AgentOption {
	return func(a *AgentService) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithGenerator sets the primary generative backend. When unset, the
// fallback serves every question.
func WithGenerator(g driven.AnswerGenerator) AgentOption {
	return func(a *AgentService) {
		a.generator = g
	}
}

// NewAgentService creates the query orchestrator. The fallback generator is
// required; the primary backend is optional.
func NewAgentService(
	index driven.RetrievalIndex,
	store driven.ConversationStore,
	fallback driven.AnswerGenerator,
	opts ...AgentOption,
) *AgentService {
	a := &AgentService{
		index:    index,
		store:    store,
		fallback: fallback,
		topK:     DefaultTopK,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Answer answers a question from the owner's indexed documents.
func (a *AgentService) Answer(
	ctx context.Context, question, ownerID string, session *driving.SessionContext,
) (*domain.AnswerEnvelope, error) {
	logger.Section("Question Answering")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	conversationID := a.resolveConversation(session)
	logger.Debug("Question: %q conversation=%s owner=%s", question, conversationID, ownerID)

	history, err := a.store.History(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	logger.Debug("History: %d turns", len(history))

	chunks, err := a.index.Search(ctx, question, ownerID, a.topK)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Retrieval problems degrade to "nothing found" rather than failing
		// the question.
		logger.Warn("Retrieval failed: %v", err)
		chunks = nil
	}
	logger.Debug("Retrieved %d chunks", len(chunks))

	// Nothing retrieved: answer directly and keep the turn out of history so
	// it cannot poison later context.
	if len(chunks) == 0 {
		return &domain.AnswerEnvelope{
			Answer:         domain.MsgNoRelevantDocuments,
			Sources:        []domain.SourceReference{},
			ConversationID: conversationID,
		}, nil
	}

	contextText := assembleContext(chunks)
	answer := a.generate(ctx, driven.AnswerRequest{
		Question: question,
		Context:  contextText,
		History:  history,
		Chunks:   chunks,
	})

	// A cancelled question must not half-commit: skip the history append.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	turn := domain.ConversationTurn{
		Question:  question,
		Answer:    answer,
		Timestamp: time.Now(),
	}
	if err := a.store.Append(ctx, conversationID, turn); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	sources := []domain.SourceReference{}
	if domain.HasInformation(answer) {
		sources = domain.UniqueSources(chunks)
	}
	logger.Info("Answered with %d sources", len(sources))

	return &domain.AnswerEnvelope{
		Answer:         answer,
		Sources:        sources,
		ConversationID: conversationID,
	}, nil
}

// generate runs the primary backend when configured, cascading to the
// fallback on any failure. A revoked credential is surfaced as its fixed
// remediation message instead of cascading, because the user has to act.
func (a *AgentService) generate(ctx context.Context, req driven.AnswerRequest) string {
	if a.generator != nil {
		answer, err := a.generator.Answer(ctx, req)
		if err == nil {
			return answer
		}
		if errors.Is(err, domain.ErrCredentialRevoked) {
			logger.Error("%s: credential revoked: %v", a.generator.Name(), err)
			return domain.MsgCredentialRevoked
		}
		logger.Warn("%s failed, using %s: %v", a.generator.Name(), a.fallback.Name(), err)
	}

	answer, err := a.fallback.Answer(ctx, req)
	if err != nil {
		// The deterministic fallback has no failure modes today; guard the
		// contract anyway.
		logger.Error("%s failed: %v", a.fallback.Name(), err)
		return domain.MsgNotInDocuments
	}
	return answer
}

func (a *AgentService) resolveConversation(session *driving.SessionContext) string {
	if session != nil && session.ConversationID != "" {
		return session.ConversationID
	}
	return uuid.NewString()
}

// assembleContext renders retrieved chunks as a single prompt-ready string,
// in rank order, each block tagged with its source file.
func assembleContext(chunks []domain.RetrievedChunk) string {
	blocks := make([]string, len(chunks))
	for i, chunk := range chunks {
		blocks[i] = fmt.Sprintf("From %s:\n%s", chunk.Filename, chunk.Content)
	}
	return strings.Join(blocks, "\n\n")
}
