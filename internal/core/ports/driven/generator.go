package driven

import (
	"context"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// AnswerRequest carries everything a generator variant needs to produce
// an answer.
type AnswerRequest struct {
	// Question is the user's current question.
	Question string

	// Context is the prompt-ready context string assembled from retrieved
	// chunks ("From {filename}:\n{content}" blocks joined by blank lines).
	Context string

	// History is the conversation so far, oldest first. Variants render at
	// most the last domain.HistoryWindow turns.
	History []domain.ConversationTurn

	// Chunks are the retrieved chunks backing Context, in rank order.
	// May be empty when a backend failure occurred before retrieval results
	// were available.
	Chunks []domain.RetrievedChunk
}

// AnswerGenerator produces an answer from retrieved context. Two variants
// exist: a generative backend and a deterministic keyword-overlap fallback.
// Selection and the fallback cascade live in the orchestrator, not here.
//
// Variants must emit one of the domain no-info marker phrases verbatim when
// they cannot answer - the orchestrator's source attribution depends on it.
type AnswerGenerator interface {
	// Answer generates an answer. A generative backend returns an error
	// wrapping domain.ErrGenerationFailed on failure or empty output, and
	// domain.ErrCredentialRevoked when the backend signals a revoked key.
	Answer(ctx context.Context, req AnswerRequest) (string, error)

	// Name identifies the variant for logging.
	Name() string
}
