package driving

import (
	"context"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// SessionContext is the optional multi-turn state a caller passes with a
// question. A nil SessionContext or empty ConversationID starts a new
// conversation.
type SessionContext struct {
	ConversationID string
}

// QueryService answers natural-language questions using only the owner's
// previously ingested documents.
//
// Answering never fails past this boundary for retrieval or generation
// problems - a best-effort "I don't know" answer is preferable to a failed
// request. The only errors returned are context cancellation and invalid
// input.
type QueryService interface {
	Answer(ctx context.Context, question, ownerID string, session *SessionContext) (*domain.AnswerEnvelope, error)
}
