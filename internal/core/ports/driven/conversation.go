package driven

import (
	"context"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// ConversationStore is the process-wide mapping from conversation ID to a
// bounded, time-ordered history of question/answer turns. A conversation is
// created on first reference to an unseen ID and lives for the process
// lifetime.
//
// Append-and-trim must be atomic per conversation: concurrent appends to the
// same conversation may not lose a turn or reorder history, while different
// conversations proceed without contention.
type ConversationStore interface {
	// Append adds a turn, evicting the oldest turn when the history would
	// exceed domain.MaxConversationTurns.
	Append(ctx context.Context, conversationID string, turn domain.ConversationTurn) error

	// History returns the conversation's turns oldest first. An unknown
	// conversation returns an empty history, not an error.
	History(ctx context.Context, conversationID string) ([]domain.ConversationTurn, error)
}
