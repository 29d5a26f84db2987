// Package memory provides the in-process conversation store. Histories live
// for the process lifetime only.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ConversationStore = (*Store)(nil)

// Store keeps per-conversation turn histories in memory. Each conversation
// has its own lock so appends to different conversations do not contend.
type Store struct {
	mu            sync.Mutex
	conversations map[string]*conversation
}

type conversation struct {
	mu    sync.Mutex
	turns []domain.ConversationTurn
}

// New creates an empty conversation store.
func New() *Store {
	return &Store{conversations: make(map[string]*conversation)}
}

// Append adds a turn to the conversation, creating it on first use. When the
// history exceeds domain.MaxConversationTurns the oldest turn is evicted.
func (s *Store) Append(_ context.Context, conversationID string, turn domain.ConversationTurn) error {
	c := s.conversation(conversationID)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns = append(c.turns, turn)
	if len(c.turns) > domain.MaxConversationTurns {
		// Shift rather than reslice so evicted turns are released.
		copy(c.turns, c.turns[len(c.turns)-domain.MaxConversationTurns:])
		c.turns = c.turns[:domain.MaxConversationTurns]
	}
	return nil
}

// History returns the conversation's turns oldest first. Unknown
// conversations yield an empty history.
func (s *Store) History(_ context.Context, conversationID string) ([]domain.ConversationTurn, error) {
	c := s.conversation(conversationID)

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.ConversationTurn, len(c.turns))
	copy(out, c.turns)
	return out, nil
}

func (s *Store) conversation(id string) *conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok {
		c = &conversation{}
		s.conversations[id] = c
	}
	return c
}
