package domain

import (
	"strings"
	"time"
)

// MaxConversationTurns caps a conversation's history. When a new turn is
// appended to a full history the oldest turn is evicted (FIFO), so the
// history is always the most recent window.
const MaxConversationTurns = 10

// HistoryWindow is the number of recent turns rendered into prompts.
const HistoryWindow = 3

// ConversationTurn is one question/answer exchange. Append-only within
// a conversation.
type ConversationTurn struct {
	Question  string
	Answer    string
	Timestamp time.Time
}

// FormatHistory renders the last HistoryWindow turns as "User: .../Assistant: ..."
// pairs, oldest first. Generator variants embed this rendering in prompts,
// so the format is part of the answer contract.
func FormatHistory(turns []ConversationTurn) string {
	if len(turns) == 0 {
		return "No previous conversation."
	}

	start := 0
	if len(turns) > HistoryWindow {
		start = len(turns) - HistoryWindow
	}

	var b strings.Builder
	for i, turn := range turns[start:] {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("User: ")
		b.WriteString(turn.Question)
		b.WriteString("\nAssistant: ")
		b.WriteString(turn.Answer)
	}
	return b.String()
}
