package models

import "time"

// TurnRequest is the payload coming from the frontend into /api/assistant/query.
type TurnRequest struct {
	Input string `json:"input"`
}

// TurnResult is what one orchestrated turn returns to the caller: the
// conversation handle to resume with, and the assistant's final reply.
type TurnResult struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

// ConversationState is the durable record kept per conversation between
// turns: the runtime thread backing it and the last booking identifier
// established, kept for diagnostics and resume.
type ConversationState struct {
	ThreadID        string    `json:"threadId"`
	LastResultSetID string    `json:"lastResultSetId,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
