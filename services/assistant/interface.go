package assistant

import (
	"context"
	"time"

	"github.com/Infoya/FourSeasonsPOC/models"
)

// AssistantService defines the interface for running one conversational
// turn against the assistant runtime.
type AssistantService interface {
	HandleTurn(ctx context.Context, input, conversationID string) (*models.TurnResult, error)
}

// DefaultAssistantService implements AssistantService.
type DefaultAssistantService struct {
	Runtime      Runtime
	Dispatcher   *Dispatcher
	Store        ConversationStore
	PollInterval time.Duration
	RunDeadline  time.Duration
}
