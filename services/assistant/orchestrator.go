package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/Infoya/FourSeasonsPOC/models"
	"github.com/Infoya/FourSeasonsPOC/services/planner"
	"github.com/Infoya/FourSeasonsPOC/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const noReplyStub = "I'm sorry, I wasn't able to produce a response. Please try again."

// HandleTurn owns one conversational turn: it plans the request, sends the
// (possibly plan-augmented) message to the runtime, drives the run through
// its state machine, dispatching tool calls on requires_action, and
// extracts the final reply.
func (s *DefaultAssistantService) HandleTurn(ctx context.Context, input, conversationID string) (*models.TurnResult, error) {
	logger := utils.GetLogger()

	plan := planner.Plan(input)
	logger.Debug("Planned turn",
		zap.Int("steps", len(plan.Steps)),
		zap.Bool("complex", plan.IsComplex()))

	state, conversationID, err := s.resolveConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	threadID := state.ThreadID

	// Fresh per-turn context; the authoritative booking id never leaks
	// across turns. The last persisted id seeds the fallback so follow-up
	// turns like "check out my booking" resolve without the runtime
	// restating the identifier.
	turn := NewTurnContext()
	if state.LastResultSetID != "" {
		turn.SeedLastKnown(state.LastResultSetID)
	}

	// Ephemeral date context so the runtime resolves relative dates
	// correctly. Removed again before reply extraction so it never
	// pollutes the conversation history.
	today := time.Now().Format(dateLayout)
	dateMsgID, err := s.Runtime.AddMessage(ctx, threadID, "Context: today's date is "+today+". Use it when interpreting relative dates.")
	if err != nil {
		logger.Warn("Failed to add date context message", zap.Error(err))
		dateMsgID = ""
	}

	if _, err := s.Runtime.AddMessage(ctx, threadID, buildTurnMessage(input, plan)); err != nil {
		return nil, fmt.Errorf("send user message: %w", err)
	}

	run, err := s.Runtime.CreateRun(ctx, threadID, runToolOverride(input))
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}

	if err := s.driveRun(ctx, threadID, run, turn); err != nil {
		s.removeDateContext(threadID, dateMsgID)
		return nil, err
	}

	s.removeDateContext(threadID, dateMsgID)

	reply, err := s.Runtime.LatestAssistantMessage(ctx, threadID)
	if err != nil {
		logger.Warn("Failed to read assistant reply", zap.Error(err))
		reply = ""
	}
	if reply == "" {
		reply = noReplyStub
	}

	state.UpdatedAt = time.Now()
	if id := turn.AuthoritativeID(); id != "" {
		state.LastResultSetID = id
	}
	if err := s.Store.Set(ctx, conversationID, state); err != nil {
		logger.Warn("Failed to persist conversation state", zap.Error(err))
	}

	if turn.Corrections() > 0 {
		logger.Info("Turn completed with identifier corrections",
			zap.Int("corrections", turn.Corrections()),
			zap.String("resultSetId", turn.AuthoritativeID()))
	}

	return &models.TurnResult{ConversationID: conversationID, Reply: reply}, nil
}

// runToolOverride selects the run's tool set. Booking requests use the
// assistant's configured tools; general questions run with web search
// enabled so the concierge can still answer them.
func runToolOverride(input string) []string {
	if planner.IsBookingRelated(input) {
		return nil
	}
	return []string{ToolTypeWebSearch}
}

// resolveConversation loads the conversation's state or creates a new
// conversation (and backing thread) when no usable handle was given.
func (s *DefaultAssistantService) resolveConversation(ctx context.Context, conversationID string) (*models.ConversationState, string, error) {
	logger := utils.GetLogger()

	var state *models.ConversationState
	if conversationID != "" {
		loaded, err := s.Store.Get(ctx, conversationID)
		if err != nil {
			logger.Warn("Failed to load conversation state, starting fresh", zap.Error(err))
		} else {
			state = loaded
		}
	} else {
		conversationID = uuid.New().String()
	}

	if state == nil || state.ThreadID == "" {
		threadID, err := s.Runtime.CreateThread(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("create conversation: %w", err)
		}
		state = &models.ConversationState{ThreadID: threadID}
		logger.Info("Created conversation",
			zap.String("conversationId", conversationID),
			zap.String("threadId", threadID))
	}
	return state, conversationID, nil
}

// driveRun polls the run with a fixed short delay until it reaches a
// terminal status, dispatching every requires_action batch along the way.
// The wait is bounded by the configured run deadline.
func (s *DefaultAssistantService) driveRun(ctx context.Context, threadID string, run *Run, turn *TurnContext) error {
	logger := utils.GetLogger()
	deadline := time.Now().Add(s.RunDeadline)

	for {
		switch run.Status {
		case RunStatusCompleted:
			return nil

		case RunStatusRequiresAction:
			logger.Debug("Run requires action", zap.Int("toolCalls", len(run.ToolCalls)))
			outputs := s.Dispatcher.DispatchBatch(ctx, run.ToolCalls, turn)
			if err := s.Runtime.SubmitToolOutputs(ctx, threadID, run.ID, outputs); err != nil {
				return fmt.Errorf("submit tool outputs: %w", err)
			}

		case RunStatusFailed, RunStatusCancelled, RunStatusExpired, RunStatusIncomplete:
			return &RunFailedError{Status: run.Status}
		}

		if time.Now().After(deadline) {
			logger.Warn("Run abandoned after deadline",
				zap.String("runId", run.ID),
				zap.Duration("deadline", s.RunDeadline))
			return ErrRunTimedOut
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.PollInterval):
		}

		next, err := s.Runtime.GetRun(ctx, threadID, run.ID)
		if err != nil {
			return fmt.Errorf("poll run: %w", err)
		}
		run = next
	}
}

// removeDateContext deletes the ephemeral date message, best effort. A
// short independent context is used so cleanup still happens when the
// turn's context is already cancelled.
func (s *DefaultAssistantService) removeDateContext(threadID, messageID string) {
	if messageID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Runtime.DeleteMessage(ctx, threadID, messageID); err != nil {
		utils.GetLogger().Warn("Failed to remove date context message", zap.Error(err))
	}
}
