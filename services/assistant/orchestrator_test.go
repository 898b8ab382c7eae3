package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Infoya/FourSeasonsPOC/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	ThreadID string
	Content  string
}

// fakeRuntime scripts the assistant runtime's state machine: CreateRun
// returns initialRun, each poll pops the next queued run.
type fakeRuntime struct {
	threadCount int
	messages    []sentMessage
	deleted     []string
	initialRun  *Run
	pollRuns    []*Run
	submitted   [][]ToolOutput
	runTools    [][]string
	reply       string
	replyErr    error
}

func (f *fakeRuntime) CreateThread(_ context.Context) (string, error) {
	f.threadCount++
	return fmt.Sprintf("th_%d", f.threadCount), nil
}

func (f *fakeRuntime) AddMessage(_ context.Context, threadID, content string) (string, error) {
	f.messages = append(f.messages, sentMessage{ThreadID: threadID, Content: content})
	return fmt.Sprintf("msg_%d", len(f.messages)), nil
}

func (f *fakeRuntime) DeleteMessage(_ context.Context, _, messageID string) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeRuntime) CreateRun(_ context.Context, _ string, toolTypes []string) (*Run, error) {
	f.runTools = append(f.runTools, toolTypes)
	if f.initialRun != nil {
		return f.initialRun, nil
	}
	return &Run{ID: "run_1", Status: RunStatusQueued}, nil
}

func (f *fakeRuntime) GetRun(_ context.Context, _, runID string) (*Run, error) {
	if len(f.pollRuns) == 0 {
		return &Run{ID: runID, Status: RunStatusInProgress}, nil
	}
	next := f.pollRuns[0]
	f.pollRuns = f.pollRuns[1:]
	return next, nil
}

func (f *fakeRuntime) SubmitToolOutputs(_ context.Context, _, _ string, outputs []ToolOutput) error {
	f.submitted = append(f.submitted, outputs)
	return nil
}

func (f *fakeRuntime) LatestAssistantMessage(_ context.Context, _ string) (string, error) {
	return f.reply, f.replyErr
}

func newTestService(rt *fakeRuntime, booking *fakeBookingGateway, catalog *fakeCatalogGateway) (*DefaultAssistantService, *MemoryConversationStore) {
	store := NewMemoryConversationStore()
	svc := &DefaultAssistantService{
		Runtime:      rt,
		Dispatcher:   newTestDispatcher(booking, catalog),
		Store:        store,
		PollInterval: time.Millisecond,
		RunDeadline:  time.Second,
	}
	return svc, store
}

func TestHandleTurnSimpleCompletion(t *testing.T) {
	rt := &fakeRuntime{
		pollRuns: []*Run{{ID: "run_1", Status: RunStatusCompleted}},
		reply:    "We have availability across our resorts.",
	}
	svc, store := newTestService(rt, &fakeBookingGateway{}, &fakeCatalogGateway{})

	result, err := svc.HandleTurn(context.Background(), "what can you do?", "")
	require.NoError(t, err)

	assert.NotEmpty(t, result.ConversationID)
	assert.Equal(t, "We have availability across our resorts.", result.Reply)

	// Ephemeral date context message was sent first and removed again.
	require.NotEmpty(t, rt.messages)
	assert.Contains(t, rt.messages[0].Content, "today's date")
	assert.Contains(t, rt.deleted, "msg_1")

	// Simple requests go through verbatim.
	assert.Equal(t, "what can you do?", rt.messages[1].Content)

	state, err := store.Get(context.Background(), result.ConversationID)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "th_1", state.ThreadID)
}

func TestHandleTurnComplexRequestIsWrapped(t *testing.T) {
	rt := &fakeRuntime{
		pollRuns: []*Run{{ID: "run_1", Status: RunStatusCompleted}},
		reply:    "Booked!",
	}
	svc, _ := newTestService(rt, &fakeBookingGateway{}, &fakeCatalogGateway{})

	_, err := svc.HandleTurn(context.Background(), "book a villa in Maldives from 2026-06-01 to 2026-06-03 for 2 guests", "")
	require.NoError(t, err)

	require.Len(t, rt.messages, 2)
	wrapped := rt.messages[1].Content
	assert.Contains(t, wrapped, "Execute this plan strictly in order")
	assert.Contains(t, wrapped, "display-only")
	assert.Contains(t, wrapped, "Guest request: book a villa in Maldives")
}

func TestHandleTurnDispatchesToolCallBatch(t *testing.T) {
	rt := &fakeRuntime{
		pollRuns: []*Run{
			{
				ID:     "run_1",
				Status: RunStatusRequiresAction,
				ToolCalls: []ToolCall{{
					ID:        "call_1",
					Name:      "create_booking",
					Arguments: `{"start_date":"2026-02-01","end_date":"2026-02-05","destination":"Maldives","guests":2}`,
				}},
			},
			{ID: "run_1", Status: RunStatusCompleted},
		},
		reply: "Your booking is confirmed.",
	}
	booking := &fakeBookingGateway{
		resultSetResp: &models.ResultSetResponse{Status: "success", ID: "rs-9"},
	}
	svc, store := newTestService(rt, booking, &fakeCatalogGateway{})

	result, err := svc.HandleTurn(context.Background(), "book Maldives please", "")
	require.NoError(t, err)

	require.Len(t, rt.submitted, 1)
	require.Len(t, rt.submitted[0], 1)
	assert.Equal(t, "call_1", rt.submitted[0][0].ToolCallID)

	state, err := store.Get(context.Background(), result.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "rs-9", state.LastResultSetID)
}

func TestHandleTurnRunFailure(t *testing.T) {
	rt := &fakeRuntime{
		pollRuns: []*Run{{ID: "run_1", Status: RunStatusFailed}},
	}
	svc, _ := newTestService(rt, &fakeBookingGateway{}, &fakeCatalogGateway{})

	_, err := svc.HandleTurn(context.Background(), "hello", "")
	var runErr *RunFailedError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, RunStatusFailed, runErr.Status)
}

func TestHandleTurnDeadline(t *testing.T) {
	rt := &fakeRuntime{} // every poll stays in_progress
	svc, _ := newTestService(rt, &fakeBookingGateway{}, &fakeCatalogGateway{})
	svc.RunDeadline = 10 * time.Millisecond

	_, err := svc.HandleTurn(context.Background(), "hello", "")
	assert.ErrorIs(t, err, ErrRunTimedOut)
}

func TestHandleTurnStubReplyWhenRuntimeStaysSilent(t *testing.T) {
	rt := &fakeRuntime{
		pollRuns: []*Run{{ID: "run_1", Status: RunStatusCompleted}},
		reply:    "",
	}
	svc, _ := newTestService(rt, &fakeBookingGateway{}, &fakeCatalogGateway{})

	result, err := svc.HandleTurn(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, noReplyStub, result.Reply)
}

func TestHandleTurnReplyErrorFallsBackToStub(t *testing.T) {
	rt := &fakeRuntime{
		pollRuns: []*Run{{ID: "run_1", Status: RunStatusCompleted}},
		replyErr: errors.New("message list failed"),
	}
	svc, _ := newTestService(rt, &fakeBookingGateway{}, &fakeCatalogGateway{})

	result, err := svc.HandleTurn(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, noReplyStub, result.Reply)
}

func TestHandleTurnGeneralQuestionRunsWithWebSearch(t *testing.T) {
	rt := &fakeRuntime{
		pollRuns: []*Run{{ID: "run_1", Status: RunStatusCompleted}},
		reply:    "The nearest airport is Malé.",
	}
	svc, _ := newTestService(rt, &fakeBookingGateway{}, &fakeCatalogGateway{})

	_, err := svc.HandleTurn(context.Background(), "what is the nearest airport?", "")
	require.NoError(t, err)

	require.Len(t, rt.runTools, 1)
	assert.Equal(t, []string{ToolTypeWebSearch}, rt.runTools[0])
}

func TestHandleTurnBookingRequestKeepsConfiguredTools(t *testing.T) {
	rt := &fakeRuntime{
		pollRuns: []*Run{{ID: "run_1", Status: RunStatusCompleted}},
		reply:    "Which dates?",
	}
	svc, _ := newTestService(rt, &fakeBookingGateway{}, &fakeCatalogGateway{})

	_, err := svc.HandleTurn(context.Background(), "book a room in Maldives", "")
	require.NoError(t, err)

	require.Len(t, rt.runTools, 1)
	assert.Empty(t, rt.runTools[0])
}

// Two turns on the same conversation: the booking created in turn one is
// checked out in turn two without creating a second booking.
func TestHandleTurnTwoTurnCheckoutReusesBooking(t *testing.T) {
	rt := &fakeRuntime{
		pollRuns: []*Run{
			{
				ID:     "run_1",
				Status: RunStatusRequiresAction,
				ToolCalls: []ToolCall{{
					ID:        "call_1",
					Name:      "create_booking",
					Arguments: `{"start_date":"2026-02-01","end_date":"2026-02-05","destination":"Maldives"}`,
				}},
			},
			{ID: "run_1", Status: RunStatusCompleted},
		},
		reply: "Booked. Anything else?",
	}
	booking := &fakeBookingGateway{
		resultSetResp: &models.ResultSetResponse{Status: "success", ID: "rs-77"},
		checkoutResp:  &models.CheckoutResponse{Status: "success", CheckoutURL: "https://pay.example/77"},
	}
	svc, _ := newTestService(rt, booking, &fakeCatalogGateway{})

	turn1, err := svc.HandleTurn(context.Background(), "book Maldives from 2026-02-01 to 2026-02-05", "")
	require.NoError(t, err)

	// Turn two: the runtime recalls the booking from thread history and
	// asks to check it out.
	rt.pollRuns = []*Run{
		{
			ID:     "run_2",
			Status: RunStatusRequiresAction,
			ToolCalls: []ToolCall{{
				ID:        "call_2",
				Name:      "checkout",
				Arguments: `{"result_set_id":"rs-77"}`,
			}},
		},
		{ID: "run_2", Status: RunStatusCompleted},
	}
	rt.reply = "Here is your payment link."

	turn2, err := svc.HandleTurn(context.Background(), "please checkout my booking", turn1.ConversationID)
	require.NoError(t, err)

	assert.Equal(t, turn1.ConversationID, turn2.ConversationID)
	assert.Equal(t, 1, rt.threadCount, "second turn must reuse the existing thread")
	require.Len(t, booking.resultSetReqs, 1, "no second booking may be created")
	assert.Equal(t, []string{"rs-77"}, booking.checkoutCalls)
}

// A follow-up turn where the runtime supplies no identifier at all still
// resolves against the booking persisted in the conversation state.
func TestHandleTurnResumeWithoutSuppliedID(t *testing.T) {
	rt := &fakeRuntime{
		pollRuns: []*Run{
			{
				ID:     "run_1",
				Status: RunStatusRequiresAction,
				ToolCalls: []ToolCall{{
					ID:        "call_1",
					Name:      "create_booking",
					Arguments: `{"start_date":"2026-02-01","end_date":"2026-02-05","destination":"Maldives"}`,
				}},
			},
			{ID: "run_1", Status: RunStatusCompleted},
		},
		reply: "Booked.",
	}
	booking := &fakeBookingGateway{
		resultSetResp: &models.ResultSetResponse{Status: "success", ID: "rs-55"},
		checkoutResp:  &models.CheckoutResponse{Status: "success", CheckoutURL: "https://pay.example/55"},
	}
	svc, _ := newTestService(rt, booking, &fakeCatalogGateway{})

	turn1, err := svc.HandleTurn(context.Background(), "book Maldives from 2026-02-01 to 2026-02-05", "")
	require.NoError(t, err)

	rt.pollRuns = []*Run{
		{
			ID:     "run_2",
			Status: RunStatusRequiresAction,
			ToolCalls: []ToolCall{{
				ID:        "call_2",
				Name:      "checkout",
				Arguments: `{}`,
			}},
		},
		{ID: "run_2", Status: RunStatusCompleted},
	}
	rt.reply = "Here is your payment link."

	_, err = svc.HandleTurn(context.Background(), "please checkout my booking", turn1.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, []string{"rs-55"}, booking.checkoutCalls)
}
