package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Run statuses of the assistant runtime's state machine.
const (
	RunStatusQueued         = "queued"
	RunStatusInProgress     = "in_progress"
	RunStatusRequiresAction = "requires_action"
	RunStatusCompleted      = "completed"
	RunStatusFailed         = "failed"
	RunStatusCancelled      = "cancelled"
	RunStatusExpired        = "expired"
	RunStatusIncomplete     = "incomplete"
)

// ToolTypeWebSearch enables the runtime's built-in web search for a run.
const ToolTypeWebSearch = "web-search"

// ToolCall is one operation the runtime asks the core to execute.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolOutput answers one tool call. Every call in a batch needs a matching
// output before the run can continue.
type ToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// Run is the runtime's view of one execution over a thread.
type Run struct {
	ID        string
	Status    string
	ToolCalls []ToolCall
}

// Runtime abstracts the assistant runtime's thread/run/message lifecycle.
// The orchestration loop drives it through its documented state machine
// and treats it as opaque otherwise.
type Runtime interface {
	CreateThread(ctx context.Context) (string, error)
	AddMessage(ctx context.Context, threadID, content string) (string, error)
	DeleteMessage(ctx context.Context, threadID, messageID string) error
	CreateRun(ctx context.Context, threadID string, toolTypes []string) (*Run, error)
	GetRun(ctx context.Context, threadID, runID string) (*Run, error)
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) error
	LatestAssistantMessage(ctx context.Context, threadID string) (string, error)
}

// OpenAIRuntime drives the OpenAI Assistants API (v2) over plain HTTP.
type OpenAIRuntime struct {
	APIKey      string
	AssistantID string
	BaseURL     string
	Client      *http.Client
}

// NewOpenAIRuntime builds a runtime client for the given assistant.
func NewOpenAIRuntime(apiKey, assistantID string) *OpenAIRuntime {
	return &OpenAIRuntime{
		APIKey:      apiKey,
		AssistantID: assistantID,
		BaseURL:     "https://api.openai.com/v1",
		Client:      &http.Client{Timeout: 45 * time.Second},
	}
}

type wireThread struct {
	ID string `json:"id"`
}

type wireMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text struct {
			Value string `json:"value"`
		} `json:"text"`
	} `json:"content"`
}

type wireMessageList struct {
	Data []wireMessage `json:"data"`
}

type wireRun struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	RequiredAction *struct {
		Type              string `json:"type"`
		SubmitToolOutputs struct {
			ToolCalls []struct {
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"submit_tool_outputs"`
	} `json:"required_action"`
}

func (r *OpenAIRuntime) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.APIKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseRuntimeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func parseRuntimeError(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return fmt.Errorf("runtime api error: %s", resp.Status)
	}

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Message != "" {
		return errors.New(payload.Error.Message)
	}
	return fmt.Errorf("runtime api error: %s", resp.Status)
}

func (r *OpenAIRuntime) CreateThread(ctx context.Context) (string, error) {
	var thread wireThread
	if err := r.do(ctx, http.MethodPost, "/threads", map[string]any{}, &thread); err != nil {
		return "", err
	}
	return thread.ID, nil
}

func (r *OpenAIRuntime) AddMessage(ctx context.Context, threadID, content string) (string, error) {
	payload := map[string]any{"role": "user", "content": content}
	var msg wireMessage
	if err := r.do(ctx, http.MethodPost, "/threads/"+threadID+"/messages", payload, &msg); err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (r *OpenAIRuntime) DeleteMessage(ctx context.Context, threadID, messageID string) error {
	return r.do(ctx, http.MethodDelete, "/threads/"+threadID+"/messages/"+messageID, nil, nil)
}

// CreateRun starts a run on the thread. A non-empty toolTypes overrides
// the assistant's configured tools for this run only.
func (r *OpenAIRuntime) CreateRun(ctx context.Context, threadID string, toolTypes []string) (*Run, error) {
	payload := map[string]any{"assistant_id": r.AssistantID}
	if len(toolTypes) > 0 {
		tools := make([]map[string]string, 0, len(toolTypes))
		for _, t := range toolTypes {
			tools = append(tools, map[string]string{"type": t})
		}
		payload["tools"] = tools
	}
	var run wireRun
	if err := r.do(ctx, http.MethodPost, "/threads/"+threadID+"/runs", payload, &run); err != nil {
		return nil, err
	}
	return run.toRun(), nil
}

func (r *OpenAIRuntime) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	var run wireRun
	if err := r.do(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &run); err != nil {
		return nil, err
	}
	return run.toRun(), nil
}

func (r *OpenAIRuntime) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) error {
	payload := map[string]any{"tool_outputs": outputs}
	return r.do(ctx, http.MethodPost, "/threads/"+threadID+"/runs/"+runID+"/submit_tool_outputs", payload, nil)
}

// LatestAssistantMessage returns the text of the most recent assistant
// authored message in the thread, or "" when none exists.
func (r *OpenAIRuntime) LatestAssistantMessage(ctx context.Context, threadID string) (string, error) {
	var list wireMessageList
	if err := r.do(ctx, http.MethodGet, "/threads/"+threadID+"/messages?order=desc&limit=20", nil, &list); err != nil {
		return "", err
	}
	for _, msg := range list.Data {
		if msg.Role != "assistant" {
			continue
		}
		var parts []string
		for _, block := range msg.Content {
			if block.Type == "text" && strings.TrimSpace(block.Text.Value) != "" {
				parts = append(parts, block.Text.Value)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n"), nil
		}
	}
	return "", nil
}

func (w *wireRun) toRun() *Run {
	run := &Run{ID: w.ID, Status: w.Status}
	if w.RequiredAction != nil {
		for _, tc := range w.RequiredAction.SubmitToolOutputs.ToolCalls {
			run.ToolCalls = append(run.ToolCalls, ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}
	return run
}
