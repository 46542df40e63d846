package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ScriptedMockProvider is a mock provider that returns a pre-defined sequence
// of full chat responses, tool calls included. Useful for testing multi-step
// delegation flows deterministically.
type ScriptedMockProvider struct {
	mu        sync.Mutex
	Responses []*ChatResponse
	Err       error
	// CallCount tracks how many times Chat has been called.
	CallCount int
	// Requests records every request received, for assertions on prompts
	// and tool catalogs.
	Requests []ChatRequest
	// Repeat, when set, re-serves the last response once the script is
	// exhausted instead of failing. Used to simulate a model that never
	// terminates.
	Repeat bool
}

// NewScriptedMockProvider creates a provider that pops responses in order.
func NewScriptedMockProvider(responses ...*ChatResponse) *ScriptedMockProvider {
	return &ScriptedMockProvider{
		Responses: responses,
	}
}

// Chat pops the next scripted response or returns the configured error.
func (s *ScriptedMockProvider) Chat(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CallCount++
	s.Requests = append(s.Requests, req)

	if s.Err != nil {
		return nil, s.Err
	}

	if len(s.Responses) == 0 {
		return nil, errors.New("scripted mock: no more responses available")
	}

	resp := s.Responses[0]
	if len(s.Responses) > 1 || !s.Repeat {
		s.Responses = s.Responses[1:]
	}
	return resp, nil
}

// AddResponse appends a response to the queue.
func (s *ScriptedMockProvider) AddResponse(resp *ChatResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Responses = append(s.Responses, resp)
}

// TextResponse builds a content-only response.
func TextResponse(content string) *ChatResponse {
	return &ChatResponse{
		Content: content,
		Usage:   Usage{PromptTokens: 10, CompletionTokens: 10, TotalTokens: 20},
	}
}

// ToolCallResponse builds a response requesting a single tool call with the
// given JSON-encodable arguments.
func ToolCallResponse(name string, args map[string]any) *ChatResponse {
	encoded, _ := json.Marshal(args)
	return &ChatResponse{
		ToolCalls: []ToolCall{
			{
				ID:   "call-1",
				Type: ToolTypeFunction,
				Function: FunctionCall{
					Name:      name,
					Arguments: string(encoded),
				},
			},
		},
		Usage: Usage{PromptTokens: 10, CompletionTokens: 10, TotalTokens: 20},
	}
}
