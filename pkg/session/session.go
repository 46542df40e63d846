// SPDX-License-Identifier: Apache-2.0

// Package session holds per-conversation mutable state: the ordered message
// history and the currently active role.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/pkg/llm"
)

// Message is a single history entry. Append-only within a session's lifetime.
type Message struct {
	ID         string         `json:"id"`
	Role       llm.Role       `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []llm.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Session is the mutable state carried across one or more user turns. It is
// owned by the orchestrator and must only be touched while the session lock
// is held.
type Session struct {
	ID         string
	ActiveRole string
	History    []Message
}

// Append adds messages to the history, filling in IDs and timestamps.
func (s *Session) Append(msgs ...Message) {
	for _, msg := range msgs {
		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now()
		}
		s.History = append(s.History, msg)
	}
}

// LLMMessages converts the history into the provider wire format.
func (s *Session) LLMMessages() []llm.Message {
	out := make([]llm.Message, 0, len(s.History))
	for _, msg := range s.History {
		out = append(out, llm.Message{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCalls:  msg.ToolCalls,
			ToolCallID: msg.ToolCallID,
		})
	}
	return out
}

// UserMessage builds a user history entry.
func UserMessage(content string) Message {
	return Message{Role: llm.RoleUser, Content: content}
}

// AssistantMessage builds an assistant history entry.
func AssistantMessage(content string, toolCalls ...llm.ToolCall) Message {
	return Message{Role: llm.RoleAssistant, Content: content, ToolCalls: toolCalls}
}

// ToolMessage builds a tool-result history entry tied to a tool call.
func ToolMessage(toolCallID, content string) Message {
	return Message{Role: llm.RoleTool, Content: content, ToolCallID: toolCallID}
}
