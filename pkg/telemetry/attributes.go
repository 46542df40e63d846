// SPDX-License-Identifier: Apache-2.0

// Package telemetry provides OpenTelemetry integration for the delegation
// workflow: exporter setup, trace-aware logging, and span attributes.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for Tally telemetry. These follow OpenTelemetry
// naming conventions where applicable.
const (
	// Turn attributes
	AttrSessionID = "tally.session.id"
	AttrTurnID    = "tally.turn.id"
	AttrRole      = "tally.role"
	AttrStep      = "tally.step"
	AttrMaxSteps  = "tally.max_steps"

	// Hand-off attributes
	AttrHandoffFrom = "tally.handoff.from"
	AttrHandoffTo   = "tally.handoff.to"

	// Tool attributes
	AttrToolName       = "tally.tool.name"
	AttrToolCallID     = "tally.tool.call_id"
	AttrToolDurationMs = "tally.tool.duration_ms"
	AttrToolSuccess    = "tally.tool.success"

	// LLM attributes (extending standard gen_ai conventions)
	AttrLLMModel        = "gen_ai.request.model"
	AttrLLMProvider     = "gen_ai.system"
	AttrLLMMessages     = "gen_ai.request.messages"
	AttrLLMTokensInput  = "gen_ai.usage.input_tokens"
	AttrLLMTokensOutput = "gen_ai.usage.output_tokens"
	AttrLLMToolCalls    = "gen_ai.tool_calls"
)

// TurnAttributes returns common attributes for turn spans.
func TurnAttributes(sessionID, turnID, role string, maxSteps int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrSessionID, sessionID),
		attribute.String(AttrTurnID, turnID),
	}
	if role != "" {
		attrs = append(attrs, attribute.String(AttrRole, role))
	}
	if maxSteps > 0 {
		attrs = append(attrs, attribute.Int(AttrMaxSteps, maxSteps))
	}
	return attrs
}

// StepAttributes returns attributes for a single generate/act step.
func StepAttributes(role string, step int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRole, role),
		attribute.Int(AttrStep, step),
	}
}

// HandoffAttributes returns attributes for a role switch.
func HandoffAttributes(from, to string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrHandoffFrom, from),
		attribute.String(AttrHandoffTo, to),
	}
}

// ToolCallAttributes returns attributes for tool invocation spans.
func ToolCallAttributes(name, callID string, durationMs float64, success bool) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrToolName, name),
		attribute.Float64(AttrToolDurationMs, durationMs),
		attribute.Bool(AttrToolSuccess, success),
	}
	if callID != "" {
		attrs = append(attrs, attribute.String(AttrToolCallID, callID))
	}
	return attrs
}

// LLMAttributes returns attributes for model invocation spans.
func LLMAttributes(model, provider string, messages, toolCalls int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Int(AttrLLMMessages, messages),
		attribute.Int(AttrLLMToolCalls, toolCalls),
	}
	if model != "" {
		attrs = append(attrs, attribute.String(AttrLLMModel, model))
	}
	if provider != "" {
		attrs = append(attrs, attribute.String(AttrLLMProvider, provider))
	}
	return attrs
}

// LLMUsageAttributes returns token usage attributes for model spans.
func LLMUsageAttributes(inputTokens, outputTokens int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrLLMTokensInput, inputTokens),
		attribute.Int(AttrLLMTokensOutput, outputTokens),
	}
}
