// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"fmt"
	"strings"

	"github.com/tallyhq/tally/pkg/errors"
	"github.com/tallyhq/tally/pkg/llm"
	"github.com/tallyhq/tally/pkg/tool"
)

// HandoffToolName is the reserved tool name a role uses to delegate the
// conversation to another role. It never appears in the catalog.
const HandoffToolName = "handoff_to_agent"

// DirectiveKind tags the single action extracted from one generation step.
type DirectiveKind int

const (
	// DirectiveFinalAnswer is terminal content with no tool call or hand-off.
	DirectiveFinalAnswer DirectiveKind = iota
	// DirectiveToolRequest asks the orchestrator to invoke a catalog tool.
	DirectiveToolRequest
	// DirectiveHandoff asks the orchestrator to switch the active role.
	DirectiveHandoff
)

// Directive is the normalized outcome of one model generation step. Exactly
// one of the kind-specific fields is populated.
type Directive struct {
	Kind DirectiveKind

	// Answer holds the final text when Kind is DirectiveFinalAnswer.
	Answer string

	// Call is the raw tool call when Kind is DirectiveToolRequest or
	// DirectiveHandoff; Args holds its decoded arguments.
	Call llm.ToolCall
	Args map[string]any

	// Target is the requested role when Kind is DirectiveHandoff.
	Target string
}

// Extract classifies a model response into exactly one directive. A response
// carrying tool calls is acted on one call at a time; only the first call is
// taken, later calls are re-requested by the model on subsequent steps once
// it sees the first result. Malformed tool arguments come back as recoverable
// INVALID_INPUT errors so the orchestrator can surface them into the
// conversation.
func Extract(resp *llm.ChatResponse) (Directive, error) {
	if resp == nil {
		return Directive{}, errors.New(errors.CodeLLMError, "model returned no response", nil)
	}

	if len(resp.ToolCalls) == 0 {
		return Directive{
			Kind:   DirectiveFinalAnswer,
			Answer: stripSpeakerPrefix(resp.Content),
		}, nil
	}

	call := resp.ToolCalls[0]
	args, err := tool.DecodeArgs(call.Function.Arguments)
	if err != nil {
		return Directive{}, errors.New(errors.CodeInvalidInput,
			fmt.Sprintf("tool %q arguments are not valid JSON", call.Function.Name), err).
			WithRecoverable(true)
	}

	if call.Function.Name == HandoffToolName {
		target, _ := args["agent"].(string)
		target = strings.TrimSpace(target)
		if target == "" {
			return Directive{}, errors.New(errors.CodeInvalidInput,
				`hand-off request is missing the "agent" argument`, nil).
				WithRecoverable(true)
		}
		return Directive{Kind: DirectiveHandoff, Call: call, Args: args, Target: target}, nil
	}

	return Directive{Kind: DirectiveToolRequest, Call: call, Args: args}, nil
}

// HandoffTool builds the reserved delegation tool definition advertised to a
// role alongside its catalog subset. targets constrains the choice in the
// description; legality is still enforced by the orchestrator.
func HandoffTool(targets []string) llm.Tool {
	return llm.Tool{
		Type: llm.ToolTypeFunction,
		Function: llm.FunctionDef{
			Name: HandoffToolName,
			Description: fmt.Sprintf(
				"Transfer the conversation to another agent. Available agents: %s.",
				strings.Join(targets, ", ")),
			Parameters: tool.ObjectSchema(map[string]any{
				"agent": tool.StringProp("Name of the agent to transfer to."),
			}, "agent"),
		},
	}
}

// stripSpeakerPrefix removes one leading "assistant: " speaker label. Some
// models echo the chat template's role marker into the content; exactly one
// prefix is stripped, anything beyond that is genuine content.
func stripSpeakerPrefix(text string) string {
	trimmed := strings.TrimSpace(text)
	const prefix = "assistant:"
	if len(trimmed) >= len(prefix) && strings.EqualFold(trimmed[:len(prefix)], prefix) {
		return strings.TrimSpace(trimmed[len(prefix):])
	}
	return trimmed
}
