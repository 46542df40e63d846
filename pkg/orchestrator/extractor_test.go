package orchestrator

import (
	"strings"
	"testing"

	"github.com/tallyhq/tally/pkg/errors"
	"github.com/tallyhq/tally/pkg/llm"
)

func TestExtractFinalAnswerStripsOneSpeakerPrefix(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"All teams are fully staffed.", "All teams are fully staffed."},
		{"assistant: All teams are fully staffed.", "All teams are fully staffed."},
		{"Assistant: hello", "hello"},
		{"assistant: assistant: hello", "assistant: hello"},
		{"  assistant:   spaced  ", "spaced"},
	} {
		d, err := Extract(llm.TextResponse(tc.in))
		if err != nil {
			t.Fatalf("extract %q: %v", tc.in, err)
		}
		if d.Kind != DirectiveFinalAnswer {
			t.Fatalf("extract %q: kind %v, want final answer", tc.in, d.Kind)
		}
		if d.Answer != tc.want {
			t.Errorf("extract %q: got %q, want %q", tc.in, d.Answer, tc.want)
		}
	}
}

func TestExtractToolRequestDecodesArgs(t *testing.T) {
	d, err := Extract(llm.ToolCallResponse("search_employees", map[string]any{"team_id": 3}))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if d.Kind != DirectiveToolRequest {
		t.Fatalf("kind %v, want tool request", d.Kind)
	}
	if d.Call.Function.Name != "search_employees" {
		t.Fatalf("unexpected tool name %q", d.Call.Function.Name)
	}
	if got, ok := d.Args["team_id"].(float64); !ok || got != 3 {
		t.Fatalf("unexpected args: %#v", d.Args)
	}
}

func TestExtractHandoffRequest(t *testing.T) {
	d, err := Extract(llm.ToolCallResponse(HandoffToolName, map[string]any{"agent": "employee"}))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if d.Kind != DirectiveHandoff || d.Target != "employee" {
		t.Fatalf("unexpected directive: %+v", d)
	}
}

func TestExtractHandoffWithoutAgentIsRecoverable(t *testing.T) {
	_, err := Extract(llm.ToolCallResponse(HandoffToolName, map[string]any{}))
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if !errors.AsTallyError(err).Recoverable {
		t.Fatal("hand-off argument errors must be recoverable")
	}
}

func TestExtractMalformedArgumentsAreRecoverable(t *testing.T) {
	resp := &llm.ChatResponse{
		ToolCalls: []llm.ToolCall{{
			ID:       "call-1",
			Type:     llm.ToolTypeFunction,
			Function: llm.FunctionCall{Name: "get_team", Arguments: "{not json"},
		}},
	}
	_, err := Extract(resp)
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if !errors.AsTallyError(err).Recoverable {
		t.Fatal("argument decode errors must be recoverable")
	}
}

func TestExtractNilResponse(t *testing.T) {
	_, err := Extract(nil)
	if !errors.HasCode(err, errors.CodeLLMError) {
		t.Fatalf("expected LLM_ERROR, got %v", err)
	}
}

func TestExtractTakesFirstToolCallOnly(t *testing.T) {
	resp := &llm.ChatResponse{
		ToolCalls: []llm.ToolCall{
			{ID: "call-1", Type: llm.ToolTypeFunction, Function: llm.FunctionCall{Name: "get_all_teams", Arguments: "{}"}},
			{ID: "call-2", Type: llm.ToolTypeFunction, Function: llm.FunctionCall{Name: "get_all_employees", Arguments: "{}"}},
		},
	}
	d, err := Extract(resp)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if d.Call.Function.Name != "get_all_teams" {
		t.Fatalf("expected first call, got %q", d.Call.Function.Name)
	}
}

func TestHandoffToolListsTargets(t *testing.T) {
	def := HandoffTool([]string{"employee", "team"})
	if def.Function.Name != HandoffToolName {
		t.Fatalf("unexpected name %q", def.Function.Name)
	}
	if !strings.Contains(def.Function.Description, "employee, team") {
		t.Fatalf("description does not list targets: %q", def.Function.Description)
	}
}
