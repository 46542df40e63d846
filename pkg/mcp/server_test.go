package mcp

import (
	"context"
	"testing"

	"github.com/tallyhq/tally/pkg/llm"
	"github.com/tallyhq/tally/pkg/tool"
)

func TestRegisterCatalog(t *testing.T) {
	catalog := tool.NewCatalog()
	err := catalog.Register(tool.NewFunc(llm.Tool{
		Function: llm.FunctionDef{
			Name:        "get_today_date",
			Description: "Get today's date.",
			Parameters:  tool.ObjectSchema(nil),
		},
	}, func(_ context.Context, _ map[string]any) (any, error) {
		return "2026-08-30", nil
	}))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	s := NewServer("tally-test", "0.0.1")
	if err := s.RegisterCatalog(catalog); err != nil {
		t.Fatalf("RegisterCatalog: %v", err)
	}
}

func TestRenderResult(t *testing.T) {
	if got := renderResult("plain"); got != "plain" {
		t.Errorf("string result: %q", got)
	}
	if got := renderResult(nil); got != "null" {
		t.Errorf("nil result: %q", got)
	}
	if got := renderResult(map[string]int{"count": 2}); got != `{"count":2}` {
		t.Errorf("struct result: %q", got)
	}
}
