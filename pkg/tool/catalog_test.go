package tool

import (
	"context"
	"testing"

	"github.com/tallyhq/tally/pkg/errors"
	"github.com/tallyhq/tally/pkg/llm"
)

func echoTool(name string, required ...string) (llm.Tool, Handler) {
	def := llm.Tool{
		Type: llm.ToolTypeFunction,
		Function: llm.FunctionDef{
			Name:        name,
			Description: "test tool",
			Parameters: ObjectSchema(map[string]any{
				"employee_id": IntProp("employee id"),
				"name":        StringProp("employee name"),
			}, required...),
		},
	}
	handler := func(_ context.Context, args map[string]any) (any, error) {
		return args, nil
	}
	return def, handler
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	c := NewCatalog()
	def, handler := echoTool("get_employee")
	if err := c.Register(NewFunc(def, handler)); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	err := c.Register(NewFunc(def, handler))
	if !errors.HasCode(err, errors.CodeConfigError) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestResolveUnknown(t *testing.T) {
	c := NewCatalog()
	_, err := c.Resolve("nope")
	if !errors.HasCode(err, errors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestInvokeMissingRequiredArgument(t *testing.T) {
	c := NewCatalog()
	def, handler := echoTool("get_employee", "employee_id")
	if err := c.Register(NewFunc(def, handler)); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := c.Invoke(context.Background(), "get_employee", map[string]any{})
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	te := errors.AsTallyError(err)
	if !te.Recoverable {
		t.Fatal("argument errors must be recoverable")
	}
}

func TestInvokeWrongArgumentType(t *testing.T) {
	c := NewCatalog()
	def, handler := echoTool("get_employee", "employee_id")
	if err := c.Register(NewFunc(def, handler)); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := c.Invoke(context.Background(), "get_employee", map[string]any{"employee_id": "three"})
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestInvokeAcceptsWholeFloatAsInteger(t *testing.T) {
	c := NewCatalog()
	def, handler := echoTool("get_employee", "employee_id")
	if err := c.Register(NewFunc(def, handler)); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// JSON decoding yields float64 for all numbers.
	result, err := c.Invoke(context.Background(), "get_employee", map[string]any{"employee_id": float64(3)})
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	args := result.(map[string]any)
	if args["employee_id"] != float64(3) {
		t.Fatalf("unexpected result: %v", result)
	}
}

func TestInvokeRejectsUnexpectedArgument(t *testing.T) {
	c := NewCatalog()
	def, handler := echoTool("get_employee")
	if err := c.Register(NewFunc(def, handler)); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := c.Invoke(context.Background(), "get_employee", map[string]any{"bogus": 1})
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestDecodeArgs(t *testing.T) {
	args, err := DecodeArgs(`{"team_id": 3}`)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if args["team_id"] != float64(3) {
		t.Fatalf("unexpected args: %v", args)
	}

	args, err = DecodeArgs("")
	if err != nil || len(args) != 0 {
		t.Fatalf("empty payload should decode to empty map, got %v, %v", args, err)
	}

	if _, err := DecodeArgs("{broken"); err == nil {
		t.Fatal("expected error on malformed JSON")
	}
}

func TestDefinitionsPreservesOrder(t *testing.T) {
	c := NewCatalog()
	defA, hA := echoTool("alpha")
	defB, hB := echoTool("beta")
	if err := c.Register(NewFunc(defA, hA), NewFunc(defB, hB)); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	defs := c.Definitions([]string{"beta", "alpha"})
	if len(defs) != 2 || defs[0].Function.Name != "beta" || defs[1].Function.Name != "alpha" {
		t.Fatalf("unexpected definitions order: %+v", defs)
	}
}
