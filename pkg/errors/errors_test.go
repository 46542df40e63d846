package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := New(CodeLLMError, "model call failed", cause)

	want := "[LLM_ERROR] model call failed: connection refused"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause to be reachable via errors.Is")
	}
}

func TestErrorWithoutCause(t *testing.T) {
	err := New(CodeStepBudgetExceeded, "turn exhausted step budget", nil)
	want := "[STEP_BUDGET_EXCEEDED] turn exhausted step budget"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestHasCode(t *testing.T) {
	err := New(CodeConfigError, "duplicate tool name", nil)
	if !HasCode(err, CodeConfigError) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, CodeToolFailure) {
		t.Fatal("unexpected code match")
	}
	if HasCode(stderrors.New("plain"), CodeInternal) {
		t.Fatal("plain error must not match any code")
	}
}

func TestAsTallyErrorWrapsUnknown(t *testing.T) {
	plain := stderrors.New("boom")
	te := AsTallyError(plain)
	if te.Code != CodeInternal {
		t.Fatalf("got code %s, want %s", te.Code, CodeInternal)
	}
	if !stderrors.Is(te, plain) {
		t.Fatal("wrapped cause lost")
	}
}

func TestStatusCodeMapping(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeNotFound:           404,
		CodeInvalidInput:       400,
		CodeStepBudgetExceeded: 408,
		CodeLLMError:           502,
		CodeInternal:           500,
		CodeConfigError:        500,
	}
	for code, want := range cases {
		if got := New(code, "x", nil).StatusCode; got != want {
			t.Errorf("code %s: got status %d, want %d", code, got, want)
		}
	}
}

func TestWithContextChaining(t *testing.T) {
	err := New(CodeToolFailure, "tool call failed", nil).
		WithContext("tool", "search_employees").
		WithRecoverable(true)
	if err.Context["tool"] != "search_employees" {
		t.Fatal("context value missing")
	}
	if !err.Recoverable {
		t.Fatal("expected recoverable")
	}
}
