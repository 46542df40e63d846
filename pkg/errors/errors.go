// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling with rich context for Tally.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies Tally errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeToolFailure indicates a tool execution failed.
	CodeToolFailure ErrorCode = "TOOL_FAILURE"

	// CodeUnknownRole indicates a hand-off targeted an undefined role.
	CodeUnknownRole ErrorCode = "UNKNOWN_ROLE"

	// CodeStepBudgetExceeded indicates a turn consumed its full step budget
	// without producing a final answer.
	CodeStepBudgetExceeded ErrorCode = "STEP_BUDGET_EXCEEDED"

	// CodeConfigError indicates an invalid startup configuration, such as a
	// duplicate tool name or an unreachable hand-off target.
	CodeConfigError ErrorCode = "CONFIG_ERROR"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeLLMError indicates the model backend was unavailable or failed.
	CodeLLMError ErrorCode = "LLM_ERROR"
)

// TallyError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type TallyError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Recoverable bool
	StatusCode  int
}

// Error implements the error interface.
func (e *TallyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *TallyError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *TallyError) MarshalJSON() ([]byte, error) {
	type Alias TallyError
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new TallyError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *TallyError {
	return &TallyError{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		StatusCode: codeToStatusCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *TallyError) WithContext(key string, value interface{}) *TallyError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *TallyError) WithRecoverable(recoverable bool) *TallyError {
	e.Recoverable = recoverable
	return e
}

// AsTallyError attempts to convert an error to a TallyError.
// Returns the error as TallyError if it is one, or wraps it otherwise.
func AsTallyError(err error) *TallyError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*TallyError); ok {
		return te
	}
	return New(CodeInternal, "wrapped error", err)
}

// HasCode reports whether err is a TallyError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	te, ok := err.(*TallyError)
	return ok && te.Code == code
}

// codeToStatusCode maps error codes to HTTP-flavored status codes used by
// upstream callers.
func codeToStatusCode(code ErrorCode) int {
	switch code {
	case CodeNotFound:
		return 404
	case CodeInvalidInput:
		return 400
	case CodeStepBudgetExceeded:
		return 408
	case CodeLLMError:
		return 502
	default:
		return 500
	}
}
