package core

import (
	"context"

	"github.com/tallyhq/tally/pkg/llm"
)

// Tool is a named, typed function a role's model invocation may request to
// run against the data layer. Implementations must be safe for concurrent use.
type Tool interface {
	Name() string
	Definition() llm.Tool
	Call(ctx context.Context, args map[string]any) (any, error)
}
