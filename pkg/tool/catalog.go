// SPDX-License-Identifier: Apache-2.0

// Package tool implements the tool catalog: a fixed mapping from tool name to
// typed definition and handler, with argument validation ahead of dispatch.
package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tallyhq/tally/pkg/core"
	"github.com/tallyhq/tally/pkg/errors"
	"github.com/tallyhq/tally/pkg/llm"
)

// Handler executes a tool against the data layer.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// funcTool binds an llm.Tool definition to a handler.
type funcTool struct {
	definition llm.Tool
	handler    Handler
}

// NewFunc creates a core.Tool from a definition and handler.
func NewFunc(definition llm.Tool, handler Handler) core.Tool {
	if definition.Type == "" {
		definition.Type = llm.ToolTypeFunction
	}
	return &funcTool{definition: definition, handler: handler}
}

func (t *funcTool) Name() string { return t.definition.Function.Name }

func (t *funcTool) Definition() llm.Tool { return t.definition }

func (t *funcTool) Call(ctx context.Context, args map[string]any) (any, error) {
	if t.handler == nil {
		return nil, errors.New(errors.CodeConfigError, "tool has no handler", nil).
			WithContext("tool", t.Name())
	}
	return t.handler(ctx, args)
}

// Catalog is the process-wide tool registry. It is populated once at startup
// and read-only afterwards, so it is safe to share across sessions.
type Catalog struct {
	tools map[string]core.Tool
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tools: make(map[string]core.Tool)}
}

// Register adds tools to the catalog. Tool names are globally unique even
// though they are scoped per role; a duplicate is a fatal configuration error.
func (c *Catalog) Register(tools ...core.Tool) error {
	for _, t := range tools {
		name := strings.TrimSpace(t.Name())
		if name == "" {
			return errors.New(errors.CodeConfigError, "tool name is empty", nil)
		}
		if _, exists := c.tools[name]; exists {
			return errors.New(errors.CodeConfigError,
				fmt.Sprintf("duplicate tool name %q", name), nil)
		}
		c.tools[name] = t
	}
	return nil
}

// Resolve returns the tool registered under name.
func (c *Catalog) Resolve(name string) (core.Tool, error) {
	t, ok := c.tools[name]
	if !ok {
		return nil, errors.New(errors.CodeNotFound,
			fmt.Sprintf("unknown tool %q", name), nil)
	}
	return t, nil
}

// Invoke validates args against the tool's parameter schema and dispatches.
// Validation failures come back as INVALID_INPUT and are recoverable: the
// orchestrator surfaces them into the conversation rather than failing the
// turn.
func (c *Catalog) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	t, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := validateArgs(t.Definition(), args); err != nil {
		return nil, err
	}
	result, err := t.Call(ctx, args)
	if err != nil {
		if te, ok := err.(*errors.TallyError); ok {
			return nil, te
		}
		return nil, errors.New(errors.CodeToolFailure, "tool execution failed", err).
			WithContext("tool", name).
			WithRecoverable(true)
	}
	return result, nil
}

// Definitions returns the llm.Tool definitions for the named tools, in the
// order given. Unknown names are skipped; the role registry guarantees they
// cannot occur after startup validation.
func (c *Catalog) Definitions(names []string) []llm.Tool {
	defs := make([]llm.Tool, 0, len(names))
	for _, name := range names {
		if t, ok := c.tools[name]; ok {
			defs = append(defs, t.Definition())
		}
	}
	return defs
}

// Names returns all registered tool names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	_, ok := c.tools[name]
	return ok
}

// validateArgs checks required fields and primitive types against the
// JSON-schema-shaped parameter definition.
func validateArgs(def llm.Tool, args map[string]any) error {
	schema, ok := def.Function.Parameters.(map[string]any)
	if !ok {
		return nil
	}

	props, _ := schema["properties"].(map[string]any)

	if required, ok := schema["required"].([]string); ok {
		for _, field := range required {
			if _, present := args[field]; !present {
				return argumentError(def.Function.Name, fmt.Sprintf("missing required argument %q", field))
			}
		}
	} else if required, ok := schema["required"].([]any); ok {
		for _, raw := range required {
			field, _ := raw.(string)
			if _, present := args[field]; !present {
				return argumentError(def.Function.Name, fmt.Sprintf("missing required argument %q", field))
			}
		}
	}

	for field, value := range args {
		propRaw, known := props[field]
		if !known {
			return argumentError(def.Function.Name, fmt.Sprintf("unexpected argument %q", field))
		}
		prop, _ := propRaw.(map[string]any)
		wantType, _ := prop["type"].(string)
		if wantType == "" || value == nil {
			continue
		}
		if !matchesType(wantType, value) {
			return argumentError(def.Function.Name,
				fmt.Sprintf("argument %q must be of type %s", field, wantType))
		}
	}
	return nil
}

// matchesType checks a decoded JSON value against a schema primitive type.
// JSON numbers decode as float64, so integers accept whole floats.
func matchesType(wantType string, value any) bool {
	switch wantType {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int32, int64:
			return true
		case float64:
			return v == float64(int64(v))
		default:
			return false
		}
	case "number":
		switch value.(type) {
		case int, int32, int64, float32, float64:
			return true
		default:
			return false
		}
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	default:
		return true
	}
}

func argumentError(toolName, msg string) error {
	return errors.New(errors.CodeInvalidInput, msg, nil).
		WithContext("tool", toolName).
		WithRecoverable(true)
}
