package tool

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeArgs normalizes a model-provided argument payload into a map. Models
// send arguments as a JSON string; empty payloads decode to an empty map.
func DecodeArgs(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return map[string]any{}, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, fmt.Errorf("tool args: invalid JSON: %w", err)
	}
	if decoded == nil {
		decoded = map[string]any{}
	}
	return decoded, nil
}

// ObjectSchema builds the JSON-schema parameter object used by tool
// definitions.
func ObjectSchema(props map[string]any, required ...string) map[string]any {
	if props == nil {
		props = map[string]any{}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// StringProp builds a string property schema.
func StringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// IntProp builds an integer property schema.
func IntProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}
