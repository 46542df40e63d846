// SPDX-License-Identifier: Apache-2.0

// Package gemini provides a Google Gemini API provider for Tally.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/tallyhq/tally/pkg/llm"
)

// Provider implements llm.Provider for the Google Gemini API.
type Provider struct {
	client *genai.Client
	model  string
}

// Option configures the Provider.
type Option func(*Provider)

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// New creates a new Gemini provider. The API key is read from GOOGLE_API_KEY
// or GEMINI_API_KEY by default.
func New(ctx context.Context, opts ...Option) (*Provider, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newProvider(client, opts...), nil
}

// NewWithAPIKey creates a new Gemini provider with an explicit API key.
func NewWithAPIKey(ctx context.Context, apiKey string, opts ...Option) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newProvider(client, opts...), nil
}

func newProvider(client *genai.Client, opts ...Option) *Provider {
	p := &Provider{
		client: client,
		model:  "gemini-2.0-flash",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Chat implements llm.Provider.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	contents, systemInstruction := convertMessages(req.Messages)

	config := &genai.GenerateContentConfig{}
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}
	if len(req.Tools) > 0 {
		config.Tools = []*genai.Tool{
			{FunctionDeclarations: convertTools(req.Tools)},
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}

	return convertResponse(resp), nil
}

// Close is a no-op as the Gemini client doesn't require explicit closing.
func (p *Provider) Close() error {
	return nil
}

// convertMessages converts chat messages to Gemini format.
func convertMessages(messages []llm.Message) ([]*genai.Content, string) {
	var systemInstruction string
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			systemInstruction = msg.Content
		case llm.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		case llm.RoleAssistant:
			content := &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{},
			}
			if msg.Content != "" {
				content.Parts = append(content.Parts, &genai.Part{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				var args map[string]interface{}
				json.Unmarshal([]byte(tc.Function.Arguments), &args)
				content.Parts = append(content.Parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						Name: tc.Function.Name,
						Args: args,
					},
				})
			}
			contents = append(contents, content)
		case llm.RoleTool:
			var result map[string]interface{}
			// Try to parse as JSON, otherwise wrap in a response object.
			if err := json.Unmarshal([]byte(msg.Content), &result); err != nil {
				result = map[string]interface{}{"result": msg.Content}
			}
			contents = append(contents, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{
					{
						FunctionResponse: &genai.FunctionResponse{
							// Gemini keys function responses by name. Call
							// ids produced by convertResponse are the
							// function name, so the round trip matches.
							Name:     msg.ToolCallID,
							Response: result,
						},
					},
				},
			})
		}
	}

	return contents, systemInstruction
}

// convertTools converts tool definitions to Gemini function declarations.
func convertTools(tools []llm.Tool) []*genai.FunctionDeclaration {
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))

	for _, tool := range tools {
		paramsJSON, _ := json.Marshal(tool.Function.Parameters)
		var schema *genai.Schema
		json.Unmarshal(paramsJSON, &schema)

		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
			Parameters:  schema,
		})
	}

	return declarations
}

// convertResponse converts a Gemini response to the provider contract.
func convertResponse(resp *genai.GenerateContentResponse) *llm.ChatResponse {
	result := &llm.ChatResponse{}

	if resp.UsageMetadata != nil {
		result.Usage = llm.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	if len(resp.Candidates) > 0 {
		candidate := resp.Candidates[0]
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					result.Content += part.Text
				}
				if part.FunctionCall != nil {
					argsJSON, _ := json.Marshal(part.FunctionCall.Args)
					result.ToolCalls = append(result.ToolCalls, llm.ToolCall{
						// Gemini doesn't issue separate call ids.
						ID:   part.FunctionCall.Name,
						Type: llm.ToolTypeFunction,
						Function: llm.FunctionCall{
							Name:      part.FunctionCall.Name,
							Arguments: string(argsJSON),
						},
					})
				}
			}
		}
	}

	return result
}

// Ensure Provider implements llm.Provider.
var _ llm.Provider = (*Provider)(nil)
