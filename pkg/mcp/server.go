// SPDX-License-Identifier: Apache-2.0

// Package mcp exposes the attendance tool catalog over the Model Context
// Protocol, so external MCP clients can call the same tools the specialist
// roles use.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tallyhq/tally/pkg/errors"
	"github.com/tallyhq/tally/pkg/tool"
)

// Server wraps the mcp-go server around the tool catalog.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server.
func NewServer(name, version string) *Server {
	return &Server{
		mcpServer: server.NewMCPServer(name, version),
	}
}

// RegisterCatalog publishes every catalog tool. Invocation goes through the
// catalog so argument validation stays identical to the delegation path.
func (s *Server) RegisterCatalog(catalog *tool.Catalog) error {
	for _, name := range catalog.Names() {
		t, err := catalog.Resolve(name)
		if err != nil {
			return err
		}
		def := t.Definition()
		s.RegisterTool(name, def.Function.Description, func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
			result, err := catalog.Invoke(ctx, name, args)
			if err != nil {
				// Recoverable errors (bad arguments, tool failures) go back
				// as tool errors; the client decides how to retry.
				return mcp.NewToolResultError(errors.AsTallyError(err).Message), nil
			}
			return mcp.NewToolResultText(renderResult(result)), nil
		})
	}
	return nil
}

// RegisterTool registers a single tool with the server.
func (s *Server) RegisterTool(name, description string, handler func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error)) {
	t := mcp.NewTool(name, mcp.WithDescription(description))

	s.mcpServer.AddTool(t, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		return handler(ctx, args)
	})
}

// ServeStdio starts the server on Stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func renderResult(result any) string {
	switch v := result.(type) {
	case nil:
		return "null"
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
