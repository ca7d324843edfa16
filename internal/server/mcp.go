package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"vidresolve/internal/extract"
)

// ResolveArgs are the arguments of the resolve_video_url tool.
type ResolveArgs struct {
	Text string `json:"text" jsonschema:"share text copied from the app, containing a short video link"`
}

// newMCPServer registers the resolve tool on a fresh MCP server.
func (s *Server) newMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "vidresolve",
			Version: "1.0.0",
		},
		nil,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "resolve_video_url",
			Description: "Resolve a short-video share text to its direct, watermark-free media URL",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, args ResolveArgs) (*mcp.CallToolResult, any, error) {
			return s.callResolve(ctx, args), nil, nil
		},
	)

	return server
}

func (s *Server) callResolve(ctx context.Context, args ResolveArgs) *mcp.CallToolResult {
	result, err := s.ext.Extract(ctx, args.Text)
	if err != nil {
		s.log.WithError(err).Warn("mcp resolve failed")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{
				Text: fmt.Sprintf("%s: %v", extract.Classify(err), err),
			}},
			IsError: true,
		}
	}

	data, err := json.Marshal(result)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

// mcpHandler serves the MCP streamable HTTP transport. One server instance
// is shared by all sessions; the tool holds no per-session state.
func (s *Server) mcpHandler() http.Handler {
	server := s.newMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		&mcp.StreamableHTTPOptions{JSONResponse: true},
	)
}
