// Package mcpserver exposes a tool registry over the Model Context Protocol
// using the official MCP Go SDK.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"workspace-mcp/internal/registry"
)

// MCPServer serves the operations of a registry as MCP tools.
type MCPServer struct {
	server *mcp.Server
}

// New creates an MCPServer with the given name and version and adds one tool
// per operation currently in reg.
func New(name, version string, reg *registry.Registry) *MCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, nil)
	for _, d := range reg.List() {
		server.AddTool(toSDKTool(d), toSDKHandler(reg, d.Name))
	}
	return &MCPServer{server: server}
}

// Handler returns the streamable HTTP transport for the server.
func (s *MCPServer) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.server }, nil)
}

// Serve reads requests from in and writes responses to out until ctx is
// cancelled or the transport closes.
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	transport := &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	}
	return s.run(ctx, transport)
}

func (s *MCPServer) run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

func toSDKTool(d registry.Descriptor) *mcp.Tool {
	return &mcp.Tool{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: d.InputSchema(),
	}
}

// toSDKHandler routes a tool call through the registry. Numbers stay
// json.Number so large integers survive decoding. Registry errors are
// reported to the client as tool errors, not protocol errors.
func toSDKHandler(reg *registry.Registry, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if raw := req.Params.Arguments; len(raw) > 0 {
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.UseNumber()
			if err := dec.Decode(&args); err != nil {
				return errorResult("invalid arguments: " + err.Error()), nil
			}
		}
		result, err := reg.Invoke(ctx, name, args)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result}},
		}, nil
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
