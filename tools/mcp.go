package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPClient is the subset of an MCP client session the bridge needs
type MCPClient interface {
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// DialMCP connects to an MCP server and completes the initialize handshake.
// target is either an http(s) URL (streamable HTTP transport) or a command line
// launched over stdio. The caller owns the returned client and must Close it.
func DialMCP(ctx context.Context, target string) (*client.Client, error) {
	var (
		c   *client.Client
		err error
	)
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		c, err = client.NewStreamableHttpClient(target)
		if err != nil {
			return nil, fmt.Errorf("mcp client for %s: %w", target, err)
		}
		if err := c.Start(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("mcp start %s: %w", target, err)
		}
	} else {
		parts := strings.Fields(target)
		if len(parts) == 0 {
			return nil, errors.New("mcp: empty server command")
		}
		c, err = client.NewStdioMCPClient(parts[0], nil, parts[1:]...)
		if err != nil {
			return nil, fmt.Errorf("mcp launch %s: %w", parts[0], err)
		}
	}

	init := mcp.InitializeRequest{}
	init.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	init.Params.ClientInfo = mcp.Implementation{Name: "agentloop", Version: "0.1.0"}
	if _, err := c.Initialize(ctx, init); err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp initialize %s: %w", target, err)
	}
	return c, nil
}

// LoadMCP adapts every tool the server lists into a local Tool.
// With a non-empty prefix, local names become prefix_remoteName.
func LoadMCP(ctx context.Context, c MCPClient, prefix string) ([]*Tool, error) {
	res, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("mcp list tools: %w", err)
	}

	loaded := make([]*Tool, 0, len(res.Tools))
	for _, remote := range res.Tools {
		name := remote.Name
		if prefix != "" {
			name = prefix + "_" + remote.Name
		}
		params := ParamsFromSchema(remote.InputSchema.Properties, remote.InputSchema.Required)
		t, err := New(name, remote.Description, params, mcpCall(c, remote.Name))
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, t)
	}
	return loaded, nil
}

func mcpCall(c MCPClient, remoteName string) Func {
	return func(ctx context.Context, args Args) (any, error) {
		req := mcp.CallToolRequest{}
		req.Params.Name = remoteName
		req.Params.Arguments = map[string]any(args)

		res, err := c.CallTool(ctx, req)
		if err != nil {
			return nil, err
		}
		text := contentText(res.Content)
		if res.IsError {
			return nil, errors.New(text)
		}
		return text, nil
	}
}

func contentText(content []mcp.Content) string {
	parts := make([]string, 0, len(content))
	for _, item := range content {
		if tc, ok := mcp.AsTextContent(item); ok {
			parts = append(parts, tc.Text)
			continue
		}
		parts = append(parts, fmt.Sprintf("[%T omitted]", item))
	}
	return strings.Join(parts, "\n")
}
