package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMCP struct {
	tools   []mcp.Tool
	listErr error
	results map[string]*mcp.CallToolResult
	calls   []mcp.CallToolRequest
}

func (f *fakeMCP) ListTools(_ context.Context, _ mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &mcp.ListToolsResult{Tools: f.tools}, nil
}

func (f *fakeMCP) CallTool(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f.calls = append(f.calls, req)
	res, ok := f.results[req.Params.Name]
	if !ok {
		return nil, errors.New("connection closed")
	}
	return res, nil
}

func newFakeMCP() *fakeMCP {
	return &fakeMCP{
		tools: []mcp.Tool{
			mcp.NewTool("get_pods",
				mcp.WithDescription("List pods in a namespace"),
				mcp.WithString("namespace", mcp.Required(), mcp.Description("Kubernetes namespace")),
				mcp.WithNumber("limit"),
			),
			mcp.NewTool("describe_pod",
				mcp.WithDescription("Describe a pod"),
				mcp.WithString("name", mcp.Required()),
			),
		},
		results: map[string]*mcp.CallToolResult{
			"get_pods":     mcp.NewToolResultText("api-server Running\nworker CrashLoopBackOff"),
			"describe_pod": mcp.NewToolResultError("pod not found"),
		},
	}
}

func TestLoadMCP_AdaptsSchemas(t *testing.T) {
	loaded, err := LoadMCP(context.Background(), newFakeMCP(), "k8s")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	pods := loaded[0]
	assert.Equal(t, "k8s_get_pods", pods.Name())
	assert.Equal(t, "List pods in a namespace", pods.Description())

	spec := pods.Spec()
	require.NotNil(t, spec.Parameters)
	require.Len(t, spec.Parameters.Properties, 2)
	assert.Equal(t, Param{Name: "namespace", Type: String, Description: "Kubernetes namespace"}, spec.Parameters.Properties[0])
	assert.Equal(t, "limit", spec.Parameters.Properties[1].Name)
	assert.Equal(t, Float, spec.Parameters.Properties[1].Type)
}

func TestLoadMCP_NoPrefixKeepsRemoteName(t *testing.T) {
	loaded, err := LoadMCP(context.Background(), newFakeMCP(), "")
	require.NoError(t, err)
	assert.Equal(t, "get_pods", loaded[0].Name())
}

func TestLoadMCP_ListError(t *testing.T) {
	f := newFakeMCP()
	f.listErr = errors.New("boom")

	_, err := LoadMCP(context.Background(), f, "k8s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestMCPTool_CallForwardsRemoteName(t *testing.T) {
	f := newFakeMCP()
	loaded, err := LoadMCP(context.Background(), f, "k8s")
	require.NoError(t, err)

	result, err := loaded[0].Invoke(context.Background(), Args{"namespace": "default"})
	require.NoError(t, err)
	assert.Equal(t, "api-server Running\nworker CrashLoopBackOff", result)

	require.Len(t, f.calls, 1)
	assert.Equal(t, "get_pods", f.calls[0].Params.Name)
	assert.Equal(t, map[string]any{"namespace": "default"}, f.calls[0].Params.Arguments)
}

func TestMCPTool_ErrorResultBecomesError(t *testing.T) {
	loaded, err := LoadMCP(context.Background(), newFakeMCP(), "k8s")
	require.NoError(t, err)

	_, err = loaded[1].Invoke(context.Background(), Args{"name": "nope"})
	require.Error(t, err)
	assert.Equal(t, "pod not found", err.Error())
}
