package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connect starts the tool server on in-memory transports and returns a
// client session for it.
func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	server := newMCPServer(testSolver(2), nopLogger())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

// decode re-marshals structured tool output into out.
func decode(t *testing.T, res *mcp.CallToolResult, out any) {
	t.Helper()
	require.NotNil(t, res.StructuredContent)
	b, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, out))
}

func TestServeListsTools(t *testing.T) {
	cs := connect(t)
	res, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"solve", "evaluate"}, names)
}

func TestServeSolve(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "solve",
		Arguments: map[string]any{"numbers": []uint64{100, 75, 50, 25, 6, 3}, "target": 952},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out solveOutput
	decode(t, res, &out)
	require.True(t, out.Found)
	expr, err := ParseExpression(out.Expression)
	require.NoError(t, err)
	v, ok := Compute(expr)
	require.True(t, ok)
	assert.Equal(t, uint64(952), v)
}

func TestServeSolveNoSolution(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "solve",
		Arguments: map[string]any{"numbers": []uint64{1, 1, 1, 1, 1, 1}, "target": 1000000},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out solveOutput
	decode(t, res, &out)
	assert.False(t, out.Found)
	assert.Empty(t, out.Expression)
}

func TestServeSolveWrongCount(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "solve",
		Arguments: map[string]any{"numbers": []uint64{1, 2, 3}, "target": 6},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServeEvaluate(t *testing.T) {
	tests := []struct {
		expr   string
		wantOK bool
		want   uint64
	}{
		{expr: "7 2 3 * -", wantOK: true, want: 1},
		{expr: "2 5 -", wantOK: false},
		{expr: "5 0 /", wantOK: false},
	}
	cs := connect(t)
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
				Name:      "evaluate",
				Arguments: map[string]any{"expression": tc.expr},
			})
			require.NoError(t, err)
			require.False(t, res.IsError)

			var out evaluateOutput
			decode(t, res, &out)
			assert.Equal(t, tc.wantOK, out.OK)
			if tc.wantOK {
				assert.Equal(t, tc.want, out.Value)
			}
		})
	}
}

func TestServeEvaluateParseError(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "evaluate",
		Arguments: map[string]any{"expression": "1 2 ^"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
