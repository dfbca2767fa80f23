package main

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server identity advertised to MCP clients.
const serverName = "countdown"

var version = "dev"

type solveInput struct {
	Numbers []uint64 `json:"numbers" jsonschema:"exactly six non-negative integers, each usable at most once"`
	Target  uint64   `json:"target" jsonschema:"the value the expression must evaluate to"`
}

type solveOutput struct {
	Found      bool   `json:"found"`
	Expression string `json:"expression,omitempty" jsonschema:"postfix tokens separated by spaces, e.g. 3 4 +"`
	Candidates uint64 `json:"candidates"`
}

type evaluateInput struct {
	Expression string `json:"expression" jsonschema:"postfix tokens separated by spaces, e.g. 3 4 +"`
}

type evaluateOutput struct {
	OK    bool   `json:"ok"`
	Value uint64 `json:"value"`
}

// toolset binds MCP tool handlers to a solver.
type toolset struct {
	solver *Solver
	log    *logger
}

func newMCPServer(solver *Solver, log *logger) *mcp.Server {
	ts := &toolset{solver: solver, log: log}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "solve",
		Description: "Find a postfix expression over six numbers (each used at most once, operators + - * /, no negative or fractional intermediates) that evaluates to the target.",
	}, ts.solve)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate",
		Description: "Evaluate a postfix expression with the same rules the solver uses.",
	}, ts.evaluate)
	return server
}

func (ts *toolset) solve(ctx context.Context, _ *mcp.CallToolRequest, in solveInput) (*mcp.CallToolResult, solveOutput, error) {
	if len(in.Numbers) != numOperands {
		return nil, solveOutput{}, fmt.Errorf("expected %d numbers, got %d", numOperands, len(in.Numbers))
	}
	var p Problem
	copy(p.Numbers[:], in.Numbers)
	p.Target = in.Target

	ts.log.infof("solve requested: numbers=%v target=%d", p.Numbers, p.Target)
	res, err := ts.solver.Solve(ctx, p)
	if err != nil {
		return nil, solveOutput{}, err
	}
	out := solveOutput{Found: res.Found(), Candidates: res.Candidates}
	if res.Found() {
		out.Expression = res.Expression.String()
	}
	return nil, out, nil
}

func (ts *toolset) evaluate(_ context.Context, _ *mcp.CallToolRequest, in evaluateInput) (*mcp.CallToolResult, evaluateOutput, error) {
	expr, err := ParseExpression(in.Expression)
	if err != nil {
		return nil, evaluateOutput{}, err
	}
	v, ok := Compute(expr)
	return nil, evaluateOutput{OK: ok, Value: v}, nil
}

// runServe serves the tools over stdio until the client disconnects.
func runServe(ctx context.Context, log *logger, cfg appConfig) error {
	server := newMCPServer(newSolver(cfg, log), log)
	log.infof("serving MCP over stdio: workers=%d", cfg.Workers)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
