// Package server exposes the review pipeline as an MCP tool over stdio,
// so editors and other agents can request reviews through the protocol.
package server

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New builds the MCP server and registers the review tool. Business logic
// stays in the handler; this is protocol wiring only.
func New(handler *ReviewHandler) *server.MCPServer {
	s := server.NewMCPServer(
		"pr-agent",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	reviewTool := mcp.NewTool("review_pr",
		mcp.WithDescription("Fetch a GitHub pull request, generate a Gemini-based code review, and optionally post it back as a PR comment."),
		mcp.WithString("pr_url",
			mcp.Required(),
			mcp.Description("Full pull request URL (e.g. https://github.com/owner/repo/pull/123)"),
		),
		mcp.WithBoolean("post",
			mcp.Description("Post the generated review as a comment on the PR. Defaults to false: the review is only returned as text."),
		),
	)

	s.AddTool(reviewTool, handler.Handle)

	return s
}
