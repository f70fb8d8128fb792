package server

import (
	"context"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hmuraoka/pr-agent/internal/agent"
	"github.com/hmuraoka/pr-agent/internal/config"
	"github.com/hmuraoka/pr-agent/internal/github"
	"github.com/hmuraoka/pr-agent/internal/logging"
	"github.com/hmuraoka/pr-agent/internal/persona"
	"github.com/hmuraoka/pr-agent/internal/review"
)

// ReviewHandler translates review_pr tool calls into the agent's review
// pipeline.
type ReviewHandler struct {
	cfg *config.Config
}

func NewReviewHandler(cfg *config.Config) *ReviewHandler {
	return &ReviewHandler{cfg: cfg}
}

// Handle parses the tool arguments, runs fetch and generate, and posts the
// comment only when asked to. Tool-level failures are reported as tool
// results, not protocol errors.
func (h *ReviewHandler) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prURL, err := req.RequireString("pr_url")
	if err != nil {
		return mcp.NewToolResultError("pr_url is required"), nil
	}
	post := req.GetBool("post", false)

	ref, err := agent.ParsePRURL(prURL)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ghClient, err := github.NewClient(h.cfg.GitHubToken, h.cfg.HTTPTimeout)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create GitHub client: %v", err)), nil
	}

	p := persona.Default()
	if h.cfg.PersonaFile != "" {
		p, err = persona.Load(h.cfg.PersonaFile)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load persona: %v", err)), nil
		}
	}

	gen, err := review.NewGenerator(ctx, h.cfg.GeminiAPIKey, h.cfg.Model, p.SystemPrompt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create generator: %v", err)), nil
	}

	bot := agent.New(ghClient, gen, nil, io.Discard)
	text, err := bot.Review(ctx, ref, post)
	if err != nil {
		logging.Error("review failed", "pr", ref.String(), "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("review failed: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}
