package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/hmuraoka/pr-agent/internal/agent"
	"github.com/hmuraoka/pr-agent/internal/config"
	"github.com/hmuraoka/pr-agent/internal/github"
	"github.com/hmuraoka/pr-agent/internal/launcher"
	"github.com/hmuraoka/pr-agent/internal/persona"
	"github.com/hmuraoka/pr-agent/internal/review"
	"github.com/hmuraoka/pr-agent/internal/server"
)

func main() {
	var prURL string

	rootCmd := &cobra.Command{
		Use:   "pr-agent",
		Short: "Greets you via the GitHub MCP server, or reviews a pull request with Gemini",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), prURL)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVar(&prURL, "pr-url", "",
		"pull request to review (https://github.com/OWNER/REPO/pull/NUMBER); omit for greeting mode")

	serveCmd := &cobra.Command{
		Use:   "mcp-serve",
		Short: "Serve the review pipeline as an MCP tool over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// run selects the mode from the flag once, then dispatches.
func run(ctx context.Context, prURL string) error {
	// A missing .env is fine; the environment itself may carry everything.
	_ = godotenv.Load()
	cfg := config.Load()

	mode := agent.Mode{Kind: agent.ModeGreeting}
	if prURL != "" {
		ref, err := agent.ParsePRURL(prURL)
		if err != nil {
			return err
		}
		mode = agent.Mode{Kind: agent.ModeReview, PR: ref}
	}

	switch mode.Kind {
	case agent.ModeGreeting:
		if err := cfg.ValidateGreeting(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, cfg.MCPTimeout)
		defer cancel()

		dialer := &launcher.DockerDialer{Image: cfg.MCPImage, Token: cfg.GitHubToken}
		bot := agent.New(nil, nil, dialer, os.Stdout)
		return bot.Run(ctx, mode)

	case agent.ModeReview:
		if err := cfg.ValidateReview(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()

		ghClient, err := github.NewClient(cfg.GitHubToken, cfg.HTTPTimeout)
		if err != nil {
			return err
		}

		p := persona.Default()
		if cfg.PersonaFile != "" {
			if p, err = persona.Load(cfg.PersonaFile); err != nil {
				return err
			}
		}

		gen, err := review.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.Model, p.SystemPrompt)
		if err != nil {
			return err
		}

		bot := agent.New(ghClient, gen, nil, os.Stdout)
		return bot.Run(ctx, mode)
	}
	return nil
}

// serve starts the MCP stdio server exposing review_pr.
func serve() error {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.ValidateReview(); err != nil {
		return err
	}

	handler := server.NewReviewHandler(cfg)
	s := server.New(handler)

	fmt.Fprintln(os.Stderr, "pr-agent MCP server starting...")
	if err := mcpserver.ServeStdio(s); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
