package config

import (
	"errors"
	"os"
	"time"
)

// DefaultMCPImage is the containerized MCP server launched in greeting mode.
const DefaultMCPImage = "ghcr.io/github/github-mcp-server"

// DefaultModel is the Gemini model used for review generation.
const DefaultModel = "gemini-2.5-flash"

// Config carries every credential and knob the agent needs. It is built
// once at startup from the environment; nothing below cmd/ reads env state.
type Config struct {
	// GitHubToken authenticates both the REST calls and the MCP server
	// container (forwarded into its environment).
	GitHubToken string

	// GeminiAPIKey authenticates review generation. Only required in
	// review and mcp-serve modes.
	GeminiAPIKey string

	// MCPImage is the Docker image run in greeting mode.
	MCPImage string

	// Model is the Gemini model name.
	Model string

	// PersonaFile optionally points at a YAML persona definition that
	// overrides the built-in reviewer system prompt.
	PersonaFile string

	// MCPTimeout bounds the single MCP request/response exchange,
	// including container startup and image pull.
	MCPTimeout time.Duration

	// HTTPTimeout bounds each individual GitHub API request.
	HTTPTimeout time.Duration
}

// Load reads the configuration from the environment.
func Load() *Config {
	cfg := &Config{
		GitHubToken:  os.Getenv("GITHUB_PERSONAL_ACCESS_TOKEN"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		MCPImage:     os.Getenv("MCP_SERVER_IMAGE"),
		Model:        os.Getenv("GEMINI_MODEL"),
		PersonaFile:  os.Getenv("PERSONA_FILE"),
		MCPTimeout:   60 * time.Second,
		HTTPTimeout:  30 * time.Second,
	}
	if cfg.MCPImage == "" {
		cfg.MCPImage = DefaultMCPImage
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return cfg
}

// ValidateGreeting checks the credentials greeting mode needs.
func (c *Config) ValidateGreeting() error {
	if c.GitHubToken == "" {
		return errors.New("GITHUB_PERSONAL_ACCESS_TOKEN is not set")
	}
	return nil
}

// ValidateReview checks the credentials review and mcp-serve modes need.
func (c *Config) ValidateReview() error {
	if c.GitHubToken == "" {
		return errors.New("GITHUB_PERSONAL_ACCESS_TOKEN is not set")
	}
	if c.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY is not set")
	}
	return nil
}
