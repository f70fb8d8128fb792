// Package agent orchestrates the two pipelines: the MCP greeting and the
// fetch-review-comment flow. Collaborators are injected behind small
// interfaces so both pipelines run against fakes in tests.
package agent

import (
	"context"
	"fmt"
	"io"

	"github.com/hmuraoka/pr-agent/internal/github"
	"github.com/hmuraoka/pr-agent/internal/launcher"
	"github.com/hmuraoka/pr-agent/internal/logging"
	"github.com/hmuraoka/pr-agent/internal/mcp"
)

// PullRequestAPI is the GitHub surface the agent needs.
type PullRequestAPI interface {
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	PostComment(ctx context.Context, owner, repo string, number int, body string) error
}

// ReviewGenerator produces the review text for a pull request.
type ReviewGenerator interface {
	Generate(ctx context.Context, title, body, diff string) (string, error)
}

// Agent runs one mode per invocation. Fields unused by the selected mode
// may be nil.
type Agent struct {
	github PullRequestAPI
	gen    ReviewGenerator
	dialer launcher.Dialer
	out    io.Writer
}

func New(gh PullRequestAPI, gen ReviewGenerator, dialer launcher.Dialer, out io.Writer) *Agent {
	return &Agent{github: gh, gen: gen, dialer: dialer, out: out}
}

// Run dispatches on the mode. Any failure aborts the remaining steps and
// propagates untouched to the caller.
func (a *Agent) Run(ctx context.Context, mode Mode) error {
	switch mode.Kind {
	case ModeGreeting:
		return a.greet(ctx)
	case ModeReview:
		return a.review(ctx, mode.PR)
	default:
		return fmt.Errorf("agent: unknown mode %d", mode.Kind)
	}
}

// greet launches the MCP server, calls get_me, and prints the greeting.
func (a *Agent) greet(ctx context.Context) error {
	logging.Info("launching MCP server")
	transport, err := a.dialer.Dial(ctx)
	if err != nil {
		return err
	}
	defer transport.Close()

	client := mcp.NewClient(transport)
	result, err := client.CallTool(ctx, "get_me", nil)
	if err != nil {
		return err
	}

	login, ok := result["login"].(string)
	if !ok || login == "" {
		return fmt.Errorf("%w: result is missing login", mcp.ErrProtocol)
	}
	name, _ := result["name"].(string)
	if name == "" {
		name = "N/A"
	}

	fmt.Fprintf(a.out, "Hello, %s! Your name is %s (via MCP).\n", login, name)
	return nil
}

// review runs fetch, generate, and comment in strict sequence. The review
// text is printed before the post so a failed comment does not lose it.
func (a *Agent) review(ctx context.Context, ref PRRef) error {
	logging.Info("fetching pull request", "pr", ref.String())
	pr, err := a.github.FetchPullRequest(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return err
	}

	logging.Info("generating review", "title", pr.Title)
	text, err := a.gen.Generate(ctx, pr.Title, pr.Body, pr.Diff)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, text)

	logging.Info("posting review comment", "pr", ref.String())
	if err := a.github.PostComment(ctx, ref.Owner, ref.Repo, ref.Number, text); err != nil {
		logging.Warn("review was generated but could not be posted; text printed above", "pr", ref.String())
		return err
	}

	logging.Info("review posted", "pr", ref.String())
	return nil
}

// Review runs the fetch and generate steps and returns the review text,
// posting the comment only when post is set. Used by the MCP server mode.
func (a *Agent) Review(ctx context.Context, ref PRRef, post bool) (string, error) {
	pr, err := a.github.FetchPullRequest(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return "", err
	}

	text, err := a.gen.Generate(ctx, pr.Title, pr.Body, pr.Diff)
	if err != nil {
		return "", err
	}

	if post {
		if err := a.github.PostComment(ctx, ref.Owner, ref.Repo, ref.Number, text); err != nil {
			return "", err
		}
	}
	return text, nil
}
