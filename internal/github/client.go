// Package github wraps the GitHub REST API calls the agent needs: pull
// request metadata, the unified diff, and issue-comment creation.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
)

// Boundary failures map onto a small taxonomy so callers can branch with
// errors.Is instead of inspecting status codes.
var (
	ErrAuth     = errors.New("github: authentication failed")
	ErrNotFound = errors.New("github: not found")
	ErrRemote   = errors.New("github: remote error")
	ErrNetwork  = errors.New("github: network error")
)

// PullRequest is the metadata and diff consumed by the review generator.
type PullRequest struct {
	Owner  string
	Repo   string
	Number int
	Title  string
	Body   string
	Diff   string
}

// Client wraps two go-gh REST clients: one for JSON endpoints and one that
// negotiates the diff media type.
type Client struct {
	rest *api.RESTClient
	diff *api.RESTClient
}

// NewClient builds a client authenticated with token. The timeout applies
// per request.
func NewClient(token string, timeout time.Duration) (*Client, error) {
	rest, err := api.NewRESTClient(api.ClientOptions{
		Host:      "github.com",
		AuthToken: token,
		Timeout:   timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("github: create REST client: %w", err)
	}

	diff, err := api.NewRESTClient(api.ClientOptions{
		Host:      "github.com",
		AuthToken: token,
		Timeout:   timeout,
		Headers:   map[string]string{"Accept": "application/vnd.github.v3.diff"},
	})
	if err != nil {
		return nil, fmt.Errorf("github: create diff client: %w", err)
	}

	return &Client{rest: rest, diff: diff}, nil
}

// FetchPullRequest retrieves PR metadata and the unified diff. Two GETs,
// no retry: the first failure aborts.
func (c *Client) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	path := fmt.Sprintf("repos/%s/%s/pulls/%d", owner, repo, number)

	var meta struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, &meta); err != nil {
		return nil, mapError("fetch pull request", err)
	}

	resp, err := c.diff.RequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, mapError("fetch diff", err)
	}
	defer resp.Body.Close()

	diff, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read diff: %v", ErrNetwork, err)
	}

	return &PullRequest{
		Owner:  owner,
		Repo:   repo,
		Number: number,
		Title:  meta.Title,
		Body:   meta.Body,
		Diff:   string(diff),
	}, nil
}

// PostComment creates an issue comment on the PR. This is the system's
// only durable externally visible effect.
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	path := fmt.Sprintf("repos/%s/%s/issues/%d/comments", owner, repo, number)

	jsonBody, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("github: encode comment body: %w", err)
	}

	var response struct {
		ID int64 `json:"id"`
	}
	if err := c.rest.DoWithContext(ctx, http.MethodPost, path, bytes.NewReader(jsonBody), &response); err != nil {
		return mapError("post comment", err)
	}
	return nil
}

// mapError translates go-gh errors into the package taxonomy.
func mapError(op string, err error) error {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s: %v", ErrAuth, op, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s: %v", ErrNotFound, op, err)
		default:
			return fmt.Errorf("%w: %s: %v", ErrRemote, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrNetwork, op, err)
}
