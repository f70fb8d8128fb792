package agent

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmuraoka/pr-agent/internal/github"
	"github.com/hmuraoka/pr-agent/internal/mcp"
)

// fakeTransport answers every Send with a canned response.
type fakeTransport struct {
	resp    *mcp.Response
	recvErr error
	sent    []mcp.Request
	closed  bool
}

func (t *fakeTransport) Send(req mcp.Request) error {
	t.sent = append(t.sent, req)
	return nil
}

func (t *fakeTransport) Receive() (*mcp.Response, error) {
	if t.recvErr != nil {
		return nil, t.recvErr
	}
	return t.resp, nil
}

func (t *fakeTransport) Close() error {
	t.closed = true
	return nil
}

type fakeDialer struct {
	transport *fakeTransport
	err       error
}

func (d *fakeDialer) Dial(ctx context.Context) (mcp.Transport, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.transport, nil
}

// fakeAPI implements PullRequestAPI with canned data and call tracking.
type fakeAPI struct {
	pr       *github.PullRequest
	fetchErr error
	postErr  error

	postCalls  int
	lastOwner  string
	lastRepo   string
	lastNumber int
	lastBody   string
}

func (f *fakeAPI) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.pr, nil
}

func (f *fakeAPI) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	f.postCalls++
	f.lastOwner = owner
	f.lastRepo = repo
	f.lastNumber = number
	f.lastBody = body
	return f.postErr
}

type fakeGen struct {
	text string
	err  error

	calls      int
	lastPrompt [3]string
}

func (f *fakeGen) Generate(ctx context.Context, title, body, diff string) (string, error) {
	f.calls++
	f.lastPrompt = [3]string{title, body, diff}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestGreeting(t *testing.T) {
	transport := &fakeTransport{
		resp: &mcp.Response{
			ID:     1,
			Result: map[string]any{"login": "octocat", "name": "The Octocat"},
		},
	}

	var out bytes.Buffer
	bot := New(nil, nil, &fakeDialer{transport: transport}, &out)

	err := bot.Run(context.Background(), Mode{Kind: ModeGreeting})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "octocat")
	assert.Contains(t, out.String(), "The Octocat")

	require.Len(t, transport.sent, 1)
	assert.Equal(t, "get_me", transport.sent[0].Method)
	assert.True(t, transport.closed, "transport must be closed on success")
}

func TestGreetingNameMissing(t *testing.T) {
	transport := &fakeTransport{
		resp: &mcp.Response{Result: map[string]any{"login": "octocat"}},
	}

	var out bytes.Buffer
	bot := New(nil, nil, &fakeDialer{transport: transport}, &out)

	err := bot.Run(context.Background(), Mode{Kind: ModeGreeting})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "octocat")
	assert.Contains(t, out.String(), "N/A")
}

func TestGreetingMissingLogin(t *testing.T) {
	transport := &fakeTransport{
		resp: &mcp.Response{Result: map[string]any{"id": float64(12345)}},
	}

	var out bytes.Buffer
	bot := New(nil, nil, &fakeDialer{transport: transport}, &out)

	err := bot.Run(context.Background(), Mode{Kind: ModeGreeting})
	assert.ErrorIs(t, err, mcp.ErrProtocol)
	assert.True(t, transport.closed, "transport must be closed on failure")
}

func TestGreetingToolError(t *testing.T) {
	transport := &fakeTransport{
		resp: &mcp.Response{Error: &mcp.ToolError{Code: 401, Message: "bad credentials"}},
	}

	var out bytes.Buffer
	bot := New(nil, nil, &fakeDialer{transport: transport}, &out)

	err := bot.Run(context.Background(), Mode{Kind: ModeGreeting})
	var toolErr *mcp.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "bad credentials", toolErr.Message)
}

func TestGreetingDialFailure(t *testing.T) {
	dialErr := errors.New("docker not found")
	bot := New(nil, nil, &fakeDialer{err: dialErr}, &bytes.Buffer{})

	err := bot.Run(context.Background(), Mode{Kind: ModeGreeting})
	assert.ErrorIs(t, err, dialErr)
}

func TestReview(t *testing.T) {
	api := &fakeAPI{
		pr: &github.PullRequest{
			Owner:  "acme",
			Repo:   "widgets",
			Number: 42,
			Title:  "Add feature",
			Diff:   "+x",
		},
	}
	gen := &fakeGen{text: "Looks good"}

	var out bytes.Buffer
	bot := New(api, gen, nil, &out)

	ref := PRRef{Owner: "acme", Repo: "widgets", Number: 42}
	err := bot.Run(context.Background(), Mode{Kind: ModeReview, PR: ref})
	require.NoError(t, err)

	require.Equal(t, 1, api.postCalls, "exactly one comment must be posted")
	assert.Equal(t, "acme", api.lastOwner)
	assert.Equal(t, "widgets", api.lastRepo)
	assert.Equal(t, 42, api.lastNumber)
	assert.Equal(t, "Looks good", api.lastBody)

	assert.Equal(t, [3]string{"Add feature", "", "+x"}, gen.lastPrompt)
	assert.Contains(t, out.String(), "Looks good")
}

func TestReviewFetchFailureAborts(t *testing.T) {
	api := &fakeAPI{fetchErr: github.ErrNotFound}
	gen := &fakeGen{text: "unused"}

	bot := New(api, gen, nil, &bytes.Buffer{})
	err := bot.Run(context.Background(), Mode{Kind: ModeReview, PR: PRRef{Owner: "a", Repo: "b", Number: 1}})

	assert.ErrorIs(t, err, github.ErrNotFound)
	assert.Zero(t, gen.calls, "generation must not run after a failed fetch")
	assert.Zero(t, api.postCalls, "no comment must be posted after a failed fetch")
}

func TestReviewPostFailureStillPrints(t *testing.T) {
	api := &fakeAPI{
		pr:      &github.PullRequest{Title: "Fix bug", Body: "Fixes #1", Diff: "+line1\n-line2"},
		postErr: github.ErrRemote,
	}
	gen := &fakeGen{text: "Needs work"}

	var out bytes.Buffer
	bot := New(api, gen, nil, &out)
	err := bot.Run(context.Background(), Mode{Kind: ModeReview, PR: PRRef{Owner: "a", Repo: "b", Number: 1}})

	assert.ErrorIs(t, err, github.ErrRemote)
	assert.Contains(t, out.String(), "Needs work", "review text must be printed before the post attempt")
}

func TestReviewReturnText(t *testing.T) {
	api := &fakeAPI{pr: &github.PullRequest{Title: "Add feature", Diff: "+x"}}
	gen := &fakeGen{text: "Looks good"}

	bot := New(api, gen, nil, &bytes.Buffer{})

	text, err := bot.Review(context.Background(), PRRef{Owner: "acme", Repo: "widgets", Number: 42}, false)
	require.NoError(t, err)
	assert.Equal(t, "Looks good", text)
	assert.Zero(t, api.postCalls, "post=false must not comment")

	text, err = bot.Review(context.Background(), PRRef{Owner: "acme", Repo: "widgets", Number: 42}, true)
	require.NoError(t, err)
	assert.Equal(t, "Looks good", text)
	assert.Equal(t, 1, api.postCalls)
}
