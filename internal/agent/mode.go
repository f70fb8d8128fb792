package agent

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidPRURL reports a --pr-url value that does not name a pull
// request. It is raised before any network call.
var ErrInvalidPRURL = errors.New("agent: invalid pull request URL")

// ModeKind selects which pipeline Run executes.
type ModeKind int

const (
	// ModeGreeting launches the MCP server and calls get_me.
	ModeGreeting ModeKind = iota
	// ModeReview fetches, reviews, and comments on a pull request.
	ModeReview
)

// Mode is decided once at startup and dispatched with a single switch.
type Mode struct {
	Kind ModeKind
	PR   PRRef
}

// PRRef identifies a pull request.
type PRRef struct {
	Owner  string
	Repo   string
	Number int
}

func (r PRRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

var prURLPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/pull/(\d+)$`)

// ParsePRURL extracts owner, repo, and number from a canonical PR URL.
func ParsePRURL(url string) (PRRef, error) {
	m := prURLPattern.FindStringSubmatch(url)
	if m == nil {
		return PRRef{}, fmt.Errorf("%w: %q does not match https://github.com/<owner>/<repo>/pull/<number>", ErrInvalidPRURL, url)
	}
	number, err := strconv.Atoi(m[3])
	if err != nil {
		return PRRef{}, fmt.Errorf("%w: %q: %v", ErrInvalidPRURL, url, err)
	}
	return PRRef{Owner: m[1], Repo: m[2], Number: number}, nil
}
