// Package launcher starts the containerized MCP server and exposes its
// stdio as an mcp.Transport.
package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/hmuraoka/pr-agent/internal/logging"
	"github.com/hmuraoka/pr-agent/internal/mcp"
)

// ErrLaunch reports that the container runtime is unavailable or the
// server process could not be started.
var ErrLaunch = errors.New("launcher: launch failed")

// tokenEnv is the variable the GitHub MCP server reads its credential from.
const tokenEnv = "GITHUB_PERSONAL_ACCESS_TOKEN"

// Dialer starts a tool server and hands back a connected transport.
// Closing the transport must tear the server down again.
type Dialer interface {
	Dial(ctx context.Context) (mcp.Transport, error)
}

// DockerDialer runs the MCP server image with `docker run -i --rm`. The
// GitHub token travels only through the child environment: the `-e NAME`
// form makes Docker copy the value from its own environment, so the secret
// never appears in argv or process listings.
type DockerDialer struct {
	Image string
	Token string
}

var _ Dialer = (*DockerDialer)(nil)

// dockerArgs builds the argv after the docker binary itself.
func dockerArgs(image string) []string {
	return []string{"run", "-i", "--rm", "-e", tokenEnv, image}
}

// Dial starts the container and returns a transport over its stdio. The
// context bounds the whole exchange; when it expires the process is killed
// through exec.CommandContext.
func (d *DockerDialer) Dial(ctx context.Context) (mcp.Transport, error) {
	if _, err := exec.LookPath("docker"); err != nil {
		return nil, fmt.Errorf("%w: docker not found in PATH: %v", ErrLaunch, err)
	}

	logging.Debug("starting MCP server container", "image", d.Image)
	cmd := exec.CommandContext(ctx, "docker", dockerArgs(d.Image)...)
	cmd.Env = append(os.Environ(), tokenEnv+"="+d.Token)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin pipe: %v", ErrLaunch, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrLaunch, err)
	}

	proc := &process{cmd: cmd, stdin: stdin}
	cmd.Stderr = &proc.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", ErrLaunch, d.Image, err)
	}

	return &launchTransport{
		StdioTransport: mcp.NewStdioTransport(stdin, stdout, proc),
		proc:           proc,
	}, nil
}

// launchTransport decorates the stdio transport with server stderr: when
// the container exits before producing a response, the captured stderr is
// usually the only clue why.
type launchTransport struct {
	*mcp.StdioTransport
	proc *process
}

func (t *launchTransport) Receive() (*mcp.Response, error) {
	resp, err := t.StdioTransport.Receive()
	if err != nil {
		if tail := t.proc.StderrTail(); tail != "" {
			return nil, fmt.Errorf("%w (server stderr: %s)", err, tail)
		}
		return nil, err
	}
	return resp, nil
}

// process owns the running container and implements the transport's closer.
type process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr limitedBuffer
}

// Close shuts the server down on every exit path: stdin is closed first so
// a well-behaved server exits on EOF, then the process is killed and
// reaped. `--rm` removes the container afterwards.
func (p *process) Close() error {
	_ = p.stdin.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.cmd.Wait()
	return nil
}

// StderrTail returns captured server stderr for error context.
func (p *process) StderrTail() string {
	return strings.TrimSpace(p.stderr.String())
}

// limitedBuffer keeps at most maxStderr bytes of server stderr. os/exec
// copies the child's stderr into it from its own goroutine, so both sides
// take the mutex: Write races StderrTail otherwise.
type limitedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

const maxStderr = 8 * 1024

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if remaining := maxStderr - b.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
