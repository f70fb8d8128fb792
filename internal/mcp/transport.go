package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// maxRecordSize bounds a single response line. get_me payloads are tiny;
// the headroom is for servers that echo verbose result objects.
const maxRecordSize = 4 * 1024 * 1024

// StdioTransport frames records as newline-delimited JSON over a pair of
// byte streams, typically a subprocess's stdin and stdout.
type StdioTransport struct {
	w       io.Writer
	scanner *bufio.Scanner
	closer  io.Closer
}

// NewStdioTransport wraps w (requests out) and r (responses in). If closer
// is non-nil it is invoked by Close, letting the caller tie transport
// shutdown to subprocess teardown.
func NewStdioTransport(w io.Writer, r io.Reader, closer io.Closer) *StdioTransport {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxRecordSize)
	return &StdioTransport{w: w, scanner: scanner, closer: closer}
}

// Send writes one request record followed by a newline and flushes it.
func (t *StdioTransport) Send(req Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("mcp: encode request: %w", err)
	}
	data = append(data, '\n')
	if _, err := t.w.Write(data); err != nil {
		return fmt.Errorf("mcp: write request: %w", err)
	}
	return nil
}

// Receive reads lines until one parses as a response record. Blank lines
// are skipped; a non-JSON line or a stream that ends without a record is a
// protocol error.
func (t *StdioTransport) Receive() (*Response, error) {
	for t.scanner.Scan() {
		line := bytes.TrimSpace(t.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("%w: invalid record %q: %v", ErrProtocol, truncate(line, 200), err)
		}
		return &resp, nil
	}
	if err := t.scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrProtocol, err)
	}
	return nil, fmt.Errorf("%w: stream closed before a response record", ErrProtocol)
}

func (t *StdioTransport) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
