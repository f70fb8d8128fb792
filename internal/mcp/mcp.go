// Package mcp implements a minimal client for MCP-style tool servers that
// speak newline-delimited JSON over a byte stream: one request record out,
// one response record back, no pipelining.
package mcp

import (
	"errors"
	"fmt"
)

// ErrProtocol reports output that could not be parsed as a response record,
// or a stream that closed before a full record arrived.
var ErrProtocol = errors.New("mcp: protocol error")

// Request is a single tool invocation record.
type Request struct {
	ID     int64          `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

// Response is the record a server answers with: exactly one of Result or
// Error is populated.
type Response struct {
	ID     int64          `json:"id,omitempty"`
	Result map[string]any `json:"result,omitempty"`
	Error  *ToolError     `json:"error,omitempty"`
}

// ToolError is an error object returned by the server itself, as opposed to
// a transport or framing failure.
type ToolError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *ToolError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("mcp: server error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("mcp: server error: %s", e.Message)
}

// Transport moves one record at a time between client and server. The
// stdio implementation lives in this package; tests substitute in-memory
// fakes.
type Transport interface {
	Send(req Request) error
	Receive() (*Response, error)
	Close() error
}
