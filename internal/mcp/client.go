package mcp

import (
	"context"
	"fmt"
)

// Client performs synchronous tool calls over a Transport. One request is
// outstanding at a time; there is no pipelining and no retry.
type Client struct {
	transport Transport
	nextID    int64
}

func NewClient(transport Transport) *Client {
	return &Client{transport: transport, nextID: 1}
}

// CallTool sends one request and waits for the matching response. The read
// runs under the context deadline so a server that never answers cannot
// hang the caller; on expiry the context error is returned and the
// transport should be closed by the caller.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	if args == nil {
		args = map[string]any{}
	}
	req := Request{
		ID:     c.nextID,
		Method: name,
		Params: args,
	}
	c.nextID++

	if err := c.transport.Send(req); err != nil {
		return nil, fmt.Errorf("mcp: send %q: %w", name, err)
	}

	type received struct {
		resp *Response
		err  error
	}
	ch := make(chan received, 1)
	go func() {
		resp, err := c.transport.Receive()
		ch <- received{resp: resp, err: err}
	}()

	var resp *Response
	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		resp = r.resp
	case <-ctx.Done():
		return nil, fmt.Errorf("mcp: call %q: %w", name, ctx.Err())
	}

	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("%w: response has neither result nor error", ErrProtocol)
	}
	return resp.Result, nil
}
