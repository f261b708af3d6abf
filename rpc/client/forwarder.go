package client

import (
	"context"

	"github.com/mojave-chain/mojave-rpc/rpc/server"
	types "github.com/mojave-chain/mojave-rpc/rpc/types"
)

// Forwarder returns a handler that relays requests verbatim to the client's
// remote, preserving the original method, params and id. Registered as a
// namespace fallback it turns the service into a selective proxy: locally
// registered methods are served in-process, everything else in the namespace
// is answered by the upstream node.
//
// Transport failures surface as opaque internal errors; JSON-RPC errors
// reported by the upstream pass through to the caller unchanged.
func Forwarder[C any](c *Client) server.Handler[C] {
	return func(ctx context.Context, req *types.RPCRequest, _ C) (any, error) {
		resp, err := c.CallRaw(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			// upstream treated it as a notification; nothing to relay
			return nil, nil
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	}
}
