package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	types "github.com/mojave-chain/mojave-rpc/rpc/types"
)

// Client is a JSON-RPC 2.0 client which sends POST HTTP requests to the
// remote server.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	address string
	client  *http.Client

	nextReqID uint64
}

// New returns a client talking to remote. Accepted schemes are http, https
// and tcp (treated as http); a missing scheme defaults to http.
func New(remote string) (*Client, error) {
	return NewWithHTTPClient(remote, &http.Client{})
}

// NewWithHTTPClient returns a client using a custom *http.Client, e.g. one
// with its own timeout or transport.
// The function panics when client is nil.
func NewWithHTTPClient(remote string, client *http.Client) (*Client, error) {
	if client == nil {
		panic("nil http.Client")
	}

	address, err := parseRemoteAddr(remote)
	if err != nil {
		return nil, err
	}

	return &Client{
		address: address,
		client:  client,
	}, nil
}

func parseRemoteAddr(remote string) (string, error) {
	if !strings.Contains(remote, "://") {
		remote = "http://" + remote
	}
	parsed, err := url.Parse(remote)
	if err != nil {
		return "", ErrInvalidAddress{Addr: remote, Source: err}
	}
	switch parsed.Scheme {
	case "tcp":
		parsed.Scheme = "http"
	case "http", "https":
	default:
		return "", ErrInvalidAddress{
			Addr:   remote,
			Source: errors.New("unsupported scheme " + parsed.Scheme),
		}
	}
	if parsed.Host == "" {
		return "", ErrInvalidAddress{Addr: remote, Source: errors.New("missing host")}
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

// Call issues a request for the given method, marshaling params (nil for no
// params) and unmarshaling the result into result (which may be nil to
// discard it). A JSON-RPC level error from the server is returned as
// *types.RPCError.
func (c *Client) Call(ctx context.Context, method string, params any, result any) error {
	id := types.JSONRPCIntID(int(atomic.AddUint64(&c.nextReqID, 1)))
	req, err := types.ParamsToRequest(id, method, params)
	if err != nil {
		return ErrEncodingParams{Source: err}
	}

	resp, err := c.CallRaw(ctx, &req)
	if err != nil {
		return err
	}
	if resp == nil {
		return ErrReadResponse{Source: errors.New("empty response body")}
	}
	if resp.Error != nil {
		return resp.Error
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return ErrUnmarshalResponse{Source: err}
	}
	return nil
}

// CallRaw sends req verbatim, preserving its id, and returns the decoded
// response envelope. A nil response with nil error means the server answered
// with no body (the request was a notification).
func (c *Client) CallRaw(ctx context.Context, req *types.RPCRequest) (*types.RPCResponse, error) {
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return nil, ErrMarshalRequest{Source: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.address, bytes.NewReader(reqBytes))
	if err != nil {
		return nil, ErrCreateRequest{Source: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, ErrFailedRequest{Source: err}
	}
	defer httpResp.Body.Close()

	respBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, ErrReadResponse{Source: err}
	}

	if httpResp.StatusCode == http.StatusNoContent || (req.IsNotification() && len(respBytes) == 0) {
		return nil, nil
	}

	resp := new(types.RPCResponse)
	if err := json.Unmarshal(respBytes, resp); err != nil {
		return nil, ErrUnmarshalResponse{Source: err}
	}
	return resp, nil
}
