package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mojave-chain/mojave-rpc/internal/rpctrace"
	"github.com/mojave-chain/mojave-rpc/libs/log"
	types "github.com/mojave-chain/mojave-rpc/rpc/types"
)

// errHandlerTimeout is shaped as an internal error when a handler exceeds the
// service's per-invocation deadline.
var errHandlerTimeout = errors.New("handler timed out")

// Service binds an environment value and a registry into the single raw-bytes
// entry point a transport calls. The registry must be fully populated before
// the first HandleRaw call and never mutated afterwards.
//
// The environment is passed by value to every handler invocation and may be
// read by many handlers concurrently. Whether writes made by one batch item
// are visible to its siblings is undefined; mutable state inside the
// environment needs its own synchronization.
type Service[C any] struct {
	env            C
	registry       *Registry[C]
	logger         log.Logger
	metrics        *Metrics
	handlerTimeout time.Duration
}

// Option configures a Service.
type Option[C any] func(*Service[C])

// WithLogger sets the service logger. Defaults to a nop logger.
func WithLogger[C any](l log.Logger) Option[C] {
	return func(s *Service[C]) { s.logger = l }
}

// WithMetrics sets the service metrics. Defaults to nop metrics.
func WithMetrics[C any](m *Metrics) Option[C] {
	return func(s *Service[C]) { s.metrics = m }
}

// WithHandlerTimeout bounds each handler invocation. Zero means no bound. On
// expiry the item is answered with an internal error; the handler goroutine
// is left to run to completion so externally observable side effects are not
// interrupted.
func WithHandlerTimeout[C any](d time.Duration) Option[C] {
	return func(s *Service[C]) { s.handlerTimeout = d }
}

// NewService returns a service dispatching into registry with env.
func NewService[C any](env C, registry *Registry[C], opts ...Option[C]) *Service[C] {
	s := &Service[C]{
		env:      env,
		registry: registry,
		logger:   log.NewNopLogger(),
		metrics:  NopMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleRaw decodes body as a single JSON-RPC request or a batch, executes it
// and returns the serialized response body. A nil return means the submission
// consisted only of notifications and no body must be sent.
//
// The returned bytes are always a well-formed JSON-RPC response object or a
// non-empty array of them.
func (s *Service[C]) HandleRaw(ctx context.Context, body []byte) []byte {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return s.handleBatch(ctx, trimmed)
	}

	var req types.RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return s.marshalResponse(types.RPCParseError(err))
	}
	res, suppressed := s.dispatch(ctx, &req)
	if suppressed {
		return nil
	}
	return s.marshalResponse(res)
}

// handleBatch fans the batch items out to concurrent dispatches and
// recombines the answers in the original array order. Items whose outcome is
// suppressed (well-formed notifications) are omitted; an entirely suppressed
// batch yields no body.
func (s *Service[C]) handleBatch(ctx context.Context, body []byte) []byte {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return s.marshalResponse(types.RPCParseError(err))
	}
	if len(items) == 0 {
		return s.marshalResponse(types.RPCInvalidRequestError(nil, errors.New("empty batch")))
	}

	responses := make([]*types.RPCResponse, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, raw := range items {
		i, raw := i, raw
		g.Go(func() error {
			var req types.RPCRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				res := types.RPCInvalidRequestError(nil, err)
				responses[i] = &res
				return nil
			}
			res, suppressed := s.dispatch(gctx, &req)
			if !suppressed {
				responses[i] = &res
			}
			return nil
		})
	}
	// item failures are shaped into responses, never returned as errors
	_ = g.Wait()

	out := make([]types.RPCResponse, 0, len(items))
	for _, res := range responses {
		if res != nil {
			out = append(out, *res)
		}
	}
	if len(out) == 0 {
		return nil
	}
	data, err := json.Marshal(out)
	if err != nil {
		s.logger.Error("failed to marshal batch response", "err", err)
		return s.marshalResponse(types.RPCInternalError(nil, errors.New("response serialization failed")))
	}
	return data
}

// dispatch drives a single request through validate, resolve, invoke and
// shape. The second return value reports suppression: the request was a
// well-formed notification, its handler ran, and the computed response must
// be discarded. Malformed requests are never suppressed.
func (s *Service[C]) dispatch(ctx context.Context, req *types.RPCRequest) (types.RPCResponse, bool) {
	if err := req.ValidateBasic(); err != nil {
		return types.RPCInvalidRequestError(req.ID, err), false
	}

	s.logger.Debug("dispatching request", "method", req.Method, "id", req.ID)
	start := time.Now()

	var res types.RPCResponse
	handler, resolution := s.registry.Lookup(req.Method)
	if resolution == ResolutionNotFound {
		res = types.RPCMethodNotFoundError(req.ID)
	} else {
		result, err := s.invoke(ctx, handler, req)
		res = s.shape(req, result, err)
	}

	took := time.Since(start)
	s.metrics.Requests.With("method", req.Method).Add(1)
	s.metrics.RequestDuration.With("method", req.Method).Observe(took.Seconds())
	if res.Error != nil {
		s.metrics.Errors.With("code", strconv.Itoa(res.Error.Code)).Add(1)
		s.logger.Warn("request failed", "method", req.Method, "err", res.Error, "took", took)
	} else {
		s.logger.Debug("request completed", "method", req.Method, "took", took)
	}

	if req.IsNotification() {
		return types.RPCResponse{}, true
	}
	return res, false
}

// invoke runs the handler in its own goroutine so a panic or a stall cannot
// take down or block the dispatcher. On timeout or caller abort the handler
// keeps running; only the reply is abandoned.
func (s *Service[C]) invoke(ctx context.Context, handler Handler[C], req *types.RPCRequest) (any, error) {
	type outcome struct {
		result any
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in RPC handler",
					"method", req.Method, "err", r, "stack", string(debug.Stack()))
				done <- outcome{nil, fmt.Errorf("handler panic: %v", r)}
			}
		}()
		result, err := handler(ctx, req, s.env)
		done <- outcome{result, err}
	}()

	var timeout <-chan time.Time
	if s.handlerTimeout > 0 {
		t := time.NewTimer(s.handlerTimeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case o := <-done:
		return o.result, o.err
	case <-timeout:
		return nil, errHandlerTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// shape converts an invocation outcome into a response envelope. It is the
// only path from handler errors to the wire: *types.RPCError values pass
// through unchanged, the timeout sentinel becomes a fixed internal error, and
// anything else is shielded behind a trace id that correlates with the
// server-side log entry.
func (s *Service[C]) shape(req *types.RPCRequest, result any, err error) types.RPCResponse {
	if err == nil {
		return types.NewRPCSuccessResponse(req.ID, result)
	}
	if errors.Is(err, errHandlerTimeout) {
		return types.RPCInternalError(req.ID, errHandlerTimeout)
	}
	var rpcErr *types.RPCError
	if errors.As(err, &rpcErr) {
		return types.NewRPCErrorResponse(req.ID, rpcErr)
	}

	traceID, tErr := rpctrace.New()
	if tErr != nil {
		traceID = "unknown"
	}
	s.logger.Error("handler failure", "method", req.Method, "err", err, "trace", traceID)
	return types.RPCInternalError(req.ID, fmt.Errorf("see logs for details (trace: %s)", traceID))
}

// marshalResponse serializes a single response envelope. Serialization of a
// shaped response failing is a programming error; degrade to a constant
// internal error body rather than returning nothing.
func (s *Service[C]) marshalResponse(res types.RPCResponse) []byte {
	data, err := json.Marshal(res)
	if err != nil {
		s.logger.Error("failed to marshal response", "err", err)
		return []byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"Internal error"}}`)
	}
	return data
}
