package server

import (
	"context"
	"strings"

	types "github.com/mojave-chain/mojave-rpc/rpc/types"
)

// Handler is the uniform contract every RPC method implements. It receives
// the decoded request envelope and the shared environment value supplied by
// the service. Handlers report application errors by returning *types.RPCError
// (passed through to the wire unchanged); any other error is shielded as an
// internal error. The environment is shared across concurrent invocations and
// must not be assumed exclusive.
type Handler[C any] func(ctx context.Context, req *types.RPCRequest, env C) (any, error)

// Resolution reports how a method name was resolved against the registry.
type Resolution int

const (
	// ResolutionExact means a handler is registered under the method name.
	ResolutionExact Resolution = iota
	// ResolutionFallback means no exact handler exists but the method's
	// namespace has a catch-all handler.
	ResolutionFallback
	// ResolutionNotFound means neither an exact nor a fallback handler
	// resolves the method.
	ResolutionNotFound
)

func (r Resolution) String() string {
	switch r {
	case ResolutionExact:
		return "exact"
	case ResolutionFallback:
		return "fallback"
	default:
		return "not found"
	}
}

// Registry maps method names to handlers and namespaces to fallback handlers.
// It is populated during startup and must not be mutated once a service is
// serving from it; Lookup takes no locks.
type Registry[C any] struct {
	handlers  map[string]Handler[C]
	fallbacks map[string]Handler[C]
}

// NewRegistry returns an empty registry.
func NewRegistry[C any]() *Registry[C] {
	return &Registry[C]{
		handlers:  make(map[string]Handler[C]),
		fallbacks: make(map[string]Handler[C]),
	}
}

// Register inserts or overwrites the handler for method. Registering the same
// method twice replaces the previous entry; last registration wins.
func (r *Registry[C]) Register(method string, h Handler[C]) {
	r.handlers[method] = h
}

// RegisterFallback inserts or overwrites the catch-all handler for namespace.
// The namespace is the portion of a method name before its first '_'.
func (r *Registry[C]) RegisterFallback(namespace string, h Handler[C]) {
	r.fallbacks[namespace] = h
}

// WithHandler is a chainable Register for builder-style construction.
func (r *Registry[C]) WithHandler(method string, h Handler[C]) *Registry[C] {
	r.Register(method, h)
	return r
}

// WithFallback is a chainable RegisterFallback.
func (r *Registry[C]) WithFallback(namespace string, h Handler[C]) *Registry[C] {
	r.RegisterFallback(namespace, h)
	return r
}

// Lookup resolves method to a handler. An exact match always wins over a
// namespace fallback, regardless of registration order; a method without a
// '_' separator has no namespace and can only match exactly.
func (r *Registry[C]) Lookup(method string) (Handler[C], Resolution) {
	if h, ok := r.handlers[method]; ok {
		return h, ResolutionExact
	}
	ns, _, found := strings.Cut(method, "_")
	if found {
		if h, ok := r.fallbacks[ns]; ok {
			return h, ResolutionFallback
		}
	}
	return nil, ResolutionNotFound
}
