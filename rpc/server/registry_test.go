package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/mojave-chain/mojave-rpc/rpc/types"
)

func named(name string) Handler[int] {
	return func(context.Context, *types.RPCRequest, int) (any, error) {
		return name, nil
	}
}

func resultOf(t *testing.T, h Handler[int]) string {
	t.Helper()
	res, err := h(context.Background(), nil, 0)
	require.NoError(t, err)
	return res.(string)
}

func TestLookupExactBeatsFallback(t *testing.T) {
	reg := NewRegistry[int]().
		WithHandler("eth_chainId", named("exact")).
		WithFallback("eth", named("fallback"))

	h, resolution := reg.Lookup("eth_chainId")
	require.Equal(t, ResolutionExact, resolution)
	assert.Equal(t, "exact", resultOf(t, h))

	h, resolution = reg.Lookup("eth_getBalance")
	require.Equal(t, ResolutionFallback, resolution)
	assert.Equal(t, "fallback", resultOf(t, h))
}

func TestLookupPrecedenceIgnoresRegistrationOrder(t *testing.T) {
	// fallback registered after the exact handler must not shadow it
	reg := NewRegistry[int]()
	reg.Register("eth_chainId", named("exact"))
	reg.RegisterFallback("eth", named("fallback"))

	h, resolution := reg.Lookup("eth_chainId")
	require.Equal(t, ResolutionExact, resolution)
	assert.Equal(t, "exact", resultOf(t, h))
}

func TestLookupNamespaceSplitsOnFirstUnderscore(t *testing.T) {
	reg := NewRegistry[int]().WithFallback("eth", named("eth-ns"))

	h, resolution := reg.Lookup("eth_get_balance")
	require.Equal(t, ResolutionFallback, resolution)
	assert.Equal(t, "eth-ns", resultOf(t, h))
}

func TestLookupNoSeparatorNoFallback(t *testing.T) {
	reg := NewRegistry[int]().WithFallback("health", named("fallback"))

	h, resolution := reg.Lookup("health")
	assert.Nil(t, h)
	assert.Equal(t, ResolutionNotFound, resolution)
}

func TestLookupLeadingUnderscore(t *testing.T) {
	// "_foo" has the empty namespace
	reg := NewRegistry[int]().WithFallback("", named("empty-ns"))

	h, resolution := reg.Lookup("_foo")
	require.Equal(t, ResolutionFallback, resolution)
	assert.Equal(t, "empty-ns", resultOf(t, h))
}

func TestLookupNotFound(t *testing.T) {
	reg := NewRegistry[int]()
	h, resolution := reg.Lookup("eth_chainId")
	assert.Nil(t, h)
	assert.Equal(t, ResolutionNotFound, resolution)
}

func TestRegisterLastWins(t *testing.T) {
	reg := NewRegistry[int]()
	reg.Register("m_x", named("first"))
	reg.Register("m_x", named("second"))

	h, _ := reg.Lookup("m_x")
	assert.Equal(t, "second", resultOf(t, h))

	reg.RegisterFallback("m", named("fb1"))
	reg.RegisterFallback("m", named("fb2"))
	h, _ = reg.Lookup("m_y")
	assert.Equal(t, "fb2", resultOf(t, h))
}

func TestResolutionString(t *testing.T) {
	assert.Equal(t, "exact", ResolutionExact.String())
	assert.Equal(t, "fallback", ResolutionFallback.String())
	assert.Equal(t, "not found", ResolutionNotFound.String())
}
