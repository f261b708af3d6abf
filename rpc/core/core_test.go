package core

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojave-chain/mojave-rpc/libs/log"
	"github.com/mojave-chain/mojave-rpc/rpc/server"
	types "github.com/mojave-chain/mojave-rpc/rpc/types"
	"github.com/mojave-chain/mojave-rpc/version"
)

func testEnv() *Environment {
	return &Environment{
		Logger:    log.TestingLogger(),
		ChainID:   31337,
		StartTime: time.Now().Add(-time.Minute),
	}
}

func TestEcho(t *testing.T) {
	env := testEnv()
	req := types.NewRPCRequest(types.JSONRPCIntID(1), "moj_echo", json.RawMessage(`["hello",42]`))

	res, err := Echo(context.Background(), &req, env)
	require.NoError(t, err)
	echo, ok := res.(*ResultEcho)
	require.True(t, ok)
	assert.JSONEq(t, `["hello",42]`, string(echo.Echo))
}

func TestEchoNoParams(t *testing.T) {
	req := types.NewRPCRequest(types.JSONRPCIntID(1), "moj_echo", nil)

	res, err := Echo(context.Background(), &req, testEnv())
	require.NoError(t, err)

	// the result must still marshal to valid JSON
	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"echo":null}`, string(out))
}

func TestHealth(t *testing.T) {
	res, err := Health(context.Background(), nil, testEnv())
	require.NoError(t, err)
	health, ok := res.(*ResultHealth)
	require.True(t, ok)
	assert.NotEmpty(t, health.Uptime)
}

func TestClientVersion(t *testing.T) {
	res, err := ClientVersion(context.Background(), nil, testEnv())
	require.NoError(t, err)
	assert.Equal(t, version.ClientVersion(), res)
}

func TestChainID(t *testing.T) {
	res, err := ChainID(context.Background(), nil, testEnv())
	require.NoError(t, err)
	assert.Equal(t, "0x7a69", res)
}

func TestRoutes(t *testing.T) {
	reg := testEnv().Routes()

	for _, method := range []string{"moj_echo", "moj_health", "moj_clientVersion", "moj_chainId"} {
		h, resolution := reg.Lookup(method)
		require.NotNil(t, h, method)
		require.Equal(t, server.ResolutionExact, resolution, method)
	}

	h, resolution := reg.Lookup("moj_missing")
	assert.Nil(t, h)
	assert.Equal(t, server.ResolutionNotFound, resolution)
}
