package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	types "github.com/mojave-chain/mojave-rpc/rpc/types"
	"github.com/mojave-chain/mojave-rpc/version"
)

// ResultEcho is the response of moj_echo.
type ResultEcho struct {
	Echo json.RawMessage `json:"echo"`
}

// ResultHealth is the response of moj_health.
type ResultHealth struct {
	Uptime string `json:"uptime"`
}

// Echo returns the request params verbatim. Useful for smoke tests and
// latency probes.
func Echo(_ context.Context, req *types.RPCRequest, _ *Environment) (any, error) {
	params := req.Params
	if len(params) == 0 {
		params = json.RawMessage("null")
	}
	return &ResultEcho{Echo: params}, nil
}

// Health reports node health. Answering at all means the dispatch path is
// alive; the uptime tells how long.
func Health(_ context.Context, _ *types.RPCRequest, env *Environment) (any, error) {
	return &ResultHealth{
		Uptime: time.Since(env.StartTime).Round(time.Second).String(),
	}, nil
}

// ClientVersion returns the version string of this node.
func ClientVersion(_ context.Context, _ *types.RPCRequest, _ *Environment) (any, error) {
	return version.ClientVersion(), nil
}

// ChainID returns the chain id as a 0x-prefixed hex string.
func ChainID(_ context.Context, _ *types.RPCRequest, env *Environment) (any, error) {
	return fmt.Sprintf("0x%x", env.ChainID), nil
}
