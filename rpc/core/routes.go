package core

import (
	"github.com/mojave-chain/mojave-rpc/rpc/server"
)

// Routes returns a registry holding the built-in methods. Callers extend it
// with their own handlers and fallbacks before constructing the service.
func (env *Environment) Routes() *server.Registry[*Environment] {
	return server.NewRegistry[*Environment]().
		WithHandler("moj_echo", Echo).
		WithHandler("moj_health", Health).
		WithHandler("moj_clientVersion", ClientVersion).
		WithHandler("moj_chainId", ChainID)
}
