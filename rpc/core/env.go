package core

import (
	"time"

	"github.com/mojave-chain/mojave-rpc/libs/log"
)

// Environment contains the objects used to serve the built-in RPC methods.
// A single instance is created at startup and shared by every handler, so all
// of its fields must be safe for concurrent use.
type Environment struct {
	Logger log.Logger

	// ChainID is the chain identifier reported by moj_chainId.
	ChainID uint64

	// StartTime is when the process came up, reported by moj_health.
	StartTime time.Time
}
