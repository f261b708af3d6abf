// Package core implements the built-in moj_* RPC methods served by every
// mojave-rpc node.
package core
