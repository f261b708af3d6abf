// Package rpctrace generates the opaque trace ids attached to shielded
// internal RPC errors. A client reports the id; the matching server log line
// carries the real cause.
package rpctrace

import "github.com/gofrs/uuid"

// New returns a randomly generated trace id.
func New() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
