// Package metadata is the client's local settings store. The CLI keeps its
// session (token, username, expiry) here between runs.
package metadata

import "context"

// Repository maps setting keys to string values.
type Repository interface {
	// Get reports ok=false for a missing key.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
