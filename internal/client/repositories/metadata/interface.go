// Package metadata persists the client's string key/value state
// (session token, user id, pending OTP emails) in the local database.
package metadata

import (
	"context"
)

// Repository is a flat string key/value store. Get returns "" for a key that
// was never set or has been deleted.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
