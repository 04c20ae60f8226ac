// Package store holds the key-value string store that backs every persisted
// collection. Values are opaque strings; callers own the encoding.
package store

import "context"

// Store is an origin-scoped key-value string store. A missing key is reported
// with ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
