// Package securestore implements the client's durable key/value storage:
// small named values (session record, bearer token, favorites) persisted in
// the local SQLite database. It is the storage collaborator behind the
// persisted-state containers; no other package writes these keys directly.
package securestore

import (
	"context"
)

type Repository interface {
	// Get returns the stored value for key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
