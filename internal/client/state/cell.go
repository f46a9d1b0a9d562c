// Package state implements the persisted-state container: a value that
// behaves like ordinary in-memory state but is mirrored to the client's
// durable key/value storage. The in-memory value is always authoritative for
// the running process; persistence is best effort.
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/ashishkaushik/leazzy/internal/logging"
)

// Store is the durable storage a Cell mirrors into. Get must return
// (nil, nil) when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Cell holds a value of type T under a fixed storage key.
//
// Until Load has run, Set updates only the in-memory value: the very first
// write must not clobber a previously persisted value before it has been
// read. After Load, every Set re-reads the stored value and writes only when
// it differs, so writing the same value twice results in a single durable
// write.
type Cell[T any] struct {
	mu     sync.Mutex
	store  Store
	key    string
	value  T
	def    T
	loaded bool
	equals func(a, b T) bool
	logger logging.Logger
}

type Option[T any] func(*Cell[T])

// WithEquals overrides the comparison used to decide whether a durable write
// is needed. The default compares JSON encodings.
func WithEquals[T any](eq func(a, b T) bool) Option[T] {
	return func(c *Cell[T]) { c.equals = eq }
}

func WithLogger[T any](l logging.Logger) Option[T] {
	return func(c *Cell[T]) { c.logger = l }
}

func New[T any](store Store, key string, def T, opts ...Option[T]) *Cell[T] {
	c := &Cell[T]{
		store:  store,
		key:    key,
		value:  def,
		def:    def,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load hydrates the cell from storage. An absent or unparseable value keeps
// the default. Storage errors are logged and swallowed; the cell counts as
// loaded either way so later Sets start persisting.
func (c *Cell[T]) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer func() { c.loaded = true }()

	stored, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.Error(ctx, "failed to load persisted value", "key", c.key, "error", err)
		return
	}
	if stored == nil {
		return
	}

	var parsed T
	if err := json.Unmarshal(stored, &parsed); err != nil {
		c.logger.Warn(ctx, "failed to parse persisted value, keeping default", "key", c.key, "error", err)
		return
	}
	c.value = parsed
}

// Get returns the current in-memory value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Loaded reports whether the initial hydration has completed.
func (c *Cell[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Set replaces the in-memory value and, once the initial load has completed,
// mirrors it to storage when it differs from what is already durably stored.
// Persistence failures are logged; the in-memory value stays authoritative.
func (c *Cell[T]) Set(ctx context.Context, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = v

	if !c.loaded {
		// Initial hydration has not resolved yet; writing now could
		// overwrite a previously persisted value with a default.
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Error(ctx, "failed to encode value", "key", c.key, "error", err)
		return
	}

	stored, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.Error(ctx, "failed to read stored value before write", "key", c.key, "error", err)
		return
	}

	if c.sameAsStored(stored, v, data) {
		return
	}

	if err := c.store.Set(ctx, c.key, data); err != nil {
		c.logger.Error(ctx, "failed to persist value", "key", c.key, "error", err)
	}
}

// Clear resets the cell to its default value and deletes the durable key.
func (c *Cell[T]) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = c.def
	if err := c.store.Delete(ctx, c.key); err != nil {
		c.logger.Error(ctx, "failed to delete persisted value", "key", c.key, "error", err)
	}
}

func (c *Cell[T]) sameAsStored(stored []byte, v T, encoded []byte) bool {
	if c.equals == nil {
		return stored != nil && bytes.Equal(stored, encoded)
	}
	baseline := c.def
	if stored != nil {
		var parsed T
		if err := json.Unmarshal(stored, &parsed); err != nil {
			return false
		}
		baseline = parsed
	}
	return c.equals(v, baseline)
}
