// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used by default (DB_PATH unset) and by tests; state is lost on restart.
//
// Characteristics:
//   - Histories are kept JSON-encoded in a go-cache, keyed by player key.
//   - Entries expire after the configured TTL; Save refreshes it.
//   - Concurrency-safe (go-cache locks internally).

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/robalobadob/wordul/internal/game"
)

// memory is a go-cache backed Store.
type memory struct {
	c *cache.Cache
}

// NewMemoryStore constructs an in-memory Store whose entries live for ttl.
// A ttl <= 0 keeps entries forever.
func NewMemoryStore(ttl time.Duration) Store {
	if ttl <= 0 {
		return &memory{c: cache.New(cache.NoExpiration, 0)}
	}
	return &memory{c: cache.New(ttl, max(ttl/2, time.Minute))}
}

func (m *memory) Load(ctx context.Context, key string) ([]game.Attempt, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("entry of type %T: %w", v, game.ErrCorruptState)
	}
	return decode(b)
}

func (m *memory) Save(ctx context.Context, key string, attempts []game.Attempt) error {
	b, err := encode(attempts)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	m.c.Set(key, b, cache.DefaultExpiration)
	return nil
}

func (m *memory) Delete(ctx context.Context, key string) error {
	m.c.Delete(key)
	return nil
}
