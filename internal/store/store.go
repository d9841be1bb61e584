// internal/store/store.go
//
// Persistence of attempt histories.
//
// A history is the ordered []game.Attempt of one game, keyed by a string
// (a player id for the HTTP API, a day for the terminal client). The
// secret is never stored here; it travels with the client.
//
// Implementations:
//   - memory.go: go-cache backed, entries expire after a TTL.
//   - sqlite.go: SQLite backed, rows older than the TTL are treated as absent.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordul/internal/game"
)

// ErrNotFound is returned by Load when no history is stored under a key.
var ErrNotFound = errors.New("store: not found")

// Store defines the persistence interface for attempt histories.
type Store interface {
	// Load returns the history stored under key, ErrNotFound if none.
	// A stored value that cannot be decoded wraps game.ErrCorruptState.
	Load(ctx context.Context, key string) ([]game.Attempt, error)

	// Save replaces the history stored under key.
	Save(ctx context.Context, key string, attempts []game.Attempt) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Bind returns a game.Persister that saves every history under key.
func Bind(st Store, key string) game.Persister {
	return game.PersistFunc(func(ctx context.Context, attempts []game.Attempt) error {
		return st.Save(ctx, key, attempts)
	})
}

// Resume rebuilds the session stored under key for secret, bound to st.
// A missing history starts a fresh game. A corrupt one is logged, deleted
// and also replaced by a fresh game.
func Resume(ctx context.Context, st Store, key, secret string, opts ...game.Option) (*game.Session, error) {
	opts = append(opts, game.WithPersister(Bind(st, key)))

	attempts, err := st.Load(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return game.NewSession(secret, opts...)
	case errors.Is(err, game.ErrCorruptState):
		// handled below, together with histories that decode but fail validation
	case err != nil:
		return nil, fmt.Errorf("load %s: %w", key, err)
	default:
		s, rerr := game.Restore(secret, attempts, opts...)
		if !errors.Is(rerr, game.ErrCorruptState) {
			return s, rerr
		}
		err = rerr
	}

	log.Warn().Err(err).Str("key", key).Msg("discarding corrupt history")
	if derr := st.Delete(ctx, key); derr != nil {
		log.Warn().Err(derr).Str("key", key).Msg("delete corrupt history")
	}
	return game.NewSession(secret, opts...)
}

func encode(attempts []game.Attempt) ([]byte, error) {
	if attempts == nil {
		attempts = []game.Attempt{}
	}
	return json.Marshal(attempts)
}

func decode(b []byte) ([]game.Attempt, error) {
	var attempts []game.Attempt
	if err := json.Unmarshal(b, &attempts); err != nil {
		return nil, fmt.Errorf("decode history: %v: %w", err, game.ErrCorruptState)
	}
	return attempts, nil
}
