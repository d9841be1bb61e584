package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordul/internal/game"
)

func history(t *testing.T, secret string, guesses ...string) []game.Attempt {
	t.Helper()
	out := make([]game.Attempt, 0, len(guesses))
	for _, g := range guesses {
		a, err := game.EvaluateWord(g, secret)
		require.NoError(t, err)
		out = append(out, a)
	}
	return out
}

func openSQLite(t *testing.T, ttl time.Duration) *SQLite {
	t.Helper()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "wordul.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(time.Hour),
		"sqlite": openSQLite(t, time.Hour),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Load(ctx, "p1")
			require.ErrorIs(t, err, ErrNotFound)

			want := history(t, "apple", "eagle", "crane")
			require.NoError(t, st.Save(ctx, "p1", want))

			got, err := st.Load(ctx, "p1")
			require.NoError(t, err)
			require.Equal(t, want, got)

			require.NoError(t, st.Save(ctx, "p1", nil))
			got, err = st.Load(ctx, "p1")
			require.NoError(t, err)
			require.Empty(t, got)

			require.NoError(t, st.Delete(ctx, "p1"))
			require.NoError(t, st.Delete(ctx, "p1"), "deleting twice is fine")
			_, err = st.Load(ctx, "p1")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestResume(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s, err := Resume(ctx, st, "p2", "apple")
			require.NoError(t, err)
			require.Equal(t, 1, s.ActiveIndex())

			for i, id := range game.SlotIDs {
				require.NoError(t, s.Insert(id, string("eagle"[i])))
			}
			_, err = s.Submit(ctx)
			require.NoError(t, err)

			stored, err := st.Load(ctx, "p2")
			require.NoError(t, err)
			require.Len(t, stored, 1, "submit persists through the bound store")

			again, err := Resume(ctx, st, "p2", "apple")
			require.NoError(t, err)
			require.Equal(t, s.Snapshot(), again.Snapshot())
		})
	}
}

func TestResume_DiscardsInvalidHistory(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seven := history(t, "apple", "crane", "crane", "crane", "crane", "crane", "crane", "crane")
			require.NoError(t, st.Save(ctx, "p3", seven))

			s, err := Resume(ctx, st, "p3", "apple")
			require.NoError(t, err)
			require.Empty(t, s.Attempts())
			require.Equal(t, game.TerminalNone, s.Terminal())

			_, err = st.Load(ctx, "p3")
			require.ErrorIs(t, err, ErrNotFound, "corrupt history is deleted")
		})
	}
}

func TestResume_DiscardsUndecodableHistory(t *testing.T) {
	ctx := context.Background()

	mem := NewMemoryStore(time.Hour)
	mem.(*memory).c.Set("p4", []byte(`{"not":"a list"`), cache.DefaultExpiration)
	_, err := mem.Load(ctx, "p4")
	require.ErrorIs(t, err, game.ErrCorruptState)

	sq := openSQLite(t, time.Hour)
	_, err = sq.db.Exec(`INSERT INTO attempts (player_key, history, updated_at) VALUES (?, ?, ?)`,
		"p4", "garbage", time.Now().UTC().Format(timeLayout))
	require.NoError(t, err)
	_, err = sq.Load(ctx, "p4")
	require.ErrorIs(t, err, game.ErrCorruptState)

	for _, st := range []Store{mem, sq} {
		s, err := Resume(ctx, st, "p4", "crane")
		require.NoError(t, err)
		require.Empty(t, s.Attempts())
		_, err = st.Load(ctx, "p4")
		require.ErrorIs(t, err, ErrNotFound)
	}
}

func TestResume_RejectsBadSecret(t *testing.T) {
	_, err := Resume(context.Background(), NewMemoryStore(0), "p5", "toolong")
	require.ErrorIs(t, err, game.ErrInvalidInput)
}

func TestSQLite_ExpiryAndPrune(t *testing.T) {
	ctx := context.Background()
	st := openSQLite(t, time.Hour)
	clock := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return clock }

	require.NoError(t, st.Save(ctx, "old", history(t, "apple", "crane")))
	clock = clock.Add(30 * time.Minute)
	require.NoError(t, st.Save(ctx, "fresh", history(t, "apple", "crane")))
	clock = clock.Add(45 * time.Minute)

	n, err := st.Prune(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = st.Load(ctx, "old")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = st.Load(ctx, "fresh")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Hour)
	_, err = st.Load(ctx, "fresh")
	require.ErrorIs(t, err, ErrNotFound, "expired rows read as absent")
}

func TestSQLite_MigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.db")
	a, err := OpenSQLite(path, 0)
	require.NoError(t, err)
	require.NoError(t, a.Save(context.Background(), "k", nil))
	require.NoError(t, a.Close())

	b, err := OpenSQLite(path, 0)
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Load(context.Background(), "k")
	require.NoError(t, err)
	require.Empty(t, got)
}
