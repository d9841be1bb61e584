package focus

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fakeHost records focus moves.
type fakeHost struct {
	current string
	moves   []string
}

func (h *fakeHost) Focused() string { return h.current }
func (h *fakeHost) Focus(id string) {
	h.current = id
	h.moves = append(h.moves, id)
}

var cells = []string{"1", "2", "3", "4", "5"}

func newActive(t *testing.T) (*Trap, *fakeHost) {
	t.Helper()
	h := &fakeHost{current: "reset"}
	tr := New(h)
	tr.Activate(cells)
	return tr, h
}

func TestActivate_FocusesFirstTarget(t *testing.T) {
	tr, h := newActive(t)
	require.True(t, tr.Active())
	require.Equal(t, 0, tr.Index())
	require.Equal(t, 5, tr.Len())
	require.Equal(t, "1", tr.Current())
	require.Equal(t, "1", h.current)
}

func TestNextPrev_Wrap(t *testing.T) {
	tr, _ := newActive(t)

	tr.Prev()
	require.Equal(t, 4, tr.Index(), "prev from 0 wraps to N-1")

	tr.Next()
	require.Equal(t, 0, tr.Index(), "next from N-1 wraps to 0")
}

func TestNext_FullCycleReturnsToStart(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "n")
		targets := make([]string, n)
		for i := range targets {
			targets[i] = string(rune('a' + i))
		}
		tr := New(&fakeHost{})
		tr.Activate(targets)
		start := rapid.IntRange(0, n-1).Draw(t, "start")
		tr.Select(start)

		for i := 0; i < n; i++ {
			tr.Next()
		}
		if tr.Index() != start {
			t.Fatalf("after %d next calls index is %d, want %d", n, tr.Index(), start)
		}
		for i := 0; i < n; i++ {
			tr.Prev()
		}
		if tr.Index() != start {
			t.Fatalf("after %d prev calls index is %d, want %d", n, tr.Index(), start)
		}
	})
}

func TestCharInserted_StopsAtLast(t *testing.T) {
	tr, _ := newActive(t)
	for i := 0; i < 10; i++ {
		tr.CharInserted()
	}
	require.Equal(t, 4, tr.Index(), "typing into the last cell keeps focus")
}

func TestCharDeleted_StopsAtFirst(t *testing.T) {
	tr, _ := newActive(t)
	tr.Select(2)
	tr.CharDeleted()
	require.Equal(t, 1, tr.Index())
	tr.CharDeleted()
	tr.CharDeleted()
	require.Equal(t, 0, tr.Index(), "deleting in the first cell keeps focus")
}

func TestSelect(t *testing.T) {
	tr, h := newActive(t)
	require.True(t, tr.Select(3))
	require.Equal(t, "4", h.current)

	require.False(t, tr.Select(5))
	require.False(t, tr.Select(-1))
	require.Equal(t, 3, tr.Index())

	tr.SelectID("2")
	require.Equal(t, 1, tr.Index())
	tr.SelectID("nope")
	require.Equal(t, 0, tr.Index(), "unknown id falls back to the first target")
}

func TestHandleKey(t *testing.T) {
	escaped := 0
	h := &fakeHost{}
	tr := New(h, WithEscape(func() { escaped++ }))
	tr.Activate(cells)

	require.True(t, tr.HandleKey(KeyTab))
	require.Equal(t, 1, tr.Index(), "tab moves forward")
	require.True(t, tr.HandleKey(KeyShiftTab))
	require.True(t, tr.HandleKey(KeyShiftTab))
	require.Equal(t, 4, tr.Index(), "shift+tab moves backward")

	require.True(t, tr.HandleKey(KeyEscape))
	require.Equal(t, 1, escaped)
	require.Equal(t, 4, tr.Index(), "escape leaves the index alone")

	require.False(t, tr.HandleKey(KeyOther))
}

func TestHandleKey_InactiveConsumesNothing(t *testing.T) {
	tr := New(&fakeHost{})
	require.False(t, tr.HandleKey(KeyTab))
	require.False(t, tr.HandleKey(KeyEscape))
}

func TestDeactivate_RestoresPreviousHolder(t *testing.T) {
	tr, h := newActive(t)
	tr.Select(3)
	tr.Deactivate()
	require.False(t, tr.Active())
	require.Equal(t, "reset", h.current)

	// Deactivating twice does not move focus again.
	h.current = "elsewhere"
	tr.Deactivate()
	require.Equal(t, "elsewhere", h.current)
}

func TestActivate_KeepsOriginalHolderAcrossRemount(t *testing.T) {
	tr, h := newActive(t)
	tr.Select(2)

	// A new row is mounted while the trap is active.
	tr.Activate([]string{"6", "7", "8", "9", "10"})
	require.Equal(t, 0, tr.Index())
	require.Equal(t, "6", h.current)

	tr.Deactivate()
	require.Equal(t, "reset", h.current)
}

func TestSetTargets_ResetsIndex(t *testing.T) {
	tr, _ := newActive(t)
	tr.Select(4)
	tr.SetTargets([]string{"a", "b"})
	require.Equal(t, 0, tr.Index())
	require.Equal(t, 2, tr.Len())
}

func TestEmptyTargets(t *testing.T) {
	h := &fakeHost{current: "board"}
	tr := New(h)
	tr.Activate(nil)
	tr.Next()
	tr.Prev()
	tr.CharInserted()
	tr.CharDeleted()
	require.Equal(t, 0, tr.Index())
	require.Empty(t, tr.Current())
	require.Empty(t, h.moves)
}
