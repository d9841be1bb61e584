package tui

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordul/internal/game"
	"github.com/robalobadob/wordul/internal/store"
)

// TestMain initializes the global zone manager for all tests in this package.
func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func newModel(t *testing.T, st store.Store, secret string) *Model {
	t.Helper()
	m, err := New(context.Background(), Options{
		Store:       st,
		Key:         "test",
		Secret:      secret,
		RevealDelay: time.Millisecond,
	})
	require.NoError(t, err)
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m *Model, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeWord(t *testing.T, m *Model, w string) {
	t.Helper()
	for _, r := range w {
		press(t, m, runes(string(r)))
	}
}

func rowValues(m *Model) string {
	var s string
	for _, c := range m.Session().Cells() {
		if c.Value == "" {
			s += "_"
		} else {
			s += c.Value
		}
	}
	return s
}

func TestNew_FocusesFirstCell(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")
	require.Equal(t, "1", m.Focused())
	require.Nil(t, m.Init(), "nothing to reveal for a fresh game")
}

func TestTyping_AdvancesFocus(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")

	typeWord(t, m, "ap")
	require.Equal(t, "AP___", rowValues(m))
	require.Equal(t, "3", m.Focused())

	press(t, m, runes("7"))
	require.Equal(t, "AP___", rowValues(m), "non-letters are ignored")
	require.Equal(t, "3", m.Focused())

	typeWord(t, m, "plex")
	require.Equal(t, "APPLX", rowValues(m), "typing in the last cell overwrites it")
	require.Equal(t, "5", m.Focused())
}

func TestDelete_ClearsAndRetreats(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")
	typeWord(t, m, "abc")
	require.Equal(t, "4", m.Focused())

	press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "ABC__", rowValues(m), "the focused cell was already empty")
	require.Equal(t, "3", m.Focused())

	press(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	require.Equal(t, "AB___", rowValues(m))
	require.Equal(t, "2", m.Focused())

	press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "_____", rowValues(m))
	require.Equal(t, "1", m.Focused(), "deleting in the first cell keeps focus")
}

func TestTabNavigationWraps(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")
	press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, "5", m.Focused())
	press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "1", m.Focused())
	press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "3", m.Focused())
}

func TestSubmit_IncompleteShowsStatus(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")
	typeWord(t, m, "app")
	cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, "Not enough letters", m.status)
	require.Empty(t, m.Session().Attempts())
}

func TestSubmit_MountsNextRow(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")
	typeWord(t, m, "eagle")
	cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Len(t, m.Session().Attempts(), 1)
	require.Equal(t, 2, m.Session().ActiveIndex())
	require.Equal(t, "_____", rowValues(m))
	require.Equal(t, "1", m.Focused())
}

func TestWin_RevealAndDismiss(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")
	typeWord(t, m, "apple")
	cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, game.TerminalWon, m.Session().Terminal())
	require.Equal(t, boardFocus, m.Focused(), "focus returns to the board")
	require.NotNil(t, cmd)
	require.Equal(t, game.TerminalNone, m.Session().Overlay(), "overlay waits for the delay")

	typeWord(t, m, "z")
	require.Equal(t, "_____", rowValues(m), "terminal games ignore typing")

	press(t, m, cmd())
	require.Equal(t, game.TerminalWon, m.Session().Overlay())
	require.Contains(t, m.View(), "You Win!")
	require.Contains(t, m.View(), "APPLE")

	cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Nil(t, cmd)
	require.Equal(t, game.TerminalNone, m.Session().Overlay())

	cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestReset_DropsPendingReveal(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")
	var cmd tea.Cmd
	for i := 0; i < game.MaxAttempts; i++ {
		typeWord(t, m, "crane")
		cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	require.Equal(t, game.TerminalLost, m.Session().Terminal())
	require.NotNil(t, cmd)

	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Empty(t, m.Session().Attempts())
	require.Equal(t, "1", m.Focused(), "reset re-activates the row")

	press(t, m, cmd())
	require.Equal(t, game.TerminalNone, m.Session().Overlay(), "stale reveal is dropped")
}

func TestEscapeWhilePlayingQuits(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")
	cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.Empty(t, m.View())
}

func TestCtrlCQuits(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")
	cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestClick(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")

	m.click(cellZonePrefix + "4")
	require.Equal(t, "4", m.Focused())

	m.click(keyZonePrefix + "A")
	require.Equal(t, "A____", rowValues(m), "on-screen keys fill the first empty cell")
	require.Equal(t, "2", m.Focused())

	for _, k := range []string{"P", "P", "L", "E"} {
		m.click(keyZonePrefix + k)
	}
	require.Equal(t, "APPLE", rowValues(m))

	m.click(keyZonePrefix + keyBack)
	require.Equal(t, "APPL_", rowValues(m))
	require.Equal(t, "5", m.Focused())
	m.click(keyZonePrefix + "E")

	cmd := m.click(keyZonePrefix + keyEnter)
	require.NotNil(t, cmd)
	require.Equal(t, game.TerminalWon, m.Session().Terminal())

	m.click(cellZonePrefix + "2")
	require.Equal(t, boardFocus, m.Focused(), "cells are inert once the game is over")
}

func TestMouse_IgnoresOtherButtons(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")
	_ = m.View()
	cmd := press(t, m, tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonRight, Action: tea.MouseActionRelease})
	require.Nil(t, cmd)
	require.Equal(t, "1", m.Focused())
}

func TestResumeFromStore(t *testing.T) {
	st := store.NewMemoryStore(0)
	m := newModel(t, st, "apple")
	typeWord(t, m, "eagle")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	typeWord(t, m, "apple")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	again := newModel(t, st, "apple")
	require.Equal(t, m.Session().Snapshot().Attempts, again.Session().Snapshot().Attempts)
	require.Equal(t, game.TerminalWon, again.Session().Terminal())
	require.Equal(t, boardFocus, again.Focused())

	cmd := again.Init()
	require.NotNil(t, cmd, "a restored finished game still reveals")
	press(t, again, cmd())
	require.Equal(t, game.TerminalWon, again.Session().Overlay())
}

type failingStore struct{ store.Store }

func (failingStore) Save(context.Context, string, []game.Attempt) error {
	return errors.New("disk full")
}

func TestSubmit_SaveFailureKeepsRow(t *testing.T) {
	m := newModel(t, failingStore{store.NewMemoryStore(0)}, "apple")
	typeWord(t, m, "crane")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Empty(t, m.Session().Attempts())
	require.Equal(t, "CRANE", rowValues(m))
	require.Contains(t, m.status, "disk full")
}

func TestView_RendersBoardAndKeyboard(t *testing.T) {
	m := newModel(t, store.NewMemoryStore(0), "apple")
	m.title = "Daily 2026-10-19"
	typeWord(t, m, "eagle")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	out := m.View()
	require.Contains(t, out, "WORDUL")
	require.Contains(t, out, "Daily 2026-10-19")
	require.Contains(t, out, "Q")
	require.Contains(t, out, "ENTER")
	require.NotContains(t, out, "You Win!")
}
