// Package tui is the terminal client: a bubbletea program that renders the
// board and an on-screen keyboard and drives a focus.Trap over the cells
// of the active row.
//
// Keyboard input goes to the focused cell and moves focus the way the trap
// says. Mouse clicks (bubblezone) select a cell or press an on-screen key.
// The outcome overlay is shown after RevealDelay through the session's
// reveal epoch, so a reset before the delay elapses cancels it.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordul/internal/focus"
	"github.com/robalobadob/wordul/internal/game"
	"github.com/robalobadob/wordul/internal/store"
)

// boardFocus is the focus holder outside the active row.
const boardFocus = "board"

// Options configures a Model.
type Options struct {
	Store       store.Store
	Key         string // store key the history is kept under
	Secret      string
	Title       string
	RevealDelay time.Duration
	KeyMap      KeyMap
}

type revealMsg struct{ reveal game.Reveal }

// focusHost owns the model's notion of input focus.
type focusHost struct{ id string }

func (h *focusHost) Focused() string { return h.id }
func (h *focusHost) Focus(id string) { h.id = id }

// Model is the bubbletea model of one game.
type Model struct {
	ctx   context.Context
	sess  *game.Session
	trap  *focus.Trap
	host  *focusHost
	keys  KeyMap
	help  help.Model
	title string
	delay time.Duration

	status   string
	quitting bool
	width    int
}

// New resumes the game stored under opts.Key, or starts one.
func New(ctx context.Context, opts Options) (*Model, error) {
	sess, err := store.Resume(ctx, opts.Store, opts.Key, opts.Secret,
		game.WithLogger(log.With().Str("key", opts.Key).Logger()))
	if err != nil {
		return nil, err
	}
	if len(opts.KeyMap.Submit.Keys()) == 0 {
		opts.KeyMap = DefaultKeyMap()
	}
	m := &Model{
		ctx:   ctx,
		sess:  sess,
		host:  &focusHost{id: boardFocus},
		keys:  opts.KeyMap,
		help:  help.New(),
		title: opts.Title,
		delay: opts.RevealDelay,
	}
	m.trap = focus.New(m.host, focus.WithEscape(m.escape))
	if sess.Terminal() == game.TerminalNone {
		m.trap.Activate(game.SlotIDs[:])
	}
	return m, nil
}

// Run starts the program full screen with mouse support.
func Run(ctx context.Context, opts Options) error {
	zone.NewGlobal()
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init schedules the reveal of a game restored in a terminal state.
func (m *Model) Init() tea.Cmd {
	return m.scheduleReveal()
}

// Update handles keys, mouse clicks, reveals and resizes.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case revealMsg:
		if !m.sess.ConfirmReveal(msg.reveal) {
			log.Debug().Uint64("epoch", msg.reveal.Epoch).Msg("stale reveal dropped")
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		for _, id := range m.zoneIDs() {
			if z := zone.Get(id); z != nil && z.InBounds(msg) {
				return m, m.click(id)
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	case key.Matches(msg, m.keys.Next):
		m.trap.HandleKey(focus.KeyTab)
	case key.Matches(msg, m.keys.Prev):
		m.trap.HandleKey(focus.KeyShiftTab)
	case key.Matches(msg, m.keys.Escape):
		if !m.trap.HandleKey(focus.KeyEscape) {
			m.escape()
		}
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Delete):
		m.deleteChar()
	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			m.insertChar(string(msg.Runes))
		}
	}
	if m.quitting {
		return tea.Quit
	}
	return nil
}

// insertChar types ch into the focused cell and advances.
func (m *Model) insertChar(ch string) {
	if !m.trap.Active() {
		return
	}
	if err := m.sess.Insert(m.trap.Current(), ch); err != nil {
		return
	}
	m.status = ""
	m.trap.CharInserted()
}

// deleteChar clears the focused cell and retreats.
func (m *Model) deleteChar() {
	if !m.trap.Active() {
		return
	}
	if err := m.sess.Delete(m.trap.Current()); err != nil {
		return
	}
	m.trap.CharDeleted()
}

func (m *Model) submit() tea.Cmd {
	if m.sess.Terminal() != game.TerminalNone {
		return nil
	}
	_, err := m.sess.Submit(m.ctx)
	switch {
	case errors.Is(err, game.ErrIllegalTransition):
		m.status = "Not enough letters"
		return nil
	case err != nil:
		log.Warn().Err(err).Msg("submit")
		m.status = "Could not save: " + err.Error()
		return nil
	}
	m.status = ""
	if m.sess.Terminal() != game.TerminalNone {
		m.trap.Deactivate()
		return m.scheduleReveal()
	}
	// the next row is mounted
	m.trap.Activate(game.SlotIDs[:])
	return nil
}

func (m *Model) reset() {
	if err := m.sess.Reset(m.ctx); err != nil {
		log.Warn().Err(err).Msg("reset")
		m.status = "Could not reset: " + err.Error()
		return
	}
	m.status = ""
	m.trap.Activate(game.SlotIDs[:])
}

// escape dismisses the overlay if one is shown and otherwise quits.
func (m *Model) escape() {
	if m.sess.Overlay() != game.TerminalNone {
		m.sess.DismissOverlay()
		return
	}
	m.quitting = true
}

func (m *Model) scheduleReveal() tea.Cmd {
	r, ok := m.sess.PendingReveal()
	if !ok {
		return nil
	}
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return revealMsg{reveal: r} })
}

// Zone ids.
const (
	cellZonePrefix = "cell-"
	keyZonePrefix  = "key-"
	keyEnter       = "ENTER"
	keyBack        = "BACK"
)

var keyboardRows = [][]string{
	strings.Split("QWERTYUIOP", ""),
	strings.Split("ASDFGHJKL", ""),
	append(append([]string{keyEnter}, strings.Split("ZXCVBNM", "")...), keyBack),
}

func (m *Model) zoneIDs() []string {
	ids := make([]string, 0, game.WordLength+28)
	for _, id := range game.SlotIDs {
		ids = append(ids, cellZonePrefix+id)
	}
	for _, row := range keyboardRows {
		for _, k := range row {
			ids = append(ids, keyZonePrefix+k)
		}
	}
	return ids
}

// click handles a pointer activation of zone id.
func (m *Model) click(id string) tea.Cmd {
	switch {
	case strings.HasPrefix(id, cellZonePrefix):
		if m.trap.Active() {
			m.trap.SelectID(strings.TrimPrefix(id, cellZonePrefix))
		}
	case id == keyZonePrefix+keyEnter:
		return m.submit()
	case id == keyZonePrefix+keyBack:
		if slot := m.sess.Backspace(); slot != "" && m.trap.Active() {
			m.trap.SelectID(slot)
		}
	case strings.HasPrefix(id, keyZonePrefix):
		slot, err := m.sess.Type(strings.TrimPrefix(id, keyZonePrefix))
		if err == nil && slot != "" && m.trap.Active() {
			m.trap.SelectID(slot)
			m.trap.CharInserted()
		}
	}
	return nil
}

// Session exposes the underlying game (for tests and callers embedding the model).
func (m *Model) Session() *game.Session { return m.sess }

// Focused is the id of the current focus holder: a slot id or "board".
func (m *Model) Focused() string { return m.host.Focused() }
