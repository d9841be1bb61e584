// internal/game/session.go
//
// Session is the game state machine for one secret.
//
// States: Active(n) for n = 1..6, Won, Lost. A session starts in Active(1).
//
//	Submit  Active(n) → Won          all five letters Correct
//	        Active(n) → Active(n+1)  n+1 ≤ MaxAttempts
//	        Active(n) → Lost         otherwise
//	Reset   any → Active(1)
//
// Terminal entry is immediate. Showing the outcome is left to the caller,
// which may defer it (see PendingReveal / ConfirmReveal). Reset bumps the
// reveal epoch so a reveal scheduled before it is rejected.
//
// A Session is not safe for concurrent use.
package game

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Persister receives the full attempts history after every accepted
// submit and after reset.
type Persister interface {
	Persist(ctx context.Context, attempts []Attempt) error
}

// PersistFunc adapts a function to Persister.
type PersistFunc func(ctx context.Context, attempts []Attempt) error

func (f PersistFunc) Persist(ctx context.Context, attempts []Attempt) error { return f(ctx, attempts) }

// Option configures a Session.
type Option func(*Session)

// WithPersister sets where the history is written.
func WithPersister(p Persister) Option { return func(s *Session) { s.persister = p } }

// WithLogger sets the session logger. Defaults to zerolog.Nop().
func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

// Reveal identifies a deferred presentation of a terminal outcome.
type Reveal struct {
	Epoch   uint64
	Outcome Terminal
}

// Session holds one game: the active row, the history and the outcome.
type Session struct {
	secret    string
	cells     [WordLength]Cell
	attempts  []Attempt
	terminal  Terminal
	keys      KeyStatusMap
	persister Persister
	log       zerolog.Logger

	epoch    uint64
	revealed bool
	overlay  Terminal
}

// NewSession starts a session in Active(1). The secret must be five letters.
func NewSession(secret string, opts ...Option) (*Session, error) {
	norm, err := NormalizeSecret(secret)
	if err != nil {
		return nil, err
	}
	s := &Session{
		secret:   norm,
		cells:    emptyCells(),
		attempts: []Attempt{},
		keys:     KeyStatusMap{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Restore rebuilds a session from a persisted history. The resulting state
// is the one incremental play would have produced; a history whose
// statuses do not match the secret is ErrCorruptState.
func Restore(secret string, attempts []Attempt, opts ...Option) (*Session, error) {
	s, err := NewSession(secret, opts...)
	if err != nil {
		return nil, err
	}
	if err := validateHistory(attempts); err != nil {
		return nil, err
	}
	for i, a := range attempts {
		replayed, err := replay(a, s.secret)
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %w", i+1, err)
		}
		s.attempts = append(s.attempts, replayed)
	}
	s.terminal = terminalFor(s.attempts)
	s.keys = Aggregate(s.attempts)
	s.log.Debug().Int("attempts", len(s.attempts)).Str("terminal", s.terminal.String()).Msg("session restored")
	return s, nil
}

func validateHistory(attempts []Attempt) error {
	if len(attempts) > MaxAttempts {
		return fmt.Errorf("%d attempts: %w", len(attempts), ErrCorruptState)
	}
	for i, a := range attempts {
		if len(a) != WordLength {
			return fmt.Errorf("attempt %d has %d letters: %w", i+1, len(a), ErrCorruptState)
		}
		for j, l := range a {
			if len(l.Value) != 1 || !isLetter(l.Value[0]) || !l.Status.Valid() {
				return fmt.Errorf("attempt %d letter %d: %w", i+1, j+1, ErrCorruptState)
			}
		}
		if a.Solved() && i != len(attempts)-1 {
			return fmt.Errorf("attempt %d solved but play continued: %w", i+1, ErrCorruptState)
		}
	}
	return nil
}

// replay re-scores a stored attempt against secret. The stored statuses
// must be the ones play would have produced; the result carries canonical
// slot ids and uppercase values.
func replay(a Attempt, secret string) (Attempt, error) {
	guess := make([]byte, WordLength)
	for j, l := range a {
		guess[j] = lower(l.Value[0])
	}
	out := score(guess, []byte(secret))
	for j := range out {
		if out[j].Status != a[j].Status {
			return nil, fmt.Errorf("letter %d stored as %s, scores %s: %w",
				j+1, a[j].Status, out[j].Status, ErrCorruptState)
		}
	}
	return out, nil
}

// terminalFor applies the Won/Lost rule to a history.
func terminalFor(attempts []Attempt) Terminal {
	switch {
	case len(attempts) > 0 && attempts[len(attempts)-1].Solved():
		return TerminalWon
	case len(attempts) >= MaxAttempts:
		return TerminalLost
	default:
		return TerminalNone
	}
}

func (s *Session) slot(id string) (int, error) {
	i := slices.Index(SlotIDs[:], id)
	if i < 0 {
		return -1, fmt.Errorf("slot %q: %w", id, ErrInvalidInput)
	}
	return i, nil
}

// Insert sets the value of a cell. The value must be a single letter; it is
// stored uppercase. Inserting into a terminal session does nothing.
func (s *Session) Insert(slotID, ch string) error {
	i, err := s.slot(slotID)
	if err != nil {
		return err
	}
	if len(ch) != 1 || !isLetter(ch[0]) {
		return fmt.Errorf("character %q: %w", ch, ErrInvalidInput)
	}
	if s.terminal != TerminalNone {
		return nil
	}
	s.cells[i].Value = string(upper(ch[0]))
	return nil
}

// Delete clears a cell.
func (s *Session) Delete(slotID string) error {
	i, err := s.slot(slotID)
	if err != nil {
		return err
	}
	if s.terminal != TerminalNone {
		return nil
	}
	s.cells[i].Value = ""
	return nil
}

// Type fills the first empty cell, as the on-screen keyboard does. It
// returns the filled slot id, or "" when the row is already full.
func (s *Session) Type(ch string) (string, error) {
	if len(ch) != 1 || !isLetter(ch[0]) {
		return "", fmt.Errorf("character %q: %w", ch, ErrInvalidInput)
	}
	if s.terminal != TerminalNone {
		return "", nil
	}
	c, ok := lo.Find(s.cells[:], func(c Cell) bool { return c.Value == "" })
	if !ok {
		return "", nil
	}
	return c.ID, s.Insert(c.ID, ch)
}

// Backspace clears the last filled cell. It returns the cleared slot id, or
// "" when the row is empty.
func (s *Session) Backspace() string {
	if s.terminal != TerminalNone {
		return ""
	}
	c, _, ok := lo.FindLastIndexOf(s.cells[:], func(c Cell) bool { return c.Value != "" })
	if !ok {
		return ""
	}
	_ = s.Delete(c.ID)
	return c.ID
}

// Complete reports whether every cell of the active row holds a letter.
func (s *Session) Complete() bool {
	return lo.EveryBy(s.cells[:], func(c Cell) bool { return c.Value != "" })
}

// Submit evaluates the active row. It returns ErrIllegalTransition, and
// changes nothing, when the session is terminal or the row is incomplete.
// The new history is persisted before the transition; if that fails the
// submit is abandoned.
func (s *Session) Submit(ctx context.Context) (Attempt, error) {
	if s.terminal != TerminalNone {
		return nil, fmt.Errorf("submit after %s: %w", s.terminal, ErrIllegalTransition)
	}
	if !s.Complete() {
		return nil, fmt.Errorf("submit with empty cells: %w", ErrIllegalTransition)
	}

	attempt, err := Evaluate(lo.Map(s.cells[:], func(c Cell, _ int) string { return c.Value }), s.secret)
	if err != nil {
		return nil, err
	}

	next := append(slices.Clone(s.attempts), attempt)
	if s.persister != nil {
		if err := s.persister.Persist(ctx, next); err != nil {
			return nil, fmt.Errorf("persist attempt %d: %w", len(next), err)
		}
	}

	s.attempts = next
	s.cells = emptyCells()
	s.keys = Aggregate(s.attempts)
	s.terminal = terminalFor(s.attempts)

	ev := s.log.Debug().Int("attempt", len(s.attempts)).Str("word", attempt.Word())
	if s.terminal != TerminalNone {
		ev = ev.Str("terminal", s.terminal.String())
	}
	ev.Msg("attempt submitted")
	return slices.Clone(attempt), nil
}

// Reset returns the session to Active(1) with the same secret and persists
// the empty history. Any pending reveal is invalidated.
func (s *Session) Reset(ctx context.Context) error {
	if s.persister != nil {
		if err := s.persister.Persist(ctx, []Attempt{}); err != nil {
			return fmt.Errorf("persist reset: %w", err)
		}
	}
	s.attempts = []Attempt{}
	s.cells = emptyCells()
	s.keys = KeyStatusMap{}
	s.terminal = TerminalNone
	s.epoch++
	s.revealed = false
	s.overlay = TerminalNone
	s.log.Debug().Uint64("epoch", s.epoch).Msg("session reset")
	return nil
}

// PendingReveal returns the reveal to schedule when the session is terminal
// and its outcome has not been shown yet.
func (s *Session) PendingReveal() (Reveal, bool) {
	if s.terminal == TerminalNone || s.revealed {
		return Reveal{}, false
	}
	return Reveal{Epoch: s.epoch, Outcome: s.terminal}, true
}

// ConfirmReveal shows the overlay for r. It reports false, and does
// nothing, when r was scheduled before a reset or no longer matches.
func (s *Session) ConfirmReveal(r Reveal) bool {
	if r.Epoch != s.epoch || r.Outcome != s.terminal || s.terminal == TerminalNone || s.revealed {
		return false
	}
	s.revealed = true
	s.overlay = r.Outcome
	return true
}

// DismissOverlay hides the outcome overlay.
func (s *Session) DismissOverlay() { s.overlay = TerminalNone }

// Overlay is the outcome currently on display, TerminalNone if none.
func (s *Session) Overlay() Terminal { return s.overlay }

// Cells returns the active row.
func (s *Session) Cells() [WordLength]Cell { return s.cells }

// Attempts returns a copy of the history.
func (s *Session) Attempts() []Attempt {
	out := make([]Attempt, len(s.attempts))
	for i, a := range s.attempts {
		out[i] = slices.Clone(a)
	}
	return out
}

// ActiveIndex is the 1-based attempt being collected (len(attempts)+1).
func (s *Session) ActiveIndex() int { return len(s.attempts) + 1 }

// Terminal returns the session outcome.
func (s *Session) Terminal() Terminal { return s.terminal }

// KeyStatuses returns a copy of the aggregated key map.
func (s *Session) KeyStatuses() KeyStatusMap {
	out := make(KeyStatusMap, len(s.keys))
	for k, v := range s.keys {
		out[k] = v
	}
	return out
}

// Secret returns the normalized secret. Adapters only reveal it once the
// session is terminal.
func (s *Session) Secret() string { return s.secret }

// Snapshot is the plain, serializable view of a session. Overlay is
// omitted while nothing is on display.
type Snapshot struct {
	Cells       []Cell       `json:"cells"`
	Attempts    []Attempt    `json:"attempts"`
	KeyStatuses KeyStatusMap `json:"keyStatuses"`
	ActiveIndex int          `json:"activeIndex"`
	Terminal    Terminal     `json:"terminal"`
	Overlay     Terminal     `json:"overlay,omitempty"`
	Answer      string       `json:"answer,omitempty"`
}

// Snapshot captures every output of the session. The answer is included
// only once the session is terminal.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Cells:       slices.Clone(s.cells[:]),
		Attempts:    s.Attempts(),
		KeyStatuses: s.KeyStatuses(),
		ActiveIndex: s.ActiveIndex(),
		Terminal:    s.terminal,
		Overlay:     s.overlay,
	}
	if s.terminal != TerminalNone {
		snap.Answer = s.secret
	}
	return snap
}
