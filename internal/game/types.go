// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Status:  per-letter result of an evaluated attempt (correct/present/absent).
//   - Cell:    one input slot of the active attempt.
//   - Letter:  a Cell with its Status.
//   - Attempt: one fully evaluated five-letter guess.
//   - Terminal: none/won/lost.

package game

import (
	"encoding/json"
	"fmt"
)

const (
	// WordLength is the number of letters in the secret and in every attempt.
	WordLength = 5
	// MaxAttempts is the number of attempts a player gets.
	MaxAttempts = 6
)

// Status is the evaluation result for a single letter.
//
// The zero value, StatusUnset, is only used as the lowest rank of the key
// status fold; the evaluator never produces it.
type Status uint8

const (
	StatusUnset Status = iota
	StatusAbsent
	StatusPresent
	StatusCorrect
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusPresent:
		return "present"
	case StatusCorrect:
		return "correct"
	default:
		return ""
	}
}

// Valid reports whether s is one of the three evaluated statuses.
func (s Status) Valid() bool {
	return s == StatusAbsent || s == StatusPresent || s == StatusCorrect
}

func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte(`""`), nil
	}
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus maps "correct"/"present"/"absent" back to a Status.
// The empty string maps to StatusUnset.
func ParseStatus(v string) (Status, error) {
	switch v {
	case "correct":
		return StatusCorrect, nil
	case "present":
		return StatusPresent, nil
	case "absent":
		return StatusAbsent, nil
	case "":
		return StatusUnset, nil
	}
	return StatusUnset, fmt.Errorf("unknown status %q", v)
}

// Cell is one input slot of the active attempt.
// ID is stable ("1".."5"); Value holds zero or one uppercase letter.
type Cell struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Letter is an evaluated Cell.
type Letter struct {
	Cell
	Status Status `json:"status"`
}

// Attempt is one submitted guess, indexed positionally 0..4.
type Attempt []Letter

// Word returns the attempt's letters joined, uppercase.
func (a Attempt) Word() string {
	b := make([]byte, 0, len(a))
	for _, l := range a {
		b = append(b, l.Value...)
	}
	return string(b)
}

// Solved reports whether every letter is Correct.
func (a Attempt) Solved() bool {
	if len(a) != WordLength {
		return false
	}
	for _, l := range a {
		if l.Status != StatusCorrect {
			return false
		}
	}
	return true
}

// Terminal is the end state of a session.
type Terminal uint8

const (
	TerminalNone Terminal = iota
	TerminalWon
	TerminalLost
)

func (t Terminal) String() string {
	switch t {
	case TerminalWon:
		return "won"
	case TerminalLost:
		return "lost"
	default:
		return "playing"
	}
}

func (t Terminal) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *Terminal) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseTerminal(v)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTerminal maps "won"/"lost" back to a Terminal. "playing" and the
// empty string map to TerminalNone.
func ParseTerminal(v string) (Terminal, error) {
	switch v {
	case "won":
		return TerminalWon, nil
	case "lost":
		return TerminalLost, nil
	case "playing", "":
		return TerminalNone, nil
	}
	return TerminalNone, fmt.Errorf("unknown terminal %q", v)
}

// KeyStatusMap maps an uppercase letter to the best status seen for it.
type KeyStatusMap map[rune]Status

// MarshalJSON encodes the map with single-letter string keys.
func (m KeyStatusMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]Status, len(m))
	for r, s := range m {
		out[string(r)] = s
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes single-letter string keys, normalized to uppercase.
func (m *KeyStatusMap) UnmarshalJSON(b []byte) error {
	var in map[string]Status
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	out := make(KeyStatusMap, len(in))
	for k, st := range in {
		if len(k) != 1 || !isLetter(k[0]) {
			return fmt.Errorf("key %q: %w", k, ErrInvalidInput)
		}
		out[rune(upper(k[0]))] = st
	}
	*m = out
	return nil
}

// SlotIDs are the stable identities of the five input cells.
var SlotIDs = [WordLength]string{"1", "2", "3", "4", "5"}

// emptyCells returns a fresh row of blank cells.
func emptyCells() [WordLength]Cell {
	var cells [WordLength]Cell
	for i, id := range SlotIDs {
		cells[i] = Cell{ID: id}
	}
	return cells
}
