// Package focus implements a focus trap: a bounded, cyclic keyboard
// navigable region over an ordered list of input targets.
//
// The container owns membership. It passes the ordered target ids to
// Activate or SetTargets whenever they change (a new row, a reset); the trap
// never discovers targets itself. Real input focus is owned by a Host; the
// trap records whoever held it on activation and hands it back on
// Deactivate.
//
// A Trap is not safe for concurrent use.
package focus

import "slices"

// Host owns the actual input focus.
type Host interface {
	// Focused returns the id of the current focus holder.
	Focused() string
	// Focus moves input focus to id.
	Focus(id string)
}

// Key is a navigation key as seen by the trap.
type Key int

const (
	KeyOther Key = iota
	KeyTab
	KeyShiftTab
	KeyEscape
)

// Option configures a Trap.
type Option func(*Trap)

// WithEscape sets the callback run when Escape is pressed.
func WithEscape(fn func()) Option { return func(t *Trap) { t.onEscape = fn } }

// Trap keeps a cyclic index over its targets.
type Trap struct {
	host     Host
	targets  []string
	index    int
	active   bool
	previous string
	onEscape func()
}

// New returns an inactive trap bound to host.
func New(host Host, opts ...Option) *Trap {
	t := &Trap{host: host}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Activate records the current focus holder, takes the targets and focuses
// the first one. On an already active trap it only replaces the targets.
func (t *Trap) Activate(targets []string) {
	if !t.active {
		t.previous = t.host.Focused()
		t.active = true
	}
	t.SetTargets(targets)
}

// SetTargets replaces the membership and moves back to the first target.
func (t *Trap) SetTargets(targets []string) {
	t.targets = slices.Clone(targets)
	t.index = 0
	t.focus()
}

// Deactivate hands focus back to whoever held it before Activate.
func (t *Trap) Deactivate() {
	if !t.active {
		return
	}
	t.active = false
	t.host.Focus(t.previous)
}

// Next moves forward, wrapping from the last target to the first.
func (t *Trap) Next() {
	n := len(t.targets)
	if n == 0 {
		return
	}
	t.index = (t.index + 1) % n
	t.focus()
}

// Prev moves backward, wrapping from the first target to the last.
func (t *Trap) Prev() {
	n := len(t.targets)
	if n == 0 {
		return
	}
	t.index = (t.index - 1 + n) % n
	t.focus()
}

// CharInserted advances after a character was typed. Typing into the last
// target keeps focus there.
func (t *Trap) CharInserted() {
	if t.index < len(t.targets)-1 {
		t.Next()
	}
}

// CharDeleted retreats after a character was deleted. Deleting in the first
// target keeps focus there.
func (t *Trap) CharDeleted() {
	if t.index > 0 {
		t.Prev()
	}
}

// Select focuses target k directly, as a pointer activation does.
func (t *Trap) Select(k int) bool {
	if k < 0 || k >= len(t.targets) {
		return false
	}
	t.index = k
	t.focus()
	return true
}

// SelectID focuses the target with the given id. An id that is not a
// member falls back to the first target.
func (t *Trap) SelectID(id string) {
	t.index = max(slices.Index(t.targets, id), 0)
	t.focus()
}

// HandleKey applies Tab, Shift+Tab and Escape. It reports whether the key
// was consumed, in which case the caller must not run its own traversal.
// An inactive trap consumes nothing.
func (t *Trap) HandleKey(k Key) bool {
	if !t.active {
		return false
	}
	switch k {
	case KeyTab:
		t.Next()
		return true
	case KeyShiftTab:
		t.Prev()
		return true
	case KeyEscape:
		if t.onEscape != nil {
			t.onEscape()
		}
		return true
	}
	return false
}

// Index is the position of the focused target.
func (t *Trap) Index() int { return t.index }

// Len is the number of targets.
func (t *Trap) Len() int { return len(t.targets) }

// Current is the focused target id, "" when there are no targets.
func (t *Trap) Current() string {
	if t.index >= len(t.targets) {
		return ""
	}
	return t.targets[t.index]
}

// Active reports whether the trap currently owns focus.
func (t *Trap) Active() bool { return t.active }

func (t *Trap) focus() {
	if t.active && len(t.targets) > 0 {
		t.host.Focus(t.targets[t.index])
	}
}
