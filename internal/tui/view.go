package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/robalobadob/wordul/internal/game"
)

// View renders the board, the keyboard, the status line and the overlay.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	title := "WORDUL"
	if m.title != "" {
		title += "  ·  " + m.title
	}
	sections := []string{
		TitleStyle.Render(title),
		m.viewBoard(),
		"",
		m.viewKeyboard(),
	}
	if m.status != "" {
		sections = append(sections, StatusStyle.Render(m.status))
	}
	if o := m.sess.Overlay(); o != game.TerminalNone {
		sections = append(sections, m.viewOverlay(o))
	}
	sections = append(sections, HelpStyle.Render(m.help.View(m.keys)))
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) viewBoard() string {
	rows := make([]string, 0, game.MaxAttempts)
	for _, a := range m.sess.Attempts() {
		tiles := make([]string, len(a))
		for i, l := range a {
			tiles[i] = tileStyle(l.Status, false).Render(l.Value)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	if m.sess.Terminal() == game.TerminalNone {
		cells := m.sess.Cells()
		tiles := make([]string, len(cells))
		for i, c := range cells {
			focused := m.host.Focused() == c.ID
			tiles[i] = zone.Mark(cellZonePrefix+c.ID, tileStyle(game.StatusUnset, focused).Render(c.Value))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	for len(rows) < game.MaxAttempts {
		tiles := make([]string, game.WordLength)
		for i := range tiles {
			tiles[i] = tileStyle(game.StatusUnset, false).Render("")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) viewKeyboard() string {
	statuses := m.sess.KeyStatuses()
	playing := m.sess.Terminal() == game.TerminalNone
	anyFilled := false
	for _, c := range m.sess.Cells() {
		anyFilled = anyFilled || c.Value != ""
	}

	lines := make([]string, len(keyboardRows))
	for i, row := range keyboardRows {
		keys := make([]string, len(row))
		for j, k := range row {
			var st lipgloss.Style
			label := k
			switch k {
			case keyEnter:
				st = keyStyle(game.StatusUnset, !playing || !m.sess.Complete())
			case keyBack:
				st = keyStyle(game.StatusUnset, !playing || !anyFilled)
				label = "⌫"
			default:
				st = keyStyle(statuses[rune(k[0])], !playing)
			}
			keys[j] = zone.Mark(keyZonePrefix+k, st.Render(label))
		}
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, keys...)
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewOverlay(o game.Terminal) string {
	headline := "You Lose!"
	if o == game.TerminalWon {
		headline = "You Win!"
	}
	body := headline + "\n\nThe word was " + strings.ToUpper(m.sess.Secret()) +
		"\n\nesc to close · ctrl+r to try again"
	return OverlayStyle.Render(body)
}
