package toolbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	buttonStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
	buttonDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	buttonFocusStyle    = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1a1b26")).
				Background(lipgloss.Color("#7aa2f7")).
				Bold(true)
	keyHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#737aa2"))
	menuStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Background(lipgloss.Color("#1f2335"))
)

// Button is a terminal rendition of a toolbar control.
type Button struct {
	Label string
	Key   string

	disabled bool
	toggled  bool
}

// NewButton creates an enabled, untoggled button.
func NewButton(label, key string) *Button {
	return &Button{Label: label, Key: key}
}

func (b *Button) SetDisabled(disabled bool) { b.disabled = disabled }
func (b *Button) SetToggled(toggled bool)   { b.toggled = toggled }
func (b *Button) Disabled() bool            { return b.disabled }
func (b *Button) Toggled() bool             { return b.toggled }

// Render draws the button on a single row of the given width.
func (b *Button) Render(width int, focused bool) string {
	mark := "  "
	if b.toggled {
		mark = "● "
	}
	label := mark + b.Label
	hint := b.Key
	gap := width - lipgloss.Width(label) - lipgloss.Width(hint)
	if gap < 1 {
		gap = 1
	}

	style := buttonStyle
	switch {
	case focused:
		style = buttonFocusStyle
	case b.disabled:
		style = buttonDisabledStyle
	}
	if focused {
		return style.Render(label + strings.Repeat(" ", gap) + hint)
	}
	return style.Render(label+strings.Repeat(" ", gap)) + keyHintStyle.Render(hint)
}

// Menu is the panel box. It implements Frame and Bounded.
type Menu struct {
	buttons   []*Button
	hidden    bool
	maxHeight int
	focus     int
	offset    int
	width     int
}

// NewMenu creates a hidden menu listing buttons in order.
func NewMenu(width int, buttons ...*Button) *Menu {
	return &Menu{buttons: buttons, hidden: true, width: width}
}

func (m *Menu) SetHidden(hidden bool) { m.hidden = hidden }
func (m *Menu) Hidden() bool          { return m.hidden }

// SetMaxHeight limits the number of rendered button rows.
func (m *Menu) SetMaxHeight(rows int) {
	m.maxHeight = max(rows, 1)
	m.ensureFocusVisible()
}

// MaxHeight returns the current row limit, or 0 when unbounded.
func (m *Menu) MaxHeight() int { return m.maxHeight }

// Buttons returns the listed buttons.
func (m *Menu) Buttons() []*Button { return m.buttons }

// Focused returns the button under the keyboard focus.
func (m *Menu) Focused() *Button {
	if len(m.buttons) == 0 {
		return nil
	}
	return m.buttons[m.focus]
}

// MoveFocus moves the focus by delta, skipping disabled buttons.
func (m *Menu) MoveFocus(delta int) {
	if len(m.buttons) == 0 || delta == 0 {
		return
	}
	step := 1
	if delta < 0 {
		step = -1
		delta = -delta
	}
	idx := m.focus
	for moved := 0; moved < delta; {
		next := idx + step
		for next >= 0 && next < len(m.buttons) && m.buttons[next].Disabled() {
			next += step
		}
		if next < 0 || next >= len(m.buttons) {
			break
		}
		idx = next
		moved++
	}
	m.focus = idx
	m.ensureFocusVisible()
}

// ButtonAt returns the button rendered on row (0 is the first button row
// inside the border), or nil.
func (m *Menu) ButtonAt(row int) *Button {
	if row < 0 || row >= m.visibleRows() {
		return nil
	}
	idx := m.offset + row
	if idx >= len(m.buttons) {
		return nil
	}
	return m.buttons[idx]
}

func (m *Menu) visibleRows() int {
	if m.maxHeight <= 0 || m.maxHeight >= len(m.buttons) {
		return len(m.buttons)
	}
	return m.maxHeight
}

func (m *Menu) ensureFocusVisible() {
	rows := m.visibleRows()
	if m.focus < m.offset {
		m.offset = m.focus
	}
	if m.focus >= m.offset+rows {
		m.offset = m.focus - rows + 1
	}
	if m.offset > len(m.buttons)-rows {
		m.offset = max(len(m.buttons)-rows, 0)
	}
}

// View renders the menu, or "" while hidden.
func (m *Menu) View() string {
	if m.hidden {
		return ""
	}
	rows := m.visibleRows()
	lines := make([]string, 0, rows)
	for i := m.offset; i < m.offset+rows && i < len(m.buttons); i++ {
		lines = append(lines, m.buttons[i].Render(m.width, i == m.focus))
	}
	return menuStyle.Render(strings.Join(lines, "\n"))
}

var (
	_ Element = (*Button)(nil)
	_ Frame   = (*Menu)(nil)
	_ Bounded = (*Menu)(nil)
)
