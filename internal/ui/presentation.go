package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyaoi/mdpage/internal/eventbus"
)

// presentationSettledMsg arrives once the layout for a presentation switch
// has been applied.
type presentationSettledMsg struct {
	active bool
}

func presentationSettled(active bool) tea.Cmd {
	return func() tea.Msg { return presentationSettledMsg{active: active} }
}

func (m *Model) publishPresentation(active, switchInProgress bool) {
	m.bus.Dispatch(eventbus.PresentationModeChanged, m, eventbus.Details{
		"active":           active,
		"switchInProgress": switchInProgress,
	})
}

// enterPresentation switches to the chrome-less single page view.
func (m *Model) enterPresentation() tea.Cmd {
	if m.presentation || m.doc == nil {
		return nil
	}
	m.presentation = true
	m.panel.Close()
	m.blurTree()
	m.publishPresentation(true, true)
	m.relayout()
	m.logger.Debug("presentation mode entered", "page", m.page)
	return presentationSettled(true)
}

func (m *Model) exitPresentation() tea.Cmd {
	if !m.presentation {
		return nil
	}
	m.presentation = false
	m.publishPresentation(false, true)
	m.relayout()
	m.bus.Dispatch(eventbus.Resize, m, nil)
	m.logger.Debug("presentation mode exited", "page", m.page)
	return presentationSettled(false)
}

func (m *Model) settlePresentation(msg presentationSettledMsg) {
	// A switch in the other direction may have happened meanwhile.
	if msg.active != m.presentation {
		return
	}
	m.publishPresentation(msg.active, false)
}

func (m *Model) handlePresentationKey(key string) tea.Cmd {
	switch key {
	case "esc", "p", "q":
		return m.exitPresentation()
	case "ctrl+c":
		m.stopWatching()
		return tea.Quit
	case "right", "l", " ", "pgdown", "]":
		m.gotoPage(m.page + 1)
	case "left", "h", "pgup", "[":
		m.gotoPage(m.page - 1)
	case "j", "down":
		m.contentVP.ScrollDown(1)
	case "k", "up":
		m.contentVP.ScrollUp(1)
	case "home":
		m.gotoPage(1)
	case "end":
		if m.doc != nil {
			m.gotoPage(m.doc.PagesCount())
		}
	}
	return nil
}
