package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/kyaoi/mdpage/internal/errmsg"
)

// selection is a range of content lines picked with the select tool.
type selection struct {
	anchor   int
	head     int
	set      bool
	dragging bool
	moved    bool
}

func (s *selection) begin(line int) {
	*s = selection{anchor: line, head: line, set: true, dragging: true}
}

func (s *selection) extend(line int) {
	if !s.dragging {
		return
	}
	if line != s.head {
		s.moved = true
	}
	s.head = line
}

// end finishes a drag. A click that never moved clears the selection.
func (s *selection) end() {
	if !s.dragging {
		return
	}
	s.dragging = false
	if !s.moved {
		s.clear()
	}
}

func (s *selection) clear() {
	*s = selection{}
}

func (s *selection) active() bool {
	return s.set
}

func (s *selection) bounds() (int, int) {
	return min(s.anchor, s.head), max(s.anchor, s.head)
}

func (s *selection) lines() int {
	if !s.set {
		return 0
	}
	lo, hi := s.bounds()
	return hi - lo + 1
}

// highlight renders the selected lines of content in reverse video.
func (s *selection) highlight(content string) string {
	lines := strings.Split(content, "\n")
	lo, hi := s.bounds()
	for i := max(lo, 0); i <= hi && i < len(lines); i++ {
		lines[i] = selectionStyle.Render(ansi.Strip(lines[i]))
	}
	return strings.Join(lines, "\n")
}

// text returns the selected lines of content without styling.
func (s *selection) text(content string) string {
	lines := strings.Split(ansi.Strip(content), "\n")
	lo, hi := s.bounds()
	lo = max(lo, 0)
	hi = min(hi, len(lines)-1)
	if lo > hi {
		return ""
	}
	out := make([]string, 0, hi-lo+1)
	for _, line := range lines[lo : hi+1] {
		out = append(out, strings.TrimRight(line, " "))
	}
	return strings.Join(out, "\n")
}

func (m *Model) handleSelectionMouse(msg tea.MouseMsg) bool {
	left := 0
	if m.treeVisible {
		left = m.treeVP.Width
	}
	if msg.X < left || msg.Y < 0 {
		return false
	}
	line := m.contentVP.YOffset + min(msg.Y, m.contentVP.Height-1)

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y >= m.contentVP.Height {
			return false
		}
		m.selection.begin(line)
	case msg.Action == tea.MouseActionMotion && m.selection.dragging:
		m.selection.extend(line)
	case msg.Action == tea.MouseActionRelease && m.selection.dragging:
		m.selection.end()
	default:
		return false
	}
	m.applyContent()
	return true
}

func (m *Model) copySelection() tea.Cmd {
	if !m.selection.active() {
		return nil
	}
	text := m.selection.text(m.pageContent)
	count := m.selection.lines()
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return commandDoneMsg{op: errmsg.OpCopy, err: err}
		}
		return commandDoneMsg{op: errmsg.OpCopy, status: fmt.Sprintf("%d行をコピーしました", count)}
	}
}
