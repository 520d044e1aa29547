package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kyaoi/mdpage/internal/toolbar"
)

const menuWidth = 30

var (
	toggleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))
	toggleOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1b26")).
			Background(lipgloss.Color("#7aa2f7"))
)

type toolbarButtons struct {
	presentationMode   *toolbar.Button
	openFile           *toolbar.Button
	print              *toolbar.Button
	download           *toolbar.Button
	viewBookmark       *toolbar.Button
	firstPage          *toolbar.Button
	lastPage           *toolbar.Button
	pageRotateCw       *toolbar.Button
	pageRotateCcw      *toolbar.Button
	cursorSelectTool   *toolbar.Button
	cursorHandTool     *toolbar.Button
	documentProperties *toolbar.Button
}

func (m *Model) buildToolbar() {
	b := toolbarButtons{
		presentationMode:   toolbar.NewButton("プレゼンテーション", "p"),
		openFile:           toolbar.NewButton("ファイルを開く", "o"),
		print:              toolbar.NewButton("印刷", "^p"),
		download:           toolbar.NewButton("保存", "^s"),
		viewBookmark:       toolbar.NewButton("現在のビュー", ""),
		firstPage:          toolbar.NewButton("最初のページへ", ""),
		lastPage:           toolbar.NewButton("最後のページへ", ""),
		pageRotateCw:       toolbar.NewButton("右回転", "r"),
		pageRotateCcw:      toolbar.NewButton("左回転", "R"),
		cursorSelectTool:   toolbar.NewButton("選択ツール", "1"),
		cursorHandTool:     toolbar.NewButton("手のひらツール", "2"),
		documentProperties: toolbar.NewButton("文書のプロパティ", "i"),
	}
	b.cursorSelectTool.SetToggled(true)
	m.buttons = b
	m.toggle = toolbar.NewButton("≫", ">")
	m.menu = toolbar.NewMenu(menuWidth,
		b.presentationMode,
		b.openFile,
		b.print,
		b.download,
		b.viewBookmark,
		b.firstPage,
		b.lastPage,
		b.pageRotateCw,
		b.pageRotateCcw,
		b.cursorSelectTool,
		b.cursorHandTool,
		b.documentProperties,
	)

	m.panel = toolbar.New(toolbar.Options{
		Toolbar:                  m.menu,
		ToggleButton:             m.toggle,
		ButtonContainer:          m.menu,
		PresentationModeButton:   b.presentationMode,
		OpenFileButton:           b.openFile,
		PrintButton:              b.print,
		DownloadButton:           b.download,
		ViewBookmarkButton:       b.viewBookmark,
		FirstPageButton:          b.firstPage,
		LastPageButton:           b.lastPage,
		PageRotateCwButton:       b.pageRotateCw,
		PageRotateCcwButton:      b.pageRotateCcw,
		CursorSelectToolButton:   b.cursorSelectTool,
		CursorHandToolButton:     b.cursorHandTool,
		DocumentPropertiesButton: b.documentProperties,
		ScrollbarPadding:         m.cfg.ScrollbarPadding,
	}, containerFunc(func() int { return m.contentVP.Height }), m.bus)
}

// handleMenuKey drives the open panel from the keyboard. Keys it does not
// use fall through to the viewer.
func (m *Model) handleMenuKey(key string) bool {
	switch key {
	case "j", "down", "tab":
		m.menu.MoveFocus(1)
	case "k", "up", "shift+tab":
		m.menu.MoveFocus(-1)
	case "enter", " ":
		if b := m.menu.Focused(); b != nil && !b.Disabled() {
			m.panel.Activate(b)
		}
	case "esc":
		m.panel.Close()
	default:
		return false
	}
	return true
}

// handleToolbarMouse handles clicks on the toggle button and the menu.
func (m *Model) handleToolbarMouse(msg tea.MouseMsg) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m.panel.IsOpen() && m.inMenu(msg.X, msg.Y)
	}
	if msg.Y == m.height-1 {
		toggleWidth := lipgloss.Width(m.toggleView())
		right := m.width - statusBarStyle.GetPaddingRight()
		if msg.X >= right-toggleWidth && msg.X < right {
			m.panel.ActivateToggle()
			return true
		}
		return false
	}
	if !m.panel.IsOpen() || !m.inMenu(msg.X, msg.Y) {
		return false
	}
	// Row 0 is the top border.
	if b := m.menu.ButtonAt(msg.Y - 1); b != nil && !b.Disabled() {
		m.panel.Activate(b)
	}
	return true
}

func (m *Model) inMenu(x, y int) bool {
	view := m.menu.View()
	if view == "" {
		return false
	}
	left := m.width - lipgloss.Width(view)
	return x >= left && y < lipgloss.Height(view)
}

func (m *Model) toggleView() string {
	if m.toggle.Toggled() {
		return toggleOnStyle.Render(m.toggle.Label)
	}
	return toggleStyle.Render(m.toggle.Label)
}

// overlayRight draws box over the top right corner of base, which is width
// cells wide.
func overlayRight(base, box string, width int) string {
	baseLines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")
	boxWidth := lipgloss.Width(box)
	left := max(width-boxWidth, 0)
	for i, line := range boxLines {
		if i >= len(baseLines) {
			break
		}
		prefix := ansi.Truncate(baseLines[i], left, "")
		if pad := left - ansi.StringWidth(prefix); pad > 0 {
			prefix += strings.Repeat(" ", pad)
		}
		baseLines[i] = prefix + line
	}
	return strings.Join(baseLines, "\n")
}

func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
