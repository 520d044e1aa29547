package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kyaoi/mdpage/internal/config"
	"github.com/kyaoi/mdpage/internal/cursor"
	"github.com/kyaoi/mdpage/internal/document"
	"github.com/kyaoi/mdpage/internal/errmsg"
	"github.com/kyaoi/mdpage/internal/eventbus"
	"github.com/kyaoi/mdpage/internal/grab"
	"github.com/kyaoi/mdpage/internal/logging"
	"github.com/kyaoi/mdpage/internal/render"
	"github.com/kyaoi/mdpage/internal/toolbar"
	"github.com/kyaoi/mdpage/internal/tree"
)

const (
	statusHeight      = 1
	minContentWidth   = 20
	minTreePanelWidth = 18
	// presentationWidth caps the page column in presentation mode.
	presentationWidth = 100
)

var (
	treeBlurBorderColor  = lipgloss.Color("#3b4261")
	treeFocusBorderColor = lipgloss.Color("#7aa2f7")
	treeLineStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	treeSelectedActive   = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1a1b26")).
				Background(lipgloss.Color("#7aa2f7")).
				Bold(true)
	treeSelectedInactive = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#c0caf5")).
				Background(lipgloss.Color("#283457"))
	overlayBoxStyle = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Background(lipgloss.Color("#1f2335"))
	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#a9b1d6")).
			Background(lipgloss.Color("#1f2335"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
	selectionStyle = lipgloss.NewStyle().Reverse(true)
)

// Model implements the Bubble Tea program for the document pager.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger
	bus    *eventbus.Bus
	prefs  cursor.Preferences

	cursor  *cursor.Controller
	hand    *grab.GrabToPan
	panel   *toolbar.Panel
	menu    *toolbar.Menu
	toggle  *toolbar.Button
	buttons toolbarButtons

	contentVP   viewport.Model
	renderer    *glamour.TermRenderer
	doc         *document.Document
	message     string
	headerPath  string
	page        int
	rotation    int
	pageContent string
	selection   selection

	presentation   bool
	showHelp       bool
	showProperties bool
	pendingKey     string
	status         string
	err            error
	ready          bool
	width          int
	height         int

	treeVP           viewport.Model
	treeVisible      bool
	treeFocus        bool
	treeContentWidth int
	treeRoot         *tree.Node
	flatTree         []treeLine
	treeSelection    int
	rootDir          string
	displayRoot      string

	searchInput textinput.Model
	searchMode  bool
	searchQuery string
	searchHits  []searchHit
	searchIndex int

	watch   *watcher
	pending []tea.Cmd
}

type cursorPrefsMsg struct {
	mode cursor.Mode
	err  error
}

// containerFunc adapts a height getter to toolbar.Container.
type containerFunc func() int

func (f containerFunc) Height() int { return f() }

// NewModel constructs the pager with the provided initial state.
func NewModel(state State, deps Deps) *Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{Style: render.DefaultStyle, ScrollbarPadding: toolbar.ScrollbarPadding, TreeWidth: 28}
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	bus := deps.Bus
	if bus == nil {
		bus = eventbus.New(eventbus.WithLogger(logger))
	}

	m := &Model{
		cfg:         cfg,
		logger:      logger,
		bus:         bus,
		prefs:       deps.Prefs,
		message:     state.Message,
		headerPath:  state.HeaderPath,
		treeVisible: state.PickerVisible && state.PickerRoot != nil,
		treeRoot:    state.PickerRoot,
		rootDir:     state.RootDir,
		displayRoot: state.DisplayRoot,
		searchIndex: -1,
		watch:       newWatcher(),
	}

	m.contentVP = viewport.New(0, 0)
	m.contentVP.Style = lipgloss.NewStyle().Padding(0, 1)
	m.contentVP.SetHorizontalStep(2)

	m.treeVP = viewport.New(0, 0)
	m.treeVP.Style = treePanelStyle(treeBlurBorderColor)
	m.treeVP.MouseWheelEnabled = false

	searchInput := textinput.New()
	searchInput.Prompt = "/"
	searchInput.CharLimit = 256
	searchInput.Placeholder = "検索語"
	searchInput.Blur()
	m.searchInput = searchInput

	m.hand = grab.New(viewportScroller{vp: &m.contentVP})
	m.cursor = cursor.New(cursor.Options{Bus: bus, HandTool: m.hand, Logger: logger})
	m.buildToolbar()
	m.subscribeViewer()

	if state.Document != nil {
		m.setDocument(state.Document)
	}
	if m.treeRoot != nil {
		m.refreshTreeViewWithSelection(state.PickerSelection)
	}
	m.updateTreePanelStyle()
	if state.FocusPicker && m.treeVisible {
		m.focusTree()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCursorPreference()}
	if m.doc != nil {
		cmds = append(cmds, m.startWatching(m.doc.Path))
	}
	return tea.Batch(cmds...)
}

// loadCursorPreference reads the startup cursor tool off the update loop. A
// failed read leaves the default tool in place.
func (m *Model) loadCursorPreference() tea.Cmd {
	if m.prefs == nil {
		return nil
	}
	store := m.prefs
	logger := m.logger
	return func() tea.Msg {
		mode, err := cursor.ResolveStartupMode(context.Background(), store, logger)
		return cursorPrefsMsg{mode: mode, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.flushPending())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case cursorPrefsMsg:
		m.cursor.Restore(msg.mode, msg.err)
		return nil
	case presentationSettledMsg:
		m.settlePresentation(msg)
		return nil
	case fileEventMsg:
		return m.handleFileEvent(msg)
	case fileWatchErrMsg:
		m.logger.Warn("file watcher error", "err", msg.err)
		m.err = errmsg.Error(errmsg.OpWatch, msg.err)
		return m.waitForFileEvent()
	case commandDoneMsg:
		m.handleCommandDone(msg)
		return nil
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.bus.Dispatch(eventbus.Resize, m, nil)
		return nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.contentVP, cmd = m.contentVP.Update(msg)
	return cmd
}

// queue schedules cmd to be returned from the current Update. Bus handlers
// use it since they cannot return commands themselves.
func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

func (m *Model) flushPending() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.searchMode {
		return m.handleSearchKey(msg)
	}

	key := msg.String()
	if key != "g" {
		m.pendingKey = ""
	}
	m.status = ""

	if m.showHelp {
		switch key {
		case "q", "?", "esc":
			m.showHelp = false
		}
		return nil
	}
	if m.showProperties {
		m.showProperties = false
		return nil
	}
	if m.presentation {
		return m.handlePresentationKey(key)
	}
	if m.panel.IsOpen() && m.handleMenuKey(key) {
		return nil
	}

	switch key {
	case "q", "ctrl+c":
		m.stopWatching()
		return tea.Quit
	case "?":
		m.showHelp = true
		return nil
	case ">":
		m.panel.ActivateToggle()
		return nil
	case "1":
		m.bus.Dispatch(eventbus.SwitchCursorTool, m, eventbus.Details{"tool": cursor.Select})
		return nil
	case "2":
		m.bus.Dispatch(eventbus.SwitchCursorTool, m, eventbus.Details{"tool": cursor.Hand})
		return nil
	case "p":
		m.bus.Dispatch(eventbus.PresentationMode, m, nil)
		return nil
	case "o":
		m.bus.Dispatch(eventbus.OpenFile, m, nil)
		return nil
	case "ctrl+p":
		m.bus.Dispatch(eventbus.Print, m, nil)
		return nil
	case "ctrl+s":
		m.bus.Dispatch(eventbus.Download, m, nil)
		return nil
	case "i":
		m.bus.Dispatch(eventbus.DocumentProperties, m, nil)
		return nil
	case "r":
		m.bus.Dispatch(eventbus.RotateCW, m, nil)
		return nil
	case "R":
		m.bus.Dispatch(eventbus.RotateCCW, m, nil)
		return nil
	case "]":
		m.gotoPage(m.page + 1)
		return nil
	case "[":
		m.gotoPage(m.page - 1)
		return nil
	case "y":
		return m.copySelection()
	case "ctrl+h":
		if m.treeVisible {
			m.focusTree()
		}
		return nil
	case "ctrl+l":
		m.blurTree()
		return nil
	case "t":
		if m.treeRoot != nil {
			m.treeVisible = !m.treeVisible
			if !m.treeVisible {
				m.blurTree()
			}
			m.relayout()
		}
		return nil
	case "/":
		return m.enterSearchMode()
	case "n":
		if len(m.searchHits) > 0 {
			m.nextSearchHit(1)
			return nil
		}
	case "N":
		if len(m.searchHits) > 0 {
			m.nextSearchHit(-1)
			return nil
		}
	case "esc":
		m.selection.clear()
		m.applyContent()
		return nil
	}

	if m.treeFocus && m.treeVisible {
		_, cmd := m.handleTreeKey(key)
		return cmd
	}
	if m.handleContentKey(key) {
		return nil
	}

	var cmd tea.Cmd
	m.contentVP, cmd = m.contentVP.Update(msg)
	return cmd
}

func (m *Model) handleContentKey(key string) bool {
	switch key {
	case "j", "down":
		m.contentVP.ScrollDown(1)
	case "k", "up":
		m.contentVP.ScrollUp(1)
	case "ctrl+d":
		m.contentVP.HalfPageDown()
	case "ctrl+u":
		m.contentVP.HalfPageUp()
	case "h", "left":
		m.contentVP.ScrollLeft(max(2, m.contentVP.Width/6))
	case "l", "right":
		m.contentVP.ScrollRight(max(2, m.contentVP.Width/6))
	case "g":
		if m.pendingKey == "g" {
			m.contentVP.GotoTop()
			m.pendingKey = ""
		} else {
			m.pendingKey = "g"
		}
		return true
	case "G":
		m.contentVP.GotoBottom()
	default:
		return false
	}
	m.pendingKey = ""
	return true
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.showHelp || m.showProperties || m.searchMode {
		return nil
	}
	if !m.presentation && m.handleToolbarMouse(msg) {
		return nil
	}
	if m.treeVisible && msg.X < m.treeVP.Width {
		return nil
	}
	if m.hand.HandleMouse(msg) {
		return nil
	}
	if m.cursor.Active() == cursor.Select && m.handleSelectionMouse(msg) {
		return nil
	}

	var cmd tea.Cmd
	m.contentVP, cmd = m.contentVP.Update(msg)
	return cmd
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= statusHeight {
		return
	}
	m.width = width
	m.height = height
	m.ready = true
	m.relayout()
}

func (m *Model) relayout() {
	if !m.ready {
		return
	}

	treeWidth := m.treeWidth(m.width)
	contentWidth := m.width - treeWidth
	contentHeight := max(m.height-statusHeight, 1)
	if m.presentation {
		treeWidth = 0
		contentWidth = min(m.width, presentationWidth)
		contentHeight = m.height
	}
	contentWidth = max(contentWidth, minContentWidth)

	m.contentVP.Width = contentWidth
	m.contentVP.Height = contentHeight

	wrapWidth := max(contentWidth-m.contentVP.Style.GetHorizontalFrameSize(), 0)
	renderer, err := render.NewRenderer(m.cfg.Style, wrapWidth)
	if err != nil {
		m.err = err
		return
	}
	m.renderer = renderer
	m.renderPage()
	m.refreshSearch()

	m.treeVP.Width = treeWidth
	m.treeVP.Height = contentHeight
	if treeWidth > 0 {
		m.ensureSelectionVisible()
	}
}

func (m *Model) treeWidth(totalWidth int) int {
	if !m.treeVisible {
		return 0
	}
	preferred := max(m.cfg.TreeWidth, m.treeContentWidth+4)

	frame := m.treeVP.Style.GetHorizontalFrameSize()
	minPanel := max(minTreePanelWidth-frame, 0)
	maxPanel := max(totalWidth/2-frame, minPanel)
	width := clamp(preferred, minPanel, maxPanel) + frame
	if totalWidth-width < minContentWidth {
		width = max(totalWidth-minContentWidth, 0)
	}
	return min(width, totalWidth)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.showHelp {
		return m.placeOverlay(overlayBoxStyle.Render(helpText()))
	}
	if m.showProperties {
		return m.placeOverlay(overlayBoxStyle.Render(m.propertiesView()))
	}
	if m.presentation {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.contentVP.View())
	}

	body := m.contentVP.View()
	if menu := m.menu.View(); menu != "" {
		body = overlayRight(body, menu, m.contentVP.Width)
	}
	if m.treeVisible && m.treeVP.Width > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.treeVP.View(), body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

func (m *Model) placeOverlay(box string) string {
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m *Model) statusLine() string {
	width := max(m.width, minContentWidth)
	toggle := m.toggleView()
	left := ""
	switch {
	case m.searchMode:
		left = m.searchInput.View()
	case m.err != nil:
		left = errorStyle.Render(m.err.Error())
	case m.status != "":
		left = m.status
	case m.searchQuery != "":
		left = m.searchStatusLine()
	case m.selection.active():
		left = fmt.Sprintf("%d行を選択中 (y: コピー / Esc: 解除)", m.selection.lines())
	default:
		left = m.headerPath
	}

	info := []string{m.pageLabel(), toolLabel(m.cursor.Active())}
	if m.rotation != 0 {
		info = append(info, fmt.Sprintf("%d°", m.rotation))
	}
	right := strings.Join(info, "  ") + " " + toggle

	inner := width - statusBarStyle.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		left = truncate(left, max(inner-lipgloss.Width(right)-1, 0))
		gap = max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) pageLabel() string {
	if m.doc == nil || m.doc.PagesCount() == 0 {
		return "-/-"
	}
	return fmt.Sprintf("%d/%d", m.page, m.doc.PagesCount())
}

func toolLabel(mode cursor.Mode) string {
	switch mode {
	case cursor.Hand:
		return "手のひら"
	default:
		return "選択"
	}
}

func helpText() string {
	return strings.Join([]string{
		"ヘルプ (?:閉じる / Esc)",
		">                : サブツールバーの開閉",
		"j / k (ツールバー): 項目の移動 / Enter: 実行",
		"1 / 2            : 選択ツール / 手のひらツール",
		"] / [            : 次 / 前のページ",
		"r / R            : 右回転 / 左回転",
		"p                : プレゼンテーションモード",
		"o                : ファイルを開く",
		"Ctrl+p / Ctrl+s  : 印刷 / コピーを保存",
		"i                : 文書のプロパティ",
		"y                : 選択行をコピー",
		"j / k            : スクロール",
		"gg / G           : 先頭 / 末尾へ移動",
		"/ , n / N        : 検索 / 次 / 前の一致",
		"t                : ファイルツリーのトグル",
		"q / Ctrl+c       : 終了",
	}, "\n")
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
