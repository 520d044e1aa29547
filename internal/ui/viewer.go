package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/kyaoi/mdpage/internal/document"
	"github.com/kyaoi/mdpage/internal/errmsg"
	"github.com/kyaoi/mdpage/internal/eventbus"
	"github.com/kyaoi/mdpage/internal/render"
)

const emptyDocumentText = "(空の文書)"

var propertyNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)

// commandDoneMsg reports the result of a command run off the update loop.
type commandDoneMsg struct {
	op     errmsg.Op
	status string
	err    error
}

func (m *Model) subscribeViewer() {
	m.bus.On(eventbus.FirstPage, func(eventbus.Event) { m.gotoPage(1) })
	m.bus.On(eventbus.LastPage, func(eventbus.Event) {
		if m.doc != nil {
			m.gotoPage(m.doc.PagesCount())
		}
	})
	m.bus.On(eventbus.RotateCW, func(eventbus.Event) { m.rotate(90) })
	m.bus.On(eventbus.RotateCCW, func(eventbus.Event) { m.rotate(-90) })
	m.bus.On(eventbus.PresentationMode, func(eventbus.Event) { m.queue(m.enterPresentation()) })
	m.bus.On(eventbus.OpenFile, func(eventbus.Event) { m.showPicker() })
	m.bus.On(eventbus.Print, func(eventbus.Event) { m.queue(m.printDocument()) })
	m.bus.On(eventbus.Download, func(eventbus.Event) { m.queue(m.downloadDocument()) })
	m.bus.On(eventbus.DocumentProperties, func(eventbus.Event) {
		if m.doc != nil {
			m.showProperties = true
		}
	})
	m.bus.On(eventbus.CursorToolChanged, func(eventbus.Event) {
		if m.selection.active() {
			m.selection.clear()
			m.applyContent()
		}
	})
}

// setDocument shows doc from its first page.
func (m *Model) setDocument(doc *document.Document) {
	m.doc = doc
	m.rotation = 0
	m.selection.clear()
	m.page = 0
	if doc.PagesCount() > 0 {
		m.page = 1
	}
	m.panel.SetPagesCount(doc.PagesCount())
	m.panel.SetPageNumber(m.page)
	m.updateBookmark()
	m.renderPage()
	m.contentVP.GotoTop()
	m.refreshSearch()
}

// replaceDocument swaps in a reloaded copy of the current document, keeping
// the page when it still exists.
func (m *Model) replaceDocument(doc *document.Document) {
	offset := m.contentVP.YOffset
	page := m.page
	m.doc = doc
	m.page = clamp(page, min(1, doc.PagesCount()), doc.PagesCount())
	m.panel.SetPagesCount(doc.PagesCount())
	m.panel.SetPageNumber(m.page)
	m.updateBookmark()
	m.selection.clear()
	m.renderPage()
	if m.page == page {
		m.contentVP.SetYOffset(offset)
	}
	m.refreshSearch()
}

func (m *Model) gotoPage(n int) {
	if m.doc == nil || m.doc.PagesCount() == 0 {
		return
	}
	n = clamp(n, 1, m.doc.PagesCount())
	if n == m.page {
		return
	}
	m.page = n
	m.panel.SetPageNumber(n)
	m.updateBookmark()
	m.selection.clear()
	m.renderPage()
	m.contentVP.GotoTop()
}

func (m *Model) rotate(delta int) {
	if m.doc == nil || m.doc.PagesCount() == 0 {
		return
	}
	m.rotation = render.NormalizeRotation(m.rotation + delta)
	m.selection.clear()
	m.renderPage()
}

func (m *Model) updateBookmark() {
	label := "現在のビュー"
	if m.doc != nil && m.page > 0 {
		label = filepath.Base(m.doc.Path) + "#page=" + strconv.Itoa(m.page)
	}
	m.buttons.viewBookmark.Label = truncate(label, menuWidth-4)
}

func (m *Model) renderPage() {
	if m.renderer == nil {
		return
	}
	var source string
	switch {
	case m.doc == nil:
		source = m.message
	case m.doc.PagesCount() == 0:
		source = emptyDocumentText
	default:
		source = m.doc.Page(m.page)
	}

	rendered, err := m.renderer.Render(source)
	if err != nil {
		m.err = errmsg.Error(errmsg.OpDocumentRender, err)
		m.logger.Error("render failed", "page", m.page, "err", err)
		return
	}
	if m.rotation != 0 {
		rendered = render.Rotate(rendered, m.rotation)
	}
	m.pageContent = rendered
	m.applyContent()
}

func (m *Model) applyContent() {
	content := m.pageContent
	if m.selection.active() {
		content = m.selection.highlight(content)
	}
	m.contentVP.SetContent(content)
}

func (m *Model) showPicker() {
	if m.treeRoot == nil {
		m.status = "ファイルツリーがありません"
		return
	}
	if !m.treeVisible {
		m.treeVisible = true
		m.relayout()
	}
	m.focusTree()
}

// plainPages renders every page as unstyled text, separated by form feeds.
func (m *Model) plainPages() (string, error) {
	renderer, err := render.NewRenderer(render.PlainStyle, max(m.contentVP.Width-2, 0))
	if err != nil {
		return "", err
	}
	pages := make([]string, 0, m.doc.PagesCount())
	for _, page := range m.doc.Pages {
		out, err := renderer.Render(page)
		if err != nil {
			return "", err
		}
		pages = append(pages, render.PlainText(out))
	}
	return strings.Join(pages, "\f"), nil
}

func (m *Model) printDocument() tea.Cmd {
	if m.doc == nil {
		return nil
	}
	args := strings.Fields(m.cfg.PrintCommand)
	if len(args) == 0 {
		m.err = errmsg.Error(errmsg.OpPrint, fmt.Errorf("print_command is not configured"))
		return nil
	}
	text, err := m.plainPages()
	if err != nil {
		m.err = errmsg.Error(errmsg.OpPrint, err)
		return nil
	}
	m.status = "印刷中…"
	logger := m.logger
	return func() tea.Msg {
		path := filepath.Join(os.TempDir(), "mdpage-"+uuid.NewString()+".txt")
		if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
			return commandDoneMsg{op: errmsg.OpPrint, err: err}
		}
		defer os.Remove(path)

		cmd := exec.Command(args[0], append(args[1:], path)...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			logger.Error("print command failed", "command", args[0], "output", string(out), "err", err)
			return commandDoneMsg{op: errmsg.OpPrint, err: err}
		}
		logger.Info("document printed", "command", args[0])
		return commandDoneMsg{op: errmsg.OpPrint, status: "印刷ジョブを送信しました"}
	}
}

func (m *Model) downloadDocument() tea.Cmd {
	if m.doc == nil {
		return nil
	}
	src := m.doc.Path
	dir := m.cfg.DownloadDir
	if dir == "" {
		m.err = errmsg.Error(errmsg.OpDownload, fmt.Errorf("download_dir is not configured"))
		return nil
	}
	return func() tea.Msg {
		dst, err := copyToDir(src, dir)
		if err != nil {
			return commandDoneMsg{op: errmsg.OpDownload, err: err}
		}
		return commandDoneMsg{op: errmsg.OpDownload, status: "保存しました: " + dst}
	}
}

// copyToDir copies src into dir without overwriting, adding a numeric suffix
// to the name when needed.
func copyToDir(src, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	base := filepath.Base(src)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	var out *os.File
	var dst string
	for i := 0; ; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}
		dst = filepath.Join(dir, name)
		out, err = os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", err
	}
	return dst, out.Close()
}

func (m *Model) handleCommandDone(msg commandDoneMsg) {
	if msg.err != nil {
		m.logger.Error("command failed", "op", string(msg.op), "err", msg.err)
		m.status = ""
		m.err = errmsg.Error(msg.op, msg.err)
		return
	}
	m.err = nil
	m.status = msg.status
}

func (m *Model) propertiesView() string {
	if m.doc == nil {
		return ""
	}
	props := m.doc.Properties(time.Now())
	nameWidth := 0
	for _, p := range props {
		nameWidth = max(nameWidth, lipgloss.Width(p.Name))
	}
	lines := []string{"文書のプロパティ (任意のキーで閉じる)", ""}
	for _, p := range props {
		name := p.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(p.Name))
		lines = append(lines, propertyNameStyle.Render(name)+"  "+p.Value)
	}
	return strings.Join(lines, "\n")
}
