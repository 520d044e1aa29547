package ui

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kyaoi/mdpage/internal/document"
	"github.com/kyaoi/mdpage/internal/errmsg"
	"github.com/kyaoi/mdpage/internal/tree"
)

type treeLine struct {
	entry *tree.Node
	label string
}

func (m *Model) handleTreeKey(key string) (bool, tea.Cmd) {
	if m.treeRoot == nil {
		return false, nil
	}
	switch key {
	case "j", "down":
		m.moveTreeSelection(1)
		return true, nil
	case "k", "up":
		m.moveTreeSelection(-1)
		return true, nil
	case "ctrl+d":
		m.moveTreeSelection(max(1, m.treeVP.Height/2))
		return true, nil
	case "ctrl+u":
		m.moveTreeSelection(-max(1, m.treeVP.Height/2))
		return true, nil
	case "ctrl+j":
		m.contentVP.ScrollDown(1)
		return true, nil
	case "ctrl+k":
		m.contentVP.ScrollUp(1)
		return true, nil
	case "l", "right", "enter":
		return true, m.openOrDescend()
	case "h", "left":
		m.closeOrAscend()
		return true, nil
	case "g":
		if m.pendingKey == "g" {
			m.pendingKey = ""
			if len(m.flatTree) > 0 {
				m.treeSelection = 0
				m.updateTreeContent()
			}
		} else {
			m.pendingKey = "g"
		}
		return true, nil
	case "G":
		if len(m.flatTree) > 0 {
			m.treeSelection = len(m.flatTree) - 1
			m.updateTreeContent()
		}
		return true, nil
	}
	return false, nil
}

func (m *Model) moveTreeSelection(delta int) {
	if len(m.flatTree) == 0 {
		return
	}
	m.treeSelection = clamp(m.treeSelection+delta, 0, len(m.flatTree)-1)
	m.updateTreeContent()
}

func (m *Model) openOrDescend() tea.Cmd {
	entry := m.currentTreeEntry()
	if entry == nil {
		return nil
	}
	if !entry.IsDir {
		return m.openFileEntry(entry)
	}
	if !entry.Open {
		entry.Open = true
		if m.loadNode(entry) {
			m.refreshTreeViewWithSelection(entry.Path)
		}
		return nil
	}
	if m.loadNode(entry) && len(entry.Children) > 0 {
		m.moveTreeSelection(1)
	}
	return nil
}

func (m *Model) closeOrAscend() {
	entry := m.currentTreeEntry()
	if entry == nil {
		return
	}
	if entry.IsDir && entry.Open {
		entry.Open = false
		m.refreshTreeViewWithSelection(entry.Path)
		return
	}
	if entry.Parent != nil {
		m.refreshTreeViewWithSelection(entry.Parent.Path)
	}
}

func (m *Model) currentTreeEntry() *tree.Node {
	if m.treeSelection < 0 || m.treeSelection >= len(m.flatTree) {
		return nil
	}
	return m.flatTree[m.treeSelection].entry
}

// openFileEntry loads the picked file and shows it from the first page.
func (m *Model) openFileEntry(entry *tree.Node) tea.Cmd {
	if m.rootDir == "" {
		return nil
	}
	absPath := filepath.Join(m.rootDir, filepath.FromSlash(entry.Path))
	doc, err := document.Load(absPath)
	if err != nil {
		m.err = errmsg.Error(errmsg.OpDocumentLoad, err)
		m.logger.Error("open failed", "path", absPath, "err", err)
		return nil
	}
	m.err = nil
	m.headerPath = composeDisplayPath(m.displayRoot, entry.Path)
	m.setDocument(doc)
	m.blurTree()
	m.logger.Info("document opened", "path", absPath, "pages", doc.PagesCount())
	return m.startWatching(absPath)
}

func (m *Model) loadNode(node *tree.Node) bool {
	if node == nil {
		return false
	}
	if err := node.EnsureLoaded(); err != nil {
		m.err = errmsg.Error(errmsg.OpTreeLoad, err)
		return false
	}
	return true
}

func (m *Model) refreshTreeViewWithSelection(path string) {
	if m.treeRoot == nil || !m.loadNode(m.treeRoot) {
		return
	}
	m.expandPath(path)
	m.rebuildFlatTree()
	if idx := m.indexForPath(path); idx >= 0 {
		m.treeSelection = idx
	} else {
		m.treeSelection = clamp(m.treeSelection, 0, max(len(m.flatTree)-1, 0))
	}
	m.updateTreeContent()
}

// expandPath opens the directories above path.
func (m *Model) expandPath(path string) {
	if path == "" {
		return
	}
	m.treeRoot.Open = true
	parts := strings.Split(path, "/")
	current := m.treeRoot
	for _, part := range parts[:len(parts)-1] {
		if !m.loadNode(current) {
			return
		}
		child := current.ChildByName(part)
		if child == nil {
			return
		}
		child.Open = true
		current = child
	}
}

func (m *Model) rebuildFlatTree() {
	var lines []treeLine
	widest := 0
	var walk func(*tree.Node, int)
	walk = func(node *tree.Node, depth int) {
		label := formatTreeLabel(node, depth)
		widest = max(widest, lipgloss.Width(label))
		lines = append(lines, treeLine{entry: node, label: label})
		if node.IsDir && node.Open && m.loadNode(node) {
			for _, child := range node.Children {
				walk(child, depth+1)
			}
		}
	}
	walk(m.treeRoot, 0)
	m.flatTree = lines
	m.treeContentWidth = widest
}

func (m *Model) updateTreeContent() {
	if m.treeRoot == nil {
		return
	}
	var b strings.Builder
	for i, line := range m.flatTree {
		switch {
		case i == m.treeSelection && m.treeFocus:
			b.WriteString(treeSelectedActive.Render(line.label))
		case i == m.treeSelection:
			b.WriteString(treeSelectedInactive.Render(line.label))
		default:
			b.WriteString(treeLineStyle.Render(line.label))
		}
		if i < len(m.flatTree)-1 {
			b.WriteByte('\n')
		}
	}
	m.treeVP.SetContent(b.String())
	m.ensureSelectionVisible()
}

func (m *Model) indexForPath(path string) int {
	for i, line := range m.flatTree {
		if line.entry.Path == path {
			return i
		}
	}
	return -1
}

func (m *Model) ensureSelectionVisible() {
	if len(m.flatTree) == 0 || m.treeVP.Height == 0 {
		return
	}
	if m.treeSelection < m.treeVP.YOffset {
		m.treeVP.SetYOffset(m.treeSelection)
		return
	}
	if bottom := m.treeVP.YOffset + m.treeVP.Height - 1; m.treeSelection > bottom {
		m.treeVP.SetYOffset(m.treeSelection - m.treeVP.Height + 1)
	}
}

func (m *Model) focusTree() {
	m.treeFocus = true
	m.updateTreePanelStyle()
	m.updateTreeContent()
}

func (m *Model) blurTree() {
	if !m.treeFocus {
		return
	}
	m.treeFocus = false
	m.updateTreePanelStyle()
	m.updateTreeContent()
}

func (m *Model) updateTreePanelStyle() {
	color := treeBlurBorderColor
	if m.treeFocus {
		color = treeFocusBorderColor
	}
	m.treeVP.Style = treePanelStyle(color)
}

func treePanelStyle(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(color)
}

func formatTreeLabel(entry *tree.Node, depth int) string {
	if depth == 0 {
		return entry.Name + "/"
	}
	indicator := "  "
	if entry.IsDir {
		indicator = "+ "
		if entry.Open {
			indicator = "- "
		}
	}
	label := strings.Repeat("  ", depth-1) + indicator + entry.Name
	if entry.IsDir {
		label += "/"
	}
	return label
}

func composeDisplayPath(root, rel string) string {
	rel = filepath.ToSlash(rel)
	if root == "" {
		return rel
	}
	if rel == "" {
		return root + "/"
	}
	return filepath.ToSlash(filepath.Join(root, rel))
}
