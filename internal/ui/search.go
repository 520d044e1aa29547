package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// searchHit is a matching line on a page.
type searchHit struct {
	page int
	line int
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		query := strings.TrimSpace(m.searchInput.Value())
		m.exitSearchMode()
		if query == "" {
			m.clearSearch()
			return nil
		}
		m.performSearch(query)
		return nil
	case tea.KeyEsc, tea.KeyCtrlC:
		m.exitSearchMode()
		return nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return cmd
}

func (m *Model) enterSearchMode() tea.Cmd {
	m.searchMode = true
	m.pendingKey = ""
	m.searchInput.SetValue(m.searchQuery)
	m.searchInput.CursorEnd()
	return m.searchInput.Focus()
}

func (m *Model) exitSearchMode() {
	m.searchMode = false
	m.searchInput.Blur()
}

func (m *Model) clearSearch() {
	m.searchQuery = ""
	m.searchHits = nil
	m.searchIndex = -1
	m.err = nil
}

func (m *Model) searchStatusLine() string {
	if len(m.searchHits) == 0 || m.searchIndex < 0 {
		return fmt.Sprintf("/%s (0/0)", m.searchQuery)
	}
	hit := m.searchHits[m.searchIndex]
	return fmt.Sprintf("/%s (%d/%d, p.%d)", m.searchQuery, m.searchIndex+1, len(m.searchHits), hit.page)
}

// performSearch looks for query on every page and jumps to the first hit at
// or after the current page.
func (m *Model) performSearch(query string) {
	m.searchQuery = query
	m.searchHits = m.findHits(query)
	if len(m.searchHits) == 0 {
		m.searchIndex = -1
		m.err = fmt.Errorf("%q に一致しません。", query)
		return
	}
	m.searchIndex = 0
	for i, hit := range m.searchHits {
		if hit.page >= m.page {
			m.searchIndex = i
			break
		}
	}
	m.err = nil
	m.gotoSearchHit()
}

func (m *Model) nextSearchHit(delta int) {
	if len(m.searchHits) == 0 {
		return
	}
	n := len(m.searchHits)
	if m.searchIndex < 0 {
		m.searchIndex = 0
	} else {
		m.searchIndex = ((m.searchIndex+delta)%n + n) % n
	}
	m.err = nil
	m.gotoSearchHit()
}

func (m *Model) gotoSearchHit() {
	if m.searchIndex < 0 || m.searchIndex >= len(m.searchHits) {
		return
	}
	hit := m.searchHits[m.searchIndex]
	m.gotoPage(hit.page)
	totalLines := m.contentVP.TotalLineCount()
	m.contentVP.SetYOffset(clamp(hit.line, 0, max(totalLines-m.contentVP.Height, 0)))
}

// refreshSearch recomputes the hits after the document or layout changed,
// keeping the hit nearest to the previous one selected.
func (m *Model) refreshSearch() {
	if m.searchQuery == "" {
		return
	}
	prev := searchHit{page: m.page}
	if m.searchIndex >= 0 && m.searchIndex < len(m.searchHits) {
		prev = m.searchHits[m.searchIndex]
	}
	m.searchHits = m.findHits(m.searchQuery)
	if len(m.searchHits) == 0 {
		m.searchIndex = -1
		m.err = fmt.Errorf("%q に一致しません。", m.searchQuery)
		return
	}
	m.searchIndex = closestHitIndex(m.searchHits, prev)
}

func (m *Model) findHits(query string) []searchHit {
	if m.doc == nil || m.renderer == nil {
		return nil
	}
	var hits []searchHit
	for i, page := range m.doc.Pages {
		rendered, err := m.renderer.Render(page)
		if err != nil {
			m.logger.Warn("search render failed", "page", i+1, "err", err)
			continue
		}
		for _, line := range findSearchMatches(rendered, query) {
			hits = append(hits, searchHit{page: i + 1, line: line})
		}
	}
	return hits
}

// findSearchMatches returns the line of every case-insensitive occurrence of
// query in content.
func findSearchMatches(content, query string) []int {
	query = strings.TrimSpace(query)
	if query == "" || content == "" {
		return nil
	}

	stripped := ansi.Strip(content)
	lowerContent := strings.ToLower(stripped)
	lowerQuery := strings.ToLower(query)

	var matches []int
	offset := 0
	for {
		pos := strings.Index(lowerContent[offset:], lowerQuery)
		if pos == -1 {
			break
		}
		absolute := offset + pos
		matches = append(matches, strings.Count(lowerContent[:absolute], "\n"))
		offset = absolute + len(lowerQuery)
	}
	return matches
}

func closestHitIndex(hits []searchHit, target searchHit) int {
	best, bestDiff := 0, -1
	for i, hit := range hits {
		diff := absInt(hit.page-target.page)*1_000_000 + absInt(hit.line-target.line)
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
