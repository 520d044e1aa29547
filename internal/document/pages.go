package document

import "strings"

// SplitPages cuts markdown at thematic breaks ("---", "***", "___") that
// start a block. Breaks inside fenced code and setext heading underlines do
// not split. Blank pages are dropped.
func SplitPages(body string) []string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var pages []string
	var current []string
	fence := ""
	prevBlank := true

	flush := func() {
		page := strings.Trim(strings.Join(current, "\n"), "\n")
		if strings.TrimSpace(page) != "" {
			pages = append(pages, page)
		}
		current = current[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			current = append(current, line)
			prevBlank = false
			continue
		}
		if f := fenceMarker(trimmed); f != "" {
			fence = f
			current = append(current, line)
			prevBlank = false
			continue
		}

		if prevBlank && isThematicBreak(trimmed) {
			flush()
			prevBlank = true
			continue
		}

		current = append(current, line)
		prevBlank = trimmed == ""
	}
	flush()
	return pages
}

func fenceMarker(trimmed string) string {
	switch {
	case strings.HasPrefix(trimmed, "```"):
		return "```"
	case strings.HasPrefix(trimmed, "~~~"):
		return "~~~"
	}
	return ""
}

func isThematicBreak(trimmed string) bool {
	compact := strings.ReplaceAll(trimmed, " ", "")
	if len(compact) < 3 {
		return false
	}
	ch := compact[0]
	if ch != '-' && ch != '*' && ch != '_' {
		return false
	}
	return strings.Count(compact, string(ch)) == len(compact)
}
