// Package render turns document pages into terminal output.
package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
	styles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DefaultStyle is used when the configured style is unknown.
const DefaultStyle = styles.TokyoNightStyle

// PlainStyle renders without colors or box drawing, for print output.
const PlainStyle = styles.AsciiStyle

// NewRenderer builds a glamour renderer wrapping at width (0 disables
// wrapping).
func NewRenderer(style string, width int) (*glamour.TermRenderer, error) {
	if _, ok := styles.DefaultStyles[style]; !ok {
		style = DefaultStyle
	}
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 0)),
	)
}

// PlainText strips terminal styling and trailing blanks from rendered output.
func PlainText(rendered string) string {
	lines := strings.Split(ansi.Strip(rendered), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n") + "\n"
}

// NormalizeRotation maps any multiple of 90 degrees into [0, 360).
func NormalizeRotation(degrees int) int {
	degrees %= 360
	if degrees < 0 {
		degrees += 360
	}
	return degrees - degrees%90
}

// Rotate turns the cell grid of content clockwise by degrees. Styling is
// dropped for rotated output.
func Rotate(content string, degrees int) string {
	degrees = NormalizeRotation(degrees)
	if degrees == 0 {
		return content
	}

	grid := toGrid(ansi.Strip(content))
	height := len(grid)
	if height == 0 {
		return ""
	}
	width := len(grid[0])

	var out [][]string
	switch degrees {
	case 90:
		out = make([][]string, width)
		for c := 0; c < width; c++ {
			row := make([]string, height)
			for r := 0; r < height; r++ {
				row[r] = grid[height-1-r][c]
			}
			out[c] = row
		}
	case 180:
		out = make([][]string, height)
		for r := 0; r < height; r++ {
			row := make([]string, width)
			for c := 0; c < width; c++ {
				row[c] = grid[height-1-r][width-1-c]
			}
			out[r] = row
		}
	case 270:
		out = make([][]string, width)
		for c := 0; c < width; c++ {
			row := make([]string, height)
			for r := 0; r < height; r++ {
				row[r] = grid[r][width-1-c]
			}
			out[c] = row
		}
	}

	lines := make([]string, len(out))
	for i, row := range out {
		lines[i] = strings.TrimRight(strings.Join(row, ""), " ")
	}
	return strings.Join(lines, "\n")
}

// toGrid splits plain into grapheme cells padded to a rectangle. A wide
// cluster takes two cells, the second one empty.
func toGrid(plain string) [][]string {
	lines := strings.Split(strings.TrimRight(plain, "\n"), "\n")
	grid := make([][]string, len(lines))
	width := 0
	for i, line := range lines {
		var row []string
		g := uniseg.NewGraphemes(line)
		for g.Next() {
			cluster := g.Str()
			row = append(row, cluster)
			if runewidth.StringWidth(cluster) > 1 {
				row = append(row, "")
			}
		}
		grid[i] = row
		width = max(width, len(row))
	}
	for i, row := range grid {
		for len(row) < width {
			row = append(row, " ")
		}
		grid[i] = row
	}
	return grid
}
