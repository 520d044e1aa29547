// Package document loads markdown files and splits them into pages.
package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/dustin/go-humanize"
)

// Document is a loaded markdown file.
type Document struct {
	Path    string
	Raw     string
	Meta    map[string]any
	Pages   []string
	Size    int64
	ModTime time.Time
}

// Load reads and paginates the file at path.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	doc.Path = path
	doc.Size = info.Size()
	doc.ModTime = info.ModTime()
	return doc, nil
}

// Parse splits raw markdown into frontmatter metadata and pages.
func Parse(data []byte) (*Document, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return nil, err
	}
	return &Document{
		Raw:   string(data),
		Meta:  meta,
		Pages: SplitPages(string(body)),
	}, nil
}

// PagesCount returns the number of pages.
func (d *Document) PagesCount() int {
	return len(d.Pages)
}

// Page returns the markdown of the 1-based page n, or "" when out of range.
func (d *Document) Page(n int) string {
	if n < 1 || n > len(d.Pages) {
		return ""
	}
	return d.Pages[n-1]
}

// Title returns the frontmatter title, falling back to the file name.
func (d *Document) Title() string {
	if t, ok := d.Meta["title"].(string); ok && strings.TrimSpace(t) != "" {
		return t
	}
	return filepath.Base(d.Path)
}

// Tags returns the frontmatter tags, accepting a list or a comma separated
// string.
func (d *Document) Tags() []string {
	var tags []string
	switch v := d.Meta["tags"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				tags = append(tags, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				tags = append(tags, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if strings.TrimSpace(s) != "" {
				tags = append(tags, strings.TrimSpace(s))
			}
		}
	}
	return tags
}

// HasTag reports whether the document carries tag (case-insensitive).
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.Tags() {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Property is a row of the document properties dialog.
type Property struct {
	Name  string
	Value string
}

// Properties describes the document for the properties dialog.
func (d *Document) Properties(now time.Time) []Property {
	props := []Property{
		{Name: "File name", Value: filepath.Base(d.Path)},
		{Name: "Location", Value: filepath.Dir(d.Path)},
		{Name: "File size", Value: fmt.Sprintf("%s (%s bytes)", humanize.Bytes(uint64(max(d.Size, 0))), humanize.Comma(d.Size))},
		{Name: "Modified", Value: humanize.RelTime(d.ModTime, now, "ago", "from now")},
		{Name: "Pages", Value: humanize.Comma(int64(len(d.Pages)))},
	}

	keys := make([]string, 0, len(d.Meta))
	for k := range d.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		props = append(props, Property{Name: k, Value: formatMeta(d.Meta[k])})
	}
	return props
}

func formatMeta(v any) string {
	switch val := v.(type) {
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return fmt.Sprint(val)
	}
}
