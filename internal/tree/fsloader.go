package tree

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDir is returned when listing a path that is not a directory.
var ErrNotDir = errors.New("path is not a directory")

// FSLoader lists documents under root. Directories without any matching file
// in their subtree are hidden.
type FSLoader struct {
	root       string
	extensions []string
	cache      map[string]bool
}

// NewFSLoader creates a loader accepting files with one of extensions
// (lower-case, with the leading dot).
func NewFSLoader(root string, extensions []string) *FSLoader {
	return &FSLoader{
		root:       root,
		extensions: extensions,
		cache:      make(map[string]bool),
	}
}

// Root returns the absolute directory the loader reads from.
func (l *FSLoader) Root() string {
	return l.root
}

// List returns the visible entries directly under relPath.
func (l *FSLoader) List(relPath string) ([]*Node, error) {
	dir := l.abs(relPath)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotDir
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var nodes []*Node
	for _, entry := range entries {
		name := entry.Name()
		childPath := joinPath(relPath, name)
		switch {
		case entry.IsDir():
			if skipDir(name) {
				continue
			}
			has, err := l.HasDocuments(childPath)
			if err != nil {
				return nil, err
			}
			if has {
				nodes = append(nodes, &Node{Name: name, Path: childPath, IsDir: true})
			}
		case l.Accepts(name):
			nodes = append(nodes, &Node{Name: name, Path: childPath})
		}
	}
	return nodes, nil
}

// HasDocuments reports whether relPath contains a matching file anywhere in
// its subtree. Results are cached per path.
func (l *FSLoader) HasDocuments(relPath string) (bool, error) {
	if cached, ok := l.cache[relPath]; ok {
		return cached, nil
	}
	entries, err := os.ReadDir(l.abs(relPath))
	if err != nil {
		return false, err
	}

	found := false
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if skipDir(name) {
				continue
			}
			has, err := l.HasDocuments(joinPath(relPath, name))
			if err != nil {
				return false, err
			}
			if has {
				found = true
				break
			}
			continue
		}
		if l.Accepts(name) {
			found = true
			break
		}
	}
	l.cache[relPath] = found
	return found, nil
}

// Files returns every matching file under the root as relative slash paths.
func (l *FSLoader) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !l.Accepts(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

// Accepts reports whether a file name matches the configured extensions.
func (l *FSLoader) Accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range l.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func (l *FSLoader) abs(relPath string) string {
	if relPath == "" {
		return l.root
	}
	return filepath.Join(l.root, filepath.FromSlash(relPath))
}

func skipDir(name string) bool {
	switch strings.ToLower(name) {
	case ".git", "node_modules", ".hg", ".svn", ".idea", ".vscode":
		return true
	}
	return false
}
