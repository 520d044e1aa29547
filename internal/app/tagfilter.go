package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kyaoi/mdpage/internal/document"
	"github.com/kyaoi/mdpage/internal/tree"
	"github.com/kyaoi/mdpage/internal/ui"
)

// FindTagged returns the documents under root whose frontmatter tags contain
// tag, as slash separated paths relative to root. Files that fail to parse
// are skipped.
func FindTagged(root, tag string, extensions []string) ([]string, error) {
	files, err := tree.NewFSLoader(root, extensions).Files()
	if err != nil {
		return nil, err
	}
	var matches []string
	for _, rel := range files {
		doc, err := document.Load(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		if doc.HasTag(tag) {
			matches = append(matches, rel)
		}
	}
	return matches, nil
}

// LoadTagFiltered prepares a picker holding only the documents tagged with
// tag. A file target filters its directory.
func LoadTagFiltered(target, tag string, extensions []string) (ui.State, error) {
	rootDir, err := filepath.Abs(target)
	if err != nil {
		return ui.State{}, err
	}
	info, err := os.Stat(rootDir)
	if err != nil {
		return ui.State{}, err
	}
	if !info.IsDir() {
		rootDir = filepath.Dir(rootDir)
	}

	relPaths, err := FindTagged(rootDir, tag, extensions)
	if err != nil {
		return ui.State{}, err
	}
	if len(relPaths) == 0 {
		return ui.State{}, fmt.Errorf("タグ %q に一致するファイルがありません", tag)
	}

	displayRoot := filepath.Base(rootDir)
	root := tree.Build(displayRoot, relPaths)
	return ui.State{
		Message:         fmt.Sprintf("タグ \"%s\" を含むファイルを選択してください。", tag),
		HeaderPath:      fmt.Sprintf("%s/ (tag: %s)", displayRoot, tag),
		PickerVisible:   true,
		PickerRoot:      root,
		PickerSelection: relPaths[0],
		RootDir:         rootDir,
		DisplayRoot:     displayRoot,
		FocusPicker:     true,
	}, nil
}
