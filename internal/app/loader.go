package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kyaoi/mdpage/internal/document"
	"github.com/kyaoi/mdpage/internal/errmsg"
	"github.com/kyaoi/mdpage/internal/tree"
	"github.com/kyaoi/mdpage/internal/ui"
)

// LoadInitialState analyses the target path and prepares the UI state. A
// directory opens the picker; a file is shown directly with the picker rooted
// at its directory.
func LoadInitialState(target string, extensions []string) (ui.State, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return ui.State{}, err
	}
	info, err := os.Stat(absTarget)
	if err != nil {
		return ui.State{}, err
	}

	if info.IsDir() {
		rootName := filepath.Base(absTarget)
		loader := tree.NewFSLoader(absTarget, extensions)
		root := tree.NewRoot(rootName, loader)

		state := ui.State{
			Message:       "左のツリーからファイルを選択してください。",
			HeaderPath:    rootName + "/",
			PickerVisible: true,
			PickerRoot:    root,
			RootDir:       absTarget,
			DisplayRoot:   rootName,
			FocusPicker:   true,
		}
		hasDocuments, err := loader.HasDocuments("")
		if err != nil {
			return ui.State{}, err
		}
		if !hasDocuments {
			state.Message = fmt.Sprintf("%s にMarkdownファイルが見つかりません。", rootName)
		}
		return state, nil
	}

	doc, err := document.Load(absTarget)
	if err != nil {
		return ui.State{}, errmsg.Error(errmsg.OpDocumentLoad, err)
	}

	dir := filepath.Dir(absTarget)
	rootName := filepath.Base(dir)
	return ui.State{
		Document:        doc,
		HeaderPath:      displayPath(absTarget),
		PickerRoot:      tree.NewRoot(rootName, tree.NewFSLoader(dir, extensions)),
		PickerSelection: filepath.Base(absTarget),
		RootDir:         dir,
		DisplayRoot:     rootName,
	}, nil
}

// displayPath shortens abs relative to the working directory when possible.
func displayPath(abs string) string {
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, abs); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(abs)
}
