package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyaoi/mdpage/internal/cursor"
	"github.com/kyaoi/mdpage/internal/prefs"
)

var exts = []string{".md"}

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadInitialState_File(t *testing.T) {
	root := t.TempDir()
	path := write(t, root, "guide.md", "one\n\n---\n\ntwo\n")

	state, err := LoadInitialState(path, exts)
	require.NoError(t, err)
	require.NotNil(t, state.Document)
	assert.Equal(t, 2, state.Document.PagesCount())
	assert.False(t, state.PickerVisible)
	require.NotNil(t, state.PickerRoot)
	assert.Equal(t, "guide.md", state.PickerSelection)
	assert.Equal(t, root, state.RootDir)
}

func TestLoadInitialState_Directory(t *testing.T) {
	root := t.TempDir()
	write(t, root, "docs/a.md", "# a\n")

	state, err := LoadInitialState(root, exts)
	require.NoError(t, err)
	assert.Nil(t, state.Document)
	assert.True(t, state.PickerVisible)
	assert.True(t, state.FocusPicker)
	assert.Equal(t, filepath.Base(root)+"/", state.HeaderPath)
	assert.NotContains(t, state.Message, "見つかりません")
}

func TestLoadInitialState_DirectoryWithoutDocuments(t *testing.T) {
	root := t.TempDir()
	write(t, root, "notes.txt", "x")

	state, err := LoadInitialState(root, exts)
	require.NoError(t, err)
	assert.Contains(t, state.Message, "見つかりません")
}

func TestLoadInitialState_Missing(t *testing.T) {
	_, err := LoadInitialState(filepath.Join(t.TempDir(), "nope.md"), exts)
	assert.Error(t, err)
}

func TestLoadTagFiltered(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.md", "---\ntags: [go, tui]\n---\nbody\n")
	write(t, root, "sub/b.md", "---\ntags: Go\n---\nbody\n")
	write(t, root, "c.md", "---\ntags: [rust]\n---\nbody\n")
	write(t, root, "d.md", "no frontmatter\n")

	matches, err := FindTagged(root, "go", exts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.md", "sub/b.md"}, matches)

	state, err := LoadTagFiltered(root, "go", exts)
	require.NoError(t, err)
	require.NotNil(t, state.PickerRoot)
	assert.True(t, state.PickerVisible)
	assert.NotNil(t, state.PickerRoot.ChildByName("sub"))
	assert.Nil(t, state.PickerRoot.ChildByName("c.md"))

	_, err = LoadTagFiltered(root, "zig", exts)
	assert.Error(t, err)
}

func TestPersistCursorTool(t *testing.T) {
	store := prefs.NewMemory(nil)
	ctx := context.Background()

	require.NoError(t, persistCursorTool(ctx, store, "hand"))
	v, err := store.Get(ctx, prefs.KeyCursorToolOnLoad)
	require.NoError(t, err)
	assert.Equal(t, int(cursor.Hand), v)

	assert.ErrorIs(t, persistCursorTool(ctx, store, "zoom"), cursor.ErrUnsupportedMode)
	assert.Error(t, persistCursorTool(ctx, store, "laser"))
}
