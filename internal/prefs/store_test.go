package prefs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenPath(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_DefaultsWhenEmpty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	v, err := s.Get(ctx, KeyEnableHandToolOnLoad)
	require.NoError(t, err)
	assert.Equal(t, false, v)

	v, err = s.Get(ctx, KeyCursorToolOnLoad)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestStore_SetAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyCursorToolOnLoad, 1))
	require.NoError(t, s.Set(ctx, KeyEnableHandToolOnLoad, true))
	require.NoError(t, s.Set(ctx, KeyCursorToolOnLoad, 2))

	v, err := s.Get(ctx, KeyCursorToolOnLoad)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = s.Get(ctx, KeyEnableHandToolOnLoad)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestStore_RejectsWrongType(t *testing.T) {
	s := openTestStore(t)
	err := s.Set(context.Background(), KeyCursorToolOnLoad, "hand")
	assert.Error(t, err)
}

func TestStore_UnknownKey(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "sidebarViewOnLoad")
	assert.True(t, errors.Is(err, ErrUnknownKey))
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	ctx := context.Background()

	s, err := OpenPath(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyCursorToolOnLoad, 1))
	require.NoError(t, s.Close())

	s, err = OpenPath(path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, KeyCursorToolOnLoad)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestMemory_RecordsSets(t *testing.T) {
	m := NewMemory(map[string]any{KeyEnableHandToolOnLoad: true})
	ctx := context.Background()

	v, err := m.Get(ctx, KeyEnableHandToolOnLoad)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = m.Get(ctx, KeyCursorToolOnLoad)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, m.Set(ctx, KeyEnableHandToolOnLoad, false))
	assert.Equal(t, []Entry{{Key: KeyEnableHandToolOnLoad, Value: false}}, m.Sets)
	assert.Error(t, m.Set(ctx, KeyEnableHandToolOnLoad, 1))
}
