package floating

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v1"))
	require.NoError(t, s.Set("k", "v2"))
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	s.Remove("k")
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "state"))
	require.NoError(t, err)

	require.NoError(t, s.Set(StorageKey, `{"panels":{},"maxZIndex":0}`))
	v, ok := s.Get(StorageKey)
	require.True(t, ok)
	assert.Equal(t, `{"panels":{},"maxZIndex":0}`, v)

	// Keys with separators must not escape the directory.
	require.NoError(t, s.Set("a/b", "x"))
	v, ok = s.Get("a/b")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	s.Remove(StorageKey)
	_, ok = s.Get(StorageKey)
	assert.False(t, ok)
}

func TestFileStoreBacksPositioner(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	vp := FixedViewport{Width: 1024, Height: 768}

	p := NewPositioner(s, vp)
	p.AddPanel("a", nil, nil)
	p.Minimize("a")

	q := NewPositioner(s, vp)
	st, ok := q.Panel("a")
	require.True(t, ok)
	assert.True(t, st.IsMinimized)
	require.NotNil(t, st.PrevPos)
	assert.Equal(t, Point{X: baseOffsetX, Y: baseOffsetY}, *st.PrevPos)
}
