package dircache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "share", "tags")
	s := NewTagStore(path)
	require.NoError(t, s.Load())

	on, err := s.Toggle("/home/u/a")
	require.NoError(t, err)
	assert.True(t, on)
	_, err = s.Toggle("/home/u/b")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/home/u/a\n/home/u/b\n", string(data))

	reloaded := NewTagStore(path)
	require.NoError(t, reloaded.Load())
	assert.True(t, reloaded.IsTagged("/home/u/a"))

	off, err := reloaded.Toggle("/home/u/a")
	require.NoError(t, err)
	assert.False(t, off)
	assert.False(t, reloaded.IsTagged("/home/u/a"))
}

func TestTagStoreMemoryOnly(t *testing.T) {
	s := NewTagStore("")
	require.NoError(t, s.Load())
	on, err := s.Toggle("/x")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.IsTagged("/x"))
}
