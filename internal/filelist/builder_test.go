package filelist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/kk-code-lab/rnav/internal/dircache"
	"github.com/kk-code-lab/rnav/internal/fs"
	"github.com/kk-code-lab/rnav/internal/listing"
	"github.com/kk-code-lab/rnav/internal/stale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manyFiles(t *testing.T, n int) *listing.Files {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, fmt.Sprintf("f%03d", i))
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
	}
	entries, err := fs.ReadDir(dir)
	require.NoError(t, err)
	return listing.New(fs.Entry{Name: filepath.Base(dir), FullPath: dir, IsDir: true, HasMeta: true}, entries)
}

func TestBuilderPopulatesVisibleWindowOnly(t *testing.T) {
	files := manyFiles(t, 100)
	f := New(files)

	f.Resize(80, 10)
	f.view.SetSelection(10)
	f.Resize(80, 20)
	require.Equal(t, 10, f.Offset())

	b := NewBuilder(FromFiles(files))
	require.NoError(t, b.populateWindow(f))

	for i := 0; i < files.Len(); i++ {
		e, ok := files.At(i)
		require.True(t, ok)
		want := i >= 10 && i < 31
		assert.Equal(t, want, e.HasMeta, "entry %d", i)
	}
	assert.Equal(t, 31, files.MetaUpto())
}

func TestBuilderMetaAllPopulatesEverything(t *testing.T) {
	files := manyFiles(t, 40)

	f, err := NewBuilder(FromFiles(files)).MetaAll().Size(80, 5).Build()
	require.NoError(t, err)

	for _, e := range f.Files().Entries() {
		assert.True(t, e.HasMeta, e.Name)
		assert.EqualValues(t, 1, e.Size, e.Name)
	}
}

func TestBuilderComputesDirectorySizes(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "deeper"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a"), make([]byte, 100), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "deeper", "b"), make([]byte, 23), 0o644))

	f, err := NewBuilder(FromPath(fs.Entry{FullPath: dir})).Size(80, 10).Build()
	require.NoError(t, err)

	e, ok := f.Files().At(0)
	require.True(t, ok)
	assert.Equal(t, "sub", e.Name)
	assert.True(t, e.DirSizeKnown)
	assert.EqualValues(t, 123, e.DirSize)
}

func TestBuilderStaleTokenDiscardsResult(t *testing.T) {
	files := manyFiles(t, 5)
	tok := stale.New()
	tok.MarkStale()

	_, err := NewBuilder(FromFiles(files)).WithStale(tok).Size(80, 10).Build()
	assert.True(t, errors.Is(err, stale.ErrStale), "got %v", err)

	cache := dircache.New(dircache.WithoutWatcher())
	t.Cleanup(func() { _ = cache.Close() })
	_, err = NewBuilder(FromPath(files.Directory)).WithCache(cache).WithStale(tok).Build()
	assert.True(t, errors.Is(err, stale.ErrStale), "got %v", err)
}

func TestBuilderMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")
	_, err := NewBuilder(FromPath(fs.Entry{FullPath: missing})).Build()
	assert.Error(t, err)
}

func TestBuilderRestoresRememberedSelection(t *testing.T) {
	files := manyFiles(t, 30)
	cache := dircache.New(dircache.WithoutWatcher())
	t.Cleanup(func() { _ = cache.Close() })

	target, ok := files.At(25)
	require.True(t, ok)
	cache.SetSelection(files.Directory.FullPath, target)

	f, err := NewBuilder(FromPath(files.Directory)).WithCache(cache).Size(80, 10).Build()
	require.NoError(t, err)

	cur, ok := f.Selected()
	require.True(t, ok)
	assert.Equal(t, target.FullPath, cur.FullPath)
	assert.True(t, cur.HasMeta)
	assert.Equal(t, 25, f.Selection())
	assert.Equal(t, 20, f.Offset())
}

func TestBuilderExplicitSelectionWins(t *testing.T) {
	files := manyFiles(t, 10)
	cache := dircache.New(dircache.WithoutWatcher())
	t.Cleanup(func() { _ = cache.Close() })

	remembered, _ := files.At(2)
	cache.SetSelection(files.Directory.FullPath, remembered)
	explicit, _ := files.At(7)

	f, err := NewBuilder(FromPath(files.Directory)).WithCache(cache).Select(explicit).Size(80, 10).Build()
	require.NoError(t, err)
	assert.Equal(t, 7, f.Selection())
}

func TestBuilderPrerendersFirstScreen(t *testing.T) {
	files := manyFiles(t, 10)

	f, err := NewBuilder(FromFiles(files)).Prerender().Size(40, 4).Build()
	require.NoError(t, err)

	lines := f.Render()
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0].String(), "f000")
	assert.False(t, files.IsDirty())
}

func TestPrerenderedLinesAreDroppedOnRefresh(t *testing.T) {
	f, err := NewBuilder(FromFiles(manyFiles(t, 10))).Prerender().Size(40, 4).Build()
	require.NoError(t, err)
	require.NotNil(t, f.prerendered)

	require.NoError(t, f.OnRefresh())
	assert.Nil(t, f.prerendered)
}
