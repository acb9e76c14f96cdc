// Package dircache reads directories for the file panels and owns the state
// that outlives a single panel: remembered selections, tags and the
// filesystem watches that trigger out-of-band refreshes.
package dircache

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/fs"
	"github.com/kk-code-lab/rnav/internal/listing"
	"github.com/kk-code-lab/rnav/internal/logging"
	"github.com/kk-code-lab/rnav/internal/stale"
	"github.com/sirupsen/logrus"
)

// ErrNotDirectory is returned when a listing is requested for a file.
var ErrNotDirectory = errors.New("not a directory")

const defaultMaxWatched = 32

// Cache is safe for concurrent use. Reads may run on builder goroutines
// while the UI thread records selections.
type Cache struct {
	mu         sync.Mutex
	selections map[string]string
	pending    map[string]bool
	watched    []string
	maxWatched int

	tags *TagStore
	bus  *events.Bus
	log  *logrus.Entry

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Cache.
type Option func(*Cache)

// WithBus delivers events.Refresh for watched directories that change.
func WithBus(bus *events.Bus) Option {
	return func(c *Cache) { c.bus = bus }
}

// WithTags attaches a tag store; tagged entries come back with Tagged set.
func WithTags(tags *TagStore) Option {
	return func(c *Cache) { c.tags = tags }
}

// WithMaxWatched bounds the number of directories watched at once.
func WithMaxWatched(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxWatched = n
		}
	}
}

// WithoutWatcher disables filesystem notifications.
func WithoutWatcher() Option {
	return func(c *Cache) { c.maxWatched = -1 }
}

// New creates a cache. A watcher that cannot be created is logged and the
// cache keeps working without out-of-band refreshes.
func New(opts ...Option) *Cache {
	c := &Cache{
		selections: make(map[string]string),
		pending:    make(map[string]bool),
		maxWatched: defaultMaxWatched,
		log:        logging.For("dircache"),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tags == nil {
		c.tags = NewTagStore("")
	}
	if c.maxWatched < 0 {
		return c
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		c.log.WithError(err).Warn("filesystem watcher unavailable")
		return c
	}
	c.watcher = w
	c.wg.Add(1)
	go c.watchLoop()
	return c
}

// Tags returns the tag store backing the cache.
func (c *Cache) Tags() *TagStore {
	return c.tags
}

// GetFilesSync reads dir and returns a sorted listing.
func (c *Cache) GetFilesSync(dir fs.Entry) (*listing.Files, error) {
	return c.GetFilesSyncStale(dir, nil)
}

// GetFilesSyncStale is GetFilesSync that gives up with stale.ErrStale when
// tok is marked before or during the read.
func (c *Cache) GetFilesSyncStale(dir fs.Entry, tok *stale.Token) (*listing.Files, error) {
	if err := tok.Check(); err != nil {
		return nil, err
	}

	path := filepath.Clean(dir.FullPath)
	if dir.HasMeta && !dir.IsDir {
		return nil, fmt.Errorf("%s: %w", path, ErrNotDirectory)
	}
	if !dir.HasMeta {
		statted, err := fs.Stat(path)
		if err != nil {
			return nil, err
		}
		if !statted.IsDir {
			return nil, fmt.Errorf("%s: %w", path, ErrNotDirectory)
		}
		dir = statted
	}

	entries, err := fs.ReadDir(path)
	if err != nil {
		return nil, err
	}
	if err := tok.Check(); err != nil {
		return nil, err
	}

	c.markTags(entries)
	c.watch(path)

	c.mu.Lock()
	delete(c.pending, path)
	c.mu.Unlock()

	return listing.New(dir, entries), nil
}

func (c *Cache) markTags(entries []fs.Entry) {
	for i := range entries {
		entries[i].Tagged = c.tags.IsTagged(entries[i].FullPath)
	}
}

// GetSelection returns the entry last selected in dir, if any.
func (c *Cache) GetSelection(dir string) (fs.Entry, bool) {
	c.mu.Lock()
	path, ok := c.selections[filepath.Clean(dir)]
	c.mu.Unlock()
	if !ok {
		return fs.Entry{}, false
	}
	return fs.Entry{Name: filepath.Base(path), FullPath: path}, true
}

// SetSelection remembers the selected entry of dir.
func (c *Cache) SetSelection(dir string, selected fs.Entry) {
	if selected.Placeholder || selected.FullPath == "" {
		return
	}
	c.mu.Lock()
	c.selections[filepath.Clean(dir)] = selected.FullPath
	c.mu.Unlock()
}

// TakeRefresh re-reads dir if a change was observed since the last read.
// It reports false when nothing changed.
func (c *Cache) TakeRefresh(dir string) ([]fs.Entry, bool, error) {
	path := filepath.Clean(dir)
	c.mu.Lock()
	changed := c.pending[path]
	delete(c.pending, path)
	c.mu.Unlock()
	if !changed {
		return nil, false, nil
	}

	entries, err := fs.ReadDir(path)
	if err != nil {
		return nil, true, err
	}
	c.markTags(entries)
	return entries, true, nil
}

// Close stops the watcher.
func (c *Cache) Close() error {
	if c.watcher == nil {
		return nil
	}
	close(c.done)
	err := c.watcher.Close()
	c.wg.Wait()
	return err
}
