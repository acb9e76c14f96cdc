package dircache

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/kk-code-lab/rnav/internal/events"
)

func (c *Cache) watch(dir string) {
	if c.watcher == nil {
		return
	}

	c.mu.Lock()
	for i, d := range c.watched {
		if d == dir {
			// move to the back so the oldest watch is evicted first
			c.watched = append(append(c.watched[:i:i], c.watched[i+1:]...), dir)
			c.mu.Unlock()
			return
		}
	}
	var evict []string
	for len(c.watched) >= c.maxWatched {
		evict = append(evict, c.watched[0])
		c.watched = c.watched[1:]
	}
	c.watched = append(c.watched, dir)
	c.mu.Unlock()

	for _, d := range evict {
		_ = c.watcher.Remove(d)
	}
	if err := c.watcher.Add(dir); err != nil {
		c.log.WithError(err).WithField("dir", dir).Debug("cannot watch directory")
	}
}

func (c *Cache) watchLoop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			dir := filepath.Dir(ev.Name)
			c.mu.Lock()
			already := c.pending[dir]
			c.pending[dir] = true
			c.mu.Unlock()
			if !already {
				c.bus.Send(events.Refresh{Path: dir})
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.log.WithError(err).Warn("watcher error")
		}
	}
}
