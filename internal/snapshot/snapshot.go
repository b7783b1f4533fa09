// Package snapshot maintains an offline copy of the rendered page. A manager
// watches the content document and refreshes a cached render after changes
// settle, so `atrium snapshot` can show the last good page when the document
// is missing or broken. The interactive page never reads the cache.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoSnapshot reports an empty cache.
var ErrNoSnapshot = errors.New("no snapshot in cache")

// cacheFile is the snapshot's name inside the cache directory.
const cacheFile = "page.snapshot"

// settleInterval is how often pending changes are checked against the
// debounce window.
const settleInterval = 50 * time.Millisecond

// Stats counts watcher activity.
type Stats struct {
	Events    int
	Refreshes int
	Errors    int
	LastEvent time.Time
}

// Manager owns the cache directory and the watch loop.
type Manager struct {
	log      *zap.Logger
	dir      string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
	stats   Stats
}

// NewManager creates a manager for the given cache directory.
func NewManager(dir string, debounce time.Duration, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:      log,
		dir:      dir,
		debounce: debounce,
		pending:  make(map[string]time.Time),
	}
}

// Path returns the snapshot file location.
func (m *Manager) Path() string {
	return filepath.Join(m.dir, cacheFile)
}

// Write replaces the cached snapshot atomically.
func (m *Manager) Write(data []byte) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(m.dir, cacheFile+".*")
	if err != nil {
		return fmt.Errorf("staging snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.Path()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing snapshot: %w", err)
	}
	return nil
}

// Latest returns the cached snapshot and its modification time.
func (m *Manager) Latest() ([]byte, time.Time, error) {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, ErrNoSnapshot
		}
		return nil, time.Time{}, fmt.Errorf("reading snapshot: %w", err)
	}
	info, err := os.Stat(m.Path())
	if err != nil {
		return data, time.Time{}, nil
	}
	return data, info.ModTime(), nil
}

// GetStats returns a copy of the watcher counters.
func (m *Manager) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Watch refreshes the snapshot whenever the content document changes,
// after changes settle for the debounce window. It writes one snapshot
// immediately, then blocks until the context is canceled. refresh renders
// the current page text.
func (m *Manager) Watch(ctx context.Context, contentPath string, refresh func() ([]byte, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting content watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files by rename, which drops
	// a watch placed on the file itself.
	contentPath = filepath.Clean(contentPath)
	if err := watcher.Add(filepath.Dir(contentPath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(contentPath), err)
	}

	m.refresh(refresh)
	m.log.Info("snapshot watch started",
		zap.String("content", contentPath),
		zap.String("cache", m.Path()),
		zap.Duration("debounce", m.debounce))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				m.handleEvent(contentPath, event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				m.log.Warn("content watcher error", zap.Error(err))
				m.mu.Lock()
				m.stats.Errors++
				m.mu.Unlock()
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(settleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if m.takeSettled() {
					m.refresh(refresh)
				}
			}
		}
	})

	return g.Wait()
}

func (m *Manager) handleEvent(contentPath string, event fsnotify.Event) {
	if filepath.Clean(event.Name) != contentPath {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	m.mu.Lock()
	m.pending[event.Name] = time.Now()
	m.stats.Events++
	m.stats.LastEvent = time.Now()
	m.mu.Unlock()
}

// takeSettled reports whether any pending change has been quiet for the
// debounce window, clearing those entries.
func (m *Manager) takeSettled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	settled := false
	for path, at := range m.pending {
		if now.Sub(at) >= m.debounce {
			delete(m.pending, path)
			settled = true
		}
	}
	return settled
}

func (m *Manager) refresh(render func() ([]byte, error)) {
	data, err := render()
	if err != nil {
		m.log.Warn("snapshot refresh failed", zap.Error(err))
		m.mu.Lock()
		m.stats.Errors++
		m.mu.Unlock()
		return
	}
	if err := m.Write(data); err != nil {
		m.log.Warn("snapshot write failed", zap.Error(err))
		m.mu.Lock()
		m.stats.Errors++
		m.mu.Unlock()
		return
	}
	m.mu.Lock()
	m.stats.Refreshes++
	m.mu.Unlock()
	m.log.Debug("snapshot refreshed", zap.Int("bytes", len(data)))
}
