package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/antifraudworks/schemefinder/internal/ontology"
)

// ErrNoOntology is returned when a search runs before any ontology has
// been loaded into the session.
var ErrNoOntology = errors.New("no ontology loaded")

// Session holds the per-process ontology state: the current graph, the
// path it was parsed from, and load metadata. The graph is replaced
// wholesale on a new load and never mutated in place. Loads are
// memoized by (path, mtime); an optional fsnotify watcher marks the
// session stale when the source file changes so the next search
// reloads.
type Session struct {
	ID     string
	logger *slog.Logger

	mu       sync.Mutex
	path     string
	graph    *ontology.Graph
	modTime  time.Time
	loadedAt time.Time
	stale    bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewSession creates an empty session.
func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		ID:     uuid.NewString(),
		logger: logger,
	}
}

// Load parses the ontology at path and installs it as the session
// graph, replacing any previous graph. Loading the same unchanged file
// again returns the cached graph without re-parsing. A parse failure
// leaves the previous graph installed.
func (s *Session) Load(path string) (*ontology.Graph, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat ontology file '%s': %w", path, err)
	}

	s.mu.Lock()
	if s.graph != nil && s.path == path && !s.stale && s.modTime.Equal(info.ModTime()) {
		g := s.graph
		s.mu.Unlock()
		return g, nil
	}
	s.mu.Unlock()

	g, err := ontology.LoadFile(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	prev := s.path
	s.path = path
	s.graph = g
	s.modTime = info.ModTime()
	s.loadedAt = time.Now()
	s.stale = false
	s.mu.Unlock()

	s.rewatch(prev, path)
	s.logger.Info("Ontology loaded", "session", s.ID, "path", path, "triples", g.Len())
	return g, nil
}

// Ensure returns the current graph, reloading it first if the session
// was marked stale or the source file changed on disk.
func (s *Session) Ensure() (*ontology.Graph, error) {
	s.mu.Lock()
	path := s.path
	s.mu.Unlock()
	if path == "" {
		return nil, ErrNoOntology
	}
	return s.Load(path)
}

// Reload forces a re-parse of the current source file.
func (s *Session) Reload() (*ontology.Graph, error) {
	s.mu.Lock()
	path := s.path
	s.stale = true
	s.mu.Unlock()
	if path == "" {
		return nil, ErrNoOntology
	}
	return s.Load(path)
}

// Graph returns the current graph, or nil when nothing is loaded.
func (s *Session) Graph() *ontology.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

// Loaded reports whether the session holds a graph.
func (s *Session) Loaded() bool { return s.Graph() != nil }

// Path returns the source path of the current graph.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// LoadedAt returns when the current graph was installed.
func (s *Session) LoadedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadedAt
}

// TripleCount returns the size of the current graph, 0 when empty.
func (s *Session) TripleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph == nil {
		return 0
	}
	return s.graph.Len()
}

// Watch starts a filesystem watcher that marks the session stale when
// the current source file is written, replaced, or removed.
func (s *Session) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start ontology watcher: %w", err)
	}

	s.mu.Lock()
	s.watcher = w
	s.done = make(chan struct{})
	path := s.path
	s.mu.Unlock()

	if path != "" {
		if err := w.Add(path); err != nil {
			s.logger.Warn("Failed to watch ontology file", "path", path, "error", err)
		}
	}

	go s.watchLoop(w)
	return nil
}

func (s *Session) watchLoop(w *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				s.markStale(ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("Ontology watcher error", "error", err)
		case <-s.done:
			return
		}
	}
}

func (s *Session) markStale(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" || name != s.path {
		return
	}
	s.stale = true
	s.logger.Info("Ontology source changed, will reload on next search", "path", name)
}

// rewatch moves the watcher from the previous source file to the new
// one. Watch errors are non-fatal; the session just loses staleness
// detection for that file.
func (s *Session) rewatch(prev, next string) {
	s.mu.Lock()
	w := s.watcher
	s.mu.Unlock()
	if w == nil || prev == next {
		return
	}
	if prev != "" {
		_ = w.Remove(prev)
	}
	if err := w.Add(next); err != nil {
		s.logger.Warn("Failed to watch ontology file", "path", next, "error", err)
	}
}

// Close stops the watcher. The session remains usable for searches.
func (s *Session) Close() error {
	s.mu.Lock()
	w := s.watcher
	done := s.done
	s.watcher = nil
	s.done = nil
	s.mu.Unlock()
	if done != nil {
		close(done)
	}
	if w != nil {
		return w.Close()
	}
	return nil
}
