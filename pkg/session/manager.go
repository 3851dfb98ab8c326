package session

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Manager owns the registry of running sessions and the on-disk
// control directory they're persisted under.
type Manager struct {
	controlPath string

	mu       sync.RWMutex
	running  map[string]*Session

	watcher   *fsnotify.Watcher
	listMu    sync.Mutex
	listDirty bool
	listCache []*Info
}

// NewManager creates a Manager rooted at controlPath and starts
// watching it with fsnotify so ListSessions doesn't need to poll the
// filesystem on every call to notice sessions added or removed by
// another process.
func NewManager(controlPath string) *Manager {
	m := &Manager{
		controlPath: controlPath,
		running:     make(map[string]*Session),
		listDirty:   true,
	}

	if err := os.MkdirAll(controlPath, 0o755); err == nil {
		if w, err := fsnotify.NewWatcher(); err == nil {
			if err := w.Add(controlPath); err == nil {
				m.watcher = w
				go m.watchControlPath()
			} else {
				w.Close()
			}
		}
	}

	return m
}

func (m *Manager) watchControlPath() {
	for {
		select {
		case _, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.listMu.Lock()
			m.listDirty = true
			m.listMu.Unlock()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[SESSION] control path watch error: %v", err)
		}
	}
}

// Close stops the control-path watcher.
func (m *Manager) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// CreateSession starts a new session with a freshly generated ID.
func (m *Manager) CreateSession(cfg Config) (*Session, error) {
	return m.createSession("", cfg)
}

// CreateSessionWithID starts a new session under a caller-chosen ID.
func (m *Manager) CreateSessionWithID(id string, cfg Config) (*Session, error) {
	return m.createSession(id, cfg)
}

func (m *Manager) createSession(id string, cfg Config) (*Session, error) {
	if err := os.MkdirAll(m.controlPath, 0o755); err != nil {
		return nil, fmt.Errorf("session: create control dir: %w", err)
	}

	var s *Session
	var err error
	if id == "" {
		s, err = newSession(m.controlPath, cfg, m)
	} else {
		s, err = newSessionWithID(m.controlPath, id, cfg, m)
	}
	if err != nil {
		return nil, err
	}

	if !cfg.IsSpawned {
		if err := s.Start(); err != nil {
			os.RemoveAll(s.Path())
			return nil, err
		}
	}

	m.mu.Lock()
	m.running[s.ID] = s
	m.mu.Unlock()
	m.markDirty()

	return s, nil
}

// GetSession returns a running session if this process owns it,
// otherwise loads its persisted metadata from disk.
func (m *Manager) GetSession(id string) (*Session, error) {
	m.mu.RLock()
	if s, ok := m.running[id]; ok {
		m.mu.RUnlock()
		return s, nil
	}
	m.mu.RUnlock()

	return loadSession(m.controlPath, id, m)
}

// FindSession resolves a session by exact ID, exact name, or ID
// prefix.
func (m *Manager) FindSession(nameOrID string) (*Session, error) {
	sessions, err := m.ListSessions()
	if err != nil {
		return nil, err
	}
	for _, info := range sessions {
		if info.ID == nameOrID || info.Name == nameOrID || strings.HasPrefix(info.ID, nameOrID) {
			return m.GetSession(info.ID)
		}
	}
	return nil, fmt.Errorf("session: not found: %s", nameOrID)
}

// ListSessions enumerates every session directory under the control
// path, refreshing liveness status as it goes. The result is cached
// until the fsnotify watcher observes a change to the control
// directory.
func (m *Manager) ListSessions() ([]*Info, error) {
	m.listMu.Lock()
	defer m.listMu.Unlock()

	if !m.listDirty && m.listCache != nil {
		return m.listCache, nil
	}

	entries, err := os.ReadDir(m.controlPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.listCache, m.listDirty = []*Info{}, false
			return m.listCache, nil
		}
		return nil, err
	}

	sessions := make([]*Info, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		s, err := m.GetSession(entry.Name())
		if err != nil {
			continue
		}
		if s.Info().Status != string(StatusExited) {
			if err := s.UpdateStatus(); err != nil {
				log.Printf("[SESSION] update status %s: %v", entry.Name(), err)
			}
		}
		info := s.Info()
		sessions = append(sessions, &info)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})

	m.listCache, m.listDirty = sessions, false
	return sessions, nil
}

func (m *Manager) markDirty() {
	m.listMu.Lock()
	m.listDirty = true
	m.listMu.Unlock()
}

// UpdateAllSessionStatuses refreshes liveness for every known session.
func (m *Manager) UpdateAllSessionStatuses() error {
	sessions, err := m.ListSessions()
	if err != nil {
		return err
	}
	for _, info := range sessions {
		if s, err := m.GetSession(info.ID); err == nil {
			if err := s.UpdateStatus(); err != nil {
				log.Printf("[SESSION] update status %s: %v", info.ID, err)
			}
		}
	}
	return nil
}

// RemoveSession drops a session from the registry and deletes its
// control directory.
func (m *Manager) RemoveSession(id string) error {
	m.mu.Lock()
	if s, ok := m.running[id]; ok {
		s.Close()
	}
	delete(m.running, id)
	m.mu.Unlock()
	m.markDirty()

	return os.RemoveAll(filepath.Join(m.controlPath, id))
}

// RemoveExitedSessions deletes the control directory of every session
// whose process is no longer alive.
func (m *Manager) RemoveExitedSessions() error {
	sessions, err := m.ListSessions()
	if err != nil {
		return err
	}

	var errs []error
	for _, info := range sessions {
		if info.Status != string(StatusExited) {
			continue
		}
		if err := m.RemoveSession(info.ID); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("session: cleanup errors: %v", errs)
	}
	return nil
}
