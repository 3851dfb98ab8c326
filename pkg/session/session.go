// Package session turns a pty-backed shell plus a terminal engine into
// a detachable, addressable unit that outlives any single viewer,
// generalizing the one-process-one-window model of a plain terminal
// emulator into the teacher's multi-session server model.
package session

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/vtcore/engine/pkg/input"
	"github.com/vtcore/engine/pkg/parser"
	"github.com/vtcore/engine/pkg/ptyio"
	"github.com/vtcore/engine/pkg/terminal"
)

// Status is a session's lifecycle state, persisted alongside Info.
type Status string

const (
	StatusRunning Status = "running"
	StatusExited  Status = "exited"
)

// Config describes how to start a new session.
type Config struct {
	Name      string
	Shell     string
	Args      []string
	Dir       string
	Cols      int
	Rows      int
	IsSpawned bool // if true, CreateSession does not call Start; the caller starts the session
}

// Info is the on-disk, JSON-serializable metadata for a session,
// mirroring the teacher's session info file.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Command   string    `json:"command"`
	Cols      int       `json:"cols"`
	Rows      int       `json:"rows"`
	StartedAt time.Time `json:"startedAt"`
	Pid       int       `json:"pid"`
	Status    string    `json:"status"`
}

// DirectOutputCallback receives raw pty bytes for one session, the
// same direct-subscription shape the teacher uses to fan pty output
// out to live viewers without round-tripping through disk.
type DirectOutputCallback func(sessionID string, data []byte)

// Session owns one pty-backed shell, one terminal engine, and the
// goroutine that pumps bytes between them.
type Session struct {
	ID string

	manager *Manager
	path    string

	mu   sync.Mutex
	info Info

	args []string
	dir  string

	pty    *ptyio.Session
	engine *terminal.Engine
	keymap *input.Keymap
	input  chan []byte

	subMu       sync.RWMutex
	subscribers []DirectOutputCallback

	done chan struct{}
}

func newSession(controlPath string, cfg Config, m *Manager) (*Session, error) {
	return newSessionWithID(controlPath, uuid.NewString(), cfg, m)
}

func newSessionWithID(controlPath, id string, cfg Config, m *Manager) (*Session, error) {
	if cfg.Cols <= 0 {
		cfg.Cols = 80
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 24
	}

	s := &Session{
		ID:      id,
		manager: m,
		path:    filepath.Join(controlPath, id),
		args:    cfg.Args,
		dir:     cfg.Dir,
		engine:  terminal.NewEngine(cfg.Cols, cfg.Rows),
		keymap:  input.DefaultKeymap(),
		input:   make(chan []byte, 64),
		done:    make(chan struct{}),
		info: Info{
			ID:        id,
			Name:      cfg.Name,
			Command:   cfg.Shell,
			Cols:      cfg.Cols,
			Rows:      cfg.Rows,
			StartedAt: time.Now(),
			Status:    string(StatusRunning),
		},
	}

	if err := os.MkdirAll(s.path, 0o755); err != nil {
		return nil, fmt.Errorf("session: create dir: %w", err)
	}
	if err := s.persistInfo(); err != nil {
		return nil, err
	}
	return s, nil
}

func loadSession(controlPath, id string, m *Manager) (*Session, error) {
	path := filepath.Join(controlPath, id)
	data, err := os.ReadFile(filepath.Join(path, "info.json"))
	if err != nil {
		return nil, fmt.Errorf("session: load %s: %w", id, err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("session: parse info %s: %w", id, err)
	}

	s := &Session{
		ID:      id,
		manager: m,
		path:    path,
		engine:  terminal.NewEngine(info.Cols, info.Rows),
		keymap:  input.DefaultKeymap(),
		input:   make(chan []byte, 64),
		done:    make(chan struct{}),
		info:    info,
	}
	if info.Status != string(StatusExited) {
		close(s.done) // not actually running in this process; treat as inert
	}
	return s, nil
}

// Path returns the session's on-disk control directory.
func (s *Session) Path() string { return s.path }

// Start forks the shell and begins the Session.run pump goroutine.
func (s *Session) Start() error {
	s.mu.Lock()
	shell, args, dir, cols, rows := s.info.Command, s.args, s.dir, s.info.Cols, s.info.Rows
	s.mu.Unlock()

	p, err := ptyio.Start(ptyio.Options{Shell: shell, Args: args, Dir: dir, Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return fmt.Errorf("session: start pty: %w", err)
	}
	s.pty = p

	s.mu.Lock()
	s.info.Pid = p.Pid()
	s.mu.Unlock()
	if err := s.persistInfo(); err != nil {
		log.Printf("[SESSION] persist info after start: %v", err)
	}

	go s.run()
	return nil
}

// run is the single cooperative loop mixing pty reads, parser feeding,
// and host-input draining for this session, per the one-goroutine-per-
// engine concurrency rule.
func (s *Session) run() {
	defer close(s.done)

	p := &parser.Parser{
		OnPrint:            func(r rune) { s.engine.PutChar(r) },
		OnExecute:          func(b byte) { s.engine.HandleControlCode(b) },
		OnEscape:           func(final byte) { s.engine.HandleEscape(final) },
		OnCharsetDesignate: func(slot int, final byte) { s.engine.DesignateCharset(slot, final) },
		OnOSC:              s.handleOSC,
	}
	p.OnCSI = func(priv bool, params []int, intermediate []byte, final byte) {
		s.engine.HandleCSI(terminal.CSI{Params: params, Intermediate: intermediate, Private: priv, Final: final})
	}
	p.OnDECTest = func(final byte) {
		if final == '8' {
			s.engine.DECAlignmentTest()
		}
	}
	s.engine.OnReply = func(b []byte) { s.writePty(b) }

	buf := make([]byte, 4096)
	readDone := make(chan struct{})
	readBytes := make(chan []byte)
	go func() {
		defer close(readDone)
		for {
			n, err := s.pty.Read(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				select {
				case readBytes <- chunk:
				case <-s.done:
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case chunk, ok := <-readBytes:
			if !ok {
				s.finish()
				return
			}
			p.Parse(chunk)
			s.notify(chunk)
		case in := <-s.input:
			s.writePty(in)
		case <-readDone:
			s.finish()
			return
		}
	}
}

func (s *Session) handleOSC(body []byte) {
	fields := parser.SplitOSC(body)
	if len(fields) >= 2 && (string(fields[0]) == "0" || string(fields[0]) == "1" || string(fields[0]) == "2") {
		s.engine.SetTitle(string(fields[1]))
	}
}

func (s *Session) writePty(b []byte) {
	if s.pty == nil {
		return
	}
	if _, err := s.pty.Write(b); err != nil {
		log.Printf("[SESSION] write to pty %s: %v", s.ID, err)
	}
}

func (s *Session) finish() {
	s.mu.Lock()
	s.info.Status = string(StatusExited)
	s.mu.Unlock()
	if err := s.persistInfo(); err != nil {
		log.Printf("[SESSION] persist info on exit %s: %v", s.ID, err)
	}
}

// Feed enqueues host input (already translated to pty bytes by
// pkg/input) to be written on the session's own goroutine.
func (s *Session) Feed(data []byte) {
	select {
	case s.input <- data:
	case <-s.done:
	}
}

// Resize updates the engine grid and the pty window size together.
func (s *Session) Resize(cols, rows int) error {
	s.engine.Resize(cols, rows)
	s.mu.Lock()
	s.info.Cols, s.info.Rows = cols, rows
	s.mu.Unlock()
	if s.pty != nil {
		if err := s.pty.Resize(uint16(cols), uint16(rows)); err != nil {
			return err
		}
	}
	return s.persistInfo()
}

// Engine exposes the underlying terminal engine for snapshotting.
func (s *Session) Engine() *terminal.Engine { return s.engine }

// Attach registers w to receive every subsequent raw pty byte chunk
// and returns an unsubscribe func, mirroring the teacher's
// RegisterDirectOutputCallback/UnregisterDirectOutputCallback pair
// collapsed into one closure-returning call.
func (s *Session) Attach(w io.Writer) (unsubscribe func()) {
	cb := func(_ string, data []byte) {
		if _, err := w.Write(data); err != nil {
			log.Printf("[SESSION] attach write %s: %v", s.ID, err)
		}
	}
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, cb)
	idx := len(s.subscribers) - 1
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if idx < len(s.subscribers) {
			s.subscribers[idx] = nil
		}
	}
}

func (s *Session) notify(data []byte) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, cb := range s.subscribers {
		if cb != nil {
			cb(s.ID, data)
		}
	}
}

// UpdateStatus re-checks whether the child process is still alive and
// persists any change, used by Manager.ListSessions for sessions
// loaded from disk rather than owned by this process.
func (s *Session) UpdateStatus() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info.Status == string(StatusExited) {
		return nil
	}
	if s.info.Pid != 0 && !processAlive(s.info.Pid) {
		s.info.Status = string(StatusExited)
		return s.persistInfoLocked()
	}
	return nil
}

func (s *Session) persistInfo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistInfoLocked()
}

func (s *Session) persistInfoLocked() error {
	data, err := json.MarshalIndent(s.info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.path, "info.json"), data, 0o644)
}

// Close stops the session's pty and pump goroutine.
func (s *Session) Close() error {
	if s.pty != nil {
		return s.pty.Close()
	}
	return nil
}

// Info returns a copy of the session's current metadata.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// processAlive reports whether pid refers to a live process, using the
// null signal the way the teacher's RemoveExitedSessions checks
// liveness without actually affecting the target.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
