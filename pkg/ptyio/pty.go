// Package ptyio spawns a shell under a pseudo-terminal and shuttles
// bytes to and from it, mirroring st.c's ttynew/ttyread/ttywrite/
// ttyresize/execsh but built on github.com/creack/pty instead of the
// raw posix_openpt/grantpt/unlockpt fallback chain in pty.c.
package ptyio

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/user"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// Session owns a running shell process and its pty master end.
type Session struct {
	cmd    *exec.Cmd
	master *os.File

	writeMu sync.Mutex

	waitOnce sync.Once
	waitErr  error
	done     chan struct{}
}

// Options configures shell selection and the initial window size.
type Options struct {
	// Shell overrides the login shell. Empty selects $SHELL, falling
	// back to the passwd-file entry and then /bin/sh, mirroring
	// execsh's shell resolution in st.c.
	Shell string
	// Args are extra arguments appended after the shell path, mirroring
	// st.c's execsh forwarding argv[1:] when present.
	Args []string
	// Dir sets the child's working directory; empty means the caller's
	// current directory.
	Dir string
	Cols, Rows uint16
}

// Start forks the configured shell behind a new pty and begins running
// it. The returned Session's Read/Write/Resize/Close methods are safe
// for concurrent use the way st.c's single ttyfd is safe for the
// reader goroutine and writer caller to share.
func Start(opts Options) (*Session, error) {
	shell := opts.Shell
	if shell == "" {
		shell = resolveShell()
	}

	cmd := exec.Command(shell, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = buildEnv(shell)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	cols, rows := opts.Cols, opts.Rows
	if cols == 0 {
		cols = 80
	}
	if rows == 0 {
		rows = 24
	}

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: cols, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("ptyio: start shell %q: %w", shell, err)
	}

	s := &Session{cmd: cmd, master: master, done: make(chan struct{})}
	go func() {
		s.waitOnce.Do(func() {
			s.waitErr = cmd.Wait()
			close(s.done)
		})
	}()
	return s, nil
}

// buildEnv mirrors execsh's child environment: it clears the
// inherited COLUMNS/LINES/TERMCAP (stale window-size hints from a
// parent shell) and sets TERM/SHELL/HOME/USER/LOGNAME the way st.c's
// execsh does from the passwd entry.
func buildEnv(shell string) []string {
	env := os.Environ()
	filtered := env[:0]
	for _, kv := range env {
		switch {
		case hasPrefix(kv, "COLUMNS="), hasPrefix(kv, "LINES="), hasPrefix(kv, "TERMCAP="):
			continue
		}
		filtered = append(filtered, kv)
	}
	env = filtered

	env = append(env, "TERM=xterm-256color")
	env = append(env, "SHELL="+shell)

	if u, err := user.Current(); err == nil {
		env = append(env, "HOME="+u.HomeDir, "USER="+u.Username, "LOGNAME="+u.Username)
	}
	return env
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// resolveShell picks a login shell the way execsh does: $SHELL first,
// then the passwd-file entry, then /bin/sh.
func resolveShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	if u, err := user.Current(); err == nil {
		if sh := passwdShell(u.Username); sh != "" {
			return sh
		}
	}
	return "/bin/sh"
}

func passwdShell(username string) string {
	data, err := os.ReadFile("/etc/passwd")
	if err != nil {
		return ""
	}
	for _, line := range splitLines(data) {
		fields := splitFields(line, ':')
		if len(fields) >= 7 && fields[0] == username {
			return fields[6]
		}
	}
	return ""
}

func splitLines(b []byte) []string {
	var lines []string
	start := 0
	for i, c := range b {
		if c == '\n' {
			lines = append(lines, string(b[start:i]))
			start = i + 1
		}
	}
	if start < len(b) {
		lines = append(lines, string(b[start:]))
	}
	return lines
}

func splitFields(s string, sep byte) []string {
	var fields []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	fields = append(fields, s[start:])
	return fields
}

// Pid returns the child process's PID, or 0 if it has not started.
func (s *Session) Pid() int {
	if s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Read reads output produced by the shell, mirroring ttyread.
func (s *Session) Read(p []byte) (int, error) {
	return s.master.Read(p)
}

// Write sends input to the shell, mirroring ttywrite's full-write loop
// (io.Writer's contract already guarantees short writes are reported
// as an error rather than silently partial, so no manual retry loop is
// needed here the way ttywrite needs one over a raw fd).
func (s *Session) Write(p []byte) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.master.Write(p)
}

// Resize informs the kernel and the child of a new window size via
// TIOCSWINSZ, mirroring ttyresize.
func (s *Session) Resize(cols, rows uint16) error {
	return pty.Setsize(s.master, &pty.Winsize{Cols: cols, Rows: rows})
}

// Wait blocks until the shell exits and returns its exit error, if
// any.
func (s *Session) Wait() error {
	<-s.done
	return s.waitErr
}

// Done returns a channel closed once the shell process has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close kills the child process, if still running, and closes the pty
// master, mirroring st.c's die()/sigchld cleanup path.
func (s *Session) Close() error {
	if s.cmd.Process != nil {
		s.cmd.Process.Signal(syscall.SIGHUP)
		s.cmd.Process.Kill()
	}
	return s.master.Close()
}

var _ io.ReadWriteCloser = (*Session)(nil)
