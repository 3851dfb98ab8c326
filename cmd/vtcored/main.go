// Command vtcored runs a terminal-engine session, either attached
// directly to the invoking CLI terminal (raw-mode passthrough, the
// plain-`st`-replacement mode) or exposed over the network via
// pkg/wsapi, mirroring the flag surface of the original `st` plus the
// teacher's network-facing additions.
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.ngrok.com/ngrok"
	ngrokconfig "golang.ngrok.com/ngrok/config"

	vtconfig "github.com/vtcore/engine/pkg/config"
	"github.com/vtcore/engine/pkg/session"
	"github.com/vtcore/engine/pkg/wsapi"
)

type flags struct {
	allowAltScreen bool
	class          string
	command        []string
	font           string
	geometry       string
	fixedGeometry  bool
	ioFile         string
	line           string
	name           string
	title          string
	windowID       string
	printVersion   bool

	listen   string
	tunnel   bool
	domain   string
	confPath string
}

func main() {
	var f flags

	root := &cobra.Command{
		Use:   "vtcored [command...]",
		Short: "VT100/xterm-compatible terminal engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(f.command) == 0 {
				f.command = args
			}
			return run(f)
		},
	}

	fl := root.Flags()
	fl.BoolVarP(&f.allowAltScreen, "allowaltscreen", "a", true, "allow the alternate screen (st's -a disables it)")
	fl.StringVarP(&f.class, "class", "c", "", "window class (ignored, no GUI window here)")
	fl.StringVarP(&f.font, "font", "f", "", "font (ignored, no GUI font layer)")
	fl.StringVarP(&f.geometry, "geometry", "g", "", "initial geometry COLSxROWS")
	fl.BoolVarP(&f.fixedGeometry, "fixed", "i", false, "fixed geometry, don't auto-resize from the controlling terminal")
	// TODO: wire ioFile to a Session.Attach subscriber that tees to disk.
	fl.StringVarP(&f.ioFile, "io", "o", "", "capture file path (accepted but unused: nothing is written to it)")
	fl.StringVarP(&f.line, "line", "l", "", "serial line device (unsupported, logged and ignored)")
	fl.StringVarP(&f.name, "name", "n", "", "session name")
	fl.StringVarP(&f.title, "title", "t", "", "session title")
	fl.StringVarP(&f.title, "title-alt", "T", "", "session title (-T alias)")
	fl.StringVarP(&f.windowID, "windowid", "w", "", "window id (ignored, no GUI window here)")
	fl.BoolVarP(&f.printVersion, "version", "v", false, "print version and exit")
	fl.BoolP("exec", "e", false, "run the remaining arguments as the command instead of the login shell")
	fl.SetInterspersed(false)

	fl.StringVar(&f.listen, "listen", "", "serve pkg/wsapi on this address instead of attaching to the local terminal")
	fl.BoolVar(&f.tunnel, "tunnel", false, "expose --listen over an ngrok tunnel")
	fl.StringVar(&f.domain, "domain", "", "domain for automatic TLS via certmagic (requires --listen)")
	fl.StringVar(&f.confPath, "config", "", "path to a YAML config file (palette/keymap/session defaults)")

	root.Flags().Lookup("title-alt").Hidden = true

	if err := root.Execute(); err != nil {
		log.Fatalf("[MAIN] %v", err)
	}
}

func run(f flags) error {
	if f.printVersion {
		fmt.Println("vtcored (vtcore/engine)")
		return nil
	}
	if f.line != "" {
		log.Printf("[MAIN] serial line device %q is not supported, ignoring", f.line)
	}

	cfg := vtconfig.Default()
	if f.confPath != "" {
		loaded, err := vtconfig.Load(f.confPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	cols, rows := cfg.Session.Cols, cfg.Session.Rows
	if f.geometry != "" {
		if c, r, ok := parseGeometry(f.geometry); ok {
			cols, rows = c, r
		}
	} else if f.listen == "" && !f.fixedGeometry {
		if c, r, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
			cols, rows = c, r
		}
	}

	// -e replaces the login shell entirely, mirroring execsh's argv
	// handling in st.c: command[0] becomes the program, the rest its args.
	shell, args := cfg.Session.Shell, []string(nil)
	if len(f.command) > 0 {
		shell, args = f.command[0], f.command[1:]
	}
	scfg := session.Config{
		Name:  f.name,
		Shell: shell,
		Args:  args,
		Dir:   cfg.Session.Dir,
		Cols:  cols,
		Rows:  rows,
	}

	controlPath := defaultControlPath()
	manager := session.NewManager(controlPath)
	defer manager.Close()

	if f.listen != "" {
		return serveNetwork(f, manager, scfg)
	}
	return attachLocal(scfg, manager, f.allowAltScreen)
}

// attachLocal puts the invoking terminal into raw mode and pipes it
// directly to a new session's pty, the CLI-replacement-for-st mode,
// grounded on the raw-mode/restore dance other terminal-emulator
// front-ends in the pack use around their own input loop.
func attachLocal(cfg session.Config, manager *session.Manager, allowAltScreen bool) error {
	sess, err := manager.CreateSession(cfg)
	if err != nil {
		return fmt.Errorf("vtcored: create session: %w", err)
	}
	sess.Engine().AllowAltScreen = allowAltScreen

	stdinFd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(stdinFd)
	if err != nil {
		return fmt.Errorf("vtcored: enter raw mode: %w", err)
	}
	defer term.Restore(stdinFd, oldState)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	unsubscribe := sess.Attach(os.Stdout)
	defer unsubscribe()

	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			sess.Feed(append([]byte(nil), buf[:n]...))
		}
	}()

	<-ctx.Done()
	return manager.RemoveSession(sess.ID)
}

// serveNetwork exposes pkg/wsapi on --listen, optionally over an
// ngrok tunnel or certmagic-managed TLS for --domain (--tunnel takes
// precedence; --domain is then not used).
func serveNetwork(f flags, manager *session.Manager, cfg session.Config) error {
	if _, err := manager.CreateSession(cfg); err != nil {
		return fmt.Errorf("vtcored: create session: %w", err)
	}

	server := wsapi.NewServer(manager)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if f.tunnel {
		listener, err := ngrok.Listen(ctx, ngrokconfig.HTTPEndpoint(), ngrok.WithAuthtokenFromEnv())
		if err != nil {
			return fmt.Errorf("vtcored: ngrok listen: %w", err)
		}
		log.Printf("[MAIN] tunnel URL: %s", listener.URL())
		return serveOn(listener, server)
	}

	return wsapi.ListenAndServe(ctx, f.listen, f.domain, server)
}

func serveOn(l interface{ Accept() (net.Conn, error) }, handler http.Handler) error {
	srv := &http.Server{Handler: handler}
	return srv.Serve(l.(net.Listener))
}

func parseGeometry(g string) (cols, rows int, ok bool) {
	parts := strings.SplitN(g, "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	c, err1 := strconv.Atoi(parts[0])
	r, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || c <= 0 || r <= 0 {
		return 0, 0, false
	}
	return c, r, true
}

func defaultControlPath() string {
	if dir := os.Getenv("VTCORED_CONTROL_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vtcored"
	}
	return home + "/.vtcored"
}
