// Package wsapi exposes a session.Manager over HTTP and websockets: a
// raw pty-byte stream, a debounced binary grid-snapshot stream, and a
// small JSON control-plane for listing and resizing sessions. The core
// engine never imports this package; it is a swappable transport layered
// on top, mirroring the teacher's split between `pkg/api`/`pkg/termsocket`
// and the engine packages they merely consume.
package wsapi

import (
	"context"
	"net/http"
	"time"

	"github.com/caddyserver/certmagic"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vtcore/engine/pkg/session"
)

// upgrader is shared by both websocket endpoints, mirroring the
// teacher's package-level upgrader in pkg/api.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Connection tuning constants, the same canonical gorilla/websocket
// ping/pong budget the teacher's raw_websocket.go is built around.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20

	debounce = 50 * time.Millisecond
)

// Server wires a session.Manager to the HTTP surface.
type Server struct {
	manager *session.Manager
	router  *mux.Router
}

// NewServer builds the route table: /ws/raw/{id}, /ws/buffer/{id},
// /api/sessions, /api/sessions/{id}/resize, mirroring the teacher's
// control-plane surface.
func NewServer(m *session.Manager) *Server {
	s := &Server{manager: m, router: mux.NewRouter()}

	s.router.HandleFunc("/ws/raw/{id}", s.handleRawWebSocket)
	s.router.HandleFunc("/ws/buffer/{id}", s.handleBufferWebSocket)
	s.router.HandleFunc("/api/sessions", s.handleListSessions).Methods(http.MethodGet)
	s.router.HandleFunc("/api/sessions/{id}/resize", s.handleResize).Methods(http.MethodPost)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on addr. When domain is
// non-empty, certmagic provisions and renews a certificate for it and
// serves over TLS on its own standard ports (addr and ctx are not used
// in that case), mirroring the `-domain` flag's optional-automatic-TLS
// behavior.
func ListenAndServe(ctx context.Context, addr, domain string, handler http.Handler) error {
	if domain == "" {
		srv := &http.Server{Addr: addr, Handler: handler}
		go func() {
			<-ctx.Done()
			srv.Close()
		}()
		return srv.ListenAndServe()
	}

	certmagic.DefaultACME.Agreed = true
	return certmagic.HTTPS([]string{domain}, handler)
}
