package wsapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vtcore/engine/pkg/session"
)

// handleRawWebSocket streams a session's raw pty bytes as binary
// frames, mirroring the teacher's RawTerminalWebSocketHandler.
func (s *Server) handleRawWebSocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := s.manager.GetSession(id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] raw upgrade %s: %v", id, err)
		return
	}
	defer conn.Close()

	send := make(chan []byte, 256)
	done := make(chan struct{})
	var closeOnce sync.Once
	closeDone := func() { closeOnce.Do(func() { close(done) }) }

	unsubscribe := sess.Attach(writerChan(send))
	defer unsubscribe()

	go pumpWriter(conn, send, done)
	readLoop(conn, done, closeDone, func(data []byte) {
		sess.Feed(data)
	})
}

// handleBufferWebSocket streams a debounced binary grid snapshot,
// mirroring the teacher's termsocket-backed buffer subscription.
func (s *Server) handleBufferWebSocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := s.manager.GetSession(id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] buffer upgrade %s: %v", id, err)
		return
	}
	defer conn.Close()

	send := make(chan []byte, 16)
	done := make(chan struct{})
	var closeOnce sync.Once
	closeDone := func() { closeOnce.Do(func() { close(done) }) }

	var mu sync.Mutex
	var timer *time.Timer
	flush := func() {
		mu.Lock()
		defer mu.Unlock()
		snap := sess.Engine().Snapshot()
		select {
		case send <- EncodeSnapshot(snap):
		default:
		}
	}
	unsubscribe := sess.Attach(writerFunc(func(_ []byte) (int, error) {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, flush)
		mu.Unlock()
		return 0, nil
	}))
	defer unsubscribe()
	flush()

	go pumpWriter(conn, send, done)
	readLoop(conn, done, closeDone, func(data []byte) {
		var msg struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(data, &msg) == nil && msg.Type == "ping" {
			pong, _ := json.Marshal(map[string]string{"type": "pong"})
			select {
			case send <- pong:
			default:
			}
		}
	})
}

// handleListSessions serves GET /api/sessions.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.manager.ListSessions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessions)
}

// handleResize serves POST /api/sessions/{id}/resize.
func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := s.manager.GetSession(id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	var body struct {
		Cols int `json:"cols"`
		Rows int `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := sess.Resize(body.Cols, body.Rows); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pumpWriter drains send to conn as binary frames, with a ping ticker,
// mirroring the teacher's RawTerminalWebSocketHandler.writer.
func pumpWriter(conn *websocket.Conn, send chan []byte, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readLoop drains conn, invoking onMessage for each text or binary frame, until
// the connection closes.
func readLoop(conn *websocket.Conn, done chan struct{}, closeDone func(), onMessage func([]byte)) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			closeDone()
			return
		}
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			onMessage(data)
		}
	}
}

// writerChan adapts a byte-slice channel to io.Writer, used so
// Session.Attach (which wants an io.Writer) can feed a select-based
// pump goroutine.
type writerChan chan []byte

func (c writerChan) Write(p []byte) (int, error) {
	cp := append([]byte(nil), p...)
	select {
	case c <- cp:
	default:
	}
	return len(p), nil
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
