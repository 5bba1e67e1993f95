package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	maxMessageSize = 32 * 1024
)

// pingPeriod is how often the server pings the peer; must be less than
// pongWait. A variable so tests can shorten the keepalive cycle.
var pingPeriod = (pongWait * 9) / 10

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// sessionRequest is one inbound utterance from a connected voice
// client. The client has already done speech-to-text.
type sessionRequest struct {
	Text string `json:"text"`
}

// sessionError is sent when a turn fails recoverably.
type sessionError struct {
	Error string `json:"error"`
}

// session wraps one live connection. The websocket allows a single
// concurrent writer, so the ping ticker and turn replies share mu.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) writeJSON(v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(v); err != nil {
		log.Printf("WebSocket write error: %v", err)
	}
}

func (s *session) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

// HandleSession runs a live voice session over a websocket. Turns for
// the session are processed one at a time in arrival order, which is
// what keeps the pending-question slot single-writer. A ping ticker
// keeps the connection alive between utterances; the read deadline is
// refreshed on every pong.
func (a *API) HandleSession(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	sess := &session{conn: conn}
	defer conn.Close()

	a.status.Bump("sessions_open")
	defer a.status.Add("sessions_open", -1)

	user := userID(c)
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sess.ping(); err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		// An utterance is as good as a pong for liveness.
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var req sessionRequest
		if err := json.Unmarshal(message, &req); err != nil || req.Text == "" {
			sess.writeJSON(sessionError{Error: "expected {\"text\": \"...\"}"})
			continue
		}

		result, err := a.assistant.HandleUtterance(c.Request.Context(), user, req.Text)
		if err != nil {
			a.status.Bump("turn_failures")
			sess.writeJSON(sessionError{Error: "couldn't process that"})
			continue
		}
		a.status.Bump("turns")
		sess.writeJSON(result)
	}
}
