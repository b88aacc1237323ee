// ABOUTME: WebSocket stream of session change events
// ABOUTME: Sends a snapshot on connect, then every core.Change until the session or socket closes
package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/harper/letterkit/internal/core"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is one websocket message
type Event struct {
	Type     string       `json:"type"` // snapshot, change, closed
	Snapshot *SessionView `json:"snapshot,omitempty"`
	Change   *core.Change `json:"change,omitempty"`
}

// SessionWebSocket streams a session's changes to the client
func (h *Handler) SessionWebSocket(c *gin.Context) {
	entry, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		notFound(c, "session "+c.Param("id")+" not found")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Warning: websocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	send := make(chan core.Change, sendBuffer)
	unsubscribe := entry.Session.OnChange(func(change core.Change) {
		select {
		case send <- change:
		default:
			log.Printf("Warning: dropping change %d for slow websocket client on session %s", change.Version, entry.ID)
		}
	})
	defer unsubscribe()

	view := viewOf(entry)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(Event{Type: "snapshot", Snapshot: &view}); err != nil {
		log.Printf("Warning: websocket write failed: %v", err)
		return
	}

	readDone := make(chan struct{})
	go readLoop(conn, readDone)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case change := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(Event{Type: "change", Change: &change}); err != nil {
				log.Printf("Warning: websocket write failed: %v", err)
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-entry.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteJSON(Event{Type: "closed"})
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
			return

		case <-readDone:
			return
		}
	}
}

// readLoop discards client messages and keeps the read deadline fresh with pongs.
// It closes done when the client goes away.
func readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Warning: websocket read error: %v", err)
			}
			return
		}
	}
}
