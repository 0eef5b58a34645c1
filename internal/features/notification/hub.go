package notification

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// PushConn is the write surface of *websocket.Conn. The library allows only
// one concurrent writer per connection, so the hub never hands a connection
// out and instead funnels every push through its session mutex.
type PushConn interface {
	WriteMessage(messageType int, data []byte) error
}

type session struct {
	mu   sync.Mutex
	conn PushConn
}

func (s *session) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks live websocket connections per user and pushes notifications
// to them as they are created.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uint][]*session
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[uint][]*session)}
}

func (h *Hub) Register(userID uint, conn PushConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[userID] = append(h.sessions[userID], &session{conn: conn})
}

func (h *Hub) Unregister(userID uint, conn PushConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sessions := h.sessions[userID]
	for i, s := range sessions {
		if s.conn == conn {
			h.sessions[userID] = append(sessions[:i], sessions[i+1:]...)
			break
		}
	}
	if len(h.sessions[userID]) == 0 {
		delete(h.sessions, userID)
	}
}

// Push sends the payload to every live connection of the user. Dead
// connections are dropped silently; delivery here is best effort on top of
// the persisted notification.
func (h *Hub) Push(userID uint, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	sessions := append([]*session(nil), h.sessions[userID]...)
	h.mu.RUnlock()

	for _, s := range sessions {
		if err := s.write(data); err != nil {
			h.Unregister(userID, s.conn)
		}
	}
}
