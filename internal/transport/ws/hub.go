package ws

import (
	"campussafety/internal/log"
	"encoding/json"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// MsgConnected is the first frame of every connection. Session events use
// the service event names.
const MsgConnected MessageType = "connected"

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for form sessions. One session may
// have several connections (tabs, devices).
type Hub struct {
	sessions map[string]map[*Connection]bool

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	AssignmentID string
	Account      string
	Send         chan []byte
	Hub          *Hub
}

func (c *Connection) session() string {
	return sessionID(c.AssignmentID, c.Account)
}

// BroadcastMessage is a message for every connection of one session.
// Close disconnects the session after earlier messages were queued.
type BroadcastMessage struct {
	Session string
	Message *Message
	Close   bool
}

func sessionID(assignmentID, account string) string {
	return assignmentID + ":" + account
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		sessions:   make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			key := conn.session()
			if h.sessions[key] == nil {
				h.sessions[key] = make(map[*Connection]bool)
			}
			h.sessions[key][conn] = true
			h.mu.Unlock()
			log.WithFields(log.Fields{"assignment": conn.AssignmentID, "account": conn.Account}).Debug("session socket connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			h.remove(conn)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			if msg.Close {
				h.mu.Lock()
				for conn := range h.sessions[msg.Session] {
					h.remove(conn)
				}
				h.mu.Unlock()
				continue
			}

			h.mu.RLock()
			data, err := json.Marshal(msg.Message)
			if err != nil {
				log.WithError(err).Error("failed to encode socket message")
				h.mu.RUnlock()
				continue
			}
			for conn := range h.sessions[msg.Session] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// remove must be called with mu held
func (h *Hub) remove(conn *Connection) {
	key := conn.session()
	conns, ok := h.sessions[key]
	if !ok || !conns[conn] {
		return
	}
	delete(conns, conn)
	close(conn.Send)
	if len(conns) == 0 {
		delete(h.sessions, key)
	}
	log.WithFields(log.Fields{"assignment": conn.AssignmentID, "account": conn.Account}).Debug("session socket disconnected")
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Connections returns the number of open connections of a session
func (h *Hub) Connections(assignmentID, account string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID(assignmentID, account)])
}

// BroadcastToSession sends a message to every connection of a session
// (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(assignmentID, account string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Errorf("failed to encode %s payload", msgType)
		return
	}
	h.broadcast <- &BroadcastMessage{
		Session: sessionID(assignmentID, account),
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSession closes every connection of a session after messages
// already broadcast to it (implements service.Broadcaster)
func (h *Hub) DisconnectSession(assignmentID, account string) {
	h.broadcast <- &BroadcastMessage{
		Session: sessionID(assignmentID, account),
		Close:   true,
	}
}
