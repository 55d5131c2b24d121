package sse

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Event is one server-sent message for a user's open streams
type Event struct {
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

type client struct {
	userID string
	send   chan Event
}

// Manager fans events out to every open stream of a user. A user can have
// several tabs connected at once.
type Manager struct {
	mu         sync.RWMutex
	clients    map[string]map[*client]bool
	register   chan *client
	unregister chan *client
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run processes connect/disconnect events, meant to be started once as a
// goroutine
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.mu.Lock()
			if m.clients[c.userID] == nil {
				m.clients[c.userID] = make(map[*client]bool)
			}
			m.clients[c.userID][c] = true
			m.mu.Unlock()
			log.Printf("[SSE] Client connected for user %s", c.userID)

		case c := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[c.userID]; ok {
				if conns[c] {
					delete(conns, c)
					close(c.send)
					if len(conns) == 0 {
						delete(m.clients, c.userID)
					}
				}
			}
			m.mu.Unlock()
			log.Printf("[SSE] Client disconnected for user %s", c.userID)
		}
	}
}

// SendToUser pushes one event to all of a user's open streams. Slow clients
// are skipped rather than blocking the sender.
func (m *Manager) SendToUser(userID, event string, data interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for c := range m.clients[userID] {
		select {
		case c.send <- Event{Name: event, Data: data}:
		default:
		}
	}
}

// ServeHTTP holds the connection open and streams events until the client
// goes away
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	conn := &client{
		userID: userID,
		send:   make(chan Event, 16),
	}
	m.register <- conn
	defer func() {
		m.unregister <- conn
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Heartbeat keeps proxies from closing idle streams
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-conn.send:
			if !ok {
				return false
			}
			c.SSEvent(event.Name, event.Data)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
