package ws

import (
	"sync"

	"suvix_backend/internal/logger"
)

// Manager tracks one live connection per user and pushes server events
// to them. It implements the services.Pusher contract.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations until the process exits. Start it once in
// a goroutine.
func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			// A reconnect replaces the previous connection; the old
			// pump drains and exits when its channel closes.
			if old, ok := m.clients[client.UserID]; ok {
				close(old.Send)
			}
			m.clients[client.UserID] = client
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID, "total", total)

		case client := <-m.unregister:
			m.mu.Lock()
			if current, ok := m.clients[client.UserID]; ok && current == client {
				close(client.Send)
				delete(m.clients, client.UserID)
			}
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("ws client unregistered", "user_id", client.UserID, "total", total)
		}
	}
}

// SendToUser queues a payload for the user's connection. It reports
// whether the payload was handed to a live connection; a slow client is
// evicted rather than allowed to block the caller.
func (m *Manager) SendToUser(userID string, payload interface{}) bool {
	// Run closes Send channels only under the write lock, so holding the
	// read lock across the send keeps the channel open for its duration.
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[userID]
	if !ok {
		return false
	}

	select {
	case client.Send <- payload:
		return true
	default:
		if client.evicting.CompareAndSwap(false, true) {
			logger.Warn("ws client send buffer full, evicting", "user_id", userID)
			go func() { m.unregister <- client }()
		}
		return false
	}
}

func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
